package carousel

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
)

// Repository exposes carousel persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a carousel repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Create inserts a new carousel item.
func (r *Repository) Create(ctx context.Context, item *models.CarouselItem) (*models.CarouselItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a carousel item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CarouselItem, error) {
	var item models.CarouselItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies a partial column patch and returns the post-update row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch map[string]any) (*models.CarouselItem, error) {
	if len(patch) == 0 {
		return r.FindByID(ctx, id)
	}
	patch["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.CarouselItem{}).
		Where("id = ?", id).
		Updates(patch)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the carousel item row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CarouselItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns carousel items ordered by position. A nil active filter
// returns everything.
func (r *Repository) List(ctx context.Context, active *bool) ([]models.CarouselItem, error) {
	query := r.db.WithContext(ctx).Model(&models.CarouselItem{})
	if active != nil {
		query = query.Where("active = ?", *active)
	}

	var list []models.CarouselItem
	err := query.
		Order("position ASC").
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
