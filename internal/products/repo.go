package products

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	Category *string
	Featured *bool
	Active   *bool
}

func (f ListFilter) apply(query *gorm.DB) *gorm.DB {
	if f.Category != nil {
		query = query.Where("category = ?", *f.Category)
	}
	if f.Featured != nil {
		query = query.Where("featured = ?", *f.Featured)
	}
	if f.Active != nil {
		query = query.Where("active = ?", *f.Active)
	}
	return query
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies a partial column patch and returns the post-update row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch map[string]any) (*models.Product, error) {
	if len(patch) == 0 {
		return r.FindByID(ctx, id)
	}
	patch["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
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

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a filtered page ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]models.Product, error) {
	var list []models.Product
	query := filter.apply(r.db.WithContext(ctx).Model(&models.Product{}))
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Count returns how many products match the filter.
func (r *Repository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var count int64
	query := filter.apply(r.db.WithContext(ctx).Model(&models.Product{}))
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Categories lists the distinct non-empty categories in use.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
