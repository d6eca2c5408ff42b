package carousel

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/imaging"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

// objectStorage is the slice of the storage client the carousel needs.
type objectStorage interface {
	ObjectName(parts ...string) string
	PublicURL(objectName string) string
	ObjectNameFromURL(publicURL string) (string, bool)
	UploadObject(ctx context.Context, objectName, contentType string, data []byte) error
	DeleteObject(ctx context.Context, objectName string) error
}

// Service implements the promotional carousel operations.
type Service struct {
	db      *db.Client
	storage objectStorage
	logg    *logger.Logger
	media   config.MediaConfig
}

// ServiceParams bundles the dependencies required to build the carousel service.
type ServiceParams struct {
	DB      *db.Client
	Storage objectStorage
	Logger  *logger.Logger
	Media   config.MediaConfig
}

// NewService constructs the carousel service.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		db:      params.DB,
		storage: params.Storage,
		logg:    params.Logger,
		media:   params.Media,
	}, nil
}

func (s *Service) repo() *Repository {
	return NewRepository(s.db.DB())
}

// List returns carousel slides ordered by position. Pass a non-nil active
// filter to restrict to visible or hidden slides.
func (s *Service) List(ctx context.Context, active *bool) ([]ItemDTO, error) {
	list, err := s.repo().List(ctx, active)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list carousel items")
	}
	return FromModels(list), nil
}

// Get loads a single slide by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

// Create stores a new slide. The image upload is mandatory and fatal.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	if req.Image == nil || len(req.Image.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "carousel image is required")
	}

	imageURL, objectName, err := s.uploadImage(ctx, *req.Image)
	if err != nil {
		return nil, err
	}

	item := &models.CarouselItem{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
		Position:    req.Position,
		Active:      req.Active,
	}
	created, err := s.repo().Create(ctx, item)
	if err != nil {
		s.deleteObject(ctx, objectName)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create carousel item")
	}
	return FromModel(created), nil
}

// Update patches a slide. A new image replaces the stored one; the old
// object is deleted only after the row update succeeds.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Position != nil {
		patch["position"] = *req.Position
	}
	if req.Active != nil {
		patch["active"] = *req.Active
	}

	var replaced string
	if req.Image != nil {
		imageURL, _, err := s.uploadImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		patch["image_url"] = imageURL
		replaced = existing.ImageURL
	}

	updated, err := s.repo().Update(ctx, id, patch)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "carousel item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update carousel item")
	}

	if replaced != "" {
		s.deleteImageByURL(ctx, replaced)
	}
	return FromModel(updated), nil
}

// Delete removes the slide and then its stored image, best effort.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo().Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "carousel item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete carousel item")
	}

	s.deleteImageByURL(ctx, existing.ImageURL)
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*models.CarouselItem, error) {
	item, err := s.repo().FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "carousel item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load carousel item")
	}
	return item, nil
}

func (s *Service) uploadImage(ctx context.Context, img ImageUpload) (string, string, error) {
	if s.storage == nil {
		return "", "", pkgerrors.New(pkgerrors.CodeDependency, "image storage is not configured")
	}

	optimized, err := imaging.Optimize(img.Data, imaging.Options{
		MaxDimensionPx: s.media.MaxDimensionPx,
		JPEGQuality:    s.media.JPEGQuality,
	})
	if err != nil {
		return "", "", err
	}

	objectName := s.storage.ObjectName("carousel", uuid.NewString()+".jpg")
	if err := s.storage.UploadObject(ctx, objectName, imaging.ContentTypeJPEG, optimized); err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}
	return s.storage.PublicURL(objectName), objectName, nil
}

func (s *Service) deleteImageByURL(ctx context.Context, publicURL string) {
	if s.storage == nil {
		return
	}
	if name, ok := s.storage.ObjectNameFromURL(publicURL); ok {
		s.deleteObject(ctx, name)
	}
}

func (s *Service) deleteObject(ctx context.Context, name string) {
	if s.storage == nil || name == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, name); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "object", name), "image cleanup failed")
	}
}
