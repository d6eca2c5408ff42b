package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/imaging"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
	"github.com/aurumjoyeria/aurum-backend/pkg/pagination"
)

// objectStorage is the slice of the storage client the catalog needs.
type objectStorage interface {
	ObjectName(parts ...string) string
	PublicURL(objectName string) string
	ObjectNameFromURL(publicURL string) (string, bool)
	UploadObject(ctx context.Context, objectName, contentType string, data []byte) error
	DeleteObject(ctx context.Context, objectName string) error
}

// Service implements the catalog operations.
type Service struct {
	db      *db.Client
	storage objectStorage
	logg    *logger.Logger
	media   config.MediaConfig
}

// ServiceParams bundles the dependencies required to build the catalog service.
type ServiceParams struct {
	DB      *db.Client
	Storage objectStorage
	Logger  *logger.Logger
	Media   config.MediaConfig
}

// NewService constructs the catalog service. Storage may be nil; image
// uploads then fail with a dependency error while the rest keeps working.
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

// List returns one catalog page plus the unpaged total for the same filter.
func (s *Service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*ProductListResponse, error) {
	page = page.Normalize()

	list, err := s.repo().List(ctx, filter, page.Offset, page.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	total, err := s.repo().Count(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}

	return &ProductListResponse{
		Products: FromModels(list),
		Total:    total,
		Offset:   page.Offset,
		Limit:    page.Limit,
	}, nil
}

// Get loads a single product by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// Categories lists the distinct categories present in the catalog.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo().Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}

// Create stores a new product. Image uploads happen before the insert and
// any upload failure aborts the whole operation.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	urls, err := s.uploadImages(ctx, req.Images)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURLs:   pq.StringArray(urls),
		Featured:    req.Featured,
		Active:      req.Active,
	}
	if len(urls) > 0 {
		product.ImageURL = &urls[0]
	}

	created, err := s.repo().Create(ctx, product)
	if err != nil {
		s.deleteImagesByURL(ctx, urls)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(created), nil
}

// Update patches a product. A non-nil Images slice replaces the gallery;
// the old objects are deleted only after the row update succeeds.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	if req.Price != nil {
		if err := validatePrice(req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Price != nil {
		patch["price"] = *req.Price
	}
	if req.Category != nil {
		patch["category"] = *req.Category
	}
	if req.Stock != nil {
		patch["stock"] = *req.Stock
	}
	if req.Featured != nil {
		patch["featured"] = *req.Featured
	}
	if req.Active != nil {
		patch["active"] = *req.Active
	}

	var replaced []string
	if req.Images != nil {
		urls, err := s.uploadImages(ctx, req.Images)
		if err != nil {
			return nil, err
		}
		patch["image_urls"] = pq.StringArray(urls)
		if len(urls) > 0 {
			patch["image_url"] = urls[0]
		} else {
			patch["image_url"] = nil
		}
		replaced = append([]string(nil), existing.ImageURLs...)
	}

	updated, err := s.repo().Update(ctx, id, patch)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	s.deleteImagesByURL(ctx, replaced)
	return FromModel(updated), nil
}

// Delete removes the product and then its stored images. Storage cleanup is
// best effort; a stranded object never resurrects a deleted product.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo().Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}

	s.deleteImagesByURL(ctx, existing.ImageURLs)
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo().FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

// uploadImages optimizes and stores every upload, returning public URLs in
// input order. Already-stored objects are rolled back when a later one fails.
func (s *Service) uploadImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if s.storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image storage is not configured")
	}

	urls := make([]string, 0, len(images))
	stored := make([]string, 0, len(images))
	for _, img := range images {
		optimized, err := imaging.Optimize(img.Data, imaging.Options{
			MaxDimensionPx: s.media.MaxDimensionPx,
			JPEGQuality:    s.media.JPEGQuality,
		})
		if err != nil {
			s.deleteObjects(ctx, stored)
			return nil, err
		}

		objectName := s.storage.ObjectName("products", uuid.NewString()+".jpg")
		if err := s.storage.UploadObject(ctx, objectName, imaging.ContentTypeJPEG, optimized); err != nil {
			s.deleteObjects(ctx, stored)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
		}
		stored = append(stored, objectName)
		urls = append(urls, s.storage.PublicURL(objectName))
	}
	return urls, nil
}

func (s *Service) deleteImagesByURL(ctx context.Context, urls []string) {
	if s.storage == nil {
		return
	}
	names := make([]string, 0, len(urls))
	for _, u := range urls {
		if name, ok := s.storage.ObjectNameFromURL(u); ok {
			names = append(names, name)
		}
	}
	s.deleteObjects(ctx, names)
}

func (s *Service) deleteObjects(ctx context.Context, names []string) {
	if s.storage == nil {
		return
	}
	for _, name := range names {
		if err := s.storage.DeleteObject(ctx, name); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "object", name), "image cleanup failed")
		}
	}
}

func validatePrice(price *decimal.Decimal) error {
	if price == nil {
		return nil
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}
