package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
)

// ProductDTO is the catalog product shape returned by the API.
type ProductDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stock       int              `json:"stock"`
	ImageURL    *string          `json:"image_url"`
	ImageURLs   []string         `json:"image_urls"`
	Featured    bool             `json:"featured"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ImageUpload carries the raw bytes of one uploaded image.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CreateProductRequest is the decoded multipart payload for a new product.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stock       int              `json:"stock" validate:"gte=0"`
	Featured    bool             `json:"featured"`
	Active      bool             `json:"active"`
	Images      []ImageUpload    `json:"-"`
}

// UpdateProductRequest patches a product. Nil fields are left untouched;
// a non-nil Images slice replaces the whole gallery.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Featured    *bool            `json:"featured"`
	Active      *bool            `json:"active"`
	Images      []ImageUpload    `json:"-"`
}

// ProductListResponse is one catalog page plus the unpaged total.
type ProductListResponse struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Offset   int          `json:"offset"`
	Limit    int          `json:"limit"`
}

// FromModel converts a persistence row into its API shape.
func FromModel(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		ImageURLs:   append([]string(nil), product.ImageURLs...),
		Featured:    product.Featured,
		Active:      product.Active,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// FromModels maps a result set into DTOs, never returning nil.
func FromModels(list []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
