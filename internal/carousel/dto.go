package carousel

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
)

// ItemDTO is the carousel slide shape returned by the API.
type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ImageURL    string    `json:"image_url"`
	Position    int       `json:"position"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ImageUpload carries the raw bytes of one uploaded image.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CreateItemRequest is the decoded multipart payload for a new slide. The
// image is mandatory; a slide without artwork has nothing to show.
type CreateItemRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description *string      `json:"description"`
	Position    int          `json:"position"`
	Active      bool         `json:"active"`
	Image       *ImageUpload `json:"-"`
}

// UpdateItemRequest patches a slide. Nil fields are left untouched.
type UpdateItemRequest struct {
	Title       *string      `json:"title" validate:"omitempty,max=200"`
	Description *string      `json:"description"`
	Position    *int         `json:"position"`
	Active      *bool        `json:"active"`
	Image       *ImageUpload `json:"-"`
}

// FromModel converts a persistence row into its API shape.
func FromModel(item *models.CarouselItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		ImageURL:    item.ImageURL,
		Position:    item.Position,
		Active:      item.Active,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// FromModels maps a result set into DTOs, never returning nil.
func FromModels(list []models.CarouselItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
