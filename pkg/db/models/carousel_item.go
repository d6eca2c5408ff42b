package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CarouselItem represents one promotional slide.
type CarouselItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description *string   `gorm:"column:description"`
	Position    int       `gorm:"column:position;not null;default:0"`
	Active      bool      `gorm:"column:active;not null;default:true"`
	ImageURL    string    `gorm:"column:image_url;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CarouselItem) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
