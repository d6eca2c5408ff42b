package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	Price       *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Category    *string          `gorm:"column:category;index:idx_products_category"`
	Stock       int              `gorm:"column:stock;not null;default:0"`
	ImageURL    *string          `gorm:"column:image_url"`
	ImageURLs   pq.StringArray   `gorm:"column:image_urls;type:text[]"`
	Featured    bool             `gorm:"column:featured;not null;default:false;index:idx_products_featured"`
	Active      bool             `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
