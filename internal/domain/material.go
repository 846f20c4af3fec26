package domain

import (
	"time"

	"github.com/google/uuid"
)

// Material is one priced entry in the catalog the suggester matches against.
type Material struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Category    string    `gorm:"size:60;index"`
	Name        string    `gorm:"size:180;not null"`
	Unit        string    `gorm:"size:30;default:each"`
	Cost        float64   `gorm:"type:decimal(12,2);default:0"`
	Markup      float64   `gorm:"type:decimal(6,2);default:1.3"`
	Supplier    string    `gorm:"size:120"`
	SupplierURL string    `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PriceWithMarkup is the retail price shown on the price list.
func (m Material) PriceWithMarkup() float64 {
	return m.Cost * m.Markup
}
