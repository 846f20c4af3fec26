package domain

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:140;not null"`
	Email     string    `gorm:"size:140;index"`
	Phone     string    `gorm:"size:60"`
	Address   string    `gorm:"size:255"`
	City      string    `gorm:"size:80"`
	State     string    `gorm:"size:40"`
	ZipCode   string    `gorm:"size:20"`
	Notes     string    `gorm:"type:text"`
	CreatedAt time.Time
}
