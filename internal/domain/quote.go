package domain

import (
	"time"

	"github.com/google/uuid"
)

type QuoteStatus string

// Status is a free-form field: the original workflow lets any caller move a
// quote between states in any order, so no transition rules are enforced here.
const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusDeclined QuoteStatus = "declined"
)

type Quote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number     string    `gorm:"size:40;uniqueIndex"`
	Seq        int64     `gorm:"index;default:0"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`

	Spec GateSpec `gorm:"embedded"`

	Items []QuoteItem

	LaborHours    float64 `gorm:"type:decimal(8,2);default:0"`
	LaborRate     float64 `gorm:"type:decimal(8,2);default:0"`
	MarkupPercent float64 `gorm:"type:decimal(6,2);default:0"`
	TaxRate       float64 `gorm:"type:decimal(6,2);default:0"`

	// Snapshot of the last composed totals. Derived data: callers go through
	// engine.ComposeTotals and ApplyTotals, never set these directly.
	MaterialsCost float64 `gorm:"type:decimal(12,2);default:0"`
	Subtotal      float64 `gorm:"type:decimal(12,2);default:0"`
	TaxAmount     float64 `gorm:"type:decimal(12,2);default:0"`
	Total         float64 `gorm:"type:decimal(12,2);default:0"`

	Status QuoteStatus `gorm:"type:varchar(20);index;default:draft"`
	Notes  string      `gorm:"type:text"`

	Customer *Customer

	CreatedAt time.Time
	UpdatedAt time.Time
}

type QuoteItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	QuoteID     uuid.UUID `gorm:"type:uuid;index"`
	Category    string    `gorm:"size:60"`
	Description string    `gorm:"size:180"`
	Quantity    float64   `gorm:"type:decimal(10,2)"`
	Unit        string    `gorm:"size:30"`
	UnitCost    float64   `gorm:"type:decimal(12,2)"`
	TotalCost   float64   `gorm:"type:decimal(12,2)"`
	Position    int       `gorm:"default:0"`
}

// RecalcTotal keeps the line total derived from quantity and unit cost.
func (i *QuoteItem) RecalcTotal() {
	i.TotalCost = i.Quantity * i.UnitCost
}
