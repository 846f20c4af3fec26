package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a retryable persistence conflict, e.g. two quotes
	// racing for the same number.
	ErrConflict = errors.New("conflict")
)

type QuoteFilter struct {
	Status     QuoteStatus
	CustomerID *uuid.UUID
}

type QuoteRepo interface {
	// Save persists the quote and replaces its entire item set. A quote
	// without a number gets one assigned here, exactly once.
	Save(ctx context.Context, q *Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	List(ctx context.Context, f QuoteFilter) ([]Quote, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MaterialRepo interface {
	Save(ctx context.Context, m *Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)
	ListAll(ctx context.Context) ([]Material, error)
	ListByCategory(ctx context.Context, category string) ([]Material, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query string) ([]Material, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type CustomerRepo interface {
	Save(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Search(ctx context.Context, query string) ([]Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Setting struct {
	Key   string `gorm:"primaryKey;size:60"`
	Value string `gorm:"type:text"`
}

// QuoteDefaults are the settings the pricing path needs. Missing settings
// fall back to these documented defaults rather than failing the calculation.
type QuoteDefaults struct {
	LaborRate     float64
	MarkupPercent float64
	TaxRate       float64
	QuotePrefix   string
}

// DefaultQuoteSettings backs every code path that needs rates before the
// settings store has been touched.
func DefaultQuoteSettings() QuoteDefaults {
	return QuoteDefaults{LaborRate: 125.0, MarkupPercent: 30.0, TaxRate: 0.0, QuotePrefix: "GQ"}
}

type SettingsRepo interface {
	Get(ctx context.Context, key, fallback string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
	QuoteDefaults(ctx context.Context) (QuoteDefaults, error)
}

// PriceQuote is what the supplier price-check collaborator hands back. The
// engine only consumes this value and never touches the markup it came from.
type PriceQuote struct {
	Supplier    string    `json:"supplier"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	SourceURL   string    `json:"source_url"`
	CheckedAt   time.Time `json:"checked_at"`
}

type PriceChecker interface {
	PriceFromURL(ctx context.Context, url string) (*PriceQuote, error)
	SearchURLs(productName string) map[string]string
}
