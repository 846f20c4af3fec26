package postgres

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/gatequote/internal/domain"
)

type SettingsRepo struct{ db *gorm.DB }

func NewSettingsRepo(db *gorm.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get(ctx context.Context, key, fallback string) (string, error) {
	var s domain.Setting
	if err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fallback, nil
		}
		return fallback, err
	}
	return s.Value, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	s := domain.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&s).Error
}

func (r *SettingsRepo) All(ctx context.Context) (map[string]string, error) {
	var list []domain.Setting
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, s := range list {
		out[s.Key] = s.Value
	}
	return out, nil
}

// QuoteDefaults reads the pricing settings, falling back field by field to
// the documented defaults when a key is missing or malformed.
func (r *SettingsRepo) QuoteDefaults(ctx context.Context) (domain.QuoteDefaults, error) {
	d := domain.DefaultQuoteSettings()

	all, err := r.All(ctx)
	if err != nil {
		return d, err
	}
	if v, ok := parseFloat(all["labor_rate"]); ok {
		d.LaborRate = v
	}
	if v, ok := parseFloat(all["markup_percent"]); ok {
		d.MarkupPercent = v
	}
	if v, ok := parseFloat(all["tax_rate"]); ok {
		d.TaxRate = v
	}
	if p := all["quote_prefix"]; p != "" {
		d.QuotePrefix = p
	}
	return d, nil
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
