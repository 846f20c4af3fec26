package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/gatequote/internal/domain"
)

type QuoteRepo struct{ db *gorm.DB }

func NewQuoteRepo(db *gorm.DB) *QuoteRepo { return &QuoteRepo{db: db} }

// Save persists the quote header and replaces its whole item set in one
// transaction. Items have no stable identity across saves: the previous rows
// are deleted and the current in-memory set is inserted fresh.
//
// A quote with no number gets one here. The sequence comes from a plain
// MAX(seq) read, so two concurrent first saves can race; the unique index on
// number turns the loser into ErrConflict and the caller retries.
func (r *QuoteRepo) Save(ctx context.Context, q *domain.Quote) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if q.Number == "" {
			if err := r.assignNumber(tx, q); err != nil {
				return err
			}
		}

		if err := tx.Omit("Items", "Customer").Save(q).Error; err != nil {
			return err
		}

		if err := tx.Where("quote_id = ?", q.ID).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		for i := range q.Items {
			q.Items[i].ID = uuid.New()
			q.Items[i].QuoteID = q.ID
			q.Items[i].Position = i
		}
		if len(q.Items) > 0 {
			if err := tx.Create(&q.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateConflict(err)
}

func (r *QuoteRepo) assignNumber(tx *gorm.DB, q *domain.Quote) error {
	prefix := "GQ"
	var s domain.Setting
	if err := tx.First(&s, "key = ?", "quote_prefix").Error; err == nil && s.Value != "" {
		prefix = s.Value
	}

	var maxSeq int64
	if err := tx.Model(&domain.Quote{}).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
		return err
	}
	q.Seq = maxSeq + 1
	q.Number = fmt.Sprintf("%s-%s-%04d", prefix, time.Now().Format("200601"), q.Seq)
	return nil
}

func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
		return fmt.Errorf("quote number taken: %w", domain.ErrConflict)
	}
	return err
}

func (r *QuoteRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var q domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Customer").
		First(&q, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuoteRepo) List(ctx context.Context, f domain.QuoteFilter) ([]domain.Quote, error) {
	var list []domain.Quote
	q := r.db.WithContext(ctx).Model(&domain.Quote{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if err := q.Order("created_at desc").Preload("Customer").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *QuoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Quote{}, "id = ?", id).Error
	})
}
