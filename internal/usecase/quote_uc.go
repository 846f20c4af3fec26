package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/phenrril/gatequote/internal/domain"
	"github.com/phenrril/gatequote/internal/engine"
)

type QuoteUC struct {
	Quotes    domain.QuoteRepo
	Materials domain.MaterialRepo
	Settings  domain.SettingsRepo
	Suggester *engine.Suggester
}

// Calculate runs the full estimation pass over a quote: rates from settings,
// labor hours from the spec, suggested materials when the item list is empty,
// and a fresh totals snapshot. The quote is not persisted here.
func (uc *QuoteUC) Calculate(ctx context.Context, q *domain.Quote) error {
	if q == nil {
		return errors.New("quote nil")
	}

	defaults := domain.DefaultQuoteSettings()
	if uc.Settings != nil {
		if d, err := uc.Settings.QuoteDefaults(ctx); err == nil {
			defaults = d
		}
	}
	q.LaborRate = defaults.LaborRate
	q.MarkupPercent = defaults.MarkupPercent
	q.TaxRate = defaults.TaxRate

	q.LaborHours = engine.EstimateHours(q.Spec)

	if len(q.Items) == 0 {
		catalog, err := uc.Materials.ListAll(ctx)
		if err != nil {
			return err
		}
		q.Items = uc.Suggester.Suggest(q.Spec, catalog)
	}

	uc.Recompose(q)
	return nil
}

// Recompose refreshes line totals and the totals snapshot from the quote's
// current items and rates. Every path that displays or persists a quote goes
// through here; totals are never trusted as stored state.
func (uc *QuoteUC) Recompose(q *domain.Quote) {
	for i := range q.Items {
		q.Items[i].RecalcTotal()
	}
	t := engine.ComposeTotals(q.Items, q.LaborHours, q.LaborRate, q.MarkupPercent, q.TaxRate)
	engine.ApplyTotals(q, t)
}

func (uc *QuoteUC) Save(ctx context.Context, q *domain.Quote) error {
	if q == nil {
		return errors.New("quote nil")
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Status == "" {
		q.Status = domain.QuoteStatusDraft
	}
	uc.Recompose(q)
	return uc.Quotes.Save(ctx, q)
}

func (uc *QuoteUC) Get(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	if id == uuid.Nil {
		return nil, errors.New("quote id")
	}
	return uc.Quotes.FindByID(ctx, id)
}

func (uc *QuoteUC) List(ctx context.Context, f domain.QuoteFilter) ([]domain.Quote, error) {
	return uc.Quotes.List(ctx, f)
}

func (uc *QuoteUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("quote id")
	}
	return uc.Quotes.Delete(ctx, id)
}

// UpdateStatus sets the status field as-is. The workflow deliberately has no
// transition rules; any caller may move a quote to any status.
func (uc *QuoteUC) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) (*domain.Quote, error) {
	q, err := uc.Quotes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Status = status
	if err := uc.Quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}
