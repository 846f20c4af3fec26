package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/phenrril/gatequote/internal/domain"
	"github.com/phenrril/gatequote/internal/engine"
)

type fakeQuoteRepo struct {
	saved   map[uuid.UUID]*domain.Quote
	saveErr error
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{saved: map[uuid.UUID]*domain.Quote{}}
}

func (f *fakeQuoteRepo) Save(_ context.Context, q *domain.Quote) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *q
	f.saved[q.ID] = &cp
	return nil
}

func (f *fakeQuoteRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Quote, error) {
	q, ok := f.saved[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuoteRepo) List(_ context.Context, fl domain.QuoteFilter) ([]domain.Quote, error) {
	var out []domain.Quote
	for _, q := range f.saved {
		if fl.Status != "" && q.Status != fl.Status {
			continue
		}
		if fl.CustomerID != nil && (q.CustomerID == nil || *q.CustomerID != *fl.CustomerID) {
			continue
		}
		out = append(out, *q)
	}
	return out, nil
}

func (f *fakeQuoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.saved, id)
	return nil
}

type fakeMaterialRepo struct {
	materials []domain.Material
	listErr   error
}

func (f *fakeMaterialRepo) Save(_ context.Context, m *domain.Material) error {
	f.materials = append(f.materials, *m)
	return nil
}
func (f *fakeMaterialRepo) FindByID(context.Context, uuid.UUID) (*domain.Material, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeMaterialRepo) ListAll(context.Context) ([]domain.Material, error) {
	return f.materials, f.listErr
}
func (f *fakeMaterialRepo) ListByCategory(context.Context, string) ([]domain.Material, error) {
	return f.materials, nil
}
func (f *fakeMaterialRepo) Categories(context.Context) ([]string, error) { return nil, nil }
func (f *fakeMaterialRepo) Search(context.Context, string) ([]domain.Material, error) {
	return nil, nil
}
func (f *fakeMaterialRepo) Delete(context.Context, uuid.UUID) error { return nil }
func (f *fakeMaterialRepo) Count(context.Context) (int64, error) {
	return int64(len(f.materials)), nil
}

type fakeSettings struct {
	defaults domain.QuoteDefaults
	err      error
}

func (f *fakeSettings) Get(_ context.Context, _, fallback string) (string, error) {
	return fallback, f.err
}
func (f *fakeSettings) Set(context.Context, string, string) error   { return f.err }
func (f *fakeSettings) All(context.Context) (map[string]string, error) { return nil, f.err }
func (f *fakeSettings) QuoteDefaults(context.Context) (domain.QuoteDefaults, error) {
	return f.defaults, f.err
}

func testUC(materials []domain.Material) (*QuoteUC, *fakeQuoteRepo) {
	repo := newFakeQuoteRepo()
	uc := &QuoteUC{
		Quotes:    repo,
		Materials: &fakeMaterialRepo{materials: materials},
		Settings:  &fakeSettings{defaults: domain.QuoteDefaults{LaborRate: 125, MarkupPercent: 30, TaxRate: 0, QuotePrefix: "GQ"}},
		Suggester: engine.NewSuggester(),
	}
	return uc, repo
}

func specFixture() domain.GateSpec {
	return domain.GateSpec{
		GateType:      domain.GateTypeSwing,
		GateStyle:     domain.StyleStandard,
		Width:         10,
		Height:        6,
		Material:      domain.MaterialSteel,
		Automation:    domain.AutomationNone,
		AccessControl: domain.AccessNone,
		GroundType:    domain.GroundConcrete,
		Slope:         domain.SlopeFlat,
	}
}

func TestQuoteUC_Calculate(t *testing.T) {
	t.Run("fills rates, labor and suggestions", func(t *testing.T) {
		catalog := []domain.Material{
			{Name: "Steel Swing Gate Panel", Unit: "ft", Cost: 85},
			{Name: "Gate Latch - Heavy Duty", Unit: "each", Cost: 35},
		}
		uc, _ := testUC(catalog)
		q := &domain.Quote{Spec: specFixture()}

		if err := uc.Calculate(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.LaborRate != 125 || q.MarkupPercent != 30 || q.TaxRate != 0 {
			t.Fatalf("rates not applied: %+v", q)
		}
		if q.LaborHours != 4.0 {
			t.Fatalf("expected 4.0 labor hours, got %v", q.LaborHours)
		}
		if len(q.Items) != 2 {
			t.Fatalf("expected 2 suggested items, got %+v", q.Items)
		}
		// materials (10*85 + 35) = 885, markup 30% = 1150.5, labor 500
		if q.Subtotal != 1650.5 || q.Total != 1650.5 {
			t.Fatalf("unexpected totals: subtotal=%v total=%v", q.Subtotal, q.Total)
		}
	})

	t.Run("keeps caller items", func(t *testing.T) {
		uc, _ := testUC([]domain.Material{{Name: "Gate Latch - Heavy Duty", Cost: 35}})
		q := &domain.Quote{Spec: specFixture()}
		q.Items = []domain.QuoteItem{{Description: "Custom panel", Quantity: 3, UnitCost: 200}}

		if err := uc.Calculate(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.Items) != 1 || q.Items[0].Description != "Custom panel" {
			t.Fatalf("caller items replaced: %+v", q.Items)
		}
		if q.Items[0].TotalCost != 600 {
			t.Fatalf("line total not recomputed: %+v", q.Items[0])
		}
	})

	t.Run("empty catalog yields empty suggestions", func(t *testing.T) {
		uc, _ := testUC(nil)
		q := &domain.Quote{Spec: specFixture()}
		if err := uc.Calculate(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.Items) != 0 {
			t.Fatalf("expected no items, got %+v", q.Items)
		}
		if q.MaterialsCost != 0 || q.Total != 500 {
			t.Fatalf("expected labor-only totals, got %+v", q)
		}
	})

	t.Run("settings failure falls back to defaults", func(t *testing.T) {
		uc, _ := testUC(nil)
		uc.Settings = &fakeSettings{err: errors.New("settings store down")}
		q := &domain.Quote{Spec: specFixture()}
		if err := uc.Calculate(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.LaborRate != 125 || q.MarkupPercent != 30 || q.TaxRate != 0 {
			t.Fatalf("defaults not applied: %+v", q)
		}
	})

	t.Run("catalog error surfaces", func(t *testing.T) {
		uc, _ := testUC(nil)
		uc.Materials = &fakeMaterialRepo{listErr: errors.New("db")}
		q := &domain.Quote{Spec: specFixture()}
		if err := uc.Calculate(context.Background(), q); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestQuoteUC_Save(t *testing.T) {
	uc, repo := testUC(nil)
	q := &domain.Quote{Spec: specFixture()}
	q.Items = []domain.QuoteItem{{Description: "Panel", Quantity: 2, UnitCost: 100, TotalCost: 999}}
	q.LaborHours = 4
	q.LaborRate = 125

	if err := uc.Save(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if q.Status != domain.QuoteStatusDraft {
		t.Fatalf("expected draft status, got %q", q.Status)
	}

	saved := repo.saved[q.ID]
	if saved == nil {
		t.Fatal("quote not saved")
	}
	// The stale 999 line total must have been recomposed before persisting.
	if saved.Items[0].TotalCost != 200 || saved.MaterialsCost != 200 {
		t.Fatalf("totals not recomposed on save: %+v", saved)
	}
}

func TestQuoteUC_UpdateStatus(t *testing.T) {
	uc, repo := testUC(nil)
	q := &domain.Quote{Spec: specFixture()}
	if err := uc.Save(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := uc.UpdateStatus(context.Background(), q.ID, domain.QuoteStatusSent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.QuoteStatusSent || repo.saved[q.ID].Status != domain.QuoteStatusSent {
		t.Fatalf("status not updated: %+v", got)
	}

	// Any jump is allowed, including backwards.
	if _, err := uc.UpdateStatus(context.Background(), q.ID, domain.QuoteStatusDraft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.UpdateStatus(context.Background(), uuid.New(), domain.QuoteStatusSent); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
