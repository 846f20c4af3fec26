package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/gatequote/internal/domain"
)

type MaterialUC struct {
	Materials domain.MaterialRepo
}

func (uc *MaterialUC) List(ctx context.Context, category, query string) ([]domain.Material, error) {
	if q := strings.TrimSpace(query); q != "" {
		return uc.Materials.Search(ctx, q)
	}
	if c := strings.TrimSpace(category); c != "" {
		return uc.Materials.ListByCategory(ctx, c)
	}
	return uc.Materials.ListAll(ctx)
}

func (uc *MaterialUC) Get(ctx context.Context, id uuid.UUID) (*domain.Material, error) {
	if id == uuid.Nil {
		return nil, errors.New("material id")
	}
	return uc.Materials.FindByID(ctx, id)
}

func (uc *MaterialUC) Save(ctx context.Context, m *domain.Material) error {
	if m == nil {
		return errors.New("material nil")
	}
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("material name required")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Unit == "" {
		m.Unit = "each"
	}
	if m.Markup == 0 {
		m.Markup = 1.3
	}
	return uc.Materials.Save(ctx, m)
}

func (uc *MaterialUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("material id")
	}
	return uc.Materials.Delete(ctx, id)
}

func (uc *MaterialUC) Categories(ctx context.Context) ([]string, error) {
	return uc.Materials.Categories(ctx)
}

// AdoptPriceQuote turns a supplier price check into a catalog candidate. The
// scraped price becomes the cost; the markup column stays at its default.
func (uc *MaterialUC) AdoptPriceQuote(ctx context.Context, pq domain.PriceQuote, category string) (*domain.Material, error) {
	if pq.Price <= 0 || strings.TrimSpace(pq.ProductName) == "" {
		return nil, errors.New("price quote incomplete")
	}
	if category == "" {
		category = "misc"
	}
	m := &domain.Material{
		ID:          uuid.New(),
		Category:    category,
		Name:        pq.ProductName,
		Unit:        "each",
		Cost:        pq.Price,
		Markup:      1.3,
		Supplier:    pq.Supplier,
		SupplierURL: pq.SourceURL,
	}
	if err := uc.Materials.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
