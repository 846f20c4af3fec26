package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/gatequote/internal/domain"
)

type CustomerUC struct {
	Customers domain.CustomerRepo
	Quotes    domain.QuoteRepo
}

func (uc *CustomerUC) List(ctx context.Context, query string) ([]domain.Customer, error) {
	if q := strings.TrimSpace(query); q != "" {
		return uc.Customers.Search(ctx, q)
	}
	return uc.Customers.List(ctx)
}

func (uc *CustomerUC) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	if id == uuid.Nil {
		return nil, errors.New("customer id")
	}
	return uc.Customers.FindByID(ctx, id)
}

func (uc *CustomerUC) Save(ctx context.Context, c *domain.Customer) error {
	if c == nil {
		return errors.New("customer nil")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("customer name required")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return uc.Customers.Save(ctx, c)
}

func (uc *CustomerUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("customer id")
	}
	return uc.Customers.Delete(ctx, id)
}

// QuotesFor lists the quote history of one customer, newest first.
func (uc *CustomerUC) QuotesFor(ctx context.Context, customerID uuid.UUID) ([]domain.Quote, error) {
	if customerID == uuid.Nil {
		return nil, errors.New("customer id")
	}
	return uc.Quotes.List(ctx, domain.QuoteFilter{CustomerID: &customerID})
}
