package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/gatequote/internal/domain"
	"github.com/phenrril/gatequote/internal/engine"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One in-memory database per test; a second pooled conn would see a
	// different empty database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Customer{}, &domain.Quote{}, &domain.QuoteItem{}, &domain.Material{}, &domain.Setting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleQuote() *domain.Quote {
	q := &domain.Quote{
		ID: uuid.New(),
		Spec: domain.GateSpec{
			GateType:      domain.GateTypeSliding,
			GateStyle:     domain.StyleOrnamental,
			Width:         14,
			Height:        6,
			Material:      domain.MaterialWroughtIron,
			Automation:    domain.AutomationSlide,
			AccessControl: domain.AccessKeypad,
			GroundType:    domain.GroundGravel,
			Slope:         domain.SlopeSlight,
			PowerDistance: 30,
			RemovalNeeded: true,
		},
		LaborHours:    12.5,
		LaborRate:     125,
		MarkupPercent: 30,
		TaxRate:       8.5,
		Status:        domain.QuoteStatusDraft,
		Notes:         "call before digging",
		Items: []domain.QuoteItem{
			{Category: "gates", Description: "Wrought Iron Gate Panel", Quantity: 14, Unit: "ft", UnitCost: 120, TotalCost: 1680},
			{Category: "hardware", Description: "Post 6x6 x 3 posts", Quantity: 24, Unit: "ft", UnitCost: 18, TotalCost: 432},
			{Category: "operators", Description: "LiftMaster RSL12U", Quantity: 1, Unit: "each", UnitCost: 2200, TotalCost: 2200},
		},
	}
	engine.ApplyTotals(q, engine.ComposeTotals(q.Items, q.LaborHours, q.LaborRate, q.MarkupPercent, q.TaxRate))
	return q
}

func TestQuoteRepo_RoundTrip(t *testing.T) {
	repo := NewQuoteRepo(testDB(t))
	ctx := context.Background()

	q := sampleQuote()
	if err := repo.Save(ctx, q); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.FindByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Spec != q.Spec {
		t.Fatalf("spec changed across save:\n  want %+v\n  got  %+v", q.Spec, got.Spec)
	}
	if got.Status != q.Status || got.Notes != q.Notes || got.Number == "" {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Items))
	}
	for i, it := range got.Items {
		if it.Description != q.Items[i].Description || it.Quantity != q.Items[i].Quantity || it.TotalCost != q.Items[i].TotalCost {
			t.Fatalf("item %d mismatch: %+v vs %+v", i, it, q.Items[i])
		}
	}

	// Recomposing from the reloaded rows must land on the persisted snapshot.
	tt := engine.ComposeTotals(got.Items, got.LaborHours, got.LaborRate, got.MarkupPercent, got.TaxRate)
	if tt.Total != got.Total || tt.Subtotal != got.Subtotal || tt.MaterialsCost != got.MaterialsCost {
		t.Fatalf("persisted totals diverge from recomposition: %+v vs %+v", tt, got)
	}
}

func TestQuoteRepo_NumberAssignedOnceAndSequential(t *testing.T) {
	repo := NewQuoteRepo(testDB(t))
	ctx := context.Background()

	q1 := sampleQuote()
	if err := repo.Save(ctx, q1); err != nil {
		t.Fatalf("save: %v", err)
	}
	want := regexp.MustCompile(`^GQ-` + time.Now().Format("200601") + `-\d{4}$`)
	if !want.MatchString(q1.Number) {
		t.Fatalf("unexpected number format %q", q1.Number)
	}
	if q1.Seq != 1 {
		t.Fatalf("expected first sequence, got %d", q1.Seq)
	}

	first := q1.Number
	q1.Notes = "edited"
	if err := repo.Save(ctx, q1); err != nil {
		t.Fatalf("resave: %v", err)
	}
	if q1.Number != first {
		t.Fatalf("number regenerated on update: %q -> %q", first, q1.Number)
	}

	q2 := sampleQuote()
	if err := repo.Save(ctx, q2); err != nil {
		t.Fatalf("save second: %v", err)
	}
	if q2.Seq != 2 {
		t.Fatalf("expected sequence 2, got %d", q2.Seq)
	}
	if fmt.Sprintf("%04d", q2.Seq) != q2.Number[len(q2.Number)-4:] {
		t.Fatalf("sequence not reflected in number %q", q2.Number)
	}
}

func TestQuoteRepo_NumberUsesPrefixSetting(t *testing.T) {
	db := testDB(t)
	repo := NewQuoteRepo(db)
	ctx := context.Background()

	if err := NewSettingsRepo(db).Set(ctx, "quote_prefix", "ACME"); err != nil {
		t.Fatalf("set prefix: %v", err)
	}
	q := sampleQuote()
	if err := repo.Save(ctx, q); err != nil {
		t.Fatalf("save: %v", err)
	}
	if q.Number[:5] != "ACME-" {
		t.Fatalf("expected ACME prefix, got %q", q.Number)
	}
}

func TestQuoteRepo_ItemReplacementIsTotal(t *testing.T) {
	db := testDB(t)
	repo := NewQuoteRepo(db)
	ctx := context.Background()

	q := sampleQuote()
	if err := repo.Save(ctx, q); err != nil {
		t.Fatalf("save: %v", err)
	}

	q.Items = []domain.QuoteItem{
		{Category: "misc", Description: "Only item left", Quantity: 1, Unit: "each", UnitCost: 50, TotalCost: 50},
	}
	if err := repo.Save(ctx, q); err != nil {
		t.Fatalf("resave: %v", err)
	}

	var count int64
	if err := db.Model(&domain.QuoteItem{}).Where("quote_id = ?", q.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected old items gone, found %d rows", count)
	}

	got, err := repo.FindByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Description != "Only item left" {
		t.Fatalf("unexpected items after replacement: %+v", got.Items)
	}
}

func TestQuoteRepo_DuplicateNumberIsConflict(t *testing.T) {
	repo := NewQuoteRepo(testDB(t))
	ctx := context.Background()

	q1 := sampleQuote()
	if err := repo.Save(ctx, q1); err != nil {
		t.Fatalf("save: %v", err)
	}

	q2 := sampleQuote()
	q2.Number = q1.Number // simulate the losing side of a numbering race
	q2.Seq = q1.Seq
	err := repo.Save(ctx, q2)
	if err == nil {
		t.Fatal("expected conflict")
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestQuoteRepo_DeleteCascadesToItems(t *testing.T) {
	db := testDB(t)
	repo := NewQuoteRepo(db)
	ctx := context.Background()

	q := sampleQuote()
	if err := repo.Save(ctx, q); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.FindByID(ctx, q.ID); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var count int64
	if err := db.Model(&domain.QuoteItem{}).Where("quote_id = ?", q.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("items survived quote delete: %d", count)
	}
}

func TestQuoteRepo_ListFilters(t *testing.T) {
	db := testDB(t)
	repo := NewQuoteRepo(db)
	ctx := context.Background()

	cust := &domain.Customer{ID: uuid.New(), Name: "Dana Field"}
	if err := NewCustomerRepo(db).Save(ctx, cust); err != nil {
		t.Fatalf("save customer: %v", err)
	}

	q1 := sampleQuote()
	q1.Status = domain.QuoteStatusSent
	q1.CustomerID = &cust.ID
	q2 := sampleQuote()
	for _, q := range []*domain.Quote{q1, q2} {
		if err := repo.Save(ctx, q); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	sent, err := repo.List(ctx, domain.QuoteFilter{Status: domain.QuoteStatusSent})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sent) != 1 || sent[0].ID != q1.ID {
		t.Fatalf("status filter failed: %+v", sent)
	}

	byCust, err := repo.List(ctx, domain.QuoteFilter{CustomerID: &cust.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byCust) != 1 || byCust[0].Customer == nil || byCust[0].Customer.Name != "Dana Field" {
		t.Fatalf("customer filter failed: %+v", byCust)
	}
}
