package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/gatequote/internal/adapters/httpserver"
	"github.com/phenrril/gatequote/internal/adapters/repo/postgres"
	"github.com/phenrril/gatequote/internal/adapters/scraper"
	"github.com/phenrril/gatequote/internal/domain"
	"github.com/phenrril/gatequote/internal/engine"
	"github.com/phenrril/gatequote/internal/usecase"
)

type App struct {
	DB         *gorm.DB
	QuoteUC    *usecase.QuoteUC
	MaterialUC *usecase.MaterialUC
	CustomerUC *usecase.CustomerUC
	Settings   domain.SettingsRepo
	Prices     domain.PriceChecker
}

func NewApp(db *gorm.DB) (*App, error) {
	quoteRepo := postgres.NewQuoteRepo(db)
	materialRepo := postgres.NewMaterialRepo(db)
	customerRepo := postgres.NewCustomerRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)
	prices := scraper.NewPriceScraper()

	app := &App{
		DB:       db,
		Settings: settingsRepo,
		Prices:   prices,
	}
	app.QuoteUC = &usecase.QuoteUC{
		Quotes:    quoteRepo,
		Materials: materialRepo,
		Settings:  settingsRepo,
		Suggester: engine.NewSuggester(),
	}
	app.MaterialUC = &usecase.MaterialUC{Materials: materialRepo}
	app.CustomerUC = &usecase.CustomerUC{Customers: customerRepo, Quotes: quoteRepo}

	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.QuoteUC, a.MaterialUC, a.CustomerUC, a.Settings, a.Prices)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Customer{}, &domain.Quote{}, &domain.QuoteItem{}, &domain.Material{}, &domain.Setting{},
	); err != nil {
		return err
	}

	if err := a.seedSettings(); err != nil {
		return err
	}
	return a.seedMaterials()
}

// seedSettings fills in any missing keys without touching values the user has
// already changed.
func (a *App) seedSettings() error {
	d := domain.DefaultQuoteSettings()
	defaults := map[string]string{
		"company_name":   "Gate Quote Pro",
		"labor_rate":     strconv.FormatFloat(d.LaborRate, 'f', 2, 64),
		"markup_percent": strconv.FormatFloat(d.MarkupPercent, 'f', 0, 64),
		"tax_rate":       strconv.FormatFloat(d.TaxRate, 'f', 0, 64),
		"quote_prefix":   d.QuotePrefix,
		"quote_terms":    "Quote valid for 30 days. 50% deposit required to schedule work.",
	}
	for key, value := range defaults {
		var count int64
		if err := a.DB.Model(&domain.Setting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := a.DB.Create(&domain.Setting{Key: key, Value: value}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// seedMaterials loads the starter catalog the suggestion rules expect. It only
// runs against an empty table so imported or edited price lists survive
// restarts.
func (a *App) seedMaterials() error {
	ctx := context.Background()
	count, err := a.MaterialUC.Materials.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	mats := []domain.Material{
		{Category: "gates", Name: "Steel Swing Gate Panel", Unit: "ft", Cost: 85, Supplier: "Metal Depot"},
		{Category: "gates", Name: "Aluminum Swing Gate Panel", Unit: "ft", Cost: 95, Supplier: "Metal Depot"},
		{Category: "gates", Name: "Wrought Iron Gate Panel", Unit: "ft", Cost: 120, Supplier: "Iron Works Supply"},
		{Category: "gates", Name: "Wood Gate Panel - Cedar", Unit: "ft", Cost: 65, Supplier: "Lumber Yard"},
		{Category: "gates", Name: "Chain Link Gate Frame", Unit: "ft", Cost: 35, Supplier: "Fence Supply Co"},
		{Category: "gates", Name: "Cantilever Track Kit", Unit: "each", Cost: 450, Supplier: "Gate Hardware Direct"},
		{Category: "gates", Name: "V-Track Kit - 20ft", Unit: "each", Cost: 320, Supplier: "Gate Hardware Direct"},
		{Category: "hardware", Name: "Steel Post 6x6", Unit: "ft", Cost: 28, Supplier: "Metal Depot"},
		{Category: "hardware", Name: "Heavy Duty Hinges", Unit: "pair", Cost: 45, Supplier: "Gate Hardware Direct"},
		{Category: "hardware", Name: "Gate Latch - Heavy Duty", Unit: "each", Cost: 35, Supplier: "Gate Hardware Direct"},
		{Category: "hardware", Name: "Concrete Mix 80lb", Unit: "bag", Cost: 7.5, Supplier: "Home Depot"},
		{Category: "operators", Name: "LiftMaster LA400 Single Swing Operator", Unit: "each", Cost: 1450, Supplier: "LiftMaster Dealer"},
		{Category: "operators", Name: "Mighty Mule MM560 Dual Swing Kit", Unit: "each", Cost: 850, Supplier: "Home Depot"},
		{Category: "operators", Name: "LiftMaster RSL12U Slide Operator", Unit: "each", Cost: 2100, Supplier: "LiftMaster Dealer"},
		{Category: "access_control", Name: "Wireless Keypad", Unit: "each", Cost: 120, Supplier: "Gate Hardware Direct"},
		{Category: "access_control", Name: "Remote Control (Pack of 3)", Unit: "each", Cost: 85, Supplier: "Gate Hardware Direct"},
		{Category: "access_control", Name: "Intercom System - Basic", Unit: "each", Cost: 380, Supplier: "Security Supply"},
		{Category: "access_control", Name: "Telephone Entry System", Unit: "each", Cost: 1250, Supplier: "Security Supply"},
		{Category: "access_control", Name: "Safety Photoeye Kit", Unit: "pair", Cost: 95, Supplier: "LiftMaster Dealer"},
		{Category: "electrical", Name: "Electrical Wire 12 AWG", Unit: "ft", Cost: 1.2, Supplier: "Home Depot"},
		{Category: "electrical", Name: "Conduit 3/4in PVC", Unit: "ft", Cost: 2.1, Supplier: "Home Depot"},
		{Category: "misc", Name: "Existing Gate Removal", Unit: "each", Cost: 150},
	}
	for i := range mats {
		mats[i].ID = uuid.New()
		mats[i].Markup = 1.3
		if err := a.DB.Create(&mats[i]).Error; err != nil {
			return fmt.Errorf("seed material %q: %w", mats[i].Name, err)
		}
	}
	return nil
}
