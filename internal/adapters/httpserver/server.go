package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/gatequote/internal/adapters/pricelist"
	"github.com/phenrril/gatequote/internal/domain"
	"github.com/phenrril/gatequote/internal/usecase"
)

type Server struct {
	mux       *http.ServeMux
	quotes    *usecase.QuoteUC
	materials *usecase.MaterialUC
	customers *usecase.CustomerUC
	settings  domain.SettingsRepo
	prices    domain.PriceChecker
}

func New(q *usecase.QuoteUC, m *usecase.MaterialUC, c *usecase.CustomerUC, settings domain.SettingsRepo, prices domain.PriceChecker) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		quotes:    q,
		materials: m,
		customers: c,
		settings:  settings,
		prices:    prices,
	}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/quotes", s.apiQuotes)
	s.mux.HandleFunc("/api/quotes/", s.apiQuoteByID)
	s.mux.HandleFunc("/api/calculate", s.apiCalculate)

	s.mux.HandleFunc("/api/materials", s.apiMaterials)
	s.mux.HandleFunc("/api/materials/", s.apiMaterialByID)
	s.mux.HandleFunc("/api/materials/adopt", s.apiMaterialsAdopt)
	s.mux.HandleFunc("/api/materials/categories", s.apiMaterialCategories)
	s.mux.HandleFunc("/api/materials/export", s.apiMaterialsExport)
	s.mux.HandleFunc("/api/materials/import", s.apiMaterialsImport)

	s.mux.HandleFunc("/api/customers", s.apiCustomers)
	s.mux.HandleFunc("/api/customers/", s.apiCustomerByID)

	s.mux.HandleFunc("/api/settings", s.apiSettings)

	s.mux.HandleFunc("/api/price-check", s.apiPriceCheck)
	s.mux.HandleFunc("/api/supplier-search", s.apiSupplierSearch)
}

// --- quotes ---

type quoteItemPayload struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitCost    float64 `json:"unit_cost"`
}

type quotePayload struct {
	CustomerID *uuid.UUID          `json:"customer_id"`
	Spec       domain.GateSpec     `json:"spec"`
	Items      *[]quoteItemPayload `json:"items"`
	LaborHours *float64            `json:"labor_hours"`
	LaborRate  *float64            `json:"labor_rate"`
	Status     string              `json:"status"`
	Notes      string              `json:"notes"`
}

func (p *quotePayload) validate() error {
	if p.Spec.Width <= 0 || p.Spec.Height <= 0 {
		return errors.New("width and height must be positive")
	}
	if p.Spec.PowerDistance < 0 {
		return errors.New("power_distance must not be negative")
	}
	if p.Items != nil {
		for _, it := range *p.Items {
			if it.Quantity <= 0 {
				return errors.New("item quantity must be positive")
			}
			if it.UnitCost < 0 {
				return errors.New("item unit_cost must not be negative")
			}
		}
	}
	return nil
}

func (p *quotePayload) apply(q *domain.Quote) {
	q.CustomerID = p.CustomerID
	q.Spec = p.Spec
	if p.Status != "" {
		q.Status = domain.QuoteStatus(p.Status)
	}
	q.Notes = p.Notes
	if p.LaborHours != nil {
		q.LaborHours = *p.LaborHours
	}
	if p.LaborRate != nil {
		q.LaborRate = *p.LaborRate
	}
	if p.Items != nil {
		items := make([]domain.QuoteItem, 0, len(*p.Items))
		for _, it := range *p.Items {
			unit := it.Unit
			if unit == "" {
				unit = "each"
			}
			li := domain.QuoteItem{
				Category:    it.Category,
				Description: it.Description,
				Quantity:    it.Quantity,
				Unit:        unit,
				UnitCost:    it.UnitCost,
			}
			li.RecalcTotal()
			items = append(items, li)
		}
		q.Items = items
	}
}

func (s *Server) apiQuotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		f := domain.QuoteFilter{Status: domain.QuoteStatus(r.URL.Query().Get("status"))}
		list, err := s.quotes.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list quotes")
			return
		}
		out := make([]map[string]any, 0, len(list))
		for _, q := range list {
			name := "No customer"
			if q.Customer != nil {
				name = q.Customer.Name
			}
			out = append(out, map[string]any{
				"id":            q.ID,
				"quote_number":  q.Number,
				"customer_name": name,
				"gate_type":     q.Spec.GateType,
				"width":         q.Spec.Width,
				"height":        q.Spec.Height,
				"total":         q.Total,
				"status":        q.Status,
				"created_at":    q.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var p quotePayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := p.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		q := &domain.Quote{}
		p.apply(q)
		if p.LaborHours == nil {
			// New quotes get a full calculation pass before first save.
			if err := s.quotes.Calculate(r.Context(), q); err != nil {
				writeError(w, http.StatusInternalServerError, "calculate")
				return
			}
		}
		if err := s.quotes.Save(r.Context(), q); err != nil {
			s.writeSaveErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": q.ID, "quote_number": q.Number})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) apiQuoteByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/quotes/")
	idStr, sub, _ := strings.Cut(rest, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	if sub == "status" && r.Method == http.MethodPut {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
			writeError(w, http.StatusBadRequest, "status required")
			return
		}
		if _, err := s.quotes.UpdateStatus(r.Context(), id, domain.QuoteStatus(body.Status)); err != nil {
			s.writeLookupErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}
	if sub != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		q, err := s.quotes.Get(r.Context(), id)
		if err != nil {
			s.writeLookupErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quoteResponse(q))

	case http.MethodPut:
		q, err := s.quotes.Get(r.Context(), id)
		if err != nil {
			s.writeLookupErr(w, err)
			return
		}
		var p quotePayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := p.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p.apply(q)
		if err := s.quotes.Save(r.Context(), q); err != nil {
			s.writeSaveErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	case http.MethodDelete:
		if err := s.quotes.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "delete quote")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func quoteResponse(q *domain.Quote) map[string]any {
	items := make([]map[string]any, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, map[string]any{
			"id":          it.ID,
			"category":    it.Category,
			"description": it.Description,
			"quantity":    it.Quantity,
			"unit":        it.Unit,
			"unit_cost":   it.UnitCost,
			"total_cost":  it.TotalCost,
		})
	}
	resp := map[string]any{
		"id":             q.ID,
		"quote_number":   q.Number,
		"customer_id":    q.CustomerID,
		"spec":           q.Spec,
		"labor_hours":    q.LaborHours,
		"labor_rate":     q.LaborRate,
		"materials_cost": q.MaterialsCost,
		"markup_percent": q.MarkupPercent,
		"tax_rate":       q.TaxRate,
		"subtotal":       q.Subtotal,
		"tax_amount":     q.TaxAmount,
		"total":          q.Total,
		"status":         q.Status,
		"notes":          q.Notes,
		"items":          items,
	}
	if q.Customer != nil {
		resp["customer"] = q.Customer
	}
	return resp
}

// apiCalculate runs the estimation engine without persisting anything: the
// form calls it to preview labor, suggestions and totals for a spec.
func (s *Server) apiCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var p quotePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := p.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := &domain.Quote{}
	p.apply(q)
	if err := s.quotes.Calculate(r.Context(), q); err != nil {
		writeError(w, http.StatusInternalServerError, "calculate")
		return
	}

	items := make([]map[string]any, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, map[string]any{
			"category":    it.Category,
			"description": it.Description,
			"quantity":    it.Quantity,
			"unit":        it.Unit,
			"unit_cost":   it.UnitCost,
			"total_cost":  it.TotalCost,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"labor_hours":    q.LaborHours,
		"labor_rate":     q.LaborRate,
		"materials_cost": q.MaterialsCost,
		"markup_percent": q.MarkupPercent,
		"subtotal":       q.Subtotal,
		"tax_amount":     q.TaxAmount,
		"total":          q.Total,
		"items":          items,
	})
}

// --- materials ---

func (s *Server) apiMaterials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.materials.List(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("search"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list materials")
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var m domain.Material
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if m.Cost < 0 {
			writeError(w, http.StatusBadRequest, "cost must not be negative")
			return
		}
		if err := s.materials.Save(r.Context(), &m); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, m)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) apiMaterialByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/materials/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		m, err := s.materials.Get(r.Context(), id)
		if err != nil {
			s.writeLookupErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)

	case http.MethodPut:
		m, err := s.materials.Get(r.Context(), id)
		if err != nil {
			s.writeLookupErr(w, err)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(m); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		m.ID = id
		if err := s.materials.Save(r.Context(), m); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, m)

	case http.MethodDelete:
		if err := s.materials.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "delete material")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// apiMaterialsAdopt runs a supplier price check and saves the result as a new
// catalog entry in one step.
func (s *Server) apiMaterialsAdopt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		URL      string `json:"url"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.URL) == "" {
		writeError(w, http.StatusBadRequest, "url required")
		return
	}
	pq, err := s.prices.PriceFromURL(r.Context(), body.URL)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no price found")
			return
		}
		writeError(w, http.StatusBadGateway, "price check failed")
		return
	}
	m, err := s.materials.AdoptPriceQuote(r.Context(), *pq, body.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) apiMaterialCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.materials.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "categories")
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) apiMaterialsExport(w http.ResponseWriter, r *http.Request) {
	list, err := s.materials.List(r.Context(), "", "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list materials")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="price-list.xlsx"`)
	if err := pricelist.Export(list, w); err != nil {
		writeError(w, http.StatusInternalServerError, "export")
	}
}

func (s *Server) apiMaterialsImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	mats, err := pricelist.Import(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable workbook")
		return
	}
	count := 0
	for i := range mats {
		if err := s.materials.Save(r.Context(), &mats[i]); err != nil {
			continue
		}
		count++
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// --- customers ---

func (s *Server) apiCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.customers.List(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list customers")
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var c domain.Customer
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := s.customers.Save(r.Context(), &c); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, c)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) apiCustomerByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/customers/")
	idStr, sub, _ := strings.Cut(rest, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if sub == "quotes" && r.Method == http.MethodGet {
		list, err := s.customers.QuotesFor(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list quotes")
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	if sub != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.customers.Get(r.Context(), id)
		if err != nil {
			s.writeLookupErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodPut:
		c, err := s.customers.Get(r.Context(), id)
		if err != nil {
			s.writeLookupErr(w, err)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		c.ID = id
		if err := s.customers.Save(r.Context(), c); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		if err := s.customers.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "delete customer")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- settings ---

func (s *Server) apiSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		all, err := s.settings.All(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "settings")
			return
		}
		writeJSON(w, http.StatusOK, all)

	case http.MethodPut:
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		for k, v := range body {
			if err := s.settings.Set(r.Context(), k, v); err != nil {
				writeError(w, http.StatusInternalServerError, "save settings")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- supplier pricing ---

func (s *Server) apiPriceCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.URL) == "" {
		writeError(w, http.StatusBadRequest, "url required")
		return
	}
	pq, err := s.prices.PriceFromURL(r.Context(), body.URL)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no price found")
			return
		}
		writeError(w, http.StatusBadGateway, "price check failed")
		return
	}
	writeJSON(w, http.StatusOK, pq)
}

func (s *Server) apiSupplierSearch(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("product"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "product required")
		return
	}
	writeJSON(w, http.StatusOK, s.prices.SearchURLs(name))
}

// --- shared error mapping ---

func (s *Server) writeLookupErr(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "lookup failed")
}

func (s *Server) writeSaveErr(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrConflict) {
		writeError(w, http.StatusConflict, "quote number conflict, retry")
		return
	}
	writeError(w, http.StatusInternalServerError, "save failed")
}
