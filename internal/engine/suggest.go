package engine

import (
	"fmt"
	"strings"

	"github.com/phenrril/gatequote/internal/domain"
)

// MatchPolicy resolves a target phrase against the catalog. The shipped
// policy is first-match-wins over catalog iteration order; keeping it behind
// an interface lets a ranked strategy replace it without touching the
// suggestion rules.
type MatchPolicy interface {
	Match(catalog []domain.Material, phrase string) (domain.Material, bool)
}

// firstMatch picks the first catalog entry whose name contains the phrase,
// case-insensitive. Ties between qualifying entries are decided by catalog
// order alone.
type firstMatch struct{}

func (firstMatch) Match(catalog []domain.Material, phrase string) (domain.Material, bool) {
	p := strings.ToLower(phrase)
	for _, m := range catalog {
		if strings.Contains(strings.ToLower(m.Name), p) {
			return m, true
		}
	}
	return domain.Material{}, false
}

type Suggester struct {
	policy MatchPolicy
}

func NewSuggester() *Suggester {
	return &Suggester{policy: firstMatch{}}
}

func NewSuggesterWithPolicy(p MatchPolicy) *Suggester {
	return &Suggester{policy: p}
}

var gatePanelPhrase = map[domain.GateMaterial]string{
	domain.MaterialSteel:       "steel swing gate panel",
	domain.MaterialAluminum:    "aluminum swing gate panel",
	domain.MaterialWroughtIron: "wrought iron gate panel",
	domain.MaterialWood:        "wood gate panel",
	domain.MaterialChainLink:   "chain link gate",
}

var automationPhrase = map[domain.Automation]string{
	domain.AutomationSingleSwing: "liftmaster la400",
	domain.AutomationDualSwing:   "mighty mule mm560",
	domain.AutomationSlide:       "liftmaster rsl12u",
}

var accessPhrase = map[domain.AccessControl]string{
	domain.AccessKeypad:     "wireless keypad",
	domain.AccessRemote:     "remote control (pack of 3)",
	domain.AccessIntercom:   "intercom system - basic",
	domain.AccessFullSystem: "telephone entry system",
}

// Suggest builds a default bill of materials for a spec. Each structural need
// resolves to at most one line item; needs with no catalog match are skipped
// silently, so an empty catalog yields an empty list. Order of the returned
// items is fixed by the rule order below.
func (s *Suggester) Suggest(spec domain.GateSpec, catalog []domain.Material) []domain.QuoteItem {
	var items []domain.QuoteItem

	add := func(category string, m domain.Material, description string, qty float64, unit string) {
		if unit == "" {
			unit = m.Unit
		}
		it := domain.QuoteItem{
			Category:    category,
			Description: description,
			Quantity:    qty,
			Unit:        unit,
			UnitCost:    m.Cost,
		}
		it.RecalcTotal()
		items = append(items, it)
	}

	// Gate panel, priced per foot of width.
	phrase, ok := gatePanelPhrase[spec.Material]
	if !ok {
		phrase = gatePanelPhrase[domain.MaterialSteel]
	}
	if m, ok := s.policy.Match(catalog, phrase); ok {
		add("gates", m, m.Name, spec.Width, "")
	}

	// Posts: sliding and cantilever gates need a third post. Two feet of each
	// post is buried.
	postCount := 2
	if spec.GateType == domain.GateTypeSliding || spec.GateType == domain.GateTypeCantilever {
		postCount = 3
	}
	if m, ok := s.policy.Match(catalog, "post 6x6"); ok {
		add("hardware", m, fmt.Sprintf("%s x %d posts", m.Name, postCount), (spec.Height+2)*float64(postCount), "ft")
	}

	if spec.GateType == domain.GateTypeSwing || spec.GateType == domain.GateTypeBiFold {
		if m, ok := s.policy.Match(catalog, "heavy duty hinges"); ok {
			qty := 2.0
			if spec.GateType == domain.GateTypeBiFold {
				qty = 4.0
			}
			add("hardware", m, m.Name, qty, "pair")
		}
	}

	switch spec.GateType {
	case domain.GateTypeCantilever:
		if m, ok := s.policy.Match(catalog, "cantilever"); ok {
			add("gates", m, m.Name, 1, "each")
		}
	case domain.GateTypeSliding:
		if m, ok := s.policy.Match(catalog, "v-track"); ok {
			add("gates", m, m.Name, 1, "each")
		}
	}

	if m, ok := s.policy.Match(catalog, "gate latch - heavy duty"); ok {
		add("hardware", m, m.Name, 1, "each")
	}

	if spec.Automation != domain.AutomationNone {
		if m, ok := s.policy.Match(catalog, automationPhrase[spec.Automation]); ok {
			add("operators", m, m.Name, 1, "each")
			// Photoeyes are required alongside any operator install.
			if pe, ok := s.policy.Match(catalog, "safety photoeye"); ok {
				add("access_control", pe, pe.Name, 1, "pair")
			}
		}
	}

	if spec.AccessControl != domain.AccessNone {
		if m, ok := s.policy.Match(catalog, accessPhrase[spec.AccessControl]); ok {
			add("access_control", m, m.Name, 1, "each")
		}
	}

	if spec.Automation != domain.AutomationNone && spec.PowerDistance > 0 {
		if m, ok := s.policy.Match(catalog, "electrical wire"); ok {
			add("electrical", m, m.Name, spec.PowerDistance, "ft")
		}
		if m, ok := s.policy.Match(catalog, "conduit"); ok {
			add("electrical", m, m.Name, spec.PowerDistance, "ft")
		}
	}

	// Concrete, roughly four bags per post hole. Only bagged entries qualify.
	holeCount := 3
	switch spec.GateType {
	case domain.GateTypeSwing, domain.GateTypeBiFold, domain.GateTypePedestrian:
		holeCount = 2
	}
	bagged := make([]domain.Material, 0, len(catalog))
	for _, m := range catalog {
		if strings.Contains(strings.ToLower(m.Unit), "bag") {
			bagged = append(bagged, m)
		}
	}
	if m, ok := s.policy.Match(bagged, "concrete"); ok {
		add("hardware", m, m.Name, float64(4*holeCount), "bag")
	}

	if spec.RemovalNeeded {
		if m, ok := s.policy.Match(catalog, "existing gate removal"); ok {
			add("misc", m, m.Name, 1, "each")
		}
	}

	return items
}
