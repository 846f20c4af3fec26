// Package engine holds the quote estimation core: labor hours, material
// suggestions and totals composition. Everything here is pure — no I/O, no
// shared state — so calls are safe from any goroutine.
package engine

import (
	"math"

	"github.com/phenrril/gatequote/internal/domain"
)

// Base installation hours by gate type.
var baseHours = map[domain.GateType]float64{
	domain.GateTypeSwing:      4.0,
	domain.GateTypeSliding:    6.0,
	domain.GateTypeCantilever: 8.0,
	domain.GateTypeBiFold:     6.0,
	domain.GateTypePedestrian: 2.0,
}

// Extra hours per foot of width over the 10 ft base.
const widthFactor = 0.25

var materialFactor = map[domain.GateMaterial]float64{
	domain.MaterialChainLink:   0.7,
	domain.MaterialWood:        0.9,
	domain.MaterialSteel:       1.0,
	domain.MaterialAluminum:    1.0,
	domain.MaterialWroughtIron: 1.4,
}

var styleFactor = map[domain.GateStyle]float64{
	domain.StyleBasic:      0.8,
	domain.StyleStandard:   1.0,
	domain.StyleOrnamental: 1.5,
	domain.StyleCustom:     2.0,
}

var automationHours = map[domain.Automation]float64{
	domain.AutomationNone:        0.0,
	domain.AutomationSingleSwing: 3.0,
	domain.AutomationDualSwing:   5.0,
	domain.AutomationSlide:       4.0,
}

var accessControlHours = map[domain.AccessControl]float64{
	domain.AccessNone:       0.0,
	domain.AccessKeypad:     1.0,
	domain.AccessRemote:     0.5,
	domain.AccessIntercom:   2.0,
	domain.AccessFullSystem: 4.0,
}

var groundFactor = map[domain.GroundType]float64{
	domain.GroundConcrete: 1.0,
	domain.GroundAsphalt:  1.1,
	domain.GroundGravel:   1.2,
	domain.GroundDirt:     1.3,
}

var slopeFactor = map[domain.Slope]float64{
	domain.SlopeFlat:     1.0,
	domain.SlopeSlight:   1.1,
	domain.SlopeModerate: 1.3,
	domain.SlopeSteep:    1.6,
}

// EstimateHours returns the estimated labor for a spec, rounded to the
// nearest quarter hour. Unknown enum values fall back to neutral values
// instead of failing; enum validation belongs to the caller.
func EstimateHours(spec domain.GateSpec) float64 {
	base, ok := baseHours[spec.GateType]
	if !ok {
		base = baseHours[domain.GateTypeSwing]
	}

	if spec.Width > 10 {
		base += (spec.Width - 10) * widthFactor
	}

	var heightMult float64
	switch {
	case spec.Height < 5:
		heightMult = 0.8
	case spec.Height <= 7:
		heightMult = 1.0
	case spec.Height <= 10:
		heightMult = 1.3
	default:
		heightMult = 1.6
	}

	gateHours := base * heightMult *
		factorOr(materialFactor, spec.Material, 1.0) *
		factorOr(styleFactor, spec.GateStyle, 1.0) *
		factorOr(groundFactor, spec.GroundType, 1.0) *
		factorOr(slopeFactor, spec.Slope, 1.0)

	autoHours := factorOr(automationHours, spec.Automation, 0.0)
	accessHours := factorOr(accessControlHours, spec.AccessControl, 0.0)

	// Power run only matters when an operator is installed.
	var electricalHours float64
	if spec.Automation != domain.AutomationNone {
		electricalHours = spec.PowerDistance * 0.1
	}

	var removalHours float64
	if spec.RemovalNeeded {
		removalHours = 2.0
	}

	total := gateHours + autoHours + accessHours + electricalHours + removalHours
	return math.Round(total*4) / 4
}

func factorOr[K comparable](m map[K]float64, key K, fallback float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}
