package domain

type GateType string

const (
	GateTypeSwing      GateType = "swing"
	GateTypeSliding    GateType = "sliding"
	GateTypeCantilever GateType = "cantilever"
	GateTypeBiFold     GateType = "bi-fold"
	GateTypePedestrian GateType = "pedestrian"
)

type GateStyle string

const (
	StyleBasic      GateStyle = "basic"
	StyleStandard   GateStyle = "standard"
	StyleOrnamental GateStyle = "ornamental"
	StyleCustom     GateStyle = "custom"
)

type GateMaterial string

const (
	MaterialSteel       GateMaterial = "steel"
	MaterialAluminum    GateMaterial = "aluminum"
	MaterialWroughtIron GateMaterial = "wrought_iron"
	MaterialWood        GateMaterial = "wood"
	MaterialChainLink   GateMaterial = "chain_link"
)

type Automation string

const (
	AutomationNone        Automation = "none"
	AutomationSingleSwing Automation = "single_swing"
	AutomationDualSwing   Automation = "dual_swing"
	AutomationSlide       Automation = "slide"
)

type AccessControl string

const (
	AccessNone       AccessControl = "none"
	AccessKeypad     AccessControl = "keypad"
	AccessRemote     AccessControl = "remote"
	AccessIntercom   AccessControl = "intercom"
	AccessFullSystem AccessControl = "full_system"
)

type GroundType string

const (
	GroundConcrete GroundType = "concrete"
	GroundAsphalt  GroundType = "asphalt"
	GroundGravel   GroundType = "gravel"
	GroundDirt     GroundType = "dirt"
)

type Slope string

const (
	SlopeFlat     Slope = "flat"
	SlopeSlight   Slope = "slight"
	SlopeModerate Slope = "moderate"
	SlopeSteep    Slope = "steep"
)

// GateSpec describes the job being quoted. It is treated as a value: the
// engine never mutates it, and unknown enum values are tolerated (estimation
// falls back to neutral factors). Range validation of dimensions happens at
// the form/API boundary, not here.
type GateSpec struct {
	GateType      GateType      `gorm:"type:varchar(20)" json:"gate_type"`
	GateStyle     GateStyle     `gorm:"type:varchar(20)" json:"gate_style"`
	Width         float64       `gorm:"type:decimal(6,2)" json:"width"`
	Height        float64       `gorm:"type:decimal(6,2)" json:"height"`
	Material      GateMaterial  `gorm:"type:varchar(20)" json:"material"`
	Automation    Automation    `gorm:"type:varchar(20)" json:"automation"`
	AccessControl AccessControl `gorm:"type:varchar(20)" json:"access_control"`
	GroundType    GroundType    `gorm:"type:varchar(20)" json:"ground_type"`
	Slope         Slope         `gorm:"type:varchar(20)" json:"slope"`
	PowerDistance float64       `gorm:"type:decimal(6,2);default:0" json:"power_distance"`
	RemovalNeeded bool          `gorm:"default:false" json:"removal_needed"`
}
