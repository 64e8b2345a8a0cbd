// Package pricing is the contractor cost-estimation engine. Every calculator is
// a pure function over an explicit input snapshot; nothing here performs I/O or
// keeps state between calls.
package pricing

// Unit is the measure a catalog item is priced in.
type Unit string

const (
	UnitArea        Unit = "sqm"
	UnitPiece       Unit = "unit"
	UnitDay         Unit = "day"
	UnitLinearMeter Unit = "lm"
)

// PriceTier overrides the derived unit price for a quantity band.
// A MaxQuantity of zero leaves the band open-ended.
type PriceTier struct {
	MinQuantity float64 `json:"minQuantity"`
	MaxQuantity float64 `json:"maxQuantity,omitempty"`
	Price       float64 `json:"price"`
}

// LayerSetting describes one material layer. Layer 0 carries absolute Coverage
// (area per material unit) and DailyOutput (area per worker-day). Every later
// layer carries only percentage deltas relative to the previous layer's
// effective values.
type LayerSetting struct {
	Coverage              float64 `json:"coverage,omitempty"`
	DailyOutput           float64 `json:"dailyOutput,omitempty"`
	CoverageChangePercent float64 `json:"coverageChangePercent,omitempty"`
	OutputChangePercent   float64 `json:"outputChangePercent,omitempty"`
}

// CatalogItem is a reusable priced definition. It is read-only input to the
// engine; callers replace it wholesale when it changes.
type CatalogItem struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Unit       Unit   `json:"unit"`

	MaterialCostPerUnit   float64  `json:"materialCostPerUnit"`
	LaborRatePerUnit      *float64 `json:"laborRatePerUnit,omitempty"`
	WorkerDailyCost       float64  `json:"workerDailyCost,omitempty"`
	DailyOutput           float64  `json:"dailyOutput,omitempty"`
	AdditionalCostPerUnit float64  `json:"additionalCostPerUnit,omitempty"`
	ProfitPercent         *float64 `json:"profitPercent,omitempty"`

	// Manually entered absolute values. They win over every derived formula.
	OverrideUnitCost  *float64 `json:"overrideUnitCost,omitempty"`
	OverrideUnitPrice *float64 `json:"overrideUnitPrice,omitempty"`

	PriceTiers []PriceTier `json:"priceTiers,omitempty"`

	// Layered (paint/plaster) items.
	MaterialUnitPrice      float64        `json:"materialUnitPrice,omitempty"`
	Coverage               float64        `json:"coverage,omitempty"`
	EquipmentCost          float64        `json:"equipmentCost,omitempty"`
	CleaningCostPerArea    float64        `json:"cleaningCostPerArea,omitempty"`
	PreparationCostPerArea float64        `json:"preparationCostPerArea,omitempty"`
	LayerSettings          []LayerSetting `json:"layerSettings,omitempty"`

	// Difficulty-priced (demolition/custom) items.
	HoursPerUnit    float64 `json:"hoursPerUnit,omitempty"`
	LaborCostPerDay float64 `json:"laborCostPerDay,omitempty"`

	// Tiling items.
	WastagePercent          float64 `json:"wastagePercent,omitempty"`
	HasPanel                bool    `json:"hasPanel,omitempty"`
	PanelLaborCapacity      float64 `json:"panelLaborCapacity,omitempty"`
	PanelUtilizationPercent float64 `json:"panelUtilizationPercent,omitempty"`
}

// Float returns a pointer to v, for optional catalog fields.
func Float(v float64) *float64 {
	return &v
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
