package pricing

// WorkdayHours is the fixed length of a labor day used for hour/day conversions.
const WorkdayHours = 8.0

const (
	fallbackLaborCostPerDay         = 1000.0
	fallbackProfitPercent           = 30.0
	fallbackHoursPerUnit            = 1.0
	fallbackLowProfitPercent        = 30.0
	fallbackProfitPercentCap        = 1000.0
	fallbackPanelLaborCapacity      = 50.0
	fallbackPanelUtilizationPercent = 30.0
	fallbackTilingProfitPercent     = 30.0
)

// DifficultyFactor scales unit cost and unit price together.
type DifficultyFactor struct {
	ID         string  `json:"id"`
	Label      string  `json:"label,omitempty"`
	Multiplier float64 `json:"multiplier"`
}

// DefaultDifficultyLevels are used when no levels are configured.
func DefaultDifficultyLevels() []DifficultyFactor {
	return []DifficultyFactor{
		{ID: "easy", Label: "Easy", Multiplier: 1},
		{ID: "medium", Label: "Medium", Multiplier: 1.2},
		{ID: "hard", Label: "Hard", Multiplier: 1.5},
		{ID: "very_hard", Label: "Very hard", Multiplier: 2},
	}
}

// PricingDefaults are the per-call defaults threaded into every model.
// Precedence is: explicit per-item value > PricingDefaults > hard-coded fallback.
// A zero field means "not set".
type PricingDefaults struct {
	LaborCostPerDay         float64            `json:"laborCostPerDay"`
	ProfitPercent           float64            `json:"profitPercent"`
	HoursPerUnit            float64            `json:"hoursPerUnit"`
	LowProfitPercent        float64            `json:"lowProfitPercent"`
	ProfitPercentCap        float64            `json:"profitPercentCap"`
	PanelLaborCapacity      float64            `json:"panelLaborCapacity"`
	PanelUtilizationPercent float64            `json:"panelUtilizationPercent"`
	TilingProfitPercent     float64            `json:"tilingProfitPercent"`
	DifficultyLevels        []DifficultyFactor `json:"difficultyLevels,omitempty"`
}

// Fallbacks returns the hard-coded defaults.
func Fallbacks() PricingDefaults {
	return PricingDefaults{
		LaborCostPerDay:         fallbackLaborCostPerDay,
		ProfitPercent:           fallbackProfitPercent,
		HoursPerUnit:            fallbackHoursPerUnit,
		LowProfitPercent:        fallbackLowProfitPercent,
		ProfitPercentCap:        fallbackProfitPercentCap,
		PanelLaborCapacity:      fallbackPanelLaborCapacity,
		PanelUtilizationPercent: fallbackPanelUtilizationPercent,
		TilingProfitPercent:     fallbackTilingProfitPercent,
		DifficultyLevels:        DefaultDifficultyLevels(),
	}
}

// Merge returns d with every unset field filled from base.
func (d PricingDefaults) Merge(base PricingDefaults) PricingDefaults {
	out := d
	out.LaborCostPerDay = pick(d.LaborCostPerDay, base.LaborCostPerDay)
	out.ProfitPercent = pick(d.ProfitPercent, base.ProfitPercent)
	out.HoursPerUnit = pick(d.HoursPerUnit, base.HoursPerUnit)
	out.LowProfitPercent = pick(d.LowProfitPercent, base.LowProfitPercent)
	out.ProfitPercentCap = pick(d.ProfitPercentCap, base.ProfitPercentCap)
	out.PanelLaborCapacity = pick(d.PanelLaborCapacity, base.PanelLaborCapacity)
	out.PanelUtilizationPercent = pick(d.PanelUtilizationPercent, base.PanelUtilizationPercent)
	out.TilingProfitPercent = pick(d.TilingProfitPercent, base.TilingProfitPercent)
	if len(d.DifficultyLevels) == 0 {
		out.DifficultyLevels = append([]DifficultyFactor(nil), base.DifficultyLevels...)
	}
	return out
}

// Resolved fills every unset field from the hard-coded fallbacks.
func (d PricingDefaults) Resolved() PricingDefaults {
	return d.Merge(Fallbacks())
}

// Difficulty looks up a level by id. Unknown or empty ids resolve to the first
// configured level, which is the baseline.
func (d PricingDefaults) Difficulty(id string) DifficultyFactor {
	levels := d.DifficultyLevels
	if len(levels) == 0 {
		levels = DefaultDifficultyLevels()
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl
		}
	}
	return levels[0]
}

func pick(values ...float64) float64 {
	for _, v := range values {
		if v > 0 && finite(v) {
			return v
		}
	}
	return 0
}
