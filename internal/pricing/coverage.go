package pricing

import "math"

// CoverageInput is the full snapshot the layered coverage model prices.
type CoverageInput struct {
	Area          float64        `json:"area"`
	Layers        int            `json:"layers"`
	LayerSettings []LayerSetting `json:"layerSettings"`

	MaterialUnitPrice      float64 `json:"materialUnitPrice"`
	DailyLaborRate         float64 `json:"dailyLaborRate"`
	EquipmentCost          float64 `json:"equipmentCost"`
	CleaningCostPerArea    float64 `json:"cleaningCostPerArea"`
	PreparationCostPerArea float64 `json:"preparationCostPerArea"`

	DifficultyMultiplier float64 `json:"difficultyMultiplier"`
	ProfitPercent        float64 `json:"profitPercent"`

	RoundMaterialUnits bool `json:"roundMaterialUnits"`
	RoundLaborDays     bool `json:"roundLaborDays"`
}

// CoverageInputFor fills a coverage snapshot from a layered catalog item.
// Items without layer settings get a single base layer built from their
// Coverage and DailyOutput. Profit and the daily labor rate come from the
// item, then defaults.
func CoverageInputFor(item CatalogItem, area float64, layers int, difficulty DifficultyFactor, defaults PricingDefaults) CoverageInput {
	d := defaults.Resolved()

	settings := item.LayerSettings
	if len(settings) == 0 && (item.Coverage > 0 || item.DailyOutput > 0) {
		settings = []LayerSetting{{Coverage: item.Coverage, DailyOutput: item.DailyOutput}}
	}

	profit := d.ProfitPercent
	if v, ok := deref(item.ProfitPercent); ok {
		profit = v
	}

	price := item.MaterialUnitPrice
	if price == 0 {
		price = item.MaterialCostPerUnit
	}

	return CoverageInput{
		Area:                   area,
		Layers:                 layers,
		LayerSettings:          append([]LayerSetting(nil), settings...),
		MaterialUnitPrice:      price,
		DailyLaborRate:         pick(item.WorkerDailyCost, item.LaborCostPerDay, d.LaborCostPerDay),
		EquipmentCost:          item.EquipmentCost,
		CleaningCostPerArea:    item.CleaningCostPerArea,
		PreparationCostPerArea: item.PreparationCostPerArea,
		DifficultyMultiplier:   difficulty.Multiplier,
		ProfitPercent:          profit,
	}
}

// LayerUsage is one layer's share of material and labor.
type LayerUsage struct {
	EffectiveLayer
	MaterialUnits float64 `json:"materialUnits"`
	LaborDays     float64 `json:"laborDays"`
	Skipped       bool    `json:"skipped,omitempty"`
}

// CoverageResult is the layered coverage model output. Component costs are
// reported after the difficulty multiplier so they sum to TotalCost.
type CoverageResult struct {
	Area   float64      `json:"area"`
	Layers []LayerUsage `json:"layers"`

	MaterialUnitsExact float64 `json:"materialUnitsExact"`
	MaterialUnits      float64 `json:"materialUnits"`
	LaborDaysExact     float64 `json:"laborDaysExact"`
	LaborDays          float64 `json:"laborDays"`

	MaterialCost         float64 `json:"materialCost"`
	LaborCost            float64 `json:"laborCost"`
	EquipmentCost        float64 `json:"equipmentCost"`
	AreaCosts            float64 `json:"areaCosts"`
	DifficultyMultiplier float64 `json:"difficultyMultiplier"`

	TotalCost     float64 `json:"totalCost"`
	SellingPrice  float64 `json:"sellingPrice"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`

	CostPerArea   float64 `json:"costPerArea"`
	PricePerArea  float64 `json:"pricePerArea"`
	ProfitPerArea float64 `json:"profitPerArea"`
}

// EstimateCoverage computes material units and labor-days for covering Area
// with Layers compounding layers. It returns nil, nil when the snapshot is
// incomplete, and an InputError when the layer list is malformed.
func EstimateCoverage(in CoverageInput) (*CoverageResult, error) {
	if err := ValidateLayers(in.LayerSettings); err != nil {
		return nil, err
	}
	mult, err := difficultyMultiplier(in.DifficultyMultiplier)
	if err != nil {
		return nil, err
	}
	for _, v := range []float64{in.EquipmentCost, in.CleaningCostPerArea, in.PreparationCostPerArea} {
		if !finite(v) || v < 0 {
			return nil, invalid("coverage", "flat and per-area costs must be non-negative numbers")
		}
	}
	if !coverageComplete(in) {
		return nil, nil
	}

	res := &CoverageResult{
		Area:                 in.Area,
		Layers:               make([]LayerUsage, 0, in.Layers),
		DifficultyMultiplier: mult,
	}
	for _, eff := range EffectiveLayers(in.LayerSettings, in.Layers) {
		u := LayerUsage{EffectiveLayer: eff}
		if eff.Coverage > 0 {
			u.MaterialUnits = in.Area / eff.Coverage
		} else {
			u.Skipped = true
		}
		if eff.DailyOutput > 0 {
			u.LaborDays = in.Area / eff.DailyOutput
		} else {
			u.Skipped = true
		}
		res.MaterialUnitsExact += u.MaterialUnits
		res.LaborDaysExact += u.LaborDays
		res.Layers = append(res.Layers, u)
	}

	res.MaterialUnits = res.MaterialUnitsExact
	if in.RoundMaterialUnits {
		res.MaterialUnits = ceilUnits(res.MaterialUnitsExact)
	}
	res.LaborDays = res.LaborDaysExact
	if in.RoundLaborDays {
		res.LaborDays = ceilUnits(res.LaborDaysExact)
	}

	res.MaterialCost = res.MaterialUnits * in.MaterialUnitPrice * mult
	res.LaborCost = res.LaborDays * in.DailyLaborRate * mult
	res.EquipmentCost = in.EquipmentCost * mult
	res.AreaCosts = (in.CleaningCostPerArea + in.PreparationCostPerArea) * in.Area * mult

	res.TotalCost = (res.MaterialUnits*in.MaterialUnitPrice +
		res.LaborDays*in.DailyLaborRate +
		in.EquipmentCost +
		(in.CleaningCostPerArea+in.PreparationCostPerArea)*in.Area) * mult
	res.SellingPrice = markup(res.TotalCost, in.ProfitPercent)
	res.Profit = res.SellingPrice - res.TotalCost
	res.ProfitPercent = res.Profit / res.TotalCost * 100

	res.CostPerArea = res.TotalCost / in.Area
	res.PricePerArea = res.SellingPrice / in.Area
	res.ProfitPerArea = res.Profit / in.Area
	return res, nil
}

// LineItem converts the result into an aggregator line item priced per area.
func (r CoverageResult) LineItem(id, categoryID, description string) LineItem {
	return LineItem{
		ID:                   id,
		CategoryID:           categoryID,
		Source:               SourceCoverage,
		Description:          description,
		Unit:                 UnitArea,
		Quantity:             r.Area,
		UnitPrice:            r.PricePerArea,
		TotalPrice:           r.SellingPrice,
		UnitCost:             r.CostPerArea,
		TotalCost:            r.TotalCost,
		MaterialCost:         r.MaterialCost,
		LaborCost:            r.LaborCost,
		AdditionalCost:       r.EquipmentCost + r.AreaCosts,
		WorkDuration:         r.LaborDays,
		DifficultyMultiplier: r.DifficultyMultiplier,
	}
}

func coverageComplete(in CoverageInput) bool {
	if len(in.LayerSettings) == 0 || in.Layers <= 0 {
		return false
	}
	base := in.LayerSettings[0]
	for _, v := range []float64{base.Coverage, base.DailyOutput, in.MaterialUnitPrice, in.DailyLaborRate, in.Area, in.ProfitPercent} {
		if !(v > 0) || !finite(v) {
			return false
		}
	}
	return true
}

// difficultyMultiplier resolves an optional multiplier. Zero means unset.
func difficultyMultiplier(m float64) (float64, error) {
	if m == 0 {
		return 1, nil
	}
	if !finite(m) || m < 1 {
		return 0, invalid("difficultyMultiplier", "must be at least 1")
	}
	return m, nil
}

// ceilUnits rounds up to a whole unit, ignoring float noise just above an
// integer.
func ceilUnits(v float64) float64 {
	return math.Ceil(v - 1e-9)
}
