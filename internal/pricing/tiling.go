package pricing

import "math"

// TilingInput is the snapshot for tiling an area. Zero LaborCostPerDay and a
// nil ProfitPercent take the defaults.
type TilingInput struct {
	Area                      float64  `json:"area"`
	DailyOutput               float64  `json:"dailyOutput"`
	TileCostPerArea           float64  `json:"tileCostPerArea"`
	AdditionalMaterialPerArea float64  `json:"additionalMaterialPerArea"`
	WastagePercent            float64  `json:"wastagePercent"`
	LaborCostPerDay           float64  `json:"laborCostPerDay"`
	FixedProjectCost          float64  `json:"fixedProjectCost"`
	ProfitPercent             *float64 `json:"profitPercent,omitempty"`
}

// TilingInputFor fills a tiling snapshot from a catalog item.
func TilingInputFor(item CatalogItem, area float64) TilingInput {
	return TilingInput{
		Area:                      area,
		DailyOutput:               item.DailyOutput,
		TileCostPerArea:           item.MaterialCostPerUnit,
		AdditionalMaterialPerArea: item.AdditionalCostPerUnit,
		WastagePercent:            item.WastagePercent,
		LaborCostPerDay:           pick(item.LaborCostPerDay, item.WorkerDailyCost),
		ProfitPercent:             item.ProfitPercent,
	}
}

// TilingResult holds whole-unit money values. WorkDays is exact; labor is
// billed on BillableDays.
type TilingResult struct {
	Area          float64 `json:"area"`
	WorkDays      float64 `json:"workDays"`
	BillableDays  float64 `json:"billableDays"`
	MaterialCost  float64 `json:"materialCost"`
	LaborCost     float64 `json:"laborCost"`
	FixedCost     float64 `json:"fixedCost"`
	TotalCost     float64 `json:"totalCost"`
	TotalPrice    float64 `json:"totalPrice"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
	PricePerArea  float64 `json:"pricePerArea"`
}

// EstimateTiling prices a tiled area. It returns nil, nil when area or daily
// output are not positive.
func EstimateTiling(in TilingInput, defaults PricingDefaults) (*TilingResult, error) {
	d := defaults.Resolved()
	for _, v := range []float64{in.TileCostPerArea, in.AdditionalMaterialPerArea, in.WastagePercent, in.FixedProjectCost} {
		if !finite(v) || v < 0 {
			return nil, invalid("tiling", "costs and wastage must be non-negative numbers")
		}
	}
	if !(in.Area > 0) || !(in.DailyOutput > 0) || !finite(in.Area) || !finite(in.DailyOutput) {
		return nil, nil
	}

	rate := pick(in.LaborCostPerDay, d.LaborCostPerDay)
	profit, err := profitOr(in.ProfitPercent, d.TilingProfitPercent)
	if err != nil {
		return nil, err
	}

	tiles := in.TileCostPerArea * in.Area
	if tiles > 0 {
		tiles *= 1 + in.WastagePercent/100
	}
	material := Round(tiles + in.AdditionalMaterialPerArea*in.Area)

	workDays := in.Area / in.DailyOutput
	billable := math.Max(1, ceilUnits(workDays))
	labor := Round(billable * rate)
	fixed := Round(in.FixedProjectCost)

	cost := material + labor + fixed
	price := Round(markup(cost, profit))
	res := &TilingResult{
		Area:         in.Area,
		WorkDays:     workDays,
		BillableDays: billable,
		MaterialCost: material,
		LaborCost:    labor,
		FixedCost:    fixed,
		TotalCost:    cost,
		TotalPrice:   price,
		Profit:       price - cost,
		PricePerArea: price / in.Area,
	}
	if cost > 0 {
		res.ProfitPercent = res.Profit / cost * 100
	}
	return res, nil
}

// LineItem converts a tiling result into an aggregator line item.
func (r TilingResult) LineItem(id, categoryID, description string) LineItem {
	return LineItem{
		ID:             id,
		CategoryID:     categoryID,
		Source:         SourceTiling,
		Description:    description,
		Unit:           UnitArea,
		Quantity:       r.Area,
		UnitPrice:      r.PricePerArea,
		TotalPrice:     r.TotalPrice,
		UnitCost:       r.TotalCost / r.Area,
		TotalCost:      r.TotalCost,
		MaterialCost:   r.MaterialCost,
		LaborCost:      r.LaborCost,
		AdditionalCost: r.FixedCost,
		WorkDuration:   RoundTo(r.WorkDays, 2),
	}
}

// PanelInput is the snapshot for a tiled skirting panel measured in linear
// meters. Zero capacity, utilization or labor rate and a nil ProfitPercent
// take the defaults.
type PanelInput struct {
	LinearMeters       float64  `json:"linearMeters"`
	TileCostPerArea    float64  `json:"tileCostPerArea"`
	UtilizationPercent float64  `json:"utilizationPercent"`
	LaborCapacity      float64  `json:"laborCapacity"`
	LaborCostPerDay    float64  `json:"laborCostPerDay"`
	ProfitPercent      *float64 `json:"profitPercent,omitempty"`
}

// PanelInputFor builds a PanelInput from a tiling catalog item.
func PanelInputFor(item CatalogItem, linearMeters float64) PanelInput {
	return PanelInput{
		LinearMeters:       linearMeters,
		TileCostPerArea:    item.MaterialCostPerUnit,
		UtilizationPercent: item.PanelUtilizationPercent,
		LaborCapacity:      item.PanelLaborCapacity,
		LaborCostPerDay:    pick(item.LaborCostPerDay, item.WorkerDailyCost),
		ProfitPercent:      item.ProfitPercent,
	}
}

// PanelResult holds whole-unit money values and days to one decimal.
type PanelResult struct {
	LinearMeters    float64 `json:"linearMeters"`
	MaterialPerLm   float64 `json:"materialPerLm"`
	WorkDays        float64 `json:"workDays"`
	MaterialCost    float64 `json:"materialCost"`
	LaborCost       float64 `json:"laborCost"`
	TotalCost       float64 `json:"totalCost"`
	TotalPrice      float64 `json:"totalPrice"`
	Profit          float64 `json:"profit"`
	PricePerLm      float64 `json:"pricePerLm"`
	UtilizationUsed float64 `json:"utilizationUsed"`
}

// EstimatePanel prices a panel run. It returns nil, nil when there are no
// meters to price.
func EstimatePanel(in PanelInput, defaults PricingDefaults) (*PanelResult, error) {
	d := defaults.Resolved()
	if !finite(in.TileCostPerArea) || in.TileCostPerArea < 0 {
		return nil, invalid("tileCostPerArea", "must be a non-negative number")
	}
	if !(in.LinearMeters > 0) || !finite(in.LinearMeters) {
		return nil, nil
	}

	util := pick(in.UtilizationPercent, d.PanelUtilizationPercent)
	capacity := pick(in.LaborCapacity, d.PanelLaborCapacity)
	rate := pick(in.LaborCostPerDay, d.LaborCostPerDay)
	profit, err := profitOr(in.ProfitPercent, d.ProfitPercent)
	if err != nil {
		return nil, err
	}

	perLm := in.TileCostPerArea * util / 100
	days := in.LinearMeters / capacity
	material := Round(perLm * in.LinearMeters)
	labor := Round(days * rate)
	cost := material + labor
	price := Round(markup(cost, profit))

	return &PanelResult{
		LinearMeters:    in.LinearMeters,
		MaterialPerLm:   perLm,
		WorkDays:        RoundTo(days, 1),
		MaterialCost:    material,
		LaborCost:       labor,
		TotalCost:       cost,
		TotalPrice:      price,
		Profit:          price - cost,
		PricePerLm:      price / in.LinearMeters,
		UtilizationUsed: util,
	}, nil
}

// LineItem converts a panel result into an aggregator line item.
func (r PanelResult) LineItem(id, categoryID, description string) LineItem {
	return LineItem{
		ID:           id,
		CategoryID:   categoryID,
		Source:       SourcePanel,
		Description:  description,
		Unit:         UnitLinearMeter,
		Quantity:     r.LinearMeters,
		UnitPrice:    r.PricePerLm,
		TotalPrice:   r.TotalPrice,
		UnitCost:     r.TotalCost / r.LinearMeters,
		TotalCost:    r.TotalCost,
		MaterialCost: r.MaterialCost,
		LaborCost:    r.LaborCost,
		WorkDuration: r.WorkDays,
	}
}

// profitOr returns the explicit profit percent, zero included, or fallback
// when none is set.
func profitOr(p *float64, fallback float64) (float64, error) {
	v, ok := deref(p)
	if !ok {
		return fallback, nil
	}
	if !finite(v) {
		return 0, invalid("profitPercent", "must be numeric")
	}
	return v, nil
}
