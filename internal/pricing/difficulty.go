package pricing

// DifficultyQuote is the per-unit and total pricing of an hours-based item
// under one difficulty level. Values are exact; LineItem rounds them.
type DifficultyQuote struct {
	Quantity     float64 `json:"quantity"`
	Multiplier   float64 `json:"multiplier"`
	HoursPerUnit float64 `json:"hoursPerUnit"`

	BaseUnitCost  float64 `json:"baseUnitCost"`
	BaseUnitPrice float64 `json:"baseUnitPrice"`
	UnitCost      float64 `json:"unitCost"`
	UnitPrice     float64 `json:"unitPrice"`
	TotalCost     float64 `json:"totalCost"`
	TotalPrice    float64 `json:"totalPrice"`
	Profit        float64 `json:"profit"`

	ProfitPercent ProfitPercent `json:"profitPercent"`

	UnitHours  float64 `json:"unitHours"`
	TotalHours float64 `json:"totalHours"`
	WorkDays   float64 `json:"workDays"`
}

// PriceDifficulty prices quantity units of an hours-based item (demolition,
// custom work) at the given difficulty. Quantity is clamped to at least 1.
func PriceDifficulty(item CatalogItem, quantity float64, difficulty DifficultyFactor, defaults PricingDefaults) (DifficultyQuote, error) {
	d := defaults.Resolved()

	mult, err := difficultyMultiplier(difficulty.Multiplier)
	if err != nil {
		return DifficultyQuote{}, err
	}
	if !finite(quantity) || quantity < 1 {
		quantity = 1
	}

	hours := pick(item.HoursPerUnit, d.HoursPerUnit)
	dailyRate := pick(item.LaborCostPerDay, item.WorkerDailyCost, d.LaborCostPerDay)

	profitPct := d.ProfitPercent
	if v, ok := deref(item.ProfitPercent); ok {
		if !finite(v) {
			return DifficultyQuote{}, invalid("profitPercent", "must be numeric")
		}
		profitPct = v
	}

	baseCost := dailyRate / WorkdayHours * hours
	if v, ok := deref(item.OverrideUnitCost); ok {
		if !finite(v) || v < 0 {
			return DifficultyQuote{}, invalid("overrideUnitCost", "must be a non-negative number")
		}
		baseCost = v
	}
	basePrice := markup(baseCost, profitPct)
	if v, ok := deref(item.OverrideUnitPrice); ok {
		if !finite(v) || v < 0 {
			return DifficultyQuote{}, invalid("overrideUnitPrice", "must be a non-negative number")
		}
		basePrice = v
	}

	unitCost := baseCost * mult
	unitPrice := basePrice * mult
	totalCost := unitCost * quantity
	totalPrice := unitPrice * quantity
	unitHours := hours * mult
	totalHours := unitHours * quantity

	return DifficultyQuote{
		Quantity:      quantity,
		Multiplier:    mult,
		HoursPerUnit:  hours,
		BaseUnitCost:  baseCost,
		BaseUnitPrice: basePrice,
		UnitCost:      unitCost,
		UnitPrice:     unitPrice,
		TotalCost:     totalCost,
		TotalPrice:    totalPrice,
		Profit:        totalPrice - totalCost,
		ProfitPercent: MarginOverCost(totalCost, totalPrice, d.ProfitPercentCap),
		UnitHours:     unitHours,
		TotalHours:    totalHours,
		WorkDays:      totalHours / WorkdayHours,
	}, nil
}

// LineItem rounds the quote to whole currency units and work days to two
// decimals. All contractor cost of these items is labor.
func (q DifficultyQuote) LineItem(id string, item CatalogItem) LineItem {
	totalCost := Round(q.TotalCost)
	return LineItem{
		ID:                   id,
		CategoryID:           item.CategoryID,
		Source:               SourceDifficulty,
		Description:          item.Name,
		Unit:                 item.Unit,
		Quantity:             q.Quantity,
		UnitPrice:            Round(q.UnitPrice),
		TotalPrice:           Round(q.TotalPrice),
		UnitCost:             Round(q.UnitCost),
		TotalCost:            totalCost,
		LaborCost:            totalCost,
		WorkDuration:         RoundTo(q.WorkDays, 2),
		DifficultyMultiplier: q.Multiplier,
		HoursPerUnit:         q.HoursPerUnit,
	}
}
