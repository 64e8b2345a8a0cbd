package pricing

import "sort"

// PriceSource records which rule produced a unit price.
type PriceSource string

const (
	PriceFromOverride PriceSource = "override"
	PriceFromTier     PriceSource = "tier"
	PriceFromMarkup   PriceSource = "markup"
)

// ProfitPercent is a margin over cost. When cost is zero and price is
// positive the margin is unbounded; Value then holds the configured cap so it
// stays finite in downstream arithmetic.
type ProfitPercent struct {
	Value     float64 `json:"value"`
	Unbounded bool    `json:"unbounded,omitempty"`
}

// UnitQuote is the UnitCostModel result for one catalog item and quantity.
type UnitQuote struct {
	Quantity      float64       `json:"quantity"`
	UnitCost      float64       `json:"unitCost"`
	TotalCost     float64       `json:"totalCost"`
	UnitPrice     float64       `json:"unitPrice"`
	TotalPrice    float64       `json:"totalPrice"`
	Profit        float64       `json:"profit"`
	ProfitPercent ProfitPercent `json:"profitPercent"`
	PriceSource   PriceSource   `json:"priceSource"`

	// Cost breakdown over the whole quantity. All zero when the unit cost
	// came from a manual override.
	MaterialCost   float64 `json:"materialCost"`
	LaborCost      float64 `json:"laborCost"`
	AdditionalCost float64 `json:"additionalCost"`
}

// PriceItem computes cost, price and profit for quantity units of item.
// Money values are rounded to cents at the output boundary.
func PriceItem(item CatalogItem, quantity float64, defaults PricingDefaults) (UnitQuote, error) {
	if !finite(quantity) || quantity <= 0 {
		return UnitQuote{}, invalid("quantity", "must be greater than zero")
	}
	d := defaults.Resolved()

	parts, err := unitCostOf(item)
	if err != nil {
		return UnitQuote{}, err
	}
	unitCost := parts.total()

	profitPct := d.ProfitPercent
	if v, ok := deref(item.ProfitPercent); ok {
		if !finite(v) {
			return UnitQuote{}, invalid("profitPercent", "must be numeric")
		}
		profitPct = v
	}

	var unitPrice float64
	var source PriceSource
	if v, ok := deref(item.OverrideUnitPrice); ok {
		if !finite(v) || v < 0 {
			return UnitQuote{}, invalid("overrideUnitPrice", "must be a non-negative number")
		}
		unitPrice, source = v, PriceFromOverride
	} else if len(item.PriceTiers) > 0 {
		if err := validateTiers(item.PriceTiers); err != nil {
			return UnitQuote{}, err
		}
		tier := SelectTier(item.PriceTiers, quantity)
		unitPrice, source = tier.Price, PriceFromTier
	} else {
		unitPrice, source = markup(unitCost, profitPct), PriceFromMarkup
	}

	totalCost := RoundTo(unitCost*quantity, 2)
	totalPrice := RoundTo(unitPrice*quantity, 2)

	return UnitQuote{
		Quantity:      quantity,
		UnitCost:      RoundTo(unitCost, 2),
		TotalCost:     totalCost,
		UnitPrice:     RoundTo(unitPrice, 2),
		TotalPrice:    totalPrice,
		Profit:        RoundTo(totalPrice-totalCost, 2),
		ProfitPercent: MarginOverCost(totalCost, totalPrice, d.ProfitPercentCap),
		PriceSource:   source,

		MaterialCost:   RoundTo(parts.material*quantity, 2),
		LaborCost:      RoundTo(parts.labor*quantity, 2),
		AdditionalCost: RoundTo(parts.additional*quantity, 2),
	}, nil
}

// LineItem converts a unit quote into an aggregator line item.
func (q UnitQuote) LineItem(id string, item CatalogItem) LineItem {
	return LineItem{
		ID:             id,
		CategoryID:     item.CategoryID,
		Source:         SourceCatalog,
		Description:    item.Name,
		Unit:           item.Unit,
		Quantity:       q.Quantity,
		UnitPrice:      q.UnitPrice,
		TotalPrice:     q.TotalPrice,
		UnitCost:       q.UnitCost,
		TotalCost:      q.TotalCost,
		MaterialCost:   q.MaterialCost,
		LaborCost:      q.LaborCost,
		AdditionalCost: q.AdditionalCost,
	}
}

// MarginOverCost reports (price-cost)/cost as a percentage. A zero cost with a
// positive price is flagged unbounded and reported as capValue.
func MarginOverCost(cost, price, capValue float64) ProfitPercent {
	if cost > 0 {
		return ProfitPercent{Value: RoundTo((price-cost)/cost*100, 2)}
	}
	if price > 0 {
		return ProfitPercent{Value: capValue, Unbounded: true}
	}
	return ProfitPercent{}
}

// SelectTier returns the first tier, in ascending MinQuantity order, whose
// inclusive band contains quantity. When none matches, the first tier wins.
// tiers must not be empty.
func SelectTier(tiers []PriceTier, quantity float64) PriceTier {
	sorted := append([]PriceTier(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})
	for _, t := range sorted {
		if quantity >= t.MinQuantity && (t.MaxQuantity == 0 || quantity <= t.MaxQuantity) {
			return t
		}
	}
	return sorted[0]
}

type costParts struct {
	override   float64
	isOverride bool
	material   float64
	labor      float64
	additional float64
}

func (p costParts) total() float64 {
	if p.isOverride {
		return p.override
	}
	return p.material + p.labor + p.additional
}

func unitCostOf(item CatalogItem) (costParts, error) {
	if v, ok := deref(item.OverrideUnitCost); ok {
		if !finite(v) || v < 0 {
			return costParts{}, invalid("overrideUnitCost", "must be a non-negative number")
		}
		return costParts{override: v, isOverride: true}, nil
	}

	if !finite(item.MaterialCostPerUnit) || item.MaterialCostPerUnit < 0 {
		return costParts{}, invalid("materialCostPerUnit", "must be a non-negative number")
	}
	if !finite(item.AdditionalCostPerUnit) || item.AdditionalCostPerUnit < 0 {
		return costParts{}, invalid("additionalCostPerUnit", "must be a non-negative number")
	}

	labor, err := laborCostPerUnit(item)
	if err != nil {
		return costParts{}, err
	}
	return costParts{
		material:   item.MaterialCostPerUnit,
		labor:      labor,
		additional: item.AdditionalCostPerUnit,
	}, nil
}

func laborCostPerUnit(item CatalogItem) (float64, error) {
	if v, ok := deref(item.LaborRatePerUnit); ok {
		if !finite(v) || v < 0 {
			return 0, invalid("laborRatePerUnit", "must be a non-negative number")
		}
		return v, nil
	}
	if item.WorkerDailyCost > 0 && item.DailyOutput > 0 && finite(item.WorkerDailyCost) && finite(item.DailyOutput) {
		return item.WorkerDailyCost / item.DailyOutput, nil
	}
	return 0, invalid("laborRatePerUnit", "is required unless workerDailyCost and dailyOutput are set")
}

func validateTiers(tiers []PriceTier) error {
	for _, t := range tiers {
		if !finite(t.Price) || t.Price < 0 {
			return invalid("priceTiers", "price must be a non-negative number")
		}
		if t.MaxQuantity != 0 && t.MaxQuantity < t.MinQuantity {
			return invalid("priceTiers", "maxQuantity must not be below minQuantity")
		}
	}
	return nil
}
