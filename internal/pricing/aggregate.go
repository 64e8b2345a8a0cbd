package pricing

import "time"

// AdditionalCost is a project-level flat cost. Cost is what the client pays;
// ContractorCost is what it costs the contractor and defaults to Cost.
type AdditionalCost struct {
	Description    string   `json:"description"`
	Cost           float64  `json:"cost"`
	ContractorCost *float64 `json:"contractorCost,omitempty"`
}

func (a AdditionalCost) contractorCost() float64 {
	if v, ok := deref(a.ContractorCost); ok {
		return num(v)
	}
	return num(a.Cost)
}

// QuoteInput is everything the aggregator reads.
type QuoteInput struct {
	Items                []LineItem       `json:"items"`
	AdditionalCosts      []AdditionalCost `json:"additionalCosts,omitempty"`
	PriceIncreasePercent float64          `json:"priceIncreasePercent"`
	DiscountPercent      float64          `json:"discountPercent"`
}

// CategoryTotals is one category's share of the quote before project-level
// adjustments.
type CategoryTotals struct {
	CategoryID    string  `json:"categoryId"`
	TotalPrice    float64 `json:"totalPrice"`
	TotalCost     float64 `json:"totalCost"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
	WorkDays      float64 `json:"workDays"`
	ItemCount     int     `json:"itemCount"`
}

// QuoteTotals is the aggregator result.
type QuoteTotals struct {
	ItemsTotal           float64 `json:"itemsTotal"`
	AdditionalCostsTotal float64 `json:"additionalCostsTotal"`
	Subtotal             float64 `json:"subtotal"`
	AfterMarkup          float64 `json:"afterMarkup"`
	DiscountAmount       float64 `json:"discountAmount"`
	FinalTotal           float64 `json:"finalTotal"`
	TotalContractorCost  float64 `json:"totalContractorCost"`
	Profit               float64 `json:"profit"`
	ProfitPercent        float64 `json:"profitPercent"`
	TotalWorkDays        float64 `json:"totalWorkDays"`

	MaterialCost float64 `json:"materialCost"`
	LaborCost    float64 `json:"laborCost"`
	LowProfit    bool    `json:"lowProfit"`

	Categories []CategoryTotals `json:"categories"`
}

// Aggregate turns line items and project-level costs into quote totals.
// Markup is applied to the subtotal first, then the discount to the marked-up
// amount. Category summary rows are skipped.
func Aggregate(in QuoteInput, defaults PricingDefaults) QuoteTotals {
	d := defaults.Resolved()

	var t QuoteTotals
	var itemsCost float64
	index := map[string]int{}
	for _, it := range in.Items {
		if it.Source == SourceCategorySummary {
			continue
		}
		price := num(it.TotalPrice)
		cost := num(it.TotalCost) + num(it.ComplexityLaborAddedCost)
		days := num(it.workDays())

		t.ItemsTotal += price
		itemsCost += cost
		t.TotalWorkDays += days
		t.MaterialCost += num(it.MaterialCost)
		t.LaborCost += num(it.LaborCost)

		i, ok := index[it.CategoryID]
		if !ok {
			i = len(t.Categories)
			index[it.CategoryID] = i
			t.Categories = append(t.Categories, CategoryTotals{CategoryID: it.CategoryID})
		}
		c := &t.Categories[i]
		c.TotalPrice += price
		c.TotalCost += cost
		c.WorkDays += days
		c.ItemCount++
	}
	for i := range t.Categories {
		c := &t.Categories[i]
		c.Profit = c.TotalPrice - c.TotalCost
		c.ProfitPercent = profitOverCost(c.Profit, c.TotalCost, c.TotalPrice)
	}

	var additionalCost float64
	for _, a := range in.AdditionalCosts {
		t.AdditionalCostsTotal += num(a.Cost)
		additionalCost += a.contractorCost()
	}

	t.Subtotal = t.ItemsTotal + t.AdditionalCostsTotal
	t.AfterMarkup = markup(t.Subtotal, num(in.PriceIncreasePercent))
	t.DiscountAmount = t.AfterMarkup * num(in.DiscountPercent) / 100
	t.FinalTotal = t.AfterMarkup - t.DiscountAmount

	t.TotalContractorCost = itemsCost + additionalCost
	t.Profit = t.FinalTotal - t.TotalContractorCost
	t.ProfitPercent = profitOverCost(t.Profit, t.TotalContractorCost, t.FinalTotal)
	t.LowProfit = t.FinalTotal > 0 && t.ProfitPercent < d.LowProfitPercent
	return t
}

// profitOverCost is the aggregate margin. A zero cost with a positive total
// reports a flat 100.
func profitOverCost(profit, cost, total float64) float64 {
	if cost > 0 {
		return profit / cost * 100
	}
	if total > 0 {
		return 100
	}
	return 0
}

func num(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}

// Schedule is the planned date range of a category, both ends inclusive.
type Schedule struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WorkingDays counts Sunday through Thursday dates in the schedule.
func (s Schedule) WorkingDays() int {
	if s.Start.IsZero() || s.End.IsZero() {
		return 0
	}
	start := truncateDay(s.Start)
	end := truncateDay(s.End)
	n := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd != time.Friday && wd != time.Saturday {
			n++
		}
	}
	return n
}

// CategoryWorkforce is the crew size needed to finish a category on schedule.
type CategoryWorkforce struct {
	CategoryID    string  `json:"categoryId"`
	WorkDays      float64 `json:"workDays"`
	AvailableDays int     `json:"availableDays"`
	Workers       int     `json:"workers"`
}

// Workforce computes workers = ceil(work days / available days) for every
// category that has a schedule. Categories without one are left out.
func Workforce(categories []CategoryTotals, schedules map[string]Schedule) []CategoryWorkforce {
	var out []CategoryWorkforce
	for _, c := range categories {
		s, ok := schedules[c.CategoryID]
		if !ok {
			continue
		}
		w := CategoryWorkforce{
			CategoryID:    c.CategoryID,
			WorkDays:      c.WorkDays,
			AvailableDays: s.WorkingDays(),
		}
		if w.AvailableDays > 0 && c.WorkDays > 0 {
			w.Workers = int(ceilUnits(c.WorkDays / float64(w.AvailableDays)))
		}
		out = append(out, w)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
