package pricing

import "math"

// RoundingEpsilon is the day difference below which an adjustment is not
// replaced.
const RoundingEpsilon = 1e-3

// RoundingMode is the per-category reconciler state.
type RoundingMode string

const (
	RoundingExact   RoundingMode = "exact"
	RoundingRounded RoundingMode = "rounded"
)

// RoundingConfig prices a category's adjustment item.
type RoundingConfig struct {
	CategoryID     string  `json:"categoryId"`
	Description    string  `json:"description,omitempty"`
	DailyLaborRate float64 `json:"dailyLaborRate"`
	ProfitPercent  float64 `json:"profitPercent"`
}

// RawDays sums the work days of a category, leaving out its adjustment item
// and display-only summary rows.
func RawDays(items []LineItem, categoryID string) float64 {
	var days float64
	for _, it := range items {
		if it.CategoryID != categoryID || it.IsRounding() || it.Source == SourceCategorySummary {
			continue
		}
		days += it.workDays()
	}
	return days
}

// RoundingTarget is the whole number of days a rounded category is pinned to.
func RoundingTarget(rawDays float64) float64 {
	return math.Max(1, ceilUnits(rawDays))
}

// BuildAdjustment returns the adjustment item covering diff days. Days are
// kept exact so the category lands on a whole number; money is rounded to
// whole units. A diff of zero or less yields the zero-valued item, which
// contributes nothing.
func BuildAdjustment(cfg RoundingConfig, diff float64) LineItem {
	days := math.Max(0, diff)
	if !finite(days) || days < 1e-9 {
		days = 0
	}
	cost := Round(days * cfg.DailyLaborRate)
	price := Round(markup(cost, cfg.ProfitPercent))

	desc := cfg.Description
	if desc == "" {
		desc = "Work day rounding"
	}
	item := LineItem{
		ID:           RoundingItemID(cfg.CategoryID),
		CategoryID:   cfg.CategoryID,
		Source:       SourceRounding,
		Description:  desc,
		Unit:         UnitDay,
		Quantity:     days,
		TotalPrice:   price,
		TotalCost:    cost,
		LaborCost:    cost,
		WorkDuration: days,
	}
	if days > 0 {
		item.UnitPrice = Round(price / days)
		item.UnitCost = Round(cost / days)
	}
	return item
}

// Adjustment returns the current adjustment item of a category, if any.
func Adjustment(items []LineItem, categoryID string) (LineItem, bool) {
	for _, it := range items {
		if it.IsRounding() && it.CategoryID == categoryID {
			return it, true
		}
	}
	return LineItem{}, false
}

// UpsertRounding puts adj in its category's reserved rounding slot. The slot
// is found by tag and category, and any duplicates are collapsed into it.
func UpsertRounding(items []LineItem, adj LineItem) []LineItem {
	out := make([]LineItem, 0, len(items)+1)
	placed := false
	for _, it := range items {
		if it.IsRounding() && it.CategoryID == adj.CategoryID {
			if !placed {
				out = append(out, adj)
				placed = true
			}
			continue
		}
		out = append(out, it)
	}
	if !placed {
		out = append(out, adj)
	}
	return out
}

// EnableRounding moves a category to the Rounded state by placing an
// adjustment that lifts its days to the next whole day.
func EnableRounding(items []LineItem, cfg RoundingConfig) []LineItem {
	raw := RawDays(items, cfg.CategoryID)
	return UpsertRounding(items, BuildAdjustment(cfg, RoundingTarget(raw)-raw))
}

// DisableRounding moves a category to the Exact state. The slot keeps a
// zero-valued item.
func DisableRounding(items []LineItem, cfg RoundingConfig) []LineItem {
	return UpsertRounding(items, BuildAdjustment(cfg, 0))
}

// RecomputeRounding refreshes the adjustment of a Rounded category after its
// items changed. The slot is replaced only when the day difference moved by
// more than RoundingEpsilon or the adjustment's price changed; otherwise items
// is returned as is and changed is false.
func RecomputeRounding(items []LineItem, cfg RoundingConfig) (out []LineItem, changed bool) {
	raw := RawDays(items, cfg.CategoryID)
	want := BuildAdjustment(cfg, RoundingTarget(raw)-raw)

	cur, ok := Adjustment(items, cfg.CategoryID)
	if ok && math.Abs(want.WorkDuration-cur.WorkDuration) <= RoundingEpsilon &&
		want.TotalCost == cur.TotalCost && want.TotalPrice == cur.TotalPrice {
		return items, false
	}
	return UpsertRounding(items, want), true
}

// Reconcile brings a category's adjustment in line with mode.
func Reconcile(items []LineItem, cfg RoundingConfig, mode RoundingMode) (out []LineItem, changed bool) {
	if mode == RoundingRounded {
		return RecomputeRounding(items, cfg)
	}
	cur, ok := Adjustment(items, cfg.CategoryID)
	if !ok || (cur.WorkDuration == 0 && cur.TotalCost == 0 && cur.TotalPrice == 0) {
		return items, false
	}
	return DisableRounding(items, cfg), true
}
