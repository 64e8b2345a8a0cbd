// Package quote holds the quote document and the recalculation step that
// turns a draft into line items and totals.
package quote

import (
	"fmt"
	"sort"

	"github.com/Simplici0/contractor-quote/internal/pricing"
)

// CategorySettings are per-category options of a quote.
type CategorySettings struct {
	Rounding        pricing.RoundingMode `json:"rounding,omitempty"`
	LaborCostPerDay float64              `json:"laborCostPerDay,omitempty"`
	ProfitPercent   *float64             `json:"profitPercent,omitempty"`
	Schedule        *pricing.Schedule    `json:"schedule,omitempty"`
}

// Draft is the full editable snapshot of a quote. Lines and Extras are
// inputs; Items holds the last computed line items plus manual rows.
type Draft struct {
	Title                string                      `json:"title"`
	Notes                string                      `json:"notes,omitempty"`
	Lines                []LineSpec                  `json:"lines,omitempty"`
	Extras               []pricing.ExtrasInput       `json:"extras,omitempty"`
	Items                []pricing.LineItem          `json:"items"`
	AdditionalCosts      []pricing.AdditionalCost    `json:"additionalCosts,omitempty"`
	PriceIncreasePercent float64                     `json:"priceIncreasePercent"`
	DiscountPercent      float64                     `json:"discountPercent"`
	Categories           map[string]CategorySettings `json:"categories,omitempty"`
}

// Result is a recalculated draft and everything derived from it.
type Result struct {
	Draft      Draft                       `json:"draft"`
	Totals     pricing.QuoteTotals         `json:"totals"`
	Workforce  []pricing.CategoryWorkforce `json:"workforce,omitempty"`
	Incomplete []string                    `json:"incomplete,omitempty"`
}

// Recalculate rebuilds every derived line item from its LineSpec, reconciles the
// rounding adjustment of every configured category and aggregates the result.
// Manual rows and rounding slots are carried over. d is not modified.
func Recalculate(d Draft, catalog Catalog, defaults pricing.PricingDefaults) (Result, error) {
	out := d.clone()

	var incomplete []string
	items := make([]pricing.LineItem, 0, len(d.Lines)+len(d.Items))
	for i, spec := range out.Lines {
		spec.ID = lineID(spec, i)
		out.Lines[i] = spec

		it, ok, err := PriceLine(spec, catalog, defaults)
		if err != nil {
			return Result{}, fmt.Errorf("price line %s: %w", spec.ID, err)
		}
		if !ok {
			incomplete = append(incomplete, spec.ID)
			continue
		}
		items = append(items, it)
	}
	for _, ex := range out.Extras {
		items = append(items, pricing.Extras(ex, defaults)...)
	}
	for _, it := range out.Items {
		if it.Source == pricing.SourceManual || it.IsRounding() {
			items = append(items, it)
		}
	}
	out.Items = items

	schedules := map[string]pricing.Schedule{}
	for _, id := range out.categoryIDs() {
		settings := out.Categories[id]
		out.Items, _ = pricing.Reconcile(out.Items, out.roundingConfig(id, defaults), settings.Rounding)
		if settings.Schedule != nil {
			schedules[id] = *settings.Schedule
		}
	}

	totals := pricing.Aggregate(pricing.QuoteInput{
		Items:                out.Items,
		AdditionalCosts:      out.AdditionalCosts,
		PriceIncreasePercent: out.PriceIncreasePercent,
		DiscountPercent:      out.DiscountPercent,
	}, defaults)

	return Result{
		Draft:      out,
		Totals:     totals,
		Workforce:  pricing.Workforce(totals.Categories, schedules),
		Incomplete: incomplete,
	}, nil
}

// SetRounding switches a category between exact and rounded work days and
// recalculates. Entering the rounded state always places the category's
// rounding slot, even when its days are already whole.
func SetRounding(d Draft, categoryID string, enabled bool, catalog Catalog, defaults pricing.PricingDefaults) (Result, error) {
	out := d.clone()
	settings := out.Categories[categoryID]

	if enabled {
		settings.Rounding = pricing.RoundingRounded
	} else {
		settings.Rounding = pricing.RoundingExact
	}
	out.Categories[categoryID] = settings

	return Recalculate(out, catalog, defaults)
}

func (d Draft) roundingConfig(categoryID string, defaults pricing.PricingDefaults) pricing.RoundingConfig {
	r := defaults.Resolved()
	settings := d.Categories[categoryID]

	cfg := pricing.RoundingConfig{
		CategoryID:     categoryID,
		DailyLaborRate: r.LaborCostPerDay,
		ProfitPercent:  r.ProfitPercent,
	}
	if settings.LaborCostPerDay > 0 {
		cfg.DailyLaborRate = settings.LaborCostPerDay
	}
	if settings.ProfitPercent != nil {
		cfg.ProfitPercent = *settings.ProfitPercent
	}
	return cfg
}

func (d Draft) categoryIDs() []string {
	ids := make([]string, 0, len(d.Categories))
	for id := range d.Categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d Draft) clone() Draft {
	out := d
	out.Lines = append([]LineSpec(nil), d.Lines...)
	out.Extras = append([]pricing.ExtrasInput(nil), d.Extras...)
	out.Items = append([]pricing.LineItem(nil), d.Items...)
	out.AdditionalCosts = append([]pricing.AdditionalCost(nil), d.AdditionalCosts...)
	out.Categories = make(map[string]CategorySettings, len(d.Categories))
	for k, v := range d.Categories {
		out.Categories[k] = v
	}
	return out
}
