package pricing

import (
	"math"
	"testing"
	"time"
)

func TestAggregate_MarkupBeforeDiscount(t *testing.T) {
	totals := Aggregate(QuoteInput{
		Items:                []LineItem{{ID: "a", CategoryID: "x", TotalPrice: 1000, TotalCost: 700}},
		PriceIncreasePercent: 20,
		DiscountPercent:      10,
	}, PricingDefaults{})

	nearlyEqual(t, "subtotal", totals.Subtotal, 1000)
	nearlyEqual(t, "afterMarkup", totals.AfterMarkup, 1200)
	nearlyEqual(t, "discountAmount", totals.DiscountAmount, 120)
	nearlyEqual(t, "finalTotal", totals.FinalTotal, 1080)
	nearlyEqual(t, "profit", totals.Profit, 380)
	nearlyEqual(t, "profitPercent", totals.ProfitPercent, 380.0/700*100)

	symmetric := Aggregate(QuoteInput{
		Items:                []LineItem{{ID: "a", TotalPrice: 1000}},
		PriceIncreasePercent: 10,
		DiscountPercent:      10,
	}, PricingDefaults{})
	nearlyEqual(t, "symmetric finalTotal", symmetric.FinalTotal, 990)
}

func TestAggregate_AdditionalCosts(t *testing.T) {
	totals := Aggregate(QuoteInput{
		Items: []LineItem{{ID: "a", CategoryID: "x", TotalPrice: 1000, TotalCost: 600}},
		AdditionalCosts: []AdditionalCost{
			{Description: "Permit", Cost: 500, ContractorCost: Float(300)},
			{Description: "Parking", Cost: 200},
		},
	}, PricingDefaults{})

	nearlyEqual(t, "additionalCostsTotal", totals.AdditionalCostsTotal, 700)
	nearlyEqual(t, "subtotal", totals.Subtotal, 1700)
	nearlyEqual(t, "totalContractorCost", totals.TotalContractorCost, 1100)
	nearlyEqual(t, "profit", totals.Profit, 600)
}

func TestAggregate_ZeroCostSentinel(t *testing.T) {
	totals := Aggregate(QuoteInput{Items: []LineItem{{ID: "a", TotalPrice: 50}}}, PricingDefaults{})
	nearlyEqual(t, "profitPercent", totals.ProfitPercent, 100)

	empty := Aggregate(QuoteInput{}, PricingDefaults{})
	nearlyEqual(t, "empty profitPercent", empty.ProfitPercent, 0)
	if empty.LowProfit {
		t.Fatal("an empty quote is not low profit")
	}
}

func TestAggregate_ItemsBreakdown(t *testing.T) {
	items := []LineItem{
		{ID: "p1", CategoryID: "paint", TotalPrice: 1300, TotalCost: 1000, MaterialCost: 400, LaborCost: 600, WorkDuration: 1.5},
		{ID: "d1", CategoryID: "demolition", TotalPrice: 500, TotalCost: 400, LaborCost: 400, HoursPerUnit: 4, Quantity: 2, DifficultyMultiplier: 1.5},
		{ID: "p2", CategoryID: "paint", TotalPrice: 200, TotalCost: 100, ComplexityLaborAddedCost: 50, WorkDuration: 0.5},
		{ID: "s", CategoryID: "paint", Source: SourceCategorySummary, TotalPrice: 1500, TotalCost: 1100, WorkDuration: 2},
		{ID: "r", CategoryID: "paint", Source: SourceRounding, TotalPrice: 0, WorkDuration: 0},
	}

	totals := Aggregate(QuoteInput{Items: items}, PricingDefaults{})

	nearlyEqual(t, "itemsTotal", totals.ItemsTotal, 2000)
	nearlyEqual(t, "totalContractorCost", totals.TotalContractorCost, 1550)
	nearlyEqual(t, "materialCost", totals.MaterialCost, 400)
	nearlyEqual(t, "laborCost", totals.LaborCost, 1000)
	nearlyEqual(t, "totalWorkDays", totals.TotalWorkDays, 3.5)

	if len(totals.Categories) != 2 || totals.Categories[0].CategoryID != "paint" {
		t.Fatalf("categories = %+v", totals.Categories)
	}
	paint := totals.Categories[0]
	nearlyEqual(t, "paint price", paint.TotalPrice, 1500)
	nearlyEqual(t, "paint cost", paint.TotalCost, 1150)
	nearlyEqual(t, "paint days", paint.WorkDays, 2)
	if paint.ItemCount != 3 {
		t.Fatalf("paint item count = %d, want 3", paint.ItemCount)
	}
	nearlyEqual(t, "demolition days", totals.Categories[1].WorkDays, 1.5)
}

func TestAggregate_LowProfit(t *testing.T) {
	items := []LineItem{{ID: "a", TotalPrice: 1100, TotalCost: 1000}}

	if !Aggregate(QuoteInput{Items: items}, PricingDefaults{}).LowProfit {
		t.Fatal("10% should be flagged against the 30% fallback")
	}
	if Aggregate(QuoteInput{Items: items}, PricingDefaults{LowProfitPercent: 5}).LowProfit {
		t.Fatal("10% should pass a 5% threshold")
	}
}

func TestAggregate_IgnoresNonFinite(t *testing.T) {
	items := []LineItem{
		{ID: "a", TotalPrice: 100, TotalCost: 50},
		{ID: "b", TotalPrice: math.NaN(), TotalCost: math.Inf(1)},
	}
	totals := Aggregate(QuoteInput{Items: items}, PricingDefaults{})
	nearlyEqual(t, "finalTotal", totals.FinalTotal, 100)
	nearlyEqual(t, "profitPercent", totals.ProfitPercent, 100)
}

func TestWorkforce(t *testing.T) {
	sunday := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	saturday := sunday.AddDate(0, 0, 6)

	if n := (Schedule{Start: sunday, End: saturday}).WorkingDays(); n != 5 {
		t.Fatalf("working days = %d, want 5", n)
	}

	cats := []CategoryTotals{
		{CategoryID: "paint", WorkDays: 12},
		{CategoryID: "tiles", WorkDays: 3},
		{CategoryID: "unscheduled", WorkDays: 9},
	}
	got := Workforce(cats, map[string]Schedule{
		"paint": {Start: sunday, End: saturday},
		"tiles": {Start: saturday, End: saturday},
	})

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Workers != 3 || got[0].AvailableDays != 5 {
		t.Fatalf("paint = %+v, want 3 workers over 5 days", got[0])
	}
	if got[1].Workers != 0 || got[1].AvailableDays != 0 {
		t.Fatalf("tiles = %+v, want no working days", got[1])
	}
}
