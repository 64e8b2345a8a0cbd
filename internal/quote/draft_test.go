package quote

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/Simplici0/contractor-quote/internal/pricing"
)

func testCatalog() Catalog {
	return Catalog{
		"paint": {
			ID:                "paint",
			CategoryID:        "paint",
			Name:              "Interior paint",
			Unit:              pricing.UnitArea,
			MaterialUnitPrice: 50,
			WorkerDailyCost:   400,
			ProfitPercent:     pricing.Float(30),
			LayerSettings: []pricing.LayerSetting{
				{Coverage: 10, DailyOutput: 20},
				{CoverageChangePercent: 20, OutputChangePercent: 20},
			},
		},
		"pipe": {
			ID:                  "pipe",
			CategoryID:          "plumbing",
			Name:                "Pipe run",
			Unit:                pricing.UnitLinearMeter,
			MaterialCostPerUnit: 40,
			LaborRatePerUnit:    pricing.Float(10),
			ProfitPercent:       pricing.Float(20),
		},
		"valve": {
			ID:                  "valve",
			CategoryID:          "plumbing",
			Name:                "Valve",
			Unit:                pricing.UnitPiece,
			MaterialCostPerUnit: 30,
		},
		"wall-demo": {
			ID:              "wall-demo",
			CategoryID:      "demolition",
			Name:            "Wall removal",
			Unit:            pricing.UnitArea,
			HoursPerUnit:    4,
			LaborCostPerDay: 800,
			ProfitPercent:   pricing.Float(25),
		},
	}
}

func testDraft() Draft {
	return Draft{
		Title: "Apartment 3B",
		Lines: []LineSpec{
			{ID: "l1", Model: ModelCoverage, ItemID: "paint", Area: 100, Layers: 2, RoundMaterialUnits: true},
			{ID: "l2", Model: ModelDifficulty, ItemID: "wall-demo", Quantity: 3, Difficulty: "hard"},
		},
		Items: []pricing.LineItem{
			{ID: "m1", CategoryID: "misc", Source: pricing.SourceManual, TotalPrice: 500, TotalCost: 400},
			{ID: "stale", CategoryID: "paint", Source: pricing.SourceCatalog, TotalPrice: 9999},
		},
		PriceIncreasePercent: 10,
		DiscountPercent:      5,
	}
}

func TestRecalculate_PricesLinesAndAggregates(t *testing.T) {
	d := testDraft()
	res, err := Recalculate(d, testCatalog(), pricing.PricingDefaults{})
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	ids := make([]string, 0, len(res.Draft.Items))
	for _, it := range res.Draft.Items {
		ids = append(ids, it.ID)
	}
	if !reflect.DeepEqual(ids, []string{"l1", "l2", "m1"}) {
		t.Fatalf("item ids = %v", ids)
	}

	paint := res.Draft.Items[0]
	cost := 19*50 + (5+100.0/24)*400
	if math.Abs(paint.TotalPrice-cost*1.3) > 1e-9 {
		t.Fatalf("paint price = %v, want %v", paint.TotalPrice, cost*1.3)
	}
	demo := res.Draft.Items[1]
	if demo.TotalPrice != 2250 || demo.WorkDuration != 2.25 {
		t.Fatalf("demolition item = %+v", demo)
	}

	subtotal := paint.TotalPrice + 2250 + 500
	if math.Abs(res.Totals.Subtotal-subtotal) > 1e-9 {
		t.Fatalf("subtotal = %v, want %v", res.Totals.Subtotal, subtotal)
	}
	if math.Abs(res.Totals.FinalTotal-subtotal*1.1*0.95) > 1e-6 {
		t.Fatalf("finalTotal = %v", res.Totals.FinalTotal)
	}
	if len(d.Items) != 2 || d.Items[1].ID != "stale" {
		t.Fatal("input draft was modified")
	}
}

func TestRecalculate_RoundedCategoryIsStable(t *testing.T) {
	d := testDraft()
	d.Categories = map[string]CategorySettings{"paint": {Rounding: pricing.RoundingRounded}}

	first, err := Recalculate(d, testCatalog(), pricing.PricingDefaults{})
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	adj, ok := pricing.Adjustment(first.Draft.Items, "paint")
	if !ok {
		t.Fatal("rounded category has no adjustment")
	}
	if adj.TotalCost != 833 || math.Abs(adj.WorkDuration-(10-5-100.0/24)) > 1e-9 {
		t.Fatalf("adjustment = %+v", adj)
	}
	for _, c := range first.Totals.Categories {
		if c.CategoryID == "paint" && math.Abs(c.WorkDays-10) > 1e-9 {
			t.Fatalf("paint days = %v, want 10", c.WorkDays)
		}
	}

	second, err := Recalculate(first.Draft, testCatalog(), pricing.PricingDefaults{})
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recalculation drifted:\n%+v\n%+v", first.Draft.Items, second.Draft.Items)
	}
}

func TestSetRounding_Transitions(t *testing.T) {
	res, err := SetRounding(testDraft(), "demolition", true, testCatalog(), pricing.PricingDefaults{})
	if err != nil {
		t.Fatalf("SetRounding on: %v", err)
	}
	adj, _ := pricing.Adjustment(res.Draft.Items, "demolition")
	if adj.WorkDuration != 0.75 {
		t.Fatalf("adjustment days = %v, want 0.75", adj.WorkDuration)
	}
	if res.Draft.Categories["demolition"].Rounding != pricing.RoundingRounded {
		t.Fatal("category not marked rounded")
	}

	res, err = SetRounding(res.Draft, "demolition", false, testCatalog(), pricing.PricingDefaults{})
	if err != nil {
		t.Fatalf("SetRounding off: %v", err)
	}
	adj, ok := pricing.Adjustment(res.Draft.Items, "demolition")
	if !ok || adj.WorkDuration != 0 || adj.TotalPrice != 0 {
		t.Fatalf("adjustment after disable = %+v (present=%v)", adj, ok)
	}
}

func TestRecalculate_IncompleteAndErrors(t *testing.T) {
	d := testDraft()
	d.Lines = append(d.Lines, LineSpec{Model: ModelCoverage, ItemID: "paint", Layers: 2})

	res, err := Recalculate(d, testCatalog(), pricing.PricingDefaults{})
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if !reflect.DeepEqual(res.Incomplete, []string{"line:2"}) {
		t.Fatalf("incomplete = %v", res.Incomplete)
	}

	d = testDraft()
	d.Lines = append(d.Lines, LineSpec{ID: "bad", ItemID: "nope", Quantity: 1})
	_, err = Recalculate(d, testCatalog(), pricing.PricingDefaults{})
	var unknown *ErrUnknownItem
	if !errors.As(err, &unknown) || unknown.ItemID != "nope" {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}

	d = testDraft()
	d.Lines = append(d.Lines, LineSpec{
		ID:       "neg",
		Model:    ModelUnit,
		Item:     &pricing.CatalogItem{CategoryID: "misc", MaterialCostPerUnit: -5, LaborRatePerUnit: pricing.Float(0)},
		Quantity: 1,
	})
	if _, err := Recalculate(d, testCatalog(), pricing.PricingDefaults{}); !errors.Is(err, pricing.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	d = testDraft()
	d.Lines = append(d.Lines, LineSpec{ID: "m", Model: "metric", ItemID: "pipe", Quantity: 1})
	if _, err := Recalculate(d, testCatalog(), pricing.PricingDefaults{}); !errors.Is(err, pricing.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for an unknown model", err)
	}
}

func TestRecalculate_UnfilledUnitLinesAreIncomplete(t *testing.T) {
	d := Draft{Lines: []LineSpec{
		{ID: "a", ItemID: "pipe", Quantity: 2},
		{ID: "b", ItemID: "pipe"},
		{ID: "c", ItemID: "pipe", Quantity: -1},
		{ID: "d", ItemID: "valve", Quantity: 3},
	}}

	res, err := Recalculate(d, testCatalog(), pricing.PricingDefaults{})
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if !reflect.DeepEqual(res.Incomplete, []string{"b", "c", "d"}) {
		t.Fatalf("incomplete = %v", res.Incomplete)
	}
	if len(res.Draft.Items) != 1 || res.Draft.Items[0].ID != "a" {
		t.Fatalf("items = %+v", res.Draft.Items)
	}
	if res.Totals.FinalTotal != 120 {
		t.Fatalf("finalTotal = %v, want 120", res.Totals.FinalTotal)
	}
	if len(res.Draft.Lines) != 4 {
		t.Fatalf("lines = %+v, incomplete lines must be kept", res.Draft.Lines)
	}
}

func TestRecalculate_ExtrasAndInlineItems(t *testing.T) {
	d := Draft{
		Lines: []LineSpec{{
			ID:       "tiles",
			Model:    ModelTiling,
			Area:     25,
			Item:     &pricing.CatalogItem{CategoryID: "tiling", Name: "Floor", MaterialCostPerUnit: 100, AdditionalCostPerUnit: 20, WastagePercent: 10, DailyOutput: 10, LaborCostPerDay: 800},
		}},
		Extras: []pricing.ExtrasInput{{CategoryID: "tiling", ContainerCost: 600}},
	}

	res, err := Recalculate(d, nil, pricing.PricingDefaults{})
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if len(res.Draft.Items) != 2 {
		t.Fatalf("items = %+v", res.Draft.Items)
	}
	if res.Totals.ItemsTotal != 7345+780 {
		t.Fatalf("itemsTotal = %v", res.Totals.ItemsTotal)
	}
}
