package pricing

import (
	"errors"
	"reflect"
	"testing"
)

func paintInput() CoverageInput {
	return CoverageInput{
		Area:   100,
		Layers: 2,
		LayerSettings: []LayerSetting{
			{Coverage: 10, DailyOutput: 20},
			{CoverageChangePercent: 20, OutputChangePercent: 20},
		},
		MaterialUnitPrice:    50,
		DailyLaborRate:       400,
		DifficultyMultiplier: 1,
		ProfitPercent:        30,
	}
}

func TestEstimateCoverage_TwoLayerScenario(t *testing.T) {
	in := paintInput()
	in.RoundMaterialUnits = true

	res, err := EstimateCoverage(in)
	if err != nil {
		t.Fatalf("EstimateCoverage: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}

	nearlyEqual(t, "layer0 units", res.Layers[0].MaterialUnits, 10)
	nearlyEqual(t, "layer1 coverage", res.Layers[1].Coverage, 12)
	nearlyEqual(t, "layer1 units", res.Layers[1].MaterialUnits, 100.0/12)
	nearlyEqual(t, "units exact", res.MaterialUnitsExact, 10+100.0/12)
	nearlyEqual(t, "units rounded", res.MaterialUnits, 19)

	nearlyEqual(t, "layer0 days", res.Layers[0].LaborDays, 5)
	nearlyEqual(t, "layer1 output", res.Layers[1].DailyOutput, 24)
	nearlyEqual(t, "layer1 days", res.Layers[1].LaborDays, 100.0/24)
	exactDays := 5 + 100.0/24
	nearlyEqual(t, "days exact", res.LaborDaysExact, exactDays)
	nearlyEqual(t, "days kept fractional", res.LaborDays, exactDays)

	cost := 19*50 + exactDays*400
	nearlyEqual(t, "totalCost", res.TotalCost, cost)
	nearlyEqual(t, "sellingPrice", res.SellingPrice, cost*1.3)
	nearlyEqual(t, "profitPercent", res.ProfitPercent, 30)
	nearlyEqual(t, "costPerArea", res.CostPerArea, cost/100)
	nearlyEqual(t, "pricePerArea", res.PricePerArea, cost*1.3/100)
}

func TestEstimateCoverage_RoundingFlags(t *testing.T) {
	cases := []struct {
		name          string
		units, days   bool
		wantTotalCost float64
	}{
		{"both exact", false, false, (10+100.0/12)*50 + (5+100.0/24)*400},
		{"days rounded", false, true, (10+100.0/12)*50 + 10*400},
		{"both rounded", true, true, 19*50 + 10*400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := paintInput()
			in.RoundMaterialUnits = tc.units
			in.RoundLaborDays = tc.days

			res, err := EstimateCoverage(in)
			if err != nil || res == nil {
				t.Fatalf("EstimateCoverage: %v, %v", res, err)
			}
			nearlyEqual(t, "totalCost", res.TotalCost, tc.wantTotalCost)
			nearlyEqual(t, "sellingPrice", res.SellingPrice, tc.wantTotalCost*1.3)
		})
	}
}

func TestEstimateCoverage_PerAreaUsesInputArea(t *testing.T) {
	in := paintInput()
	in.RoundMaterialUnits = true
	in.RoundLaborDays = true

	res, err := EstimateCoverage(in)
	if err != nil || res == nil {
		t.Fatalf("EstimateCoverage: %v, %v", res, err)
	}
	nearlyEqual(t, "costPerArea", res.CostPerArea, 4950.0/100)
	nearlyEqual(t, "profitPerArea", res.ProfitPerArea, (4950*1.3-4950)/100)
}

func TestEstimateCoverage_DifficultyAndExtras(t *testing.T) {
	in := paintInput()
	in.RoundMaterialUnits = true
	in.RoundLaborDays = true
	in.EquipmentCost = 50
	in.CleaningCostPerArea = 1
	in.PreparationCostPerArea = 2
	in.DifficultyMultiplier = 1.5

	res, err := EstimateCoverage(in)
	if err != nil || res == nil {
		t.Fatalf("EstimateCoverage: %v, %v", res, err)
	}
	want := (19*50 + 10*400 + 50 + 3*100) * 1.5
	nearlyEqual(t, "totalCost", res.TotalCost, want)
	nearlyEqual(t, "components sum", res.MaterialCost+res.LaborCost+res.EquipmentCost+res.AreaCosts, want)
	nearlyEqual(t, "profitPercent under difficulty", res.ProfitPercent, 30)
}

func TestEstimateCoverage_SkipsNonPositiveLayer(t *testing.T) {
	in := paintInput()
	in.LayerSettings[1] = LayerSetting{CoverageChangePercent: -100}

	res, err := EstimateCoverage(in)
	if err != nil || res == nil {
		t.Fatalf("EstimateCoverage: %v, %v", res, err)
	}
	if !res.Layers[1].Skipped {
		t.Fatal("layer 1 should be marked skipped")
	}
	nearlyEqual(t, "units", res.MaterialUnitsExact, 10)
	nearlyEqual(t, "days", res.LaborDaysExact, 10)
}

func TestEstimateCoverage_Incomplete(t *testing.T) {
	cases := []struct {
		name string
		edit func(*CoverageInput)
	}{
		{"zero base coverage", func(in *CoverageInput) { in.LayerSettings[0].Coverage = 0 }},
		{"zero base output", func(in *CoverageInput) { in.LayerSettings[0].DailyOutput = 0 }},
		{"no layers stored", func(in *CoverageInput) { in.LayerSettings = nil }},
		{"zero bucket price", func(in *CoverageInput) { in.MaterialUnitPrice = 0 }},
		{"zero worker day cost", func(in *CoverageInput) { in.DailyLaborRate = 0 }},
		{"zero area", func(in *CoverageInput) { in.Area = 0 }},
		{"zero layer count", func(in *CoverageInput) { in.Layers = 0 }},
		{"zero profit", func(in *CoverageInput) { in.ProfitPercent = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := paintInput()
			tc.edit(&in)
			res, err := EstimateCoverage(in)
			if err != nil {
				t.Fatalf("err = %v, want nil", err)
			}
			if res != nil {
				t.Fatalf("res = %+v, want nil", res)
			}
		})
	}
}

func TestEstimateCoverage_MalformedLayers(t *testing.T) {
	in := paintInput()
	in.LayerSettings[1].Coverage = 12

	if _, err := EstimateCoverage(in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	in = paintInput()
	in.DifficultyMultiplier = 0.5
	if _, err := EstimateCoverage(in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestEstimateCoverage_Idempotent(t *testing.T) {
	in := paintInput()
	in.RoundMaterialUnits = true

	a, _ := EstimateCoverage(in)
	b, _ := EstimateCoverage(in)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestCoverageInputFor(t *testing.T) {
	item := CatalogItem{
		CategoryID:        "paint",
		MaterialUnitPrice: 50,
		WorkerDailyCost:   400,
		Coverage:          10,
		DailyOutput:       20,
		EquipmentCost:     25,
	}

	in := CoverageInputFor(item, 100, 2, DifficultyFactor{ID: "hard", Multiplier: 1.5}, PricingDefaults{})
	if len(in.LayerSettings) != 1 || in.LayerSettings[0].Coverage != 10 {
		t.Fatalf("layer settings = %+v", in.LayerSettings)
	}
	nearlyEqual(t, "profit from fallback", in.ProfitPercent, 30)
	nearlyEqual(t, "multiplier", in.DifficultyMultiplier, 1.5)

	res, err := EstimateCoverage(in)
	if err != nil || res == nil {
		t.Fatalf("EstimateCoverage: %v, %v", res, err)
	}
	li := res.LineItem("paint-1", "paint", "Wall paint")
	nearlyEqual(t, "line quantity", li.Quantity, 100)
	nearlyEqual(t, "line work days", li.WorkDuration, res.LaborDays)
	nearlyEqual(t, "line total price", li.TotalPrice, res.SellingPrice)
	if li.Source != SourceCoverage {
		t.Fatalf("source = %q", li.Source)
	}
}

func TestCoverageInputFor_LaborRatePrecedence(t *testing.T) {
	item := CatalogItem{MaterialUnitPrice: 50, Coverage: 10, DailyOutput: 20}

	in := CoverageInputFor(item, 100, 1, DifficultyFactor{}, PricingDefaults{LaborCostPerDay: 650})
	nearlyEqual(t, "rate from defaults", in.DailyLaborRate, 650)
	if res, err := EstimateCoverage(in); err != nil || res == nil {
		t.Fatalf("EstimateCoverage: %v, %v; want a result", res, err)
	}

	item.LaborCostPerDay = 700
	in = CoverageInputFor(item, 100, 1, DifficultyFactor{}, PricingDefaults{LaborCostPerDay: 650})
	nearlyEqual(t, "item day rate", in.DailyLaborRate, 700)

	item.WorkerDailyCost = 400
	in = CoverageInputFor(item, 100, 1, DifficultyFactor{}, PricingDefaults{LaborCostPerDay: 650})
	nearlyEqual(t, "worker day cost wins", in.DailyLaborRate, 400)
}

