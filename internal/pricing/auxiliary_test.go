package pricing

import "testing"

func TestFlatExtra(t *testing.T) {
	it, ok := FlatExtra("x", "demolition", "Container", 349.6, 20)
	if !ok {
		t.Fatal("expected an item")
	}
	nearlyEqual(t, "totalCost", it.TotalCost, 350)
	nearlyEqual(t, "totalPrice", it.TotalPrice, 420)
	nearlyEqual(t, "quantity", it.Quantity, 1)

	for _, cost := range []float64{0, 0.4, -100} {
		if _, ok := FlatExtra("x", "demolition", "Container", cost, 20); ok {
			t.Fatalf("cost %v should be dropped", cost)
		}
	}
}

func TestHourlyExtra(t *testing.T) {
	it, ok := HourlyExtra("u", "demolition", "Unloading", 4, 800, 25)
	if !ok {
		t.Fatal("expected an item")
	}
	nearlyEqual(t, "totalCost", it.TotalCost, 400)
	nearlyEqual(t, "laborCost", it.LaborCost, 400)
	nearlyEqual(t, "totalPrice", it.TotalPrice, 500)
	nearlyEqual(t, "workDuration", it.WorkDuration, 0.5)

	if _, ok := HourlyExtra("u", "demolition", "Unloading", 0, 800, 25); ok {
		t.Fatal("zero hours should be dropped")
	}
}

func TestExtras_DefaultsAndStableIDs(t *testing.T) {
	in := ExtrasInput{
		CategoryID:     "demo",
		UnloadingHours: 2,
		Custom:         []FlatCost{{Description: "Crane", Cost: 1000}},
	}

	items := Extras(in, PricingDefaults{})
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(items), items)
	}
	if items[0].ID != "extra:demo:unloading" || items[1].ID != "extra:demo:0" {
		t.Fatalf("ids = %q, %q", items[0].ID, items[1].ID)
	}
	nearlyEqual(t, "unloading cost", items[0].TotalCost, 250)
	nearlyEqual(t, "unloading price", items[0].TotalPrice, 325)
	nearlyEqual(t, "crane price", items[1].TotalPrice, 1300)

	in.MarginPercent = Float(0)
	items = Extras(in, PricingDefaults{})
	nearlyEqual(t, "explicit zero margin", items[1].TotalPrice, 1000)
}
