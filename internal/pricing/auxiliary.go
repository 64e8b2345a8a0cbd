package pricing

import "strconv"

// FlatExtra builds a line item for a fixed contractor cost such as a disposal
// container. The cost is rounded to a whole unit first; extras that round to
// zero or less are dropped and ok is false.
func FlatExtra(id, categoryID, description string, cost, marginPercent float64) (item LineItem, ok bool) {
	c := Round(cost)
	if !(c > 0) || !finite(marginPercent) {
		return LineItem{}, false
	}
	price := Round(markup(c, marginPercent))
	return LineItem{
		ID:             id,
		CategoryID:     categoryID,
		Source:         SourceExtra,
		Description:    description,
		Unit:           UnitPiece,
		Quantity:       1,
		UnitPrice:      price,
		TotalPrice:     price,
		UnitCost:       c,
		TotalCost:      c,
		AdditionalCost: c,
	}, true
}

// HourlyExtra builds a line item for auxiliary labor billed by the hour, such
// as unloading. hours becomes a contractor cost at dailyLaborRate/8 per hour
// and contributes hours/8 work days.
func HourlyExtra(id, categoryID, description string, hours, dailyLaborRate, marginPercent float64) (item LineItem, ok bool) {
	if !(hours > 0) || !finite(hours) {
		return LineItem{}, false
	}
	item, ok = FlatExtra(id, categoryID, description, dailyLaborRate/WorkdayHours*hours, marginPercent)
	if !ok {
		return LineItem{}, false
	}
	item.Unit = UnitDay
	item.AdditionalCost = 0
	item.LaborCost = item.TotalCost
	item.WorkDuration = hours / WorkdayHours
	return item, true
}

// FlatCost is a named fixed contractor cost.
type FlatCost struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// ExtrasInput holds the auxiliary costs of one category. A nil MarginPercent
// takes the default profit; a zero DailyLaborRate takes the default labor rate.
type ExtrasInput struct {
	CategoryID     string     `json:"categoryId"`
	ContainerCost  float64    `json:"containerCost"`
	UnloadingHours float64    `json:"unloadingHours"`
	DailyLaborRate float64    `json:"dailyLaborRate"`
	MarginPercent  *float64   `json:"marginPercent,omitempty"`
	Custom         []FlatCost `json:"custom,omitempty"`
}

// Extras emits the non-empty extras of a category in a stable order with ids
// derived from the category, so repeated calls replace the same slots.
func Extras(in ExtrasInput, defaults PricingDefaults) []LineItem {
	d := defaults.Resolved()
	margin := d.ProfitPercent
	if v, ok := deref(in.MarginPercent); ok {
		margin = v
	}
	rate := pick(in.DailyLaborRate, d.LaborCostPerDay)
	prefix := string(SourceExtra) + ":" + in.CategoryID + ":"

	var out []LineItem
	if it, ok := FlatExtra(prefix+"container", in.CategoryID, "Disposal container", in.ContainerCost, margin); ok {
		out = append(out, it)
	}
	if it, ok := HourlyExtra(prefix+"unloading", in.CategoryID, "Unloading", in.UnloadingHours, rate, margin); ok {
		out = append(out, it)
	}
	for i, c := range in.Custom {
		if it, ok := FlatExtra(prefix+strconv.Itoa(i), in.CategoryID, c.Description, c.Cost, margin); ok {
			out = append(out, it)
		}
	}
	return out
}
