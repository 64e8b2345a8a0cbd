package pricing

// Source tags which model produced a line item.
type Source string

const (
	SourceCatalog    Source = "catalog"
	SourceCoverage   Source = "layered_coverage"
	SourceDifficulty Source = "difficulty"
	SourceExtra      Source = "extra"
	SourceTiling     Source = "tiling"
	SourcePanel      Source = "panel"
	SourceManual     Source = "manual"

	// SourceRounding is reserved for the per-category labor-day adjustment.
	SourceRounding Source = "category_rounding"

	// SourceCategorySummary marks display-only roll-up rows; the aggregator skips them.
	SourceCategorySummary Source = "category_summary"
)

// LineItem is the atomic unit the aggregator consumes. It is plain data:
// once produced it is replaced wholesale, never patched.
type LineItem struct {
	ID          string `json:"id"`
	CategoryID  string `json:"categoryId"`
	Source      Source `json:"source"`
	Description string `json:"description,omitempty"`
	Unit        Unit   `json:"unit,omitempty"`

	Quantity             float64 `json:"quantity"`
	UnitPrice            float64 `json:"unitPrice"`
	TotalPrice           float64 `json:"totalPrice"`
	UnitCost             float64 `json:"unitCost"`
	TotalCost            float64 `json:"totalCost"`
	MaterialCost         float64 `json:"materialCost"`
	LaborCost            float64 `json:"laborCost"`
	AdditionalCost       float64 `json:"additionalCost"`
	WorkDuration         float64 `json:"workDuration"`
	DifficultyMultiplier float64 `json:"difficultyMultiplier,omitempty"`

	HoursPerUnit             float64 `json:"hoursPerUnit,omitempty"`
	ComplexityLaborAddedCost float64 `json:"complexityLaborAddedCost,omitempty"`
}

// RoundingItemID is the reserved id of a category's rounding adjustment.
func RoundingItemID(categoryID string) string {
	return string(SourceRounding) + ":" + categoryID
}

// IsRounding reports whether it is a rounding adjustment.
func (it LineItem) IsRounding() bool {
	return it.Source == SourceRounding
}

// workDays is the day-count contribution of an item. An explicit WorkDuration
// wins; otherwise it is derived from hours per unit.
func (it LineItem) workDays() float64 {
	if it.WorkDuration > 0 {
		return it.WorkDuration
	}
	if it.HoursPerUnit <= 0 {
		return 0
	}
	qty := it.Quantity
	if qty < 1 || !finite(qty) {
		qty = 1
	}
	mult := it.DifficultyMultiplier
	if mult <= 0 {
		mult = 1
	}
	return it.HoursPerUnit * qty * mult / WorkdayHours
}

// ItemsInCategory returns the items belonging to categoryID, in order.
func ItemsInCategory(items []LineItem, categoryID string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out
}

// Upsert returns a new slice where the item with the same id is replaced, or
// item is appended when no slot exists. items is not modified.
func Upsert(items []LineItem, item LineItem) []LineItem {
	out := make([]LineItem, 0, len(items)+1)
	replaced := false
	for _, it := range items {
		if it.ID == item.ID {
			if !replaced {
				out = append(out, item)
				replaced = true
			}
			continue
		}
		out = append(out, it)
	}
	if !replaced {
		out = append(out, item)
	}
	return out
}
