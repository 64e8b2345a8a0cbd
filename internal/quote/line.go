package quote

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Simplici0/contractor-quote/internal/pricing"
)

// Model names the calculator a line is priced with.
type Model string

const (
	ModelUnit       Model = "unit"
	ModelCoverage   Model = "coverage"
	ModelDifficulty Model = "difficulty"
	ModelTiling     Model = "tiling"
	ModelPanel      Model = "panel"
)

// Catalog is a read-only snapshot of catalog items by id.
type Catalog map[string]pricing.CatalogItem

// LineSpec is the stored input of one derived line item. The line item itself
// is recomputed from it on every recalculation.
type LineSpec struct {
	ID          string               `json:"id"`
	Model       Model                `json:"model"`
	CategoryID  string               `json:"categoryId,omitempty"`
	ItemID      string               `json:"itemId,omitempty"`
	Item        *pricing.CatalogItem `json:"item,omitempty"`
	Description string               `json:"description,omitempty"`

	Quantity     float64 `json:"quantity,omitempty"`
	Area         float64 `json:"area,omitempty"`
	Layers       int     `json:"layers,omitempty"`
	LinearMeters float64 `json:"linearMeters,omitempty"`
	Difficulty   string  `json:"difficulty,omitempty"`

	RoundMaterialUnits bool `json:"roundMaterialUnits,omitempty"`
	RoundLaborDays     bool `json:"roundLaborDays,omitempty"`
}

// ErrUnknownItem is returned when a line references a missing catalog item.
type ErrUnknownItem struct {
	LineID string
	ItemID string
}

func (e *ErrUnknownItem) Error() string {
	return fmt.Sprintf("line %s: unknown catalog item %q", e.LineID, e.ItemID)
}

// PriceLine runs the line's model. ok is false when the inputs are still
// incomplete, including a unit line without a quantity or labor rate; err is
// set for contract violations and unknown items.
func PriceLine(spec LineSpec, catalog Catalog, defaults pricing.PricingDefaults) (item pricing.LineItem, ok bool, err error) {
	ci, err := resolveItem(spec, catalog)
	if err != nil {
		return pricing.LineItem{}, false, err
	}
	if spec.CategoryID != "" {
		ci.CategoryID = spec.CategoryID
	}
	desc := spec.Description
	if desc == "" {
		desc = ci.Name
	}

	switch spec.Model {
	case ModelUnit, "":
		q, err := pricing.PriceItem(ci, spec.Quantity, defaults)
		if unitIncomplete(err) {
			return pricing.LineItem{}, false, nil
		}
		if err != nil {
			return pricing.LineItem{}, false, err
		}
		item = q.LineItem(spec.ID, ci)

	case ModelDifficulty:
		q, err := pricing.PriceDifficulty(ci, spec.Quantity, defaults.Difficulty(spec.Difficulty), defaults)
		if err != nil {
			return pricing.LineItem{}, false, err
		}
		item = q.LineItem(spec.ID, ci)

	case ModelCoverage:
		in := pricing.CoverageInputFor(ci, spec.Area, spec.Layers, defaults.Difficulty(spec.Difficulty), defaults)
		in.RoundMaterialUnits = spec.RoundMaterialUnits
		in.RoundLaborDays = spec.RoundLaborDays
		res, err := pricing.EstimateCoverage(in)
		if err != nil || res == nil {
			return pricing.LineItem{}, false, err
		}
		item = res.LineItem(spec.ID, ci.CategoryID, desc)

	case ModelTiling:
		res, err := pricing.EstimateTiling(pricing.TilingInputFor(ci, spec.Area), defaults)
		if err != nil || res == nil {
			return pricing.LineItem{}, false, err
		}
		item = res.LineItem(spec.ID, ci.CategoryID, desc)

	case ModelPanel:
		in := pricing.PanelInputFor(ci, spec.LinearMeters)
		res, err := pricing.EstimatePanel(in, defaults)
		if err != nil || res == nil {
			return pricing.LineItem{}, false, err
		}
		item = res.LineItem(spec.ID, ci.CategoryID, desc)

	default:
		return pricing.LineItem{}, false, &pricing.InputError{Field: "model", Reason: fmt.Sprintf("%q is not a known pricing model", spec.Model)}
	}

	item.Description = desc
	return item, true, nil
}

// unitIncomplete reports whether a unit model error only means the user has
// not yet filled in the quantity or a labor rate.
func unitIncomplete(err error) bool {
	var ie *pricing.InputError
	if !errors.As(err, &ie) {
		return false
	}
	switch ie.Field {
	case "quantity", "laborRatePerUnit":
		return true
	}
	return false
}

func resolveItem(spec LineSpec, catalog Catalog) (pricing.CatalogItem, error) {
	if spec.Item != nil {
		return *spec.Item, nil
	}
	ci, ok := catalog[spec.ItemID]
	if !ok {
		return pricing.CatalogItem{}, &ErrUnknownItem{LineID: spec.ID, ItemID: spec.ItemID}
	}
	return ci, nil
}

func lineID(spec LineSpec, index int) string {
	if spec.ID != "" {
		return spec.ID
	}
	return "line:" + strconv.Itoa(index)
}
