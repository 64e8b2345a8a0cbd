package main

import (
	"context"
	"net/http"

	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
)

// calcRequest is the body of the stateless calculator endpoints. The item is
// either inline or looked up by ItemID.
type calcRequest struct {
	ItemID       string               `json:"itemId"`
	Item         *pricing.CatalogItem `json:"item"`
	CategoryID   string               `json:"categoryId"`
	Description  string               `json:"description"`
	Quantity     float64              `json:"quantity"`
	Area         float64              `json:"area"`
	Layers       int                  `json:"layers"`
	LinearMeters float64              `json:"linearMeters"`
	Difficulty   string               `json:"difficulty"`

	RoundMaterialUnits bool `json:"roundMaterialUnits"`
	RoundLaborDays     bool `json:"roundLaborDays"`
}

type calcResponse struct {
	Result   any              `json:"result"`
	LineItem pricing.LineItem `json:"lineItem"`
}

func (s *server) decodeCalc(r *http.Request) (calcRequest, pricing.CatalogItem, error) {
	var req calcRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, pricing.CatalogItem{}, err
	}
	item, err := s.resolveItem(r.Context(), req)
	if err != nil {
		return req, pricing.CatalogItem{}, err
	}
	if req.CategoryID != "" {
		item.CategoryID = req.CategoryID
	}
	return req, item, nil
}

func (s *server) resolveItem(ctx context.Context, req calcRequest) (pricing.CatalogItem, error) {
	if req.Item != nil {
		return *req.Item, nil
	}
	if req.ItemID == "" {
		return pricing.CatalogItem{}, &requestError{msg: "itemId or item is required"}
	}
	return s.store.GetCatalogItem(ctx, req.ItemID)
}

func lineIDFor(req calcRequest, item pricing.CatalogItem) string {
	if item.ID != "" {
		return item.ID
	}
	return req.ItemID
}

func descriptionFor(req calcRequest, item pricing.CatalogItem) string {
	if req.Description != "" {
		return req.Description
	}
	return item.Name
}

func (s *server) handleCalcUnit(w http.ResponseWriter, r *http.Request) {
	req, item, err := s.decodeCalc(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	q, err := pricing.PriceItem(item, req.Quantity, s.defaults)
	if err != nil {
		writeFailure(w, err)
		return
	}
	li := q.LineItem(lineIDFor(req, item), item)
	li.Description = descriptionFor(req, item)
	writeJSON(w, http.StatusOK, calcResponse{Result: q, LineItem: li})
}

func (s *server) handleCalcDifficulty(w http.ResponseWriter, r *http.Request) {
	req, item, err := s.decodeCalc(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	q, err := pricing.PriceDifficulty(item, req.Quantity, s.defaults.Difficulty(req.Difficulty), s.defaults)
	if err != nil {
		writeFailure(w, err)
		return
	}
	li := q.LineItem(lineIDFor(req, item), item)
	li.Description = descriptionFor(req, item)
	writeJSON(w, http.StatusOK, calcResponse{Result: q, LineItem: li})
}

func (s *server) handleCalcCoverage(w http.ResponseWriter, r *http.Request) {
	req, item, err := s.decodeCalc(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	in := pricing.CoverageInputFor(item, req.Area, req.Layers, s.defaults.Difficulty(req.Difficulty), s.defaults)
	in.RoundMaterialUnits = req.RoundMaterialUnits
	in.RoundLaborDays = req.RoundLaborDays
	res, err := pricing.EstimateCoverage(in)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if res == nil {
		writeIncomplete(w)
		return
	}
	li := res.LineItem(lineIDFor(req, item), item.CategoryID, descriptionFor(req, item))
	writeJSON(w, http.StatusOK, calcResponse{Result: res, LineItem: li})
}

func (s *server) handleCalcTiling(w http.ResponseWriter, r *http.Request) {
	req, item, err := s.decodeCalc(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	res, err := pricing.EstimateTiling(pricing.TilingInputFor(item, req.Area), s.defaults)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if res == nil {
		writeIncomplete(w)
		return
	}
	li := res.LineItem(lineIDFor(req, item), item.CategoryID, descriptionFor(req, item))
	writeJSON(w, http.StatusOK, calcResponse{Result: res, LineItem: li})
}

func (s *server) handleCalcPanel(w http.ResponseWriter, r *http.Request) {
	req, item, err := s.decodeCalc(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	res, err := pricing.EstimatePanel(pricing.PanelInputFor(item, req.LinearMeters), s.defaults)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if res == nil {
		writeIncomplete(w)
		return
	}
	li := res.LineItem(lineIDFor(req, item), item.CategoryID, descriptionFor(req, item))
	writeJSON(w, http.StatusOK, calcResponse{Result: res, LineItem: li})
}

func (s *server) handleCalcExtras(w http.ResponseWriter, r *http.Request) {
	var in pricing.ExtrasInput
	if err := decodeJSON(r, &in); err != nil {
		writeFailure(w, err)
		return
	}

	items := pricing.Extras(in, s.defaults)
	if items == nil {
		items = []pricing.LineItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleTotals recalculates a posted draft without storing it.
func (s *server) handleTotals(w http.ResponseWriter, r *http.Request) {
	var d quote.Draft
	if err := decodeJSON(r, &d); err != nil {
		writeFailure(w, err)
		return
	}

	res, err := s.recalculate(r.Context(), d)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
