package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Simplici0/contractor-quote/internal/export"
	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
	"github.com/Simplici0/contractor-quote/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// recalculate gives every new line and manual item a stable id and reprices
// the draft against the current catalog.
func (s *server) recalculate(ctx context.Context, d quote.Draft) (quote.Result, error) {
	assignIDs(&d)

	catalog, err := s.store.CatalogSnapshot(ctx)
	if err != nil {
		return quote.Result{}, fmt.Errorf("load catalog: %w", err)
	}
	return quote.Recalculate(d, catalog, s.defaults)
}

func assignIDs(d *quote.Draft) {
	for i := range d.Lines {
		if d.Lines[i].ID == "" {
			d.Lines[i].ID = uuid.NewString()
		}
	}
	for i := range d.Items {
		if d.Items[i].ID == "" && d.Items[i].Source == pricing.SourceManual {
			d.Items[i].ID = uuid.NewString()
		}
	}
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.store.ListQuotes(r.Context(), query)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "quotes": quotes})
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
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
	rec, err := s.store.CreateQuote(r.Context(), res)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleQuoteGet returns the stored snapshot. It never recalculates, so a
// quote keeps its prices after catalog edits until it is saved again.
func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleQuoteUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var d quote.Draft
	if err := decodeJSON(r, &d); err != nil {
		writeFailure(w, err)
		return
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.store.GetQuote(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	res, err := s.recalculate(r.Context(), d)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rec, err := s.store.UpdateQuote(r.Context(), id, res)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type roundingRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *server) handleQuoteRounding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	categoryID := chi.URLParam(r, "categoryId")

	var req roundingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err)
		return
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	rec, err := s.store.GetQuote(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	catalog, err := s.store.CatalogSnapshot(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := quote.SetRounding(rec.Draft, categoryID, req.Enabled, catalog, s.defaults)
	if err != nil {
		writeFailure(w, err)
		return
	}
	updated, err := s.store.UpdateQuote(r.Context(), id, res)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleQuoteExport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}

	data, err := export.Excel(export.Document{
		Title:  rec.Draft.Title,
		Date:   datePart(rec.CreatedAt),
		Result: snapshotResult(rec),
	})
	if err != nil {
		writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "quote-"+rec.ID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleQuoteText renders the stored quote as plain text for pasting into
// messages.
func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(quoteText(rec)))
}

func quoteText(rec store.QuoteRecord) string {
	var b strings.Builder
	title := rec.Draft.Title
	if title == "" {
		title = "Quote " + rec.ID
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "Date: %s\n\n", datePart(rec.CreatedAt))

	for _, it := range rec.Draft.Items {
		if it.IsRounding() && it.TotalPrice == 0 {
			continue
		}
		if it.Source == pricing.SourceCategorySummary {
			continue
		}
		fmt.Fprintf(&b, "- [%s] %s: %.2f\n", it.CategoryID, it.Description, it.TotalPrice)
	}
	for _, c := range rec.Draft.AdditionalCosts {
		fmt.Fprintf(&b, "- %s: %.2f\n", c.Description, c.Cost)
	}

	t := rec.Totals
	fmt.Fprintf(&b, "\nSubtotal: %.2f\n", t.Subtotal)
	if t.AfterMarkup != t.Subtotal {
		fmt.Fprintf(&b, "After markup: %.2f\n", t.AfterMarkup)
	}
	if t.DiscountAmount != 0 {
		fmt.Fprintf(&b, "Discount: -%.2f\n", t.DiscountAmount)
	}
	fmt.Fprintf(&b, "Total: %.2f\n", t.FinalTotal)
	fmt.Fprintf(&b, "Estimated work days: %.2f\n", t.TotalWorkDays)
	if rec.Draft.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", rec.Draft.Notes)
	}
	return b.String()
}

func snapshotResult(rec store.QuoteRecord) quote.Result {
	return quote.Result{
		Draft:      rec.Draft,
		Totals:     rec.Totals,
		Workforce:  rec.Workforce,
		Incomplete: rec.Incomplete,
	}
}

func datePart(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
