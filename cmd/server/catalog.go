package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/contractor-quote/internal/pricing"
)

func (s *server) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	items, err := s.store.ListCatalog(r.Context(), category)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *server) handleCatalogGet(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.GetCatalogItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleCatalogPut replaces a catalog item wholesale. Quotes already saved
// keep the prices they were recalculated with.
func (s *server) handleCatalogPut(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var item pricing.CatalogItem
	if err := decodeJSON(r, &item); err != nil {
		writeFailure(w, err)
		return
	}
	if item.ID != "" && item.ID != id {
		writeError(w, http.StatusBadRequest, "item id does not match the URL")
		return
	}
	item.ID = id
	if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.CategoryID) == "" {
		writeError(w, http.StatusBadRequest, "name and categoryId are required")
		return
	}
	if err := pricing.ValidateLayers(item.LayerSettings); err != nil {
		writeFailure(w, err)
		return
	}

	if err := s.store.PutCatalogItem(r.Context(), item); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
