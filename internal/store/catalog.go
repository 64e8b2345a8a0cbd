package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
)

// ListCatalog returns catalog items ordered by category and name. An empty
// categoryID lists every category.
func (s *Store) ListCatalog(ctx context.Context, categoryID string) ([]pricing.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_json
		FROM catalog_items
		WHERE (? = '' OR category_id = ?)
		ORDER BY category_id, name, id
	`, categoryID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]pricing.CatalogItem, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		var item pricing.CatalogItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("decode catalog item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}

	return items, nil
}

// CatalogSnapshot loads the whole catalog keyed by id.
func (s *Store) CatalogSnapshot(ctx context.Context) (quote.Catalog, error) {
	items, err := s.ListCatalog(ctx, "")
	if err != nil {
		return nil, err
	}
	catalog := make(quote.Catalog, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}
	return catalog, nil
}

// GetCatalogItem returns one catalog item or ErrNotFound.
func (s *Store) GetCatalogItem(ctx context.Context, id string) (pricing.CatalogItem, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT item_json FROM catalog_items WHERE id = ?`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.CatalogItem{}, ErrNotFound
		}
		return pricing.CatalogItem{}, fmt.Errorf("query catalog item: %w", err)
	}

	var item pricing.CatalogItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return pricing.CatalogItem{}, fmt.Errorf("decode catalog item: %w", err)
	}
	return item, nil
}

// PutCatalogItem inserts item or replaces it wholesale.
func (s *Store) PutCatalogItem(ctx context.Context, item pricing.CatalogItem) error {
	if item.ID == "" {
		return fmt.Errorf("catalog item id is required")
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode catalog item: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog_items (id, category_id, name, unit, item_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			name = excluded.name,
			unit = excluded.unit,
			item_json = excluded.item_json,
			updated_at = excluded.updated_at
	`, item.ID, item.CategoryID, item.Name, string(item.Unit), string(raw), s.timestamp())
	if err != nil {
		return fmt.Errorf("upsert catalog item: %w", err)
	}
	return nil
}
