package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
)

// QuoteSummary is one row of the quote list.
type QuoteSummary struct {
	ID         string  `json:"id"`
	CreatedAt  string  `json:"createdAt"`
	Title      string  `json:"title"`
	FinalTotal float64 `json:"finalTotal"`
}

// QuoteRecord is a stored quote document. Totals and Workforce are the
// snapshot saved with the draft; reading never recalculates.
type QuoteRecord struct {
	ID         string                      `json:"id"`
	CreatedAt  string                      `json:"createdAt"`
	UpdatedAt  string                      `json:"updatedAt"`
	Draft      quote.Draft                 `json:"draft"`
	Totals     pricing.QuoteTotals         `json:"totals"`
	Workforce  []pricing.CategoryWorkforce `json:"workforce,omitempty"`
	Incomplete []string                    `json:"incomplete,omitempty"`
}

type totalsDoc struct {
	Totals     pricing.QuoteTotals         `json:"totals"`
	Workforce  []pricing.CategoryWorkforce `json:"workforce,omitempty"`
	Incomplete []string                    `json:"incomplete,omitempty"`
}

// ListQuotes returns quotes newest first. A non-empty query filters on title
// and notes.
func (s *Store) ListQuotes(ctx context.Context, query string) ([]QuoteSummary, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			created_at,
			COALESCE(title, ''),
			totals_json
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]QuoteSummary, 0)
	for rows.Next() {
		var item QuoteSummary
		var totalsJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &totalsJSON); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.FinalTotal = extractFinalTotal(totalsJSON)
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

func extractFinalTotal(totalsJSON string) float64 {
	var doc struct {
		Totals struct {
			FinalTotal float64 `json:"finalTotal"`
		} `json:"totals"`
	}
	if err := json.Unmarshal([]byte(totalsJSON), &doc); err != nil {
		return 0
	}
	return doc.Totals.FinalTotal
}

// CreateQuote stores a recalculated quote under a new id.
func (s *Store) CreateQuote(ctx context.Context, res quote.Result) (QuoteRecord, error) {
	draftJSON, totalsJSON, err := encodeResult(res)
	if err != nil {
		return QuoteRecord{}, err
	}

	id := uuid.NewString()
	now := s.timestamp()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, created_at, updated_at, title, notes, draft_json, totals_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, now, now, res.Draft.Title, res.Draft.Notes, draftJSON, totalsJSON)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("insert quote: %w", err)
	}

	return recordOf(id, now, now, res), nil
}

// UpdateQuote replaces a stored quote document wholesale.
func (s *Store) UpdateQuote(ctx context.Context, id string, res quote.Result) (QuoteRecord, error) {
	draftJSON, totalsJSON, err := encodeResult(res)
	if err != nil {
		return QuoteRecord{}, err
	}

	now := s.timestamp()
	result, err := s.db.ExecContext(ctx, `
		UPDATE quotes
		SET title = ?, notes = ?, draft_json = ?, totals_json = ?, updated_at = ?
		WHERE id = ?
	`, res.Draft.Title, res.Draft.Notes, draftJSON, totalsJSON, now, id)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("update quote: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("update quote rows affected: %w", err)
	}
	if n == 0 {
		return QuoteRecord{}, ErrNotFound
	}

	return s.GetQuote(ctx, id)
}

// GetQuote reads a stored quote snapshot.
func (s *Store) GetQuote(ctx context.Context, id string) (QuoteRecord, error) {
	var rec QuoteRecord
	var draftJSON, totalsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, updated_at, draft_json, totals_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt, &draftJSON, &totalsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QuoteRecord{}, ErrNotFound
		}
		return QuoteRecord{}, fmt.Errorf("query quote: %w", err)
	}

	if err := json.Unmarshal([]byte(draftJSON), &rec.Draft); err != nil {
		return QuoteRecord{}, fmt.Errorf("decode quote draft: %w", err)
	}
	var doc totalsDoc
	if err := json.Unmarshal([]byte(totalsJSON), &doc); err != nil {
		return QuoteRecord{}, fmt.Errorf("decode quote totals: %w", err)
	}
	rec.Totals = doc.Totals
	rec.Workforce = doc.Workforce
	rec.Incomplete = doc.Incomplete
	return rec, nil
}

func encodeResult(res quote.Result) (draftJSON, totalsJSON string, err error) {
	d, err := json.Marshal(res.Draft)
	if err != nil {
		return "", "", fmt.Errorf("encode quote draft: %w", err)
	}
	t, err := json.Marshal(totalsDoc{Totals: res.Totals, Workforce: res.Workforce, Incomplete: res.Incomplete})
	if err != nil {
		return "", "", fmt.Errorf("encode quote totals: %w", err)
	}
	return string(d), string(t), nil
}

func recordOf(id, createdAt, updatedAt string, res quote.Result) QuoteRecord {
	return QuoteRecord{
		ID:         id,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		Draft:      res.Draft,
		Totals:     res.Totals,
		Workforce:  res.Workforce,
		Incomplete: res.Incomplete,
	}
}
