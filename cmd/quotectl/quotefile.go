package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
)

// quoteFile is a draft plus any catalog items it defines inline. Keys use
// the same camelCase names as the HTTP API.
type quoteFile struct {
	quote.Draft
	Catalog []pricing.CatalogItem `json:"catalog,omitempty"`
}

func readQuoteFile(path string) (quoteFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return quoteFile{}, err
	}
	return parseQuoteFile(b)
}

// parseQuoteFile accepts YAML or JSON. The YAML is normalised to JSON first so
// the draft types need only one set of field tags. Dates must be quoted or
// written in RFC 3339.
func parseQuoteFile(b []byte) (quoteFile, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return quoteFile{}, fmt.Errorf("yaml quote parsing error: %w", err)
	}

	j, err := json.Marshal(raw)
	if err != nil {
		return quoteFile{}, fmt.Errorf("normalise quote file: %w", err)
	}

	var qf quoteFile
	if err := json.Unmarshal(j, &qf); err != nil {
		return quoteFile{}, fmt.Errorf("decode quote file: %w", err)
	}
	return qf, nil
}

// catalogFor layers the file's inline items over base.
func (qf quoteFile) catalogFor(base []pricing.CatalogItem) quote.Catalog {
	catalog := make(quote.Catalog, len(base)+len(qf.Catalog))
	for _, item := range base {
		catalog[item.ID] = item
	}
	for _, item := range qf.Catalog {
		catalog[item.ID] = item
	}
	return catalog
}
