package seed

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Simplici0/contractor-quote/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// StarterCatalog is the catalog a fresh database starts with.
func StarterCatalog() []pricing.CatalogItem {
	return []pricing.CatalogItem{
		{
			ID: "paint-interior", CategoryID: "paint", Name: "Interior wall paint", Unit: pricing.UnitArea,
			MaterialUnitPrice:      180,
			WorkerDailyCost:        900,
			EquipmentCost:          150,
			PreparationCostPerArea: 4,
			ProfitPercent:          pricing.Float(30),
			LayerSettings: []pricing.LayerSetting{
				{Coverage: 40, DailyOutput: 60},
				{CoverageChangePercent: 20, OutputChangePercent: 20},
			},
		},
		{
			ID: "plaster-skim", CategoryID: "plaster", Name: "Skim coat plaster", Unit: pricing.UnitArea,
			MaterialUnitPrice: 45,
			WorkerDailyCost:   1000,
			LayerSettings:     []pricing.LayerSetting{{Coverage: 8, DailyOutput: 25}},
		},
		{
			ID: "demo-wall", CategoryID: "demolition", Name: "Partition wall removal", Unit: pricing.UnitArea,
			HoursPerUnit:    0.75,
			LaborCostPerDay: 850,
			ProfitPercent:   pricing.Float(25),
		},
		{
			ID: "demo-tiles", CategoryID: "demolition", Name: "Floor tile removal", Unit: pricing.UnitArea,
			HoursPerUnit:    0.5,
			LaborCostPerDay: 850,
			ProfitPercent:   pricing.Float(25),
		},
		{
			ID: "tile-floor", CategoryID: "tiling", Name: "Porcelain floor tiles", Unit: pricing.UnitArea,
			MaterialCostPerUnit:   120,
			AdditionalCostPerUnit: 25,
			DailyOutput:           12,
			WorkerDailyCost:       950,
			WastagePercent:        10,
			HasPanel:              true,
		},
		{
			ID: "plumb-tap", CategoryID: "plumbing", Name: "Tap installation", Unit: pricing.UnitPiece,
			MaterialCostPerUnit: 220,
			LaborRatePerUnit:    pricing.Float(150),
			ProfitPercent:       pricing.Float(35),
			PriceTiers: []pricing.PriceTier{
				{MinQuantity: 1, MaxQuantity: 4, Price: 520},
				{MinQuantity: 5, Price: 470},
			},
		},
	}
}

// Run executes the startup seed in an idempotent way. Existing catalog
// items are never overwritten.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	for _, item := range StarterCatalog() {
		if err := ensureCatalogItem(tx, item, now, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureCatalogItem(tx *sql.Tx, item pricing.CatalogItem, now string, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM catalog_items WHERE id = ? LIMIT 1)`, item.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check catalog item %s existence: %w", item.ID, err)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode catalog item %s: %w", item.ID, err)
	}
	if _, err := tx.Exec(`
		INSERT INTO catalog_items (id, category_id, name, unit, item_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, item.CategoryID, item.Name, string(item.Unit), string(raw), now); err != nil {
		return fmt.Errorf("insert catalog item %s: %w", item.ID, err)
	}
	stats.Inserts++
	return nil
}
