package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/contractor-quote/internal/pricing"
)

type difficultyLevel struct {
	ID         string  `yaml:"id"`
	Label      string  `yaml:"label"`
	Multiplier float64 `yaml:"multiplier"`
}

type pricingDefaultsFile struct {
	LaborCostPerDay     float64 `yaml:"labor_cost_per_day"`
	ProfitPercent       float64 `yaml:"profit_percent"`
	HoursPerUnit        float64 `yaml:"hours_per_unit"`
	LowProfitPercent    float64 `yaml:"low_profit_percent"`
	ProfitPercentCap    float64 `yaml:"profit_percent_cap"`
	TilingProfitPercent float64 `yaml:"tiling_profit_percent"`
	Panel               struct {
		LaborCapacity      float64 `yaml:"labor_capacity"`
		UtilizationPercent float64 `yaml:"utilization_percent"`
	} `yaml:"panel"`
	DifficultyLevels []difficultyLevel `yaml:"difficulty_levels"`
}

// LoadPricingDefaults reads a YAML pricing defaults file and fills every
// missing value from the built-in fallbacks. An empty path yields the
// fallbacks alone.
func LoadPricingDefaults(path string) (pricing.PricingDefaults, error) {
	if path == "" {
		return pricing.Fallbacks(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pricing.PricingDefaults{}, fmt.Errorf("read pricing defaults: %w", err)
	}
	return ParsePricingDefaults(data)
}

// ParsePricingDefaults decodes YAML pricing defaults.
func ParsePricingDefaults(data []byte) (pricing.PricingDefaults, error) {
	var f pricingDefaultsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return pricing.PricingDefaults{}, fmt.Errorf("parse pricing defaults: %w", err)
	}

	for name, v := range map[string]float64{
		"labor_cost_per_day":        f.LaborCostPerDay,
		"profit_percent":            f.ProfitPercent,
		"hours_per_unit":            f.HoursPerUnit,
		"low_profit_percent":        f.LowProfitPercent,
		"profit_percent_cap":        f.ProfitPercentCap,
		"tiling_profit_percent":     f.TilingProfitPercent,
		"panel.labor_capacity":      f.Panel.LaborCapacity,
		"panel.utilization_percent": f.Panel.UtilizationPercent,
	} {
		if v < 0 {
			return pricing.PricingDefaults{}, fmt.Errorf("pricing defaults: %s must not be negative", name)
		}
	}

	d := pricing.PricingDefaults{
		LaborCostPerDay:         f.LaborCostPerDay,
		ProfitPercent:           f.ProfitPercent,
		HoursPerUnit:            f.HoursPerUnit,
		LowProfitPercent:        f.LowProfitPercent,
		ProfitPercentCap:        f.ProfitPercentCap,
		PanelLaborCapacity:      f.Panel.LaborCapacity,
		PanelUtilizationPercent: f.Panel.UtilizationPercent,
		TilingProfitPercent:     f.TilingProfitPercent,
	}
	seen := make(map[string]bool, len(f.DifficultyLevels))
	for _, lvl := range f.DifficultyLevels {
		if lvl.ID == "" {
			return pricing.PricingDefaults{}, fmt.Errorf("pricing defaults: difficulty level without id")
		}
		if seen[lvl.ID] {
			return pricing.PricingDefaults{}, fmt.Errorf("pricing defaults: duplicate difficulty level %q", lvl.ID)
		}
		if lvl.Multiplier < 1 {
			return pricing.PricingDefaults{}, fmt.Errorf("pricing defaults: difficulty level %q multiplier must be at least 1", lvl.ID)
		}
		seen[lvl.ID] = true
		d.DifficultyLevels = append(d.DifficultyLevels, pricing.DifficultyFactor{
			ID:         lvl.ID,
			Label:      lvl.Label,
			Multiplier: lvl.Multiplier,
		})
	}

	return d.Resolved(), nil
}
