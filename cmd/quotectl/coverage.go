package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Simplici0/contractor-quote/internal/pricing"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Estimate a layered paint or plaster job",
	Long: `Estimate material units, labor days and price for a layered coverage job.
--coverage and --output describe the first layer; --coverage-change and
--output-change give the percentage change of each later layer against the
one before it.`,
	Example: `  quotectl coverage --area 100 --layers 3 --coverage 10 --output 20 \
    --coverage-change 20 --output-change 0,20 --unit-price 50 --rate 400`,
	RunE: runCoverage,
}

type coverageFlags struct {
	area           float64
	layers         int
	coverage       float64
	output         float64
	coverageChange []float64
	outputChange   []float64
	unitPrice      float64
	rate           float64
	equipment      float64
	cleaning       float64
	preparation    float64
	profit         float64
	difficulty     string
	roundUnits     bool
	roundDays      bool
}

var covFlags coverageFlags

func (f coverageFlags) layerSettings() []pricing.LayerSetting {
	n := max(len(f.coverageChange), len(f.outputChange))
	settings := make([]pricing.LayerSetting, n+1)
	settings[0] = pricing.LayerSetting{Coverage: f.coverage, DailyOutput: f.output}
	for i := 0; i < n; i++ {
		if i < len(f.coverageChange) {
			settings[i+1].CoverageChangePercent = f.coverageChange[i]
		}
		if i < len(f.outputChange) {
			settings[i+1].OutputChangePercent = f.outputChange[i]
		}
	}
	return settings
}

func runCoverage(cmd *cobra.Command, args []string) error {
	f := covFlags

	profit := defaults.Resolved().ProfitPercent
	if cmd.Flags().Changed("profit") {
		profit = f.profit
	}

	res, err := pricing.EstimateCoverage(pricing.CoverageInput{
		Area:                   f.area,
		Layers:                 f.layers,
		LayerSettings:          f.layerSettings(),
		MaterialUnitPrice:      f.unitPrice,
		DailyLaborRate:         f.rate,
		EquipmentCost:          f.equipment,
		CleaningCostPerArea:    f.cleaning,
		PreparationCostPerArea: f.preparation,
		DifficultyMultiplier:   defaults.Difficulty(f.difficulty).Multiplier,
		ProfitPercent:          profit,
		RoundMaterialUnits:     f.roundUnits,
		RoundLaborDays:         f.roundDays,
	})
	if err != nil {
		return err
	}

	printCoverage(cmd.OutOrStdout(), res)
	return nil
}

func printCoverage(w io.Writer, res *pricing.CoverageResult) {
	if res == nil {
		fmt.Fprintln(w, color.YellowString("incomplete: area, layers, coverage and daily output are all required"))
		return
	}

	fmt.Fprintf(w, "%-6s %10s %10s %10s %10s\n", "Layer", "Coverage", "Output", "Units", "Days")
	for _, l := range res.Layers {
		if l.Skipped {
			fmt.Fprintf(w, "%-6d %10.2f %10.2f %10s %10s\n", l.Index+1, l.Coverage, l.DailyOutput, "-", "-")
			continue
		}
		fmt.Fprintf(w, "%-6d %10.2f %10.2f %10.3f %10.3f\n", l.Index+1, l.Coverage, l.DailyOutput, l.MaterialUnits, l.LaborDays)
	}
	fmt.Fprintln(w)

	row := func(label string, v float64) {
		fmt.Fprintf(w, "%-16s %12.2f\n", label, v)
	}
	row("Material units", res.MaterialUnits)
	row("Labor days", res.LaborDays)
	row("Material cost", res.MaterialCost)
	row("Labor cost", res.LaborCost)
	row("Total cost", res.TotalCost)
	fmt.Fprintf(w, "%-16s %s\n", "Selling price", color.New(color.Bold).Sprintf("%12.2f", res.SellingPrice))
	row("Profit", res.Profit)
	row("Price per area", res.PricePerArea)
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(coverageCmd)

	fl := coverageCmd.Flags()
	fl.Float64Var(&covFlags.area, "area", 0, "area to cover")
	fl.IntVar(&covFlags.layers, "layers", 1, "number of layers")
	fl.Float64Var(&covFlags.coverage, "coverage", 0, "first layer: area covered per material unit")
	fl.Float64Var(&covFlags.output, "output", 0, "first layer: area per worker-day")
	fl.Float64SliceVar(&covFlags.coverageChange, "coverage-change", nil, "coverage change percent of layers 2, 3, ...")
	fl.Float64SliceVar(&covFlags.outputChange, "output-change", nil, "output change percent of layers 2, 3, ...")
	fl.Float64Var(&covFlags.unitPrice, "unit-price", 0, "price of one material unit")
	fl.Float64Var(&covFlags.rate, "rate", 0, "daily labor rate")
	fl.Float64Var(&covFlags.equipment, "equipment", 0, "flat equipment cost")
	fl.Float64Var(&covFlags.cleaning, "cleaning", 0, "cleaning cost per area")
	fl.Float64Var(&covFlags.preparation, "preparation", 0, "preparation cost per area")
	fl.Float64Var(&covFlags.profit, "profit", 0, "profit percent (defaults to the configured profit)")
	fl.StringVar(&covFlags.difficulty, "difficulty", "", "difficulty level id")
	fl.BoolVar(&covFlags.roundUnits, "round-units", false, "buy whole material units per layer")
	fl.BoolVar(&covFlags.roundDays, "round-days", false, "bill whole labor days per layer")
}
