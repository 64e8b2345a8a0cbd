package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Simplici0/contractor-quote/internal/db"
	"github.com/Simplici0/contractor-quote/internal/export"
	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
	"github.com/Simplici0/contractor-quote/internal/seed"
	"github.com/Simplici0/contractor-quote/internal/store"
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Recalculate a quote file and print its totals",
	Long: `Recalculate a YAML or JSON quote file against the catalog and print the
category breakdown and quote totals. Without --db the built-in starter
catalog is used; items under "catalog:" in the file win over both.`,
	RunE: runTotals,
}

func runTotals(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	xlsxPath, err := cmd.Flags().GetString("xlsx")
	if err != nil {
		return fmt.Errorf("failed to get xlsx flag: %w", err)
	}
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return fmt.Errorf("failed to get db flag: %w", err)
	}

	qf, err := readQuoteFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	base, err := baseCatalog(cmd.Context(), dbPath)
	if err != nil {
		return err
	}

	res, err := quote.Recalculate(qf.Draft, qf.catalogFor(base), defaults)
	if err != nil {
		return fmt.Errorf("recalculate quote: %w", err)
	}

	printTotals(cmd.OutOrStdout(), res, defaults.Resolved().LowProfitPercent)

	if xlsxPath != "" {
		data, err := export.Excel(export.Document{
			Title:  res.Draft.Title,
			Date:   time.Now().Format("2006-01-02"),
			Result: res,
		})
		if err != nil {
			return fmt.Errorf("build workbook: %w", err)
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", xlsxPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", color.CyanString(xlsxPath))
	}

	return nil
}

func baseCatalog(ctx context.Context, dbPath string) ([]pricing.CatalogItem, error) {
	if dbPath == "" {
		return seed.StarterCatalog(), nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer database.Close()

	items, err := store.New(database).ListCatalog(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return items, nil
}

func printTotals(w io.Writer, res quote.Result, lowProfitPercent float64) {
	t := res.Totals
	bold := color.New(color.Bold)

	if res.Draft.Title != "" {
		bold.Fprintln(w, res.Draft.Title)
	}

	workers := make(map[string]pricing.CategoryWorkforce, len(res.Workforce))
	for _, wf := range res.Workforce {
		workers[wf.CategoryID] = wf
	}

	for _, c := range t.Categories {
		line := fmt.Sprintf("  %-16s %12.2f  %6.2f days", c.CategoryID, c.TotalPrice, c.WorkDays)
		if wf, ok := workers[c.CategoryID]; ok {
			line += fmt.Sprintf("  %d workers over %d days", wf.Workers, wf.AvailableDays)
		}
		fmt.Fprintln(w, line)
	}
	if len(t.Categories) > 0 {
		fmt.Fprintln(w)
	}

	row := func(label string, v float64) {
		fmt.Fprintf(w, "%-20s %12.2f\n", label, v)
	}
	row("Items", t.ItemsTotal)
	if t.AdditionalCostsTotal != 0 {
		row("Additional costs", t.AdditionalCostsTotal)
	}
	row("Subtotal", t.Subtotal)
	if res.Draft.PriceIncreasePercent != 0 {
		row(fmt.Sprintf("Markup %+g%%", res.Draft.PriceIncreasePercent), t.AfterMarkup-t.Subtotal)
	}
	if t.DiscountAmount != 0 {
		row(fmt.Sprintf("Discount %g%%", res.Draft.DiscountPercent), -t.DiscountAmount)
	}
	fmt.Fprintf(w, "%-20s %s\n", "Final total", bold.Sprintf("%12.2f", t.FinalTotal))
	row("Contractor cost", t.TotalContractorCost)

	profit := fmt.Sprintf("%-20s %12.2f  (%.1f%%)", "Profit", t.Profit, t.ProfitPercent)
	if t.LowProfit {
		fmt.Fprintln(w, color.RedString("%s  below %.0f%%", profit, lowProfitPercent))
	} else {
		fmt.Fprintln(w, color.GreenString("%s", profit))
	}
	row("Work days", t.TotalWorkDays)

	if len(res.Incomplete) > 0 {
		fmt.Fprintln(w, color.YellowString("Incomplete lines: %s", strings.Join(res.Incomplete, ", ")))
	}
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(totalsCmd)

	totalsCmd.Flags().StringP("file", "f", "", "quote file (YAML or JSON)")
	totalsCmd.Flags().String("xlsx", "", "also write the quote as an Excel workbook")
	totalsCmd.Flags().String("db", "", "read the catalog from this SQLite database")
	_ = totalsCmd.MarkFlagRequired("file")
}
