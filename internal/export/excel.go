// Package export renders quotes as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
)

const (
	quoteSheet      = "Quote"
	categoriesSheet = "Categories"
	summarySheet    = "Summary"
)

// Document is the input of Excel.
type Document struct {
	Title  string
	Date   string
	Result quote.Result
}

// Excel builds a workbook with the line items, the per-category breakdown
// and the quote totals, and returns the file contents.
func Excel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), quoteSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for _, name := range []string{categoriesSheet, summarySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	if err := writeItems(f, doc, titleStyle, headerStyle, moneyStyle); err != nil {
		return nil, err
	}
	if err := writeCategories(f, doc.Result, headerStyle, moneyStyle); err != nil {
		return nil, err
	}
	if err := writeSummary(f, doc.Result.Totals, titleStyle, moneyStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeItems(f *excelize.File, doc Document, titleStyle, headerStyle, moneyStyle int) error {
	title := doc.Title
	if title == "" {
		title = doc.Result.Draft.Title
	}
	f.SetCellValue(quoteSheet, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(quoteSheet, "A1", "A1", titleStyle)
	if doc.Date != "" {
		f.SetCellValue(quoteSheet, "A2", "Date: "+doc.Date)
	}

	headers := []string{"#", "Category", "Description", "Unit", "Qty", "Unit price", "Total price", "Days"}
	widths := []float64{5, 16, 40, 8, 10, 14, 14, 8}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(quoteSheet, col+"4", h)
		if err := f.SetColWidth(quoteSheet, col, col, widths[i]); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}
	f.SetCellStyle(quoteSheet, "A4", "H4", headerStyle)

	row := 5
	n := 0
	for _, it := range doc.Result.Draft.Items {
		if it.Source == pricing.SourceCategorySummary || (it.IsRounding() && it.TotalPrice == 0 && it.WorkDuration == 0) {
			continue
		}
		n++
		r := strconv.Itoa(row)
		f.SetCellValue(quoteSheet, "A"+r, n)
		f.SetCellValue(quoteSheet, "B"+r, sanitizeExcelCell(it.CategoryID))
		f.SetCellValue(quoteSheet, "C"+r, sanitizeExcelCell(it.Description))
		f.SetCellValue(quoteSheet, "D"+r, sanitizeExcelCell(string(it.Unit)))
		f.SetCellValue(quoteSheet, "E"+r, round(it.Quantity, 3))
		f.SetCellValue(quoteSheet, "F"+r, money(it.UnitPrice))
		f.SetCellValue(quoteSheet, "G"+r, money(it.TotalPrice))
		f.SetCellValue(quoteSheet, "H"+r, round(it.WorkDuration, 2))
		f.SetCellStyle(quoteSheet, "F"+r, "G"+r, moneyStyle)
		row++
	}
	return nil
}

func writeCategories(f *excelize.File, res quote.Result, headerStyle, moneyStyle int) error {
	headers := []string{"Category", "Items", "Total price", "Total cost", "Work days", "Workers"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(categoriesSheet, col+"1", h)
	}
	f.SetCellStyle(categoriesSheet, "A1", "F1", headerStyle)
	if err := f.SetColWidth(categoriesSheet, "A", "A", 20); err != nil {
		return fmt.Errorf("set col width A: %w", err)
	}

	workers := make(map[string]int, len(res.Workforce))
	for _, w := range res.Workforce {
		workers[w.CategoryID] = w.Workers
	}

	for i, c := range res.Totals.Categories {
		r := strconv.Itoa(i + 2)
		f.SetCellValue(categoriesSheet, "A"+r, sanitizeExcelCell(c.CategoryID))
		f.SetCellValue(categoriesSheet, "B"+r, c.ItemCount)
		f.SetCellValue(categoriesSheet, "C"+r, money(c.TotalPrice))
		f.SetCellValue(categoriesSheet, "D"+r, money(c.TotalCost))
		f.SetCellValue(categoriesSheet, "E"+r, round(c.WorkDays, 2))
		if n, ok := workers[c.CategoryID]; ok {
			f.SetCellValue(categoriesSheet, "F"+r, n)
		}
		f.SetCellStyle(categoriesSheet, "C"+r, "D"+r, moneyStyle)
	}
	return nil
}

func writeSummary(f *excelize.File, t pricing.QuoteTotals, titleStyle, moneyStyle int) error {
	rows := []struct {
		label string
		value float64
		money bool
	}{
		{"Items total", t.ItemsTotal, true},
		{"Additional costs", t.AdditionalCostsTotal, true},
		{"Subtotal", t.Subtotal, true},
		{"After markup", t.AfterMarkup, true},
		{"Discount", t.DiscountAmount, true},
		{"Final total", t.FinalTotal, true},
		{"Contractor cost", t.TotalContractorCost, true},
		{"Profit", t.Profit, true},
		{"Profit %", round(t.ProfitPercent, 2), false},
		{"Work days", round(t.TotalWorkDays, 2), false},
	}

	f.SetCellValue(summarySheet, "A1", "Summary")
	f.SetCellStyle(summarySheet, "A1", "A1", titleStyle)
	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return fmt.Errorf("set col width A: %w", err)
	}
	for i, row := range rows {
		r := strconv.Itoa(i + 3)
		f.SetCellValue(summarySheet, "A"+r, row.label)
		if row.money {
			f.SetCellValue(summarySheet, "B"+r, money(row.value))
			f.SetCellStyle(summarySheet, "B"+r, "B"+r, moneyStyle)
		} else {
			f.SetCellValue(summarySheet, "B"+r, row.value)
		}
	}
	if t.LowProfit {
		f.SetCellValue(summarySheet, "A"+strconv.Itoa(len(rows)+4), "Profit below threshold")
	}
	return nil
}

func money(v float64) float64 {
	return round(v, 2)
}

// round rounds half away from zero on the decimal representation, so 2.675
// becomes 2.68 rather than the binary 2.67. Non-finite values export as 0.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous characters.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
