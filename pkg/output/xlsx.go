package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/amortization/internal/schedule"
	"github.com/iwvelando/amortization/pkg/datetime"
	"github.com/iwvelando/amortization/pkg/format"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxTitleRow  = 1
	xlsxHeaderRow = 3
	maxSheetName  = 31
	// excelize built-in number format "#,##0.00"
	xlsxMoneyFormat = 4
)

var xlsxHeader = []interface{}{"Period", "Date", "Installment", "Interest", "Principal", "Extra", "Balance"}

// WriteXLSX saves every result to its own sheet of a spreadsheet at path.
// Each sheet carries a title row, the schedule, a totals row and a column
// chart of the installment split.
func WriteXLSX(path string, results []schedule.Result) error {
	f, err := BuildXLSX(results)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("unable to save %s: %w", path, err)
	}
	return nil
}

// BuildXLSX returns the spreadsheet written by WriteXLSX. The caller closes it.
func BuildXLSX(results []schedule.Result) (*excelize.File, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no schedules to export")
	}

	f := excelize.NewFile()
	styles, err := newXLSXStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	used := make(map[string]bool)
	for i, result := range results {
		sheet := SheetName(result.Name, used)
		if i == 0 {
			err = f.SetSheetName("Sheet1", sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			_ = f.Close()
			return nil, err
		}

		if err := writeSheet(f, sheet, result, styles); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	return f, nil
}

type xlsxStyles struct {
	title, header, money int
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var styles xlsxStyles
	var err error

	styles.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return styles, err
	}

	styles.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.money, err = f.NewStyle(&excelize.Style{NumFmt: xlsxMoneyFormat})
	return styles, err
}

func writeSheet(f *excelize.File, sheet string, result schedule.Result, styles xlsxStyles) error {
	records := result.Schedule.Records
	lastCol, _ := excelize.ColumnNumberToName(len(xlsxHeader))

	if err := f.SetCellValue(sheet, "A1", "Amortization schedule - "+result.Name); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", fmt.Sprintf("%s%d", lastCol, xlsxTitleRow)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return err
	}

	header := fmt.Sprintf("A%d", xlsxHeaderRow)
	if err := f.SetSheetRow(sheet, header, &xlsxHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, header, fmt.Sprintf("%s%d", lastCol, xlsxHeaderRow), styles.header); err != nil {
		return err
	}

	widths := make([]int, len(xlsxHeader))
	for i, title := range xlsxHeader {
		widths[i] = len(title.(string))
	}

	row := xlsxHeaderRow
	for _, record := range records {
		row++
		values := []interface{}{
			record.Period,
			datetime.Display(record.Date),
			record.Installment,
			record.Interest,
			record.ScheduledPrincipal,
			record.ExtraPrincipal,
			record.Balance,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		for i, value := range values {
			widths[i] = max(widths[i], len(displayValue(value)))
		}
	}
	firstData, lastData := xlsxHeaderRow+1, row

	row++
	summary := result.Schedule.Summary
	totals := []interface{}{"Total", "", "", summary.TotalInterest, summary.TotalScheduledPrincipal, summary.TotalExtra, summary.FinalBalance}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", firstData), fmt.Sprintf("%s%d", lastCol, row), styles.money); err != nil {
		return err
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, float64(width+2)); err != nil {
			return err
		}
	}

	if len(records) == 0 {
		return nil
	}
	return f.AddChart(sheet, "I3", installmentChart(sheet, firstData, lastData))
}

func installmentChart(sheet string, firstRow, lastRow int) *excelize.Chart {
	ref := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, col, firstRow, col, lastRow)
	}
	name := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$%d", sheet, col, xlsxHeaderRow)
	}

	var series []excelize.ChartSeries
	for _, col := range []string{"C", "D", "E"} {
		series = append(series, excelize.ChartSeries{
			Name:       name(col),
			Categories: ref("A"),
			Values:     ref(col),
		})
	}

	return &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
}

// displayValue approximates how a cell renders with its number format.
func displayValue(value interface{}) string {
	if amount, ok := value.(float64); ok {
		return format.NumericCurrency(amount)
	}
	return fmt.Sprintf("%v", value)
}

// SheetName turns a scenario name into a unique valid sheet name.
func SheetName(name string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\'`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if cleaned == "" {
		cleaned = "Schedule"
	}
	cleaned = truncateRunes(cleaned, maxSheetName)

	candidate := cleaned
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = strings.TrimSpace(truncateRunes(cleaned, maxSheetName-len(suffix))) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
