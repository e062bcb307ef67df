// Package output provides utilities for formatting and exporting computed
// amortization schedules.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/amortization/internal/schedule"
	"github.com/iwvelando/amortization/pkg/datetime"
	"github.com/iwvelando/amortization/pkg/format"
	"github.com/iwvelando/amortization/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CsvHeader lists the columns written by CsvFormat.
var CsvHeader = []string{"scenario", "period", "date", "installment", "interest", "principal", "extra", "balance"}

// utf8BOM lets spreadsheet applications detect the encoding of exported CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []schedule.Result) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		sched := result.Schedule
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		_, _ = fmt.Fprintf(w, "Period rate: %s | Periods: %d | Policy: %s\n",
			format.Percent(result.PeriodRate), sched.Parameters.NumPeriods, result.Policy)
		_, _ = fmt.Fprintf(w, "Period | Date       | Installment       | Interest          | Principal         | Extra             | Balance           | Notes\n")
		_, _ = fmt.Fprintf(w, "______ | __________ | _________________ | _________________ | _________________ | _________________ | _________________ | _____\n")
		for _, record := range sched.Records {
			_, _ = p.Fprintf(w, "%6d | %s | %17.2f | %17.2f | %17.2f | %17.2f | %17.2f | %s\n",
				record.Period,
				datetime.Display(record.Date),
				record.Installment,
				record.Interest,
				record.ScheduledPrincipal,
				record.ExtraPrincipal,
				record.Balance,
				strings.Join(result.Notes[record.Period], ","),
			)
		}

		summary := sched.Summary
		_, _ = fmt.Fprintf(w, "Total interest: %s\n", format.Currency(summary.TotalInterest))
		_, _ = fmt.Fprintf(w, "Total principal: %s\n", format.Currency(summary.TotalScheduledPrincipal))
		if !mathutil.IsZero(summary.TotalExtra) {
			_, _ = fmt.Fprintf(w, "Total extra payments: %s\n", format.Currency(summary.TotalExtra))
		}
		_, _ = fmt.Fprintf(w, "Total paid: %s\n", format.Currency(summary.TotalPaid))
		_, _ = fmt.Fprintf(w, "Final balance: %s\n", format.Currency(summary.FinalBalance))

		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes one row per period and scenario in comma-separated value format.
func CsvFormat(w io.Writer, results []schedule.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CsvHeader); err != nil {
		return err
	}

	for _, result := range results {
		for _, record := range result.Schedule.Records {
			row := []string{
				result.Name,
				strconv.Itoa(record.Period),
				datetime.Display(record.Date),
				format.Money(record.Installment),
				format.Money(record.Interest),
				format.Money(record.ScheduledPrincipal),
				format.Money(record.ExtraPrincipal),
				format.Money(record.Balance),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString returns the CsvFormat output as a string.
func CsvString(results []schedule.Result) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteCSV writes the CsvFormat output to path, prefixed with a UTF-8 byte order mark.
func WriteCSV(path string, results []schedule.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		_ = file.Close()
		return err
	}
	if err := CsvFormat(file, results); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
