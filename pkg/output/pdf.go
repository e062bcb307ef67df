package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/amortization/internal/schedule"
	"github.com/iwvelando/amortization/pkg/datetime"
	"github.com/iwvelando/amortization/pkg/format"
	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Period", 14},
	{"Date", 22},
	{"Installment", 26},
	{"Interest", 26},
	{"Principal", 26},
	{"Extra", 26},
	{"Balance", 30},
}

// RenderPDF writes a printable report with one section per result: the loan
// summary followed by the period table.
func RenderPDF(w io.Writer, results []schedule.Result) error {
	pdf := buildPDF(results)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("unable to render pdf: %w", err)
	}
	return nil
}

// WritePDF saves the RenderPDF output to path.
func WritePDF(path string, results []schedule.Result) error {
	pdf := buildPDF(results)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("unable to save %s: %w", path, err)
	}
	return nil
}

func buildPDF(results []schedule.Result) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Amortization schedule", false)
	pdf.SetAutoPageBreak(true, 15)

	for _, result := range results {
		pdf.AddPage()
		summary := result.Schedule.Summary

		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "Amortization schedule - "+result.Name)
		pdf.Ln(12)

		pdf.SetFont("Arial", "", 10)
		lines := []string{
			"Principal: " + format.Currency(result.Schedule.Parameters.Principal),
			"Period rate: " + format.Percent(result.PeriodRate),
			fmt.Sprintf("Periods: %d (%s)", result.Schedule.Parameters.NumPeriods, result.Policy),
			"Total interest: " + format.Currency(summary.TotalInterest),
			"Total extra payments: " + format.Currency(summary.TotalExtra),
			"Total paid: " + format.Currency(summary.TotalPaid),
			"Final balance: " + format.Currency(summary.FinalBalance),
		}
		for _, line := range lines {
			pdf.Cell(60, 6, line)
			pdf.Ln(6)
		}
		pdf.Ln(4)

		pdfTableHeader(pdf)
		pdf.SetFont("Arial", "", 9)
		for _, record := range result.Schedule.Records {
			if pdf.GetY() > 270 {
				pdf.AddPage()
				pdfTableHeader(pdf)
				pdf.SetFont("Arial", "", 9)
			}
			cells := []string{
				strconv.Itoa(record.Period),
				datetime.Display(record.Date),
				format.NumericCurrency(record.Installment),
				format.NumericCurrency(record.Interest),
				format.NumericCurrency(record.ScheduledPrincipal),
				format.NumericCurrency(record.ExtraPrincipal),
				format.NumericCurrency(record.Balance),
			}
			for i, cell := range cells {
				align := "R"
				if i < 2 {
					align = "C"
				}
				pdf.CellFormat(pdfColumns[i].width, 6, cell, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	return pdf
}

func pdfTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for _, column := range pdfColumns {
		pdf.CellFormat(column.width, 7, column.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
