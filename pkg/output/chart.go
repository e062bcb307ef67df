package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/iwvelando/amortization/internal/schedule"
	"github.com/iwvelando/amortization/pkg/format"
)

// RenderChart writes an HTML page with, per result, a bar chart of each
// installment beside a stack of its interest, principal and extra payment,
// followed by a line chart of the outstanding balance.
func RenderChart(w io.Writer, results []schedule.Result) error {
	page := components.NewPage()
	page.PageTitle = "Amortization schedule"

	for _, result := range results {
		page.AddCharts(paymentsChart(result), balanceChart(result))
	}

	return page.Render(w)
}

// WriteChart saves the RenderChart output to path.
func WriteChart(path string, results []schedule.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}

	if err := RenderChart(file, results); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func periods(result schedule.Result) []string {
	labels := make([]string, len(result.Schedule.Records))
	for i, record := range result.Schedule.Records {
		labels[i] = strconv.Itoa(record.Period)
	}
	return labels
}

func paymentsChart(result schedule.Result) *charts.Bar {
	records := result.Schedule.Records
	installment := make([]opts.BarData, len(records))
	interest := make([]opts.BarData, len(records))
	principal := make([]opts.BarData, len(records))
	extra := make([]opts.BarData, len(records))
	for i, record := range records {
		installment[i] = opts.BarData{Value: record.Installment}
		interest[i] = opts.BarData{Value: record.Interest}
		principal[i] = opts.BarData{Value: record.ScheduledPrincipal}
		extra[i] = opts.BarData{Value: record.ExtraPrincipal}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    result.Name,
			Subtitle: fmt.Sprintf("Period rate %s, total interest %s", format.Percent(result.PeriodRate), format.Currency(result.Schedule.Summary.TotalInterest)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Period"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Payment"}),
	)

	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "payment"})
	bar.SetXAxis(periods(result)).
		AddSeries("Installment", installment).
		AddSeries("Interest", interest, stack).
		AddSeries("Principal", principal, stack).
		AddSeries("Extra", extra, stack)
	return bar
}

func balanceChart(result schedule.Result) *charts.Line {
	records := result.Schedule.Records
	balance := make([]opts.LineData, len(records))
	for i, record := range records {
		balance[i] = opts.LineData{Value: record.Balance}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: result.Name + " balance"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Period"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Balance"}),
	)
	line.SetXAxis(periods(result)).AddSeries("Balance", balance)
	return line
}
