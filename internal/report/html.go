package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
)

// HTML renders a page with the stacked weekly bar chart and today's pie
func HTML(w io.Writer, data Data) error {
	page := components.NewPage()
	page.PageTitle = "moments - statistics"
	page.AddCharts(weeklyBar(data), todayPie(data))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

func weeklyBar(data Data) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Last 7 days", Subtitle: data.subtitle()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)

	bar.SetXAxis(data.Labels())
	for _, c := range models.Categories() {
		values := data.Series(c)
		series := make([]opts.BarData, len(values))
		for i, v := range values {
			series[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(c.Label(), series,
			charts.WithBarChartOpts(opts.BarChart{Stack: "day"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: c.Palette().Chart}),
		)
	}
	return bar
}

// todayPie starts at 12 o'clock and runs clockwise, ECharts' default for pies
func todayPie(data Data) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Today", Subtitle: data.Generated.Format(constants.FeedTimestampFormat)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)

	items := make([]opts.PieData, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		v := data.Today[c]
		if v <= 0 {
			continue
		}
		items = append(items, opts.PieData{
			Name:      c.Label(),
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: c.Palette().Chart},
		})
	}
	pie.AddSeries("today", items, charts.WithPieChartOpts(opts.PieChart{Radius: "60%"}))
	return pie
}
