package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/julianstephens/moments/internal/models"
)

// PNG saves the stacked weekly bar chart as an image. The file extension
// selects the format, so .svg and .pdf work as well.
func PNG(path string, data Data) error {
	p := plot.New()
	p.Title.Text = "Last 7 days"
	p.Y.Label.Text = "Activities"
	p.Y.Min = 0
	p.Legend.Top = true

	var below *plotter.BarChart
	for _, c := range models.Categories() {
		series := data.Series(c)
		values := make(plotter.Values, len(series))
		for i, v := range series {
			values[i] = float64(v)
		}

		bars, err := plotter.NewBarChart(values, vg.Points(24))
		if err != nil {
			return fmt.Errorf("failed to build %s bars: %w", c, err)
		}
		col, err := parseHex(c.Palette().Chart)
		if err != nil {
			return err
		}
		bars.Color = col
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(c.Label(), bars)
		below = bars
	}

	p.NominalX(data.Labels()...)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save png report: %w", err)
	}
	return nil
}
