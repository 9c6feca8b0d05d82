package reports

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moments/internal/chart"
	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/report"
	"github.com/julianstephens/moments/internal/stats"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// build loads only the logs inside the 7-day window
func build(ctx *cli.Context) (report.Data, error) {
	loc, err := ctx.Location()
	if err != nil {
		return report.Data{}, err
	}
	now := ctx.Now()
	logs, err := ctx.Repo.LogsInWindow(stats.Window(now, loc))
	if err != nil {
		return report.Data{}, err
	}
	entries, err := ctx.Repo.Entries()
	if err != nil {
		return report.Data{}, err
	}
	return report.Build(logs, entries, now, loc), nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	data, err := build(ctx)
	if err != nil {
		return err
	}

	legend := chart.Legend(models.Categories())

	ctx.Println(headingStyle.Render("Last 7 days"))
	ctx.Println(chart.StackedBars(data.Week, chart.DefaultBarOptions()))
	ctx.Println(legend)
	ctx.Println()

	ctx.Println(headingStyle.Render("Today"))
	if data.Today.Total() == 0 {
		ctx.Println("Nothing recorded today yet.")
	}
	ctx.Println(chart.Pie(data.Today, chart.DefaultPieOptions()))
	ctx.Println(legend)
	for _, cat := range models.Categories() {
		ctx.Printf("  %-12s %d\n", cat.Label(), data.Today[cat])
	}
	return nil
}

type ReportCmd struct {
	HTML string `help:"Write an interactive HTML report to this path." type:"path" xor:"format" required:""`
	PNG  string `name:"png" help:"Write the weekly chart as an image (.png, .svg or .pdf)." type:"path" xor:"format" required:""`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	data, err := build(ctx)
	if err != nil {
		return err
	}

	if c.HTML != "" {
		f, err := os.Create(c.HTML)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		if err := report.HTML(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		ctx.Printf("✓ HTML report written to %s\n", c.HTML)
	}

	if c.PNG != "" {
		if err := report.PNG(c.PNG, data); err != nil {
			return err
		}
		ctx.Printf("✓ Chart written to %s\n", c.PNG)
	}
	return nil
}
