package entries

import (
	"fmt"

	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/stats"
	"github.com/julianstephens/moments/internal/utils"
)

type LogCmd struct {
	Ref string `arg:"" help:"ID or exact title of the moment to record."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Repo.ResolveEntry(c.Ref)
	if err != nil {
		return err
	}
	log, err := ctx.Repo.AddLog(entry.ID)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	ctx.Printf("Recorded %s %s at %s\n", entry.Icon.Glyph(), entry.Title, utils.FormatFeedTimestamp(log.Timestamp, loc))
	return nil
}

type FeedCmd struct {
	Limit int `help:"Maximum number of activities to show (0 for all)." default:"20"`
}

func (c *FeedCmd) Run(ctx *cli.Context) error {
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	logs, err := ctx.Repo.Logs()
	if err != nil {
		return err
	}
	entries, err := ctx.Repo.Entries()
	if err != nil {
		return err
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	items := stats.Feed(logs, entries)
	if len(items) == 0 {
		ctx.Println("No recorded activities yet. Record one with 'moments log <moment>'.")
		return nil
	}
	if c.Limit > 0 && len(items) > c.Limit {
		items = items[:c.Limit]
	}

	ctx.Println("Recorded activities:")
	for _, item := range items {
		ctx.Printf("  %s  %s %s [%s]\n",
			utils.FormatFeedTimestamp(item.Timestamp, loc), item.Glyph(), item.Title, item.CategoryLabel())
	}
	return nil
}
