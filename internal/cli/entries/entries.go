package entries

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
	"github.com/julianstephens/moments/internal/validation"
)

type EntryCmd struct {
	Add    EntryAddCmd    `cmd:"" help:"Add a new moment."`
	List   EntryListCmd   `cmd:"" help:"List moments." default:"1"`
	Delete EntryDeleteCmd `cmd:"" help:"Delete a moment and its recorded activities."`
}

type EntryAddCmd struct {
	Title       string `help:"Title (1-50 characters, single line)." required:""`
	Description string `help:"Description (3-300 characters)." required:""`
	Category    string `help:"Category: relaxation, creativity or movement." required:""`
	Icon        string `help:"Icon name." default:"directions_walk"`
}

func (c *EntryAddCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}
	icon, err := models.ParseIcon(c.Icon)
	if err != nil {
		return err
	}

	in := validation.EntryInput{
		Title:       c.Title,
		Description: c.Description,
		Category:    string(category),
		Icon:        string(icon),
	}.Trimmed()
	if err := validation.New().ValidateEntry(in); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			lines := make([]string, len(verrs))
			for i, ve := range verrs {
				lines[i] = fmt.Sprintf("  %s: %s", ve.Field, ve.Message)
			}
			return fmt.Errorf("invalid moment:\n%s", strings.Join(lines, "\n"))
		}
		return err
	}

	entry, err := ctx.Repo.AddEntry(in.Title, in.Description, category, icon)
	if err != nil {
		return fmt.Errorf("failed to add moment: %w", err)
	}

	ctx.Printf("Added moment: %s %s (%s)\n", entry.Icon.Glyph(), entry.Title, entry.ID)
	return nil
}

type EntryListCmd struct {
	Category string `help:"Only show moments of this category."`
}

func (c *EntryListCmd) Run(ctx *cli.Context) error {
	filter := stats.FilterAll
	var entries []models.Entry
	if c.Category != "" {
		category, err := models.ParseCategory(c.Category)
		if err != nil {
			return err
		}
		filter = stats.Filter(category)
		if entries, err = ctx.Repo.EntriesByCategory(category); err != nil {
			return err
		}
	} else {
		var err error
		if entries, err = ctx.Repo.Entries(); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		if filter == stats.FilterAll {
			ctx.Println("No moments yet. Add one with 'moments entry add'.")
		} else {
			ctx.Printf("No %s moments.\n", filter.Label())
		}
		return nil
	}

	ctx.Println("Moments:")
	for _, e := range entries {
		ctx.Printf("  %s %s [%s]\n", e.Icon.Glyph(), e.Title, e.Category.Label())
		ctx.Printf("      %s\n", strings.ReplaceAll(e.Description, "\n", "\n      "))
		ctx.Printf("      id: %s\n", e.ID)
	}
	return nil
}

type EntryDeleteCmd struct {
	Ref string `arg:"" help:"ID or exact title of the moment."`
}

func (c *EntryDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Repo.ResolveEntry(c.Ref)
	if err != nil {
		return err
	}
	n, err := ctx.Repo.DeleteEntryByID(entry.ID)
	if err != nil {
		return fmt.Errorf("failed to delete moment: %w", err)
	}
	ctx.Printf("Deleted moment: %s (%d recorded activit%s removed)\n", entry.Title, n, plural(n, "y", "ies"))
	return nil
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
