package tui

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/validation"
)

type EntryFormModel struct {
	Title       string
	Description string
	Category    models.Category
	Icon        models.Icon
}

// NewEntryForm builds the add-moment form. Inputs are checked on every edit
// with the same rules the store enforces.
func NewEntryForm(fm *EntryFormModel, v *validation.Validator) *huh.Form {
	categories := make([]huh.Option[models.Category], 0, len(models.Categories()))
	for _, c := range models.Categories() {
		categories = append(categories, huh.NewOption(c.Label(), c))
	}
	icons := make([]huh.Option[models.Icon], 0, len(models.Icons()))
	for _, i := range models.Icons() {
		icons = append(icons, huh.NewOption(i.Glyph()+"  "+string(i), i))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Short walk").
				CharLimit(80).
				Value(&fm.Title).
				Validate(func(s string) error {
					return fieldError(v, validation.FieldTitle, s)
				}),
			huh.NewText().
				Title("Description").
				Placeholder("What does this moment look like?").
				CharLimit(400).
				Value(&fm.Description).
				Validate(func(s string) error {
					return fieldError(v, validation.FieldDescription, s)
				}),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewSelect[models.Icon]().
				Title("Icon").
				Options(icons...).
				Height(6).
				Value(&fm.Icon),
		),
	).WithShowHelp(true)
}

// fieldError strips the field name so the form shows just the message
func fieldError(v *validation.Validator, field, value string) error {
	err := v.Field(field, value)
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(verrs[0].Message)
	}
	return err
}
