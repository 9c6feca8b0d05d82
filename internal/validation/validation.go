// Package validation checks the entry form and settings input using
// go-playground/validator with a few domain tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
)

var (
	// Anything that is not a letter, mark, number, punctuation, symbol, space,
	// zero-width joiner or emoji variation selector.
	invalidTitleChar       = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\p{P}\p{S} \x{200D}\x{FE0F}]`)
	invalidDescriptionChar = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\p{P}\p{S}\n\t \x{200D}\x{FE0F}]`)
)

// Field names as reported in ValidationError.Field
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldIcon        = "icon"
	FieldTimezone    = "timezone"
)

var fieldTags = map[string]string{
	FieldTitle:       "trimmed_min=1,max_runes=" + strconv.Itoa(constants.TitleMaxLen) + ",single_line,title_chars",
	FieldDescription: "trimmed_min=" + strconv.Itoa(constants.DescriptionMinLen) + ",max_runes=" + strconv.Itoa(constants.DescriptionMaxLen) + ",description_chars",
	FieldCategory:    "category",
	FieldIcon:        "icon",
	FieldTimezone:    "timezone",
}

// EntryInput is the raw entry form. Its rules are the fieldTags of the
// matching form fields.
type EntryInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
}

// Trimmed returns the input with surrounding whitespace removed from the text fields
func (in EntryInput) Trimmed() EntryInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// For returns the message for field, or "" when the field is valid
func (v ValidationErrors) For(field string) string {
	for _, err := range v {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the domain tags registered
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on empty tag names or nil funcs
	_ = v.RegisterValidation("trimmed_min", validateTrimmedMin)
	_ = v.RegisterValidation("max_runes", validateMaxRunes)
	_ = v.RegisterValidation("single_line", validateSingleLine)
	_ = v.RegisterValidation("title_chars", validateTitleChars)
	_ = v.RegisterValidation("description_chars", validateDescriptionChars)
	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("icon", validateIcon)
	_ = v.RegisterValidation("timezone", validateTimezone)

	v.RegisterStructValidationMapRules(map[string]string{
		"Title":       fieldTags[FieldTitle],
		"Description": fieldTags[FieldDescription],
		"Category":    fieldTags[FieldCategory],
		"Icon":        fieldTags[FieldIcon],
	}, EntryInput{})

	return &Validator{validate: v}
}

// ValidateEntry checks every field of the entry form. The returned error is
// a ValidationErrors with at most one message per field.
func (v *Validator) ValidateEntry(in EntryInput) error {
	return convert(v.validate.Struct(in), "")
}

// Field validates a single form value, for inline feedback while typing
func (v *Validator) Field(field, value string) error {
	tags, ok := fieldTags[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	return convert(v.validate.Var(value, tags), field)
}

func convert(err error, field string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range fieldErrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		value := fmt.Sprintf("%v", fe.Value())
		out = append(out, ValidationError{
			Field:   name,
			Message: msgForTag(name, fe.Tag(), fe.Param(), value),
			Tag:     fe.Tag(),
			Value:   value,
		})
	}
	return out
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(field, tag, param, value string) string {
	switch tag {
	case "trimmed_min":
		if field == FieldTitle {
			return "Please enter a title."
		}
		return fmt.Sprintf("At least %s characters.", param)
	case "max_runes":
		return fmt.Sprintf("At most %s characters.", param)
	case "single_line":
		return "Title must not contain a line break."
	case "title_chars":
		return fmt.Sprintf("Invalid character: %q", FirstInvalidChar(value, false))
	case "description_chars":
		return fmt.Sprintf("Invalid character: %q", FirstInvalidChar(value, true))
	case "category":
		return fmt.Sprintf("Category must be one of: %s", strings.Join(models.CategoryKeys(), ", "))
	case "icon":
		return "Unknown icon."
	case "timezone":
		return "Must be an IANA timezone name or Local."
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, tag)
	}
}

// FirstInvalidChar returns the first disallowed character in s, or "" if none
func FirstInvalidChar(s string, multiline bool) string {
	rx := invalidTitleChar
	if multiline {
		rx = invalidDescriptionChar
	}
	return rx.FindString(s)
}

// Custom validators

func validateTrimmedMin(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= limit
}

func validateMaxRunes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(fl.Field().String()) <= limit
}

func validateSingleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "\r\n")
}

func validateTitleChars(fl validator.FieldLevel) bool {
	return !invalidTitleChar.MatchString(fl.Field().String())
}

func validateDescriptionChars(fl validator.FieldLevel) bool {
	return !invalidDescriptionChar.MatchString(fl.Field().String())
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

func validateIcon(fl validator.FieldLevel) bool {
	return models.Icon(fl.Field().String()).Valid()
}

func validateTimezone(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
