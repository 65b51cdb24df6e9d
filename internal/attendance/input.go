package attendance

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// fieldMessages maps a field to the message reported when it fails validation.
var fieldMessages = map[string]string{
	"name":    "Name must be at least 2 characters.",
	"email":   "Invalid email address.",
	"plusOne": "plusOne must be true or false.",
}

// RegistrationInput is an RSVP as submitted. PlusOne is left untyped so that
// form-style values ("on", "1", "yes") are accepted next to JSON booleans.
// PlusOneSet records that the field was sent, so an explicit null counts as
// false instead of missing.
type RegistrationInput struct {
	Name       string
	Email      string
	PlusOne    any
	PlusOneSet bool
	Allergies  *string
	Notes      *string
}

// Registration is a validated and normalized RSVP.
type Registration struct {
	Name      string  `json:"name" validate:"min=2"`
	Email     string  `json:"email" validate:"required,email_shape"`
	PlusOne   *bool   `json:"plusOne" validate:"required"`
	Allergies *string `json:"allergies"`
	Notes     *string `json:"notes"`
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid registration: %s", strings.Join(keys, ", "))
}

// ParsePlusOne coerces a loosely typed flag. Booleans pass through; strings
// "true", "1", "on", "yes" and "ja" are true in any case; the number 1 is
// true. Everything else is false.
func ParsePlusOne(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t == 1
	case int:
		return t == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "on", "yes", "ja":
			return true
		}
		return false
	default:
		return ParsePlusOne(fmt.Sprint(t))
	}
}

// ParseRegistration normalizes the input and validates it.
func ParseRegistration(in RegistrationInput) (Registration, error) {
	reg := Registration{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Allergies: optionalText(in.Allergies),
		Notes:     optionalText(in.Notes),
	}
	if in.PlusOneSet || in.PlusOne != nil {
		plusOne := ParsePlusOne(in.PlusOne)
		reg.PlusOne = &plusOne
	}

	if err := validate.Struct(reg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return Registration{}, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			msg, ok := fieldMessages[fe.Field()]
			if !ok {
				msg = fe.Error()
			}
			fields[fe.Field()] = msg
		}
		return Registration{}, &ValidationError{Fields: fields}
	}

	return reg, nil
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
