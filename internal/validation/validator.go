package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"wiki-quiz/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground validator with the quiz request rules
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("wikipedia_url", validateWikipediaURL)

	return &Validator{validate: v}
}

// Struct validates a request struct and returns domain.ValidationErrors on failure.
func (v *Validator) Struct(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, domain.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

// QuizID validates a quiz identifier taken from a path parameter.
func (v *Validator) QuizID(id string) error {
	if err := v.validate.Var(id, "required,ulid"); err != nil {
		return domain.ValidationErrors{{Field: "id", Message: "must be a valid quiz ID"}}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "wikipedia_url":
		return "must be a Wikipedia article URL (https://<lang>.wikipedia.org/wiki/...)"
	case "min":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "max":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "ulid":
		return "must be a valid quiz ID"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// IsWikipediaURL reports whether raw is an http(s) URL on a wikipedia.org host
// whose path is an article under /wiki/.
func IsWikipediaURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != "wikipedia.org" && !strings.HasSuffix(host, ".wikipedia.org") {
		return false
	}
	return strings.HasPrefix(u.Path, "/wiki/") && len(u.Path) > len("/wiki/")
}

func validateWikipediaURL(fl validator.FieldLevel) bool {
	return IsWikipediaURL(fl.Field().String())
}
