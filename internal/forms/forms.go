package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"fyyur/internal/apperr"
)

var phonePattern = regexp.MustCompile(`^[0-9+()\-. ]{7,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("usstate", func(fl validator.FieldLevel) bool {
		return IsState(fl.Field().String())
	})
	v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return IsGenre(fl.Field().String())
	})
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// check runs the struct tags of form and merges the failures with errors
// collected while parsing. A parse error wins over a tag failure on the
// same field.
func check(op string, form interface{}, parseErrs map[string]string) error {
	fields := make(map[string]string, len(parseErrs))
	for name, msg := range parseErrs {
		fields[name] = msg
	}

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%s: %w", op, err)
		}
		for _, fe := range verrs {
			name := fieldName(fe)
			if _, ok := fields[name]; !ok {
				fields[name] = message(fe)
			}
		}
	}

	if len(fields) > 0 {
		return apperr.Invalid(op, fields)
	}
	return nil
}

// fieldName strips the index validator adds for slice elements, so every
// bad genre reports on "genres".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "gt":
		return "This field is required."
	case "usstate", "genre":
		return "Not a valid choice."
	case "url":
		return "Invalid URL."
	case "phone":
		return "Invalid phone number."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

func text(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// list returns the non-empty values submitted for a repeated field.
func list(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// checked reads an HTML checkbox.
func checked(values url.Values, key string) bool {
	switch strings.ToLower(values.Get(key)) {
	case "y", "yes", "on", "true", "1":
		return true
	}
	return false
}
