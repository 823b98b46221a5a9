package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

var (
	v *validator.Validate

	reNonDigit = regexp.MustCompile(`\D`)
)

func init() {
	v = validator.New()

	// Use JSON tag as the field name in error output
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})

	// Empty is allowed; omitempty or a pointer decides whether it is required.
	_ = v.RegisterValidation("designation", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		return val == "" || models.Designation(val).Valid()
	})

	_ = v.RegisterValidation("matterstatus", func(fl validator.FieldLevel) bool {
		switch models.CaseStatus(fl.Field().String()) {
		case "", models.CaseOpen, models.CaseClosed:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("reconmode", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "none", "transfer", "final":
			return true
		}
		return false
	})

	// Phone: 7 to 15 digits once punctuation is stripped.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		val := strings.TrimSpace(fl.Field().String())
		if val == "" {
			return true
		}
		return ValidPhone(val)
	})
}

// ValidPhone reports whether s carries 7 to 15 digits.
func ValidPhone(s string) bool {
	n := len(reNonDigit.ReplaceAllString(s, ""))
	return n >= 7 && n <= 15
}

// Validate returns map[field][]messages (Laravel-like)
func Validate(s any) (map[string][]string, error) {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		out := make(map[string][]string)
		for _, e := range ve {
			field := e.Field() // already mapped from json tag

			switch e.Tag() {
			case "required":
				out[field] = append(out[field], "This field is required")

			case "email":
				out[field] = append(out[field], "Invalid email format")

			case "min":
				if e.Kind() == reflect.String {
					out[field] = append(out[field], fmt.Sprintf("Must be at least %s characters", e.Param()))
				} else {
					out[field] = append(out[field], fmt.Sprintf("Must be at least %s", e.Param()))
				}

			case "max":
				if e.Kind() == reflect.String {
					out[field] = append(out[field], fmt.Sprintf("Must be at most %s characters", e.Param()))
				} else {
					out[field] = append(out[field], fmt.Sprintf("Must be at most %s", e.Param()))
				}

			case "oneof":
				out[field] = append(out[field], "Value is not allowed")

			case "uuid", "uuid4":
				out[field] = append(out[field], "Invalid UUID format")

			case "gte":
				out[field] = append(out[field], fmt.Sprintf("Must be greater than or equal to %s", e.Param()))

			case "lte":
				out[field] = append(out[field], fmt.Sprintf("Must be less than or equal to %s", e.Param()))

			case "datetime":
				out[field] = append(out[field], "Must be a date (YYYY-MM-DD)")

			case "role":
				out[field] = append(out[field], "Unknown role")

			case "designation":
				out[field] = append(out[field], "Must be plaintiff or defendant")

			case "matterstatus":
				out[field] = append(out[field], "Must be Open or Closed")

			case "reconmode":
				out[field] = append(out[field], "Must be none, transfer or final")

			case "phone":
				out[field] = append(out[field], "Phone must have 7 to 15 digits")

			default:
				// Fall back to the validator's message for unmapped tags
				out[field] = append(out[field], e.Error())
			}
		}
		return out, nil
	}
	return nil, nil
}
