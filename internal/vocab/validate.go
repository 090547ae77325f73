package vocab

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type stringRule struct {
	tag string
	ok  func(string) bool
}

var vocabRules = []stringRule{
	{"category", IsCategory},
	{"clothing_size", IsClothingSize},
	{"shoe_size", IsShoeSize},
	{"staff_role", IsStaffRole},
	{"memo_category", IsMemoCategory},
	{"target_type", IsTargetType},
	{"category_filter", IsCategoryFilter},
}

func registerRules(v *validator.Validate, rules []stringRule) error {
	for _, r := range rules {
		ok := r.ok
		err := v.RegisterValidation(r.tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("failed to register %q validation: %w", r.tag, err)
		}
	}
	return nil
}

// NewValidator returns a validator with the vocabulary tags registered.
// Field names in errors follow the json tag. It panics if a tag cannot be
// registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := registerRules(v, vocabRules); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// FormatErrors flattens validator errors into field -> message.
func FormatErrors(err error) map[string]string {
	fields := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fields
	}
	for _, e := range verrs {
		fields[e.Field()] = message(e)
	}
	return fields
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_without":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "category", "category_filter":
		return "unknown category"
	case "clothing_size":
		return "unknown clothing size"
	case "shoe_size":
		return "unknown shoe size"
	case "staff_role":
		return "unknown staff role"
	case "memo_category":
		return "unknown memo category"
	case "target_type":
		return "must be player or staff"
	case "size_for_category":
		return "size does not match category"
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
