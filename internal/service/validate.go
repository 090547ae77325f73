package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/kitroom/internal/vocab"
)

// newValidator extends the vocabulary validator with rules that span fields.
func newValidator() *validator.Validate {
	v := vocab.NewValidator()
	v.RegisterStructValidation(inboundSizeRule, InboundRequest{})
	v.RegisterStructValidation(distributionSizeRule, DistributionRequest{})
	v.RegisterStructValidation(personSizeRule, PersonRequest{})
	return v
}

func inboundSizeRule(sl validator.StructLevel) {
	r := sl.Current().Interface().(InboundRequest)
	if vocab.IsCategory(r.Category) && r.Size != "" && !vocab.ValidSize(r.Category, r.Size) {
		sl.ReportError(r.Size, "size", "Size", "size_for_category", "")
	}
}

// distributionSizeRule accepts any known size when no specific category is
// selected.
func distributionSizeRule(sl validator.StructLevel) {
	r := sl.Current().Interface().(DistributionRequest)
	if r.Size == "" {
		return
	}
	if vocab.IsCategory(r.Category) {
		if !vocab.ValidSize(r.Category, r.Size) {
			sl.ReportError(r.Size, "size", "Size", "size_for_category", "")
		}
		return
	}
	if !vocab.IsClothingSize(r.Size) && !vocab.IsShoeSize(r.Size) {
		sl.ReportError(r.Size, "size", "Size", "size_for_category", "")
	}
}

func personSizeRule(sl validator.StructLevel) {
	r := sl.Current().Interface().(PersonRequest)
	if r.Kind == "staff" && r.Role == "" {
		sl.ReportError(r.Role, "role", "Role", "required", "")
	}
}
