package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/models/dtos"
)

// validateStruct runs the validator over a request DTO and converts
// tag failures into the per-field validation error shape.
func validateStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.Internal, "validation failed", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe)] = validationMessage(fe)
	}
	return apperr.ValidationFields("validation failed", fields)
}

// fieldName lower-cases the leading struct field to match the JSON
// casing clients sent.
func fieldName(fe validator.FieldError) string {
	// Namespace looks like "TrainingRequest.Trainer.Name"; drop the
	// root struct and lower-case each segment's first rune.
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid id"
	case "numeric":
		return "must be numeric"
	default:
		return "is invalid"
	}
}

func buildPagination(page, limit int, total int64) dtos.Pagination {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return dtos.Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		Total:       total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}
