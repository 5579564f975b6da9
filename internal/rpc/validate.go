package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"
)

// ValidationError reports input that failed decoding or validation, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("gallery_category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).ValidForGallery()
	})
	_ = v.RegisterValidation("datestr", func(fl validator.FieldLevel) bool {
		_, _, err := ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

func (r *Router) decode(c *fiber.Ctx, raw []byte, dst interface{}) error {
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := c.App().Config().JSONDecoder(raw, dst); err != nil {
			return decodeError(err)
		}
	}

	err := r.validate.Struct(dst)
	var invalid *validator.InvalidValidationError
	if err == nil || errors.As(err, &invalid) {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "input"
		}
		return &ValidationError{Fields: map[string]string{field: "must be " + typeErr.Type.String()}}
	}
	return &ValidationError{Fields: map[string]string{"input": "must be valid JSON"}}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid e-mail address"
	case "category":
		return "must be one of U8-U9, U10-U11, U13, U15, A"
	case "gallery_category":
		return "must be one of U8-U9, U10-U11, U13, U15, A, general"
	case "datestr":
		return "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
	default:
		return "failed on " + fe.Tag()
	}
}
