// Package validator adapts go-playground/validator to echo.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"coffeexport/internal/domain/entity"
)

type enum interface {
	IsValid() bool
}

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds a validator that reports JSON field names and knows the domain enums.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	registerEnum[entity.BusinessType](v, "business_type")
	registerEnum[entity.ExporterStatus](v, "exporter_status")
	registerEnum[entity.ArtifactKind](v, "artifact_kind")
	registerEnum[entity.ArtifactStatus](v, "artifact_status")

	return &CustomValidator{validate: v}
}

func registerEnum[T ~string](v *validator.Validate, tag string) {
	_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value, ok := any(T(fl.Field().String())).(enum)

		return ok && value.IsValid()
	})
}

// Validate runs struct validation and flattens failures into one readable error.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}

	return errors.New(strings.Join(msgs, "; "))
}
