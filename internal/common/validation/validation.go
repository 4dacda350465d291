package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
)

// FieldError is the first rule a struct field failed. Field is the field's
// json name.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("field %s failed %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("field %s failed %s", e.Field, e.Rule)
}

// Missing reports whether the field was absent rather than malformed.
func (e *FieldError) Missing() bool {
	return e.Rule == "required" || e.Rule == "notblank"
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "trimmed", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == strings.TrimSpace(s)
	})
	mustRegister(v, "maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(constants.DateLayout, fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// Struct validates s and returns a *FieldError for the first failing field in
// declaration order.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()}
	}
	return err
}

// ToDomainError converts a *FieldError into the shared validation error with
// the field in its details. Other errors are returned unchanged.
func ToDomainError(err error) error {
	fe, ok := AsFieldError(err)
	if !ok {
		return err
	}

	message := "invalid field: " + fe.Field
	if fe.Missing() {
		message = "missing field: " + fe.Field
	}
	return commonerrors.ErrValidation.
		WithDetails(map[string]any{"field": fe.Field, "rule": fe.Rule}).
		WithMessage(message)
}

func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
