package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
)

var validate = newValidator()

// newValidator keys validation errors by the json tag so the details map in
// an error response matches the request body the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody decodes the request body into dest, rejecting unknown
// fields, then runs struct validation. Both failure modes surface as
// CodeValidation with per-field details.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}

	details := map[string]string{}
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid uuid"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	}
	return "is invalid"
}
