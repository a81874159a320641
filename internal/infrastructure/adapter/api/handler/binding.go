package handler

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var fieldNamesOnce sync.Once

// RegisterFieldNames makes binding errors report json or form names
// (user_id, to_username) instead of Go field names
func RegisterFieldNames() {
	fieldNamesOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldName)
		}
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// bindError converts a gin binding failure into a domain validation error.
// Numeric parse failures carry no field name, so they are reported against
// numericField.
func bindError(err error, numericField string) error {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fe := vErrs[0]
		return errs.NewValidationError(fe.Field(), reasonFor(fe))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errs.NewValidationError(typeErr.Field, "has the wrong type")
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return errs.NewValidationError(numericField, "must be a valid number")
	}

	if errors.Is(err, io.EOF) {
		return errs.NewValidationError("body", "is required")
	}

	return errs.NewValidationError("body", "is not valid JSON")
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "gt":
		return "must be positive"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// isActionError reports whether binding failed on the auth action field
func isActionError(err error) bool {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return false
	}
	for _, fe := range vErrs {
		if fe.Field() == "action" {
			return true
		}
	}
	return false
}
