package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator plugs go-playground/validator into echo; field names in
// errors use the json tag.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

// Validate implements echo.Validator. Field errors are joined into one 400
// message that names fields by their JSON path.
func (rv *requestValidator) Validate(i any) error {
	if err := rv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.SplitN(fe.Namespace(), ".", 2)
		path := fe.Field()
		if len(field) == 2 {
			path = field[1]
		}
		switch fe.Tag() {
		case "required", "required_without":
			parts = append(parts, path+" is required")
		case "numeric":
			parts = append(parts, path+" must be a number")
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", path, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", path, fe.Tag()))
		}
	}
	return "invalid request: " + strings.Join(parts, "; ")
}
