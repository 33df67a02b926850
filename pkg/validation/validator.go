package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/c3g/chord-project-service/pkg/contract"
)

// NewValidator builds a validator that knows the custom tags used on the contract
// input types. Field names in errors are the JSON names.
func NewValidator(dataUse *jsonschema.Schema) *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strcase.ToSnake(field.Name)
		}

		return name
	})

	// Any textual UUID form uuid.Parse accepts: hyphenated, braced, urn:uuid: or bare hex.
	validate.RegisterValidation("uuidText", func(fl validator.FieldLevel) bool {
		_, err := uuid.Parse(fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("notBlank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	validate.RegisterValidation("dataUse", func(fl validator.FieldLevel) bool {
		return dataUse.Validate(fl.Field().Interface()) == nil
	})

	return validate
}

func dereference(value interface{}) interface{} {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		return v.Elem().Interface()
	}

	return value
}

func newErrorFromValidationError(err error) *contract.Error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to validate input", err)
	}

	validationErrors := make([]string, 0, len(errs))
	for _, err := range errs {
		field := err.Field()

		var vErr string
		switch err.Tag() {
		case "required":
			vErr = fmt.Sprintf("Missing value for required parameter '%s'", field)
		case "notBlank":
			vErr = fmt.Sprintf("Parameter '%s' must not be blank", field)
		case "dataUse":
			vErr = fmt.Sprintf("Parameter '%s' does not match the data use schema", field)
		default:
			vErr = fmt.Sprintf("Invalid value %v for parameter '%s' supplied", dereference(err.Value()), field)
		}

		validationErrors = append(validationErrors, vErr)
	}

	return contract.NewError(contract.ErrorCodeInvalidParameterValue, strings.Join(validationErrors, ", "))
}
