package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/c3g/chord-project-service/pkg/contract"
)

// Engine checks project and dataset payloads. It has no side effects and is safe for
// concurrent use.
type Engine struct {
	validator *validator.Validate
}

func NewEngine() (*Engine, error) {
	schema, err := CompileDataUseSchema()
	if err != nil {
		return nil, err
	}

	return &Engine{validator: NewValidator(schema)}, nil
}

// ValidateProject requires name and description to be strings and data_use to be an
// object matching the data use schema. The input is built from the same exact-key
// lookups that were checked, so other keys never leak into it.
func (e *Engine) ValidateProject(body []byte) (*contract.ProjectInput, *contract.Error) {
	doc, cErr := parseObject(body)
	if cErr != nil {
		return nil, cErr
	}

	name, cErr := requireString(doc, "name")
	if cErr != nil {
		return nil, cErr
	}

	description, cErr := requireString(doc, "description")
	if cErr != nil {
		return nil, cErr
	}

	dataUse, cErr := requireObject(doc, "data_use")
	if cErr != nil {
		return nil, cErr
	}

	input := contract.ProjectInput{
		Name:        name,
		Description: description,
		DataUse:     dataUse,
	}

	if err := e.validator.Struct(&input); err != nil {
		return nil, newErrorFromValidationError(err)
	}

	return &input, nil
}

// ValidateDataset requires dataset_id, service_id and data_type_id to be strings, the
// first two parseable as UUIDs.
func (e *Engine) ValidateDataset(body []byte) (*contract.DatasetInput, *contract.Error) {
	doc, cErr := parseObject(body)
	if cErr != nil {
		return nil, cErr
	}

	fields := [3]string{}
	for i, field := range []string{"dataset_id", "service_id", "data_type_id"} {
		value, cErr := requireString(doc, field)
		if cErr != nil {
			return nil, cErr
		}

		fields[i] = value
	}

	input := contract.DatasetInput{
		DatasetID:  fields[0],
		ServiceID:  fields[1],
		DataTypeID: fields[2],
	}

	if err := e.validator.Struct(&input); err != nil {
		return nil, newErrorFromValidationError(err)
	}

	return &input, nil
}

func (e *Engine) IsValidProject(body []byte) bool {
	_, cErr := e.ValidateProject(body)
	return cErr == nil
}

func (e *Engine) IsValidDataset(body []byte) bool {
	_, cErr := e.ValidateDataset(body)
	return cErr == nil
}

func parseObject(body []byte) (gjson.Result, *contract.Error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, contract.NewError(contract.ErrorCodeBadRequest, "Request body is not valid JSON")
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return gjson.Result{}, contract.NewError(contract.ErrorCodeBadRequest, "Request body must be a JSON object")
	}

	return doc, nil
}

// Lookups are on the exact key. gjson returns the first occurrence of a repeated key.
func requireString(doc gjson.Result, field string) (string, *contract.Error) {
	result := doc.Get(field)
	if !result.Exists() {
		return "", missingParameter(field)
	}

	if result.Type != gjson.String {
		return "", invalidParameter(field, result.Raw)
	}

	return result.Str, nil
}

// null is not an object, so {"data_use": null} fails here.
func requireObject(doc gjson.Result, field string) (map[string]interface{}, *contract.Error) {
	result := doc.Get(field)
	if !result.Exists() {
		return nil, missingParameter(field)
	}

	object, ok := result.Value().(map[string]interface{})
	if !result.IsObject() || !ok {
		return nil, invalidParameter(field, result.Raw)
	}

	return object, nil
}

func missingParameter(field string) *contract.Error {
	return contract.NewError(
		contract.ErrorCodeInvalidParameterValue,
		fmt.Sprintf("Missing value for required parameter '%s'", field),
	)
}

func invalidParameter(field, value string) *contract.Error {
	return contract.NewError(
		contract.ErrorCodeInvalidParameterValue,
		fmt.Sprintf("Invalid value %s for parameter '%s' supplied", value, field),
	)
}
