package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type uuidText struct {
	Value string `validate:"uuidText"`
}

type notBlank struct {
	Value string `validate:"notBlank"`
}

type validationScenario struct {
	name          string
	input         any
	shouldTrigger bool
}

func runScenarios(t *testing.T, scenarios []validationScenario) {
	t.Helper()

	schema, err := CompileDataUseSchema()
	require.NoError(t, err)

	validator := NewValidator(schema)

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			errs := validator.Struct(scenario.input)

			if scenario.shouldTrigger {
				require.Error(t, errs)
			} else {
				require.NoError(t, errs)
			}
		})
	}
}

func TestUUIDText(t *testing.T) {
	runScenarios(t, []validationScenario{
		{name: "lowercase", input: uuidText{Value: "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"}},
		{name: "uppercase", input: uuidText{Value: "AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE"}},
		{name: "no hyphens", input: uuidText{Value: "aaaaaaaabbbbccccddddeeeeeeeeeeee"}},
		{name: "empty", input: uuidText{Value: ""}, shouldTrigger: true},
		{name: "too short", input: uuidText{Value: "aaaaaaaa-bbbb"}, shouldTrigger: true},
		{name: "not hex", input: uuidText{Value: "zzzzzzzz-bbbb-cccc-dddd-eeeeeeeeeeee"}, shouldTrigger: true},
	})
}

func TestNotBlank(t *testing.T) {
	runScenarios(t, []validationScenario{
		{name: "word", input: notBlank{Value: "Study"}},
		{name: "padded word", input: notBlank{Value: "  Study\t"}},
		{name: "empty", input: notBlank{Value: ""}, shouldTrigger: true},
		{name: "whitespace", input: notBlank{Value: " \n\t "}, shouldTrigger: true},
	})
}
