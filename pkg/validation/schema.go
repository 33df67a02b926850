package validation

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const dataUseSchemaURL = "https://distributedgenomics.ca/schemas/chord/data_use.schema.json"

//go:embed data_use.schema.json
var dataUseSchema []byte

// CompileDataUseSchema compiles the packaged data use schema. It is done once per
// process; the compiled schema is safe for concurrent use.
func CompileDataUseSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := compiler.AddResource(dataUseSchemaURL, bytes.NewReader(dataUseSchema)); err != nil {
		return nil, fmt.Errorf("failed to load data use schema: %w", err)
	}

	schema, err := compiler.Compile(dataUseSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile data use schema: %w", err)
	}

	return schema, nil
}
