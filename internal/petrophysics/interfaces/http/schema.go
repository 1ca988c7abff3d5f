package http

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const calculateSchemaURL = "mem://well-analysis/calculate.json"

//go:embed schema/calculate.json
var calculateSchema []byte

// RequestValidator checks raw request bodies against a compiled JSON schema.
type RequestValidator struct {
	schema *jsonschema.Schema
}

// NewCalculateValidator compiles the embedded calculation request schema.
func NewCalculateValidator() (*RequestValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(calculateSchema))
	if err != nil {
		return nil, fmt.Errorf("parse calculate schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(calculateSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add calculate schema: %w", err)
	}
	schema, err := compiler.Compile(calculateSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile calculate schema: %w", err)
	}
	return &RequestValidator{schema: schema}, nil
}

// Validate parses body as JSON and validates it.
func (v *RequestValidator) Validate(body []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return v.schema.Validate(inst)
}
