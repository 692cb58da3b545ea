package source

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed mirror_envelope.schema.json
var mirrorEnvelopeSchemaJSON string

var (
	envelopeCompileOnce sync.Once
	envelopeSchema      *jsonschema.Schema
	envelopeSchemaErr   error
)

// ValidateMirrorEnvelope checks a raw_json envelope against the schema and
// returns its decoded form. A missing envelope is valid and decodes to an
// empty map; a malformed one is a parse failure for the row.
func ValidateMirrorEnvelope(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}

	value, err := decodeStrictJSON(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode envelope JSON: %w", err)
	}

	schema, err := loadEnvelopeSchema()
	if err != nil {
		return nil, fmt.Errorf("load envelope schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("envelope validation failed: %w", err)
	}

	envelope, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("envelope is not a JSON object")
	}
	return envelope, nil
}

func loadEnvelopeSchema() (*jsonschema.Schema, error) {
	envelopeCompileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("mirror_envelope.schema.json", strings.NewReader(mirrorEnvelopeSchemaJSON)); err != nil {
			envelopeSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile("mirror_envelope.schema.json")
		if err != nil {
			envelopeSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		envelopeSchema = schema
	})

	if envelopeSchemaErr != nil {
		return nil, envelopeSchemaErr
	}
	if envelopeSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return envelopeSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("envelope contains trailing content")
	}
	return value, nil
}

// envString reads a string attribute; absent keys read as "".
func envString(envelope map[string]any, key string) string {
	v, ok := envelope[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// envNumeric reads an attribute that may arrive as a string or a number and
// renders it as its string form for the lenient coercers.
func envNumeric(envelope map[string]any, key string) string {
	v, ok := envelope[key]
	if !ok {
		return ""
	}
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case json.Number:
		return value.String()
	default:
		return ""
	}
}
