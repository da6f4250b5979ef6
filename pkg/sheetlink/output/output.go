package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	toon "github.com/mateuszkardas/toon-go"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ToJSON serializes v in its portable form. Map keys are sorted, so equal
// values always produce identical bytes.
func ToJSON(v any, pretty bool) ([]byte, error) {
	p := Portable(v)
	if pretty {
		return json.MarshalIndent(p, "", "  ")
	}
	return json.Marshal(p)
}

// ToTOON serializes v in its portable form as TOON text.
func ToTOON(v any) (string, error) {
	return toon.Marshal(Portable(v), nil)
}

//go:embed schema/parse_result.json
var parseResultSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func resultSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("parse_result.json", bytes.NewReader(parseResultSchema)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("parse_result.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateResult checks a serialized ParseResult against the result schema.
func ValidateResult(data []byte) error {
	schema, err := resultSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
