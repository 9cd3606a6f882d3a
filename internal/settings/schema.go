package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrRecordInvalid is returned when a record fails schema validation.
var ErrRecordInvalid = errors.New("settings: record failed schema validation")

const recordSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"classes": {"type": "string"}
	}
}`

// RecordError lists the schema violations found for one instance record.
type RecordError struct {
	Number int
	Issues []string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("settings: instance %d invalid: %s", e.Number, strings.Join(e.Issues, "; "))
}

func (e *RecordError) Unwrap() error {
	return ErrRecordInvalid
}

// SchemaGuard validates instance records before they are persisted.
type SchemaGuard struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewSchemaGuard constructs a guard using the built-in record schema.
func NewSchemaGuard() *SchemaGuard {
	return &SchemaGuard{}
}

func (g *SchemaGuard) compiled() (*jsonschema.Schema, error) {
	g.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("widget-instance.json", strings.NewReader(recordSchema)); err != nil {
			g.err = err
			return
		}
		g.schema, g.err = compiler.Compile("widget-instance.json")
	})
	return g.schema, g.err
}

// ValidateRecord checks a single instance record.
func (g *SchemaGuard) ValidateRecord(number int, record InstanceSettings) error {
	if g == nil {
		return nil
	}
	schema, err := g.compiled()
	if err != nil {
		return fmt.Errorf("settings: compile record schema: %w", err)
	}
	payload, err := toJSONValue(record)
	if err != nil {
		return &RecordError{Number: number, Issues: []string{err.Error()}}
	}
	if err := schema.Validate(payload); err != nil {
		return &RecordError{Number: number, Issues: collectIssues(err)}
	}
	return nil
}

// Validate checks every record in the collection.
func (g *SchemaGuard) Validate(options InstanceOptions) error {
	if g == nil {
		return nil
	}
	for number, record := range options {
		if err := g.ValidateRecord(number, record); err != nil {
			return err
		}
	}
	return nil
}

// toJSONValue round-trips through encoding/json so the validator sees plain
// JSON types.
func toJSONValue(record InstanceSettings) (any, error) {
	if record == nil {
		record = InstanceSettings{}
	}
	encoded, err := json.Marshal(map[string]any(record))
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectIssues(err error) []string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return []string{err.Error()}
	}
	issues := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			}
			issues = append(issues, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}
