// Package questions serves the applicant questionnaire that collects the
// model's feature answers.
package questions

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
)

// ErrInvalidCatalog marks questionnaires that fail schema or feature checks.
var ErrInvalidCatalog = errors.New("invalid question catalog")

const schemaURL = "schema://loan-risk/questions.json"

//go:embed questions.schema.json
var catalogSchemaJSON []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Catalog is an immutable, ordered questionnaire.
type Catalog struct {
	questions []model.Question
}

// Load reads the questionnaire at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load question catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse validates data against the questionnaire schema. Keys must be unique.
func Parse(data []byte) (*Catalog, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidCatalog, err)
	}
	schema, err := catalogSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var qs []model.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	seen := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		if _, dup := seen[q.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate question key %q", ErrInvalidCatalog, q.Key)
		}
		seen[q.Key] = struct{}{}
	}

	return &Catalog{questions: qs}, nil
}

// CheckAgainst verifies the questionnaire asks for exactly the schema's
// features, so every complete submission can be scored.
func (c *Catalog) CheckAgainst(schema *model.FeatureSchema) error {
	keys := make(map[string]struct{}, len(c.questions))
	for _, q := range c.questions {
		if !schema.Contains(q.Key) {
			return fmt.Errorf("%w: question %q does not map to a model feature", ErrInvalidCatalog, q.Key)
		}
		keys[q.Key] = struct{}{}
	}
	for _, name := range schema.Names() {
		if _, ok := keys[name]; !ok {
			return fmt.Errorf("%w: no question collects feature %q", ErrInvalidCatalog, name)
		}
	}
	return nil
}

// Questions returns a copy of the questionnaire in display order.
func (c *Catalog) Questions() []model.Question {
	out := make([]model.Question, len(c.questions))
	for i, q := range c.questions {
		q.Options = append([]model.QuestionOption(nil), q.Options...)
		out[i] = q
	}
	return out
}

func catalogSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal(catalogSchemaJSON, &def); err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}
