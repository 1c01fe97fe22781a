package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	schemaTitleList = "title_list"
	schemaRankList  = "rank_list"
)

// schemaSources son los contratos del camino JSON estricto de los parsers.
var schemaSources = map[string]string{
	schemaTitleList: `{
		"type": "array",
		"minItems": 1,
		"items": {
			"anyOf": [
				{"type": "string"},
				{"type": "object", "required": ["title"], "properties": {"title": {"type": "string"}}}
			]
		}
	}`,
	schemaRankList: `{
		"type": "array",
		"minItems": 1,
		"items": {
			"anyOf": [
				{"type": "string"},
				{
					"type": "object",
					"required": ["name"],
					"properties": {"name": {"type": "string"}, "rationale": {"type": "string"}}
				}
			]
		}
	}`,
}

var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}
	src, ok := schemaSources[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validateJSON valida un candidato JSON crudo contra el schema indicado.
func validateJSON(name, candidate string) error {
	compiled, err := compiledSchema(name)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(candidate))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
