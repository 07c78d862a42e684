package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSchema reads and validates the schema YAML file at path.
func LoadSchema(path string) (*SchemaConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadSchemaFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadSchemaFromReader decodes a schema YAML document from r and validates
// the result. Exposed separately so tests can build schemas from literals.
func LoadSchemaFromReader(r io.Reader) (*SchemaConfig, error) {
	cfg := &SchemaConfig{}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := ValidateSchema(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateSchema checks that cfg names a schema id and a non-empty
// pipeline, returning a joined error listing every problem found.
func ValidateSchema(cfg *SchemaConfig) error {
	var errs []error

	if cfg.Schema.SchemaID == "" {
		errs = append(errs, errors.New("schema/schema_id is required"))
	}
	if len(cfg.Engine.Translators) == 0 {
		errs = append(errs, errors.New("engine/translators must name at least one translator"))
	}
	for i, rule := range keyBinderRules(cfg) {
		if rule.When != "" && !isValidWhen(rule.When) {
			errs = append(errs, fmt.Errorf("key_binder/bindings[%d].when %q is invalid; valid values: always, composing, has_menu, paging", i, rule.When))
		}
		if rule.Accept == "" {
			errs = append(errs, fmt.Errorf("key_binder/bindings[%d].accept is required", i))
		}
	}
	for i, sw := range cfg.Switches {
		if len(sw.Options) > 1 && len(sw.Options) != len(sw.States) {
			errs = append(errs, fmt.Errorf("switches[%d]: options and states must have matching length", i))
		}
	}

	return errors.Join(errs...)
}

func keyBinderRules(cfg *SchemaConfig) []KeyBindingRule {
	if cfg.KeyBinder == nil {
		return nil
	}
	return cfg.KeyBinder.Bindings
}

func isValidWhen(when string) bool {
	switch when {
	case "always", "composing", "has_menu", "paging":
		return true
	default:
		return false
	}
}
