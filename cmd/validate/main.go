package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/resolution-engine/pkg/content"
)

//go:embed catalog.schema.json
var catalogSchema string

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <content.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator, err := NewCatalogValidator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load schema: %v\n", err)
		os.Exit(1)
	}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Content catalog is valid!")
}

type CatalogValidator struct {
	schema *jsonschema.Schema
	errors []string
}

func NewCatalogValidator() (*CatalogValidator, error) {
	schema, err := jsonschema.CompileString("catalog.schema.json", catalogSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return &CatalogValidator{schema: schema}, nil
}

func (v *CatalogValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return v.validate(filename, data)
}

func (v *CatalogValidator) validate(filename string, data []byte) error {
	v.errors = nil

	doc, err := toJSONValue(data)
	if err != nil {
		return fmt.Errorf("file %s contains invalid YAML: %w", filename, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("file %s does not match the catalog schema: %w", filename, err)
	}

	catalog, err := content.Parse(data)
	if err != nil {
		return err
	}
	if _, err := content.New(catalog); err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}

	v.validateCatalog(catalog)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

// toJSONValue decodes YAML and round-trips it through JSON so the schema
// sees the same value types a JSON document would produce.
func toJSONValue(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *CatalogValidator) validateCatalog(c content.Catalog) {
	groups := []struct {
		name  string
		metas []content.Meta
	}{
		{"resource", c.Resources},
		{"stat", c.Stats},
		{"building", c.Buildings},
		{"development", c.Developments},
		{"passive", c.Passives},
	}
	for _, g := range groups {
		for _, m := range g.metas {
			v.validateIDFormat(g.name+" key", m.Key)
			if m.Rounding != "" && m.Rounding != content.RoundNearest && !m.DisplayAsPercent {
				v.addError(fmt.Sprintf("%s '%s' sets rounding but is not shown as a percent", g.name, m.Key))
			}
		}
	}

	for _, a := range c.Actions {
		v.validateIDFormat("action ID", a.ID)
	}
}

func (v *CatalogValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *CatalogValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
