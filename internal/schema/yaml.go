package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk YAML representation of a column group.
type schemaFile struct {
	Columns []ColumnSchema `yaml:"columns"`
}

// Load reads a column group from a YAML schema file.
//
// Expected format:
//
//	columns:
//	  - name: click
//	    tags: [binary_target]
//	  - name: rating
//	    tags: [regression_target, continuous]
func Load(path string) (*ColumnGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a column group from YAML bytes.
func Parse(data []byte) (*ColumnGroup, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	seen := make(map[string]bool, len(file.Columns))
	for _, c := range file.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("schema column with empty name")
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate column %q in schema", c.Name)
		}
		seen[c.Name] = true
	}

	return NewColumnGroup(file.Columns...), nil
}

// Save writes the column group to a YAML schema file.
func Save(g *ColumnGroup, path string) error {
	data, err := yaml.Marshal(schemaFile{Columns: g.Schemas()})
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing schema file: %w", err)
	}
	return nil
}
