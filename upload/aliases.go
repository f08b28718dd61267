package upload

import (
	_ "embed"
	"fmt"
	"os"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindInventory Kind = "inventory"
	KindProduct   Kind = "product"
	KindBin       Kind = "bin"
)

// Column is one logical field of an upload and the header spellings it accepts.
type Column struct {
	Field    string   `yaml:"field"`
	Required bool     `yaml:"required"`
	Aliases  []string `yaml:"aliases"`
}

type ColumnAliases []Column

// AliasSet holds the columns of every upload kind.
type AliasSet map[Kind]ColumnAliases

//go:embed columns.yaml
var defaultColumns []byte

// DefaultAliases returns the built-in column aliases.
func DefaultAliases() AliasSet {
	set, err := parseAliases(defaultColumns)
	if err != nil {
		panic(fmt.Sprintf("upload: embedded columns.yaml: %v", err))
	}
	return set
}

// LoadAliases reads a YAML file in the columns.yaml layout. Kinds present in
// the file replace the built-in definition; the others keep it. An empty
// path returns the defaults.
func LoadAliases(path string) (AliasSet, error) {
	set := DefaultAliases()
	if path == "" {
		return set, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read column aliases: %w", err)
	}
	override, err := parseAliases(raw)
	if err != nil {
		return nil, fmt.Errorf("parse column aliases %s: %w", path, err)
	}

	merged := maps.Clone(set)
	for kind, columns := range override {
		merged[kind] = columns
	}
	return merged, nil
}

func parseAliases(raw []byte) (AliasSet, error) {
	var set AliasSet
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	for kind, columns := range set {
		seen := map[string]bool{}
		for _, col := range columns {
			if col.Field == "" {
				return nil, fmt.Errorf("%s: column without field", kind)
			}
			if seen[col.Field] {
				return nil, fmt.Errorf("%s: field %s defined twice", kind, col.Field)
			}
			seen[col.Field] = true
		}
	}
	return set, nil
}

// For returns the columns of one upload kind.
func (s AliasSet) For(kind Kind) ColumnAliases {
	return s[kind]
}
