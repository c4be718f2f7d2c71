package columns

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"scraper-dashboard/internal/domain"

	"gopkg.in/yaml.v2"
)

const (
	KindText     = "text"
	KindCheckbox = "checkbox"
	KindLink     = "link"
	KindDatetime = "datetime"
)

var ErrInvalidConfig = errors.New("invalid column config")

//go:embed default.yaml
var defaultYAML []byte

// Column describes how one product field is shown in a table.
type Column struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	Kind  string `yaml:"kind" json:"kind"`
	Width string `yaml:"width" json:"width"`
}

// Config holds the column lists for the products table and the recent products table.
type Config struct {
	Products []Column `yaml:"products" json:"products"`
	Recent   []Column `yaml:"recent" json:"recent"`
}

// Default returns the built-in layout.
func Default() Config {
	cfg, err := parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("columns: embedded default: %v", err))
	}
	return cfg
}

// Load reads a YAML layout from path. An empty path yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read column config: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for _, list := range [][]Column{cfg.Products, cfg.Recent} {
		for i := range list {
			if err := normalize(&list[i]); err != nil {
				return Config{}, err
			}
		}
	}
	return cfg, nil
}

func normalize(c *Column) error {
	if c.Key == "" {
		return fmt.Errorf("%w: column without key", ErrInvalidConfig)
	}
	if c.Label == "" {
		c.Label = c.Key
	}
	switch c.Kind {
	case "":
		c.Kind = KindText
	case KindText, KindCheckbox, KindLink, KindDatetime:
	default:
		return fmt.Errorf("%w: column %q has unknown kind %q", ErrInvalidConfig, c.Key, c.Kind)
	}
	return nil
}

// Present keeps the columns whose key is one of available, preserving cols order.
func Present(cols []Column, available []string) []Column {
	have := make(map[string]struct{}, len(available))
	for _, a := range available {
		have[a] = struct{}{}
	}
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if _, ok := have[c.Key]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Project returns the product's values for cols. Missing and null fields map to nil.
func Project(p domain.Product, cols []Column) map[string]any {
	row := make(map[string]any, len(cols))
	for _, c := range cols {
		v, ok := p.Field(c.Key)
		if !ok {
			row[c.Key] = nil
			continue
		}
		row[c.Key] = v
	}
	return row
}

// ProjectAll applies Project to every product of c.
func ProjectAll(c domain.Collection, cols []Column) []map[string]any {
	rows := c.Rows()
	out := make([]map[string]any, 0, len(rows))
	for _, p := range rows {
		out = append(out, Project(p, cols))
	}
	return out
}
