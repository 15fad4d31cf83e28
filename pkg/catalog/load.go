package catalog

import (
	"fmt"
	"os"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a catalog.
type document struct {
	Name      string            `mapstructure:"name"`
	Version   string            `mapstructure:"version"`
	Questions []domain.Question `mapstructure:"questions"`
}

// Parse decodes a YAML (or JSON, which is valid YAML) catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if raw == nil {
		return nil, ErrEmpty
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true, // versions like 2024.1 arrive as floats
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	return New(doc.Name, doc.Version, doc.Questions...)
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}
