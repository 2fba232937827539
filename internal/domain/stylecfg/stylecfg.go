package stylecfg

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tailorai/internal/domain"
)

// File is the on-disk shape of a style catalog override.
type File struct {
	// Replace drops the built-in styles instead of merging into them.
	Replace bool           `yaml:"replace"`
	Styles  []domain.Style `yaml:"styles"`
}

// Load reads the YAML file at path and merges it over base. An empty path
// returns base unchanged.
func Load(path string, base *domain.Catalog) (*domain.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stylecfg: read %s: %w", path, err)
	}
	return Parse(raw, base)
}

// Parse merges a YAML document over base. Entries with an existing id replace
// that style in place; new ids are appended in file order.
func Parse(raw []byte, base *domain.Catalog) (*domain.Catalog, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("stylecfg: decode: %w", err)
	}
	if len(f.Styles) == 0 {
		return nil, errors.New("stylecfg: no styles defined")
	}

	var merged []domain.Style
	if base != nil && !f.Replace {
		merged = base.Styles()
	}
	index := make(map[domain.StyleID]int, len(merged))
	for i, s := range merged {
		index[s.ID] = i
	}
	for _, s := range f.Styles {
		id := domain.StyleID(strings.ToLower(strings.TrimSpace(string(s.ID))))
		s.ID = id
		if i, ok := index[id]; ok {
			if strings.TrimSpace(s.Label) == "" {
				s.Label = merged[i].Label
			}
			merged[i] = s
			continue
		}
		index[id] = len(merged)
		merged = append(merged, s)
	}

	catalog, err := domain.NewCatalog(merged)
	if err != nil {
		return nil, fmt.Errorf("stylecfg: %w", err)
	}
	return catalog, nil
}
