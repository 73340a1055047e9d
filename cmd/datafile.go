package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/gridx/internal/schema"
	"github.com/oakwood-commons/gridx/internal/store"
)

// dataFile is the YAML dataset format: entity definitions plus records
// keyed by entity slug.
type dataFile struct {
	Entities []schema.Entity           `yaml:"entities"`
	Records  map[string][]store.Record `yaml:"records"`
}

// loadDataFile reads a YAML dataset into an in-memory store. Records
// under a slug with no matching entity are an error; entities without
// records are fine.
func loadDataFile(path string) (*store.MemStore, []schema.Entity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read data file: %w", err)
	}
	var df dataFile
	if err := yaml.Unmarshal(raw, &df); err != nil {
		return nil, nil, fmt.Errorf("decode data file %s: %w", path, err)
	}
	if len(df.Entities) == 0 {
		return nil, nil, fmt.Errorf("data file %s defines no entities", path)
	}

	bySlug := make(map[string]schema.Entity, len(df.Entities))
	mem := store.NewMemStore()
	for _, entity := range df.Entities {
		if err := entity.Validate(); err != nil {
			return nil, nil, fmt.Errorf("data file %s: %w", path, err)
		}
		if err := mem.AddEntity(entity, df.Records[entity.Slug]); err != nil {
			return nil, nil, fmt.Errorf("data file %s: %w", path, err)
		}
		bySlug[entity.Slug] = entity
	}
	for slug := range df.Records {
		if _, ok := bySlug[slug]; !ok {
			return nil, nil, fmt.Errorf("data file %s: records for unknown entity %q", path, slug)
		}
	}
	return mem, df.Entities, nil
}
