package hitpolicy

import (
	"context"
	"fmt"
	"sort"
)

// MemoryDefinitionRepository is an in-memory DefinitionRepository over an
// already-loaded set of definitions. It is read-only after construction.
type MemoryDefinitionRepository struct {
	definitions map[string]Definition
}

// NewMemoryDefinitionRepository indexes defs by name. Later duplicates win.
func NewMemoryDefinitionRepository(defs []Definition) *MemoryDefinitionRepository {
	r := &MemoryDefinitionRepository{definitions: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		r.definitions[def.Name] = def
	}
	return r
}

func (r *MemoryDefinitionRepository) Get(_ context.Context, name string) (*Definition, error) {
	def, ok := r.definitions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDefinitionNotFound, name)
	}
	// Return a copy to prevent external modification
	return &def, nil
}

func (r *MemoryDefinitionRepository) List(_ context.Context, decision string) ([]Definition, error) {
	var out []Definition
	for _, def := range r.GetDefinitions() {
		if decision != "" && def.Decision != decision {
			continue
		}
		out = append(out, def)
	}
	return out, nil
}

func (r *MemoryDefinitionRepository) GetDefinitions() []Definition {
	defs := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
