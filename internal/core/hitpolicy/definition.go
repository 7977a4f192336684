package hitpolicy

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrDefinitionNotFound is returned by repositories for unknown definition names.
var ErrDefinitionNotFound = errors.New("aggregation definition not found")

// Definition binds a decision output to a numeric hit policy.
// Definitions are loaded at startup from YAML files and fingerprinted so callers
// can tell which revision produced a result.
type Definition struct {
	Name        string `json:"name"`
	Decision    string `json:"decision"`
	Policy      string `json:"policy"`           // sum, min, max, count, avg
	Output      string `json:"output,omitempty"` // output column label; informational
	Fingerprint string `json:"fingerprint"`      // SHA-256 of the raw YAML file
}

// rawDefinition is the on-disk YAML shape.
type rawDefinition struct {
	Name     string `yaml:"name"`
	Decision string `yaml:"decision"`
	Policy   string `yaml:"policy"`
	Output   string `yaml:"output"`
}

// DefinitionRepository defines the interface for loading aggregation definitions.
type DefinitionRepository interface {
	// Get returns the definition with the given name, or an error if not found.
	Get(ctx context.Context, name string) (*Definition, error)

	// List returns all loaded definitions, optionally filtered by decision.
	List(ctx context.Context, decision string) ([]Definition, error)

	// GetDefinitions returns all definitions sorted by name.
	GetDefinitions() []Definition
}

// FileSystemDefinitionRepository loads definitions from *.yaml files in a directory.
// Each file holds exactly one definition at the top level. Files are read once;
// there is no hot reload. Lookups are served by the embedded memory repository.
type FileSystemDefinitionRepository struct {
	*MemoryDefinitionRepository
}

var (
	_ DefinitionRepository = (*FileSystemDefinitionRepository)(nil)
	_ DefinitionRepository = (*MemoryDefinitionRepository)(nil)
)

// NewFileSystemDefinitionRepository creates a repository and eagerly loads every
// definition in dir. A malformed or invalid file fails the whole load.
func NewFileSystemDefinitionRepository(dir string) (*FileSystemDefinitionRepository, error) {
	defs, err := loadDefinitions(dir)
	if err != nil {
		return nil, err
	}
	return &FileSystemDefinitionRepository{
		MemoryDefinitionRepository: &MemoryDefinitionRepository{definitions: defs},
	}, nil
}

func loadDefinitions(dir string) (map[string]Definition, error) {
	defs := make(map[string]Definition) // keyed by Name

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return defs, nil // no definitions directory: zero definitions configured
	}
	if err != nil {
		return nil, fmt.Errorf("definition dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("definition path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading definition dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading definition file %s: %w", path, err)
		}

		var raw rawDefinition
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing definition file %s: %w", path, err)
		}
		if raw.Name == "" {
			continue // comment-only file
		}

		if raw.Decision == "" {
			return nil, fmt.Errorf("definition %q: decision must not be empty", raw.Name)
		}

		agg, ok := Lookup(raw.Policy)
		if !ok {
			return nil, fmt.Errorf("definition %q: unsupported policy %q", raw.Name, raw.Policy)
		}

		if _, exists := defs[raw.Name]; exists {
			return nil, fmt.Errorf("definition %q: duplicate name (check multiple YAML files)", raw.Name)
		}

		defs[raw.Name] = Definition{
			Name:        raw.Name,
			Decision:    raw.Decision,
			Policy:      agg.Name(),
			Output:      raw.Output,
			Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data)),
		}
	}
	return defs, nil
}
