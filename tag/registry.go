package tag

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Registry maps tag names to ids, ids assigned in registration order
type Registry struct {
	names []string
	ids   map[string]Tag
	limit int
}

// registryFile is the on-disk layout of a tag names file
type registryFile struct {
	Tags []string `yaml:"tags"`
}

// NewRegistry creates an empty registry accepting up to limit tags
func NewRegistry(limit int) *Registry {
	if limit <= 0 || limit > MaxTags {
		limit = MaxTags
	}
	return &Registry{
		ids:   make(map[string]Tag),
		limit: limit,
	}
}

// LoadRegistry reads a YAML tag list, e.g.
//
//	tags: [solid, actor, pickup]
func LoadRegistry(path string, limit int) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}
	return ParseRegistry(data, limit)
}

// ParseRegistry decodes a YAML tag list from memory
func ParseRegistry(data []byte, limit int) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tags: %w", err)
	}
	r := NewRegistry(limit)
	for _, name := range f.Tags {
		if _, err := r.Define(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Define registers name and returns its id, existing names return their id
func (r *Registry) Define(name string) (Tag, error) {
	if name == "" {
		return 0, fmt.Errorf("define tag: empty name")
	}
	if t, ok := r.ids[name]; ok {
		return t, nil
	}
	if len(r.names) >= r.limit {
		return 0, fmt.Errorf("define tag %q: %w: registry holds %d", name, ErrOutOfRange, r.limit)
	}
	t := Tag(len(r.names))
	r.names = append(r.names, name)
	r.ids[name] = t
	return t, nil
}

// MustDefine is Define for static setup, panics on error
func (r *Registry) MustDefine(name string) Tag {
	t, err := r.Define(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the id for name
func (r *Registry) Lookup(name string) (Tag, bool) {
	t, ok := r.ids[name]
	return t, ok
}

// Name returns the registered name of t, or a numeric placeholder
func (r *Registry) Name(t Tag) string {
	if int(t) < len(r.names) {
		return r.names[t]
	}
	return fmt.Sprintf("tag#%d", t)
}

// Len returns the number of defined tags
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns a copy of the names in id order
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
