// Package rulesets loads the declarative rule sets used by each endpoint.
package rulesets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

//go:embed definitions/*.yaml
var definitions embed.FS

// ErrUnknownRuleSet is returned for names that were never registered.
var ErrUnknownRuleSet = errors.New("unknown rule set")

// Registry holds compiled rule sets by name. It is read-only after loading.
type Registry struct {
	sets map[string]*validation.RuleSet
}

// Default loads the rule sets shipped with the binary.
func Default() (*Registry, error) {
	return Load(definitions, "definitions")
}

// Load compiles every *.yaml file under dir in fsys.
func Load(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read rule set dir %s: %w", dir, err)
	}
	reg := &Registry{sets: make(map[string]*validation.RuleSet, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read rule set %s: %w", entry.Name(), err)
		}
		rs, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if _, dup := reg.sets[rs.Name]; dup {
			return nil, fmt.Errorf("%s: rule set %s already defined", entry.Name(), rs.Name)
		}
		reg.sets[rs.Name] = rs
	}
	return reg, nil
}

// Parse compiles one YAML rule set document.
func Parse(raw []byte) (*validation.RuleSet, error) {
	var def validation.Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}
	return validation.Compile(def)
}

// Get returns the rule set registered under name.
func (r *Registry) Get(name string) (*validation.RuleSet, error) {
	rs, ok := r.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRuleSet, name)
	}
	return rs, nil
}

// List returns every rule set sorted by name.
func (r *Registry) List() []*validation.RuleSet {
	out := make([]*validation.RuleSet, 0, len(r.sets))
	for _, rs := range r.sets {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
