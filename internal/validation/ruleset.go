package validation

import (
	"fmt"
	"strings"
)

// FieldRules binds a rule list to one field path.
type FieldRules struct {
	Path  string
	Rules []Rule
}

// Definition is the declarative, serialisable form of a rule set.
type Definition struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description"`
	Fields      []FieldDefinition `json:"fields" yaml:"fields"`
	Cross       []CrossRule       `json:"cross,omitempty" yaml:"cross"`
	Ceilings    []CeilingRule     `json:"ceilings,omitempty" yaml:"ceilings"`
}

// FieldDefinition lists rules in "name:params" notation for one path.
type FieldDefinition struct {
	Path  string   `json:"path" yaml:"path"`
	Rules []string `json:"rules" yaml:"rules"`
}

// RuleSet is a compiled, immutable set of rules for one kind of submission.
type RuleSet struct {
	Name        string
	Description string
	Fields      []FieldRules
	Cross       []CrossRule
	Ceilings    []CeilingRule
}

// Compile parses and checks a definition.
func Compile(def Definition) (*RuleSet, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("rule set name is required")
	}
	rs := &RuleSet{Name: def.Name, Description: def.Description}
	seen := make(map[string]struct{}, len(def.Fields))
	for _, fd := range def.Fields {
		if _, err := splitPath(fd.Path); err != nil {
			return nil, fmt.Errorf("rule set %s: %w", def.Name, err)
		}
		if _, dup := seen[fd.Path]; dup {
			return nil, fmt.Errorf("rule set %s: path %q declared twice", def.Name, fd.Path)
		}
		seen[fd.Path] = struct{}{}
		rules, err := ParseRules(fd.Rules)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: path %s: %w", def.Name, fd.Path, err)
		}
		rs.Fields = append(rs.Fields, FieldRules{Path: fd.Path, Rules: rules})
	}

	for _, cr := range def.Cross {
		if !cr.Comparator.Valid() {
			return nil, fmt.Errorf("rule set %s: unknown comparator %q", def.Name, cr.Comparator)
		}
		left, err := splitPath(cr.Field)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: %w", def.Name, err)
		}
		right, err := splitPath(cr.Other)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: %w", def.Name, err)
		}
		if left.collection == "" && right.collection != "" {
			return nil, fmt.Errorf("rule set %s: top-level field %s cannot compare against row field %s", def.Name, cr.Field, cr.Other)
		}
		if left.collection != "" && right.collection != "" && left.collection != right.collection {
			return nil, fmt.Errorf("rule set %s: %s and %s belong to different collections", def.Name, cr.Field, cr.Other)
		}
		rs.Cross = append(rs.Cross, cr)
	}

	for _, c := range def.Ceilings {
		field, err := splitPath(c.Field)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: %w", def.Name, err)
		}
		limit, err := splitPath(c.Limit)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: %w", def.Name, err)
		}
		if field.collection == "" || limit.collection != "" {
			return nil, fmt.Errorf("rule set %s: ceiling %s must bound a row field by a top-level field", def.Name, c.Field)
		}
		rs.Ceilings = append(rs.Ceilings, c)
	}
	return rs, nil
}

// Definition renders the rule set back into its declarative form.
func (rs *RuleSet) Definition() Definition {
	def := Definition{Name: rs.Name, Description: rs.Description, Cross: rs.Cross, Ceilings: rs.Ceilings}
	for _, fr := range rs.Fields {
		rules := make([]string, len(fr.Rules))
		for i, r := range fr.Rules {
			rules[i] = r.String()
		}
		def.Fields = append(def.Fields, FieldDefinition{Path: fr.Path, Rules: rules})
	}
	return def
}

// Paths lists every field path in declaration order.
func (rs *RuleSet) Paths() []string {
	paths := make([]string, len(rs.Fields))
	for i, fr := range rs.Fields {
		paths[i] = fr.Path
	}
	return paths
}

// Bind returns a copy whose "{key}" placeholders in unique-rule except ids are replaced by
// params[key]. Unbound placeholders become empty, meaning no row is excepted.
func (rs *RuleSet) Bind(params map[string]string) *RuleSet {
	bound := *rs
	bound.Fields = make([]FieldRules, len(rs.Fields))
	for i, fr := range rs.Fields {
		rules := make([]Rule, len(fr.Rules))
		copy(rules, fr.Rules)
		for j := range rules {
			if rules[j].Kind != RuleUnique {
				continue
			}
			except := rules[j].ExceptID
			if strings.HasPrefix(except, "{") && strings.HasSuffix(except, "}") {
				rules[j].ExceptID = params[strings.TrimSuffix(strings.TrimPrefix(except, "{"), "}")]
			}
		}
		bound.Fields[i] = FieldRules{Path: fr.Path, Rules: rules}
	}
	return &bound
}

func (rs *RuleSet) required(path string) bool {
	for _, fr := range rs.Fields {
		if fr.Path == path {
			return hasRule(fr.Rules, RuleRequired)
		}
	}
	return false
}

// plan splits the rule set into top-level work and per-collection row work.
func (rs *RuleSet) plan() ([]FieldRules, []CrossRule, []RowRules) {
	var top []FieldRules
	var topCross []CrossRule
	var rows []RowRules
	index := make(map[string]int)
	row := func(collection string) *RowRules {
		i, ok := index[collection]
		if !ok {
			i = len(rows)
			index[collection] = i
			rows = append(rows, RowRules{Collection: collection})
		}
		return &rows[i]
	}

	for _, fr := range rs.Fields {
		p, _ := splitPath(fr.Path)
		if p.collection == "" {
			top = append(top, fr)
			continue
		}
		r := row(p.collection)
		r.Fields = append(r.Fields, FieldRules{Path: p.field, Rules: fr.Rules})
	}
	for _, cr := range rs.Cross {
		p, _ := splitPath(cr.Field)
		if p.collection == "" {
			topCross = append(topCross, cr)
			continue
		}
		r := row(p.collection)
		r.Cross = append(r.Cross, cr)
	}
	for _, c := range rs.Ceilings {
		p, _ := splitPath(c.Field)
		r := row(p.collection)
		r.Ceilings = append(r.Ceilings, c)
	}
	return top, topCross, rows
}

type fieldPath struct {
	collection string
	field      string
}

// splitPath accepts "field", "collection.*.field", or "collection.*" where each element
// is itself the value. An element path has an empty field.
func splitPath(path string) (fieldPath, error) {
	if strings.TrimSpace(path) == "" {
		return fieldPath{}, fmt.Errorf("empty field path")
	}
	if !strings.Contains(path, "*") {
		return fieldPath{field: path}, nil
	}
	if collection, ok := strings.CutSuffix(path, ".*"); ok && collection != "" && !strings.Contains(collection, "*") {
		return fieldPath{collection: collection}, nil
	}
	parts := strings.Split(path, ".*.")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "*") || strings.Contains(parts[0], "*") {
		return fieldPath{}, fmt.Errorf("invalid wildcard path %q", path)
	}
	return fieldPath{collection: parts[0], field: parts[1]}, nil
}
