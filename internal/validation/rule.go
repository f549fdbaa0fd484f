package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// RuleKind enumerates the single-field rules understood by the evaluator.
type RuleKind int

const (
	RuleRequired RuleKind = iota + 1
	RuleSometimes
	RuleNullable
	RuleString
	RuleInteger
	RuleNumeric
	RuleBoolean
	RuleDate
	RuleArray
	RuleEmail
	RuleMin
	RuleMax
	RuleIn
	RuleExists
	RuleUnique
)

var ruleNames = map[RuleKind]string{
	RuleRequired:  "required",
	RuleSometimes: "sometimes",
	RuleNullable:  "nullable",
	RuleString:    "string",
	RuleInteger:   "integer",
	RuleNumeric:   "numeric",
	RuleBoolean:   "boolean",
	RuleDate:      "date",
	RuleArray:     "array",
	RuleEmail:     "email",
	RuleMin:       "min",
	RuleMax:       "max",
	RuleIn:        "in",
	RuleExists:    "exists",
	RuleUnique:    "unique",
}

var rulesByName = func() map[string]RuleKind {
	m := make(map[string]RuleKind, len(ruleNames))
	for kind, name := range ruleNames {
		m[name] = kind
	}
	return m
}()

// String returns the declarative name of the rule kind.
func (k RuleKind) String() string {
	if name, ok := ruleNames[k]; ok {
		return name
	}
	return fmt.Sprintf("rule(%d)", int(k))
}

func (k RuleKind) typed() bool {
	switch k {
	case RuleString, RuleInteger, RuleNumeric, RuleBoolean, RuleDate, RuleArray, RuleEmail:
		return true
	}
	return false
}

// Rule is one declarative constraint. Only the parameters relevant to Kind are set.
type Rule struct {
	Kind     RuleKind
	Limit    float64
	Values   []string
	Table    string
	Column   string
	ExceptID string
}

func Required() Rule  { return Rule{Kind: RuleRequired} }
func Sometimes() Rule { return Rule{Kind: RuleSometimes} }
func Nullable() Rule  { return Rule{Kind: RuleNullable} }
func String() Rule    { return Rule{Kind: RuleString} }
func Integer() Rule   { return Rule{Kind: RuleInteger} }
func Numeric() Rule   { return Rule{Kind: RuleNumeric} }
func Boolean() Rule   { return Rule{Kind: RuleBoolean} }
func Date() Rule      { return Rule{Kind: RuleDate} }
func Array() Rule     { return Rule{Kind: RuleArray} }
func Email() Rule     { return Rule{Kind: RuleEmail} }

// Min bounds string length, numeric value or element count from below.
func Min(limit float64) Rule { return Rule{Kind: RuleMin, Limit: limit} }

// Max bounds string length, numeric value or element count from above.
func Max(limit float64) Rule { return Rule{Kind: RuleMax, Limit: limit} }

// In restricts the value to an exact, case-sensitive set.
func In(values ...string) Rule { return Rule{Kind: RuleIn, Values: values} }

// Exists requires a row in table whose column equals the value.
func Exists(table, column string) Rule {
	return Rule{Kind: RuleExists, Table: table, Column: column}
}

// Unique requires that no row other than exceptID has column equal to the value.
func Unique(table, column, exceptID string) Rule {
	return Rule{Kind: RuleUnique, Table: table, Column: column, ExceptID: exceptID}
}

// String renders the rule back into its declarative notation.
func (r Rule) String() string {
	name := r.Kind.String()
	switch r.Kind {
	case RuleMin, RuleMax:
		return name + ":" + formatNumber(r.Limit)
	case RuleIn:
		return name + ":" + strings.Join(r.Values, ",")
	case RuleExists:
		return name + ":" + r.Table + "," + r.Column
	case RuleUnique:
		if r.ExceptID != "" {
			return name + ":" + r.Table + "," + r.Column + "," + r.ExceptID
		}
		return name + ":" + r.Table + "," + r.Column
	default:
		return name
	}
}

// ParseRule converts the "name:param,param" notation into a Rule.
func ParseRule(raw string) (Rule, error) {
	raw = strings.TrimSpace(raw)
	name, params, hasParams := strings.Cut(raw, ":")
	kind, ok := rulesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Rule{}, fmt.Errorf("unknown rule %q", raw)
	}
	var args []string
	if hasParams {
		for _, p := range strings.Split(params, ",") {
			args = append(args, strings.TrimSpace(p))
		}
	}

	switch kind {
	case RuleMin, RuleMax:
		if len(args) != 1 {
			return Rule{}, fmt.Errorf("rule %q requires one numeric parameter", raw)
		}
		limit, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q: invalid limit: %w", raw, err)
		}
		return Rule{Kind: kind, Limit: limit}, nil
	case RuleIn:
		if len(args) == 0 || (len(args) == 1 && args[0] == "") {
			return Rule{}, fmt.Errorf("rule %q requires at least one value", raw)
		}
		return In(args...), nil
	case RuleExists:
		if len(args) != 2 || args[0] == "" || args[1] == "" {
			return Rule{}, fmt.Errorf("rule %q requires table and column", raw)
		}
		return Exists(args[0], args[1]), nil
	case RuleUnique:
		if len(args) < 2 || len(args) > 3 || args[0] == "" || args[1] == "" {
			return Rule{}, fmt.Errorf("rule %q requires table, column and an optional except id", raw)
		}
		except := ""
		if len(args) == 3 {
			except = args[2]
		}
		return Unique(args[0], args[1], except), nil
	default:
		if hasParams {
			return Rule{}, fmt.Errorf("rule %q takes no parameters", raw)
		}
		return Rule{Kind: kind}, nil
	}
}

// ParseRules parses a declarative rule list such as ["required", "string", "max:255"].
func ParseRules(raw []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(raw))
	for _, r := range raw {
		rule, err := ParseRule(r)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func hasRule(rules []Rule, kind RuleKind) bool {
	for _, r := range rules {
		if r.Kind == kind {
			return true
		}
	}
	return false
}
