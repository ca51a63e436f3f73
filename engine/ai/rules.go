package ai

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Mode is the AI's posture for one decision interval
type Mode string

const (
	ModeBuilding  Mode = "building"
	ModeExpanding Mode = "expanding"
	ModeAttacking Mode = "attacking"
)

func (m Mode) valid() bool {
	return m == ModeBuilding || m == ModeExpanding || m == ModeAttacking
}

// RuleEnv is the faction summary that rule conditions are evaluated against.
// Field names are the identifiers available in conditions.
type RuleEnv struct {
	Credits        int
	Power          int
	HarvesterCount int
	DefenseCount   int
	AttackCount    int
	BuildingCount  int
	UnitCount      int
}

// Rule maps a condition to a mode. Higher priority rules are tried first and
// the first match wins.
type Rule struct {
	Name      string `yaml:"name"`
	Priority  int    `yaml:"priority"`
	Condition string `yaml:"when"`
	Mode      Mode   `yaml:"mode"`

	program *vm.Program
}

// DefaultRules is the stock mode selection
func DefaultRules() []Rule {
	return []Rule{
		{Name: "low-credits", Priority: 400, Condition: "Credits < 300", Mode: ModeBuilding},
		{Name: "army-ready", Priority: 300, Condition: "DefenseCount + AttackCount >= 6", Mode: ModeAttacking},
		{Name: "small-base", Priority: 200, Condition: "BuildingCount < 4", Mode: ModeExpanding},
		{Name: "fallback", Priority: 100, Condition: "true", Mode: ModeBuilding},
	}
}

// RuleSet is a compiled, priority-ordered list of rules
type RuleSet struct {
	rules []*Rule
}

// CompileRules compiles every condition and sorts by priority, keeping the
// given order among equal priorities
func CompileRules(rules []Rule) (*RuleSet, error) {
	compiled := make([]*Rule, 0, len(rules))
	for i := range rules {
		r := rules[i]
		if !r.Mode.valid() {
			return nil, fmt.Errorf("rule %q: unknown mode %q", r.Name, r.Mode)
		}
		prog, err := expr.Compile(r.Condition, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
		compiled = append(compiled, &r)
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})
	return &RuleSet{rules: compiled}, nil
}

// MustDefaultRules compiles DefaultRules
func MustDefaultRules() *RuleSet {
	rs, err := CompileRules(DefaultRules())
	if err != nil {
		panic(err)
	}
	return rs
}

// Select returns the mode of the first matching rule and its name. With no
// match it falls back to building.
func (rs *RuleSet) Select(env RuleEnv, log *slog.Logger) (Mode, string) {
	for _, r := range rs.rules {
		out, err := vm.Run(r.program, env)
		if err != nil {
			log.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		if match, ok := out.(bool); ok && match {
			return r.Mode, r.Name
		}
	}
	return ModeBuilding, ""
}

// Len returns the number of rules
func (rs *RuleSet) Len() int { return len(rs.rules) }
