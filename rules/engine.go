package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"golang.org/x/time/rate"
)

// Engine runs compiled rules against the turn's state.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category, so the bank is never spent twice.
type Engine struct {
	rules  []*Rule
	Memory map[string]any

	idle rate.Sometimes
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{
		rules:  compiled,
		Memory: make(map[string]any),
		idle:   rate.Sometimes{Every: 100},
	}, nil
}

// Evaluate runs all rules and returns the orders they issued. A rule whose
// condition fails to evaluate is logged and skipped.
func (e *Engine) Evaluate(env RuleEnv) (Orders, error) {
	env.Memory = e.Memory
	fired := make(map[string]bool) // category → exclusive rule already fired

	var orders Orders
	anyFired := false
	for _, r := range e.rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		anyFired = true
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category)

		if err := r.Action(env, &orders); err != nil {
			return orders, fmt.Errorf("rule %q action: %w", r.Name, err)
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}

	if !anyFired {
		e.idle.Do(func() { logIdleDiagnostics(env) })
	}
	return orders, nil
}

// Rules returns the compiled rules in evaluation order.
func (e *Engine) Rules() []*Rule { return e.rules }

// logIdleDiagnostics helps debug "why isn't the bot spawning?" by dumping
// the inputs of the spawn conditions.
func logIdleDiagnostics(env RuleEnv) {
	slog.Info("idle diagnostics",
		"turn", env.Turn(),
		"bank", env.Bank(),
		"reserved", env.Reserved(),
		"shipyardOccupied", env.ShipyardOccupied(),
		"hardReturn", env.HardReturn(),
		"spawnWorthwhile", env.SpawnWorthwhile(),
		"ships", env.ShipCount(),
		"fewestEnemyShips", env.FewestEnemyShips(),
		"remaining", env.RemainingFraction(),
		"lastSpawn", env.LastSpawnTurn(),
	)
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
