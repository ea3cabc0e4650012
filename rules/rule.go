package rules

import (
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/prospector/model"
)

// Orders collects the commands rule actions issue during one evaluation.
type Orders []model.Command

func (o *Orders) Add(c model.Command) { *o = append(*o, c) }

// ActionFunc issues orders when a rule's condition is true.
type ActionFunc func(env RuleEnv, orders *Orders) error

// Rule is a condition → action pair for a meta decision (spending the bank).
// The engine evaluates rules by priority and uses Category + Exclusive so
// only one rule spends from the same budget per turn.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
