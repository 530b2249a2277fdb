// Package expression evaluates ripple-rule condition expressions.
// It wraps expr-lang/expr with a compiled-program cache and a restricted
// two-variable environment binding "source" and "target" to attribute
// snapshots of the rule's source node and the candidate neighbor.
package expression

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator compiles and runs condition expressions.
// Programs are cached by expression text; the environment shape is the
// same for every evaluation so cached programs stay valid.
type Evaluator struct {
	programCache map[string]*vm.Program
}

// New creates a condition evaluator with an empty program cache
func New() *Evaluator {
	return &Evaluator{
		programCache: make(map[string]*vm.Program),
	}
}

// EvalCondition evaluates a boolean condition against source and target
// attribute snapshots. Attribute access supports both source.prop and
// source["prop"] forms; comparison, arithmetic, and and/or/not are
// available. No ambient names or function calls beyond the expression
// language built-ins are exposed.
func (e *Evaluator) EvalCondition(condition string, source, target map[string]interface{}) (bool, error) {
	env := map[string]interface{}{
		"source": source,
		"target": target,
	}

	program, ok := e.programCache[condition]
	if !ok {
		var err error
		program, err = expr.Compile(condition, expr.Env(env), expr.AsBool())
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrCompileFailed, err)
		}
		e.programCache[condition] = program
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrEvalFailed, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %T", ErrNotBoolean, output)
	}
	return result, nil
}
