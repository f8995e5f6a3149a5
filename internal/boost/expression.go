package boost

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// scoreVariable is the placeholder users write in boost expressions.
const scoreVariable = "$SCORE"

// Expression is a compiled boost expression. Its value is added to a hit's score;
// $SCORE stands for the boost value stored for the hit.
type Expression struct {
	source  string
	program *vm.Program
}

// expressionEnv declares the variables and helper functions available to expressions.
func expressionEnv(score float64) map[string]interface{} {
	return map[string]interface{}{
		"SCORE": score,
		"log10": math.Log10,
		"log2":  math.Log2,
		"ln":    math.Log,
		"sqrt":  math.Sqrt,
		"pow":   math.Pow,
	}
}

// CompileExpression parses and type-checks source.
func CompileExpression(source string) (*Expression, error) {
	code := strings.ReplaceAll(source, scoreVariable, "SCORE")
	program, err := expr.Compile(code, expr.Env(expressionEnv(0)), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("invalid boost expression '%s': %w", source, err)
	}
	return &Expression{source: source, program: program}, nil
}

// Eval evaluates the expression with $SCORE bound to value.
func (e *Expression) Eval(value float32) (float32, error) {
	out, err := expr.Run(e.program, expressionEnv(float64(value)))
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate boost expression '%s': %w", e.source, err)
	}
	result, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("boost expression '%s' returned %T, want a number", e.source, out)
	}
	return float32(result), nil
}

// String returns the expression as written.
func (e *Expression) String() string {
	return e.source
}
