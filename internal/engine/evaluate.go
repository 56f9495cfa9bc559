package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrDivisionByZero indicates the right operand of ÷ was zero.
var ErrDivisionByZero = errors.New("division by zero")

// ErrResultNotFinite indicates the evaluation overflowed or produced NaN.
var ErrResultNotFinite = errors.New("result is not finite")

// Evaluate computes a single binary operation. Division by zero and
// non-finite results are reported as errors; Apply folds both into the
// error display state.
func Evaluate(a float64, op Op, b float64) (float64, error) {
	var result float64
	switch op {
	case OpAdd:
		result = a + b
	case OpSubtract:
		result = a - b
	case OpMultiply:
		result = a * b
	case OpDivide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		result = a / b
	default:
		return 0, fmt.Errorf("unknown operator %q", string(op))
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, ErrResultNotFinite
	}
	return result, nil
}
