package engine

import (
	"strconv"
	"strings"
)

const (
	// InitialDisplay is the display value of a fresh calculator.
	InitialDisplay = "0"
	// ErrorDisplay marks the error state after an invalid evaluation.
	ErrorDisplay = "Error"
	// maxOperandDigits caps how many digits one operand accepts.
	maxOperandDigits = 15
)

// State is the complete calculator state. Op is OpNone exactly when no
// previous operand is held; the two are set and cleared together.
type State struct {
	// Display is the text shown to the user: a numeric literal with at most
	// one decimal point, or ErrorDisplay.
	Display string
	// Previous is the left operand once an operator has been chosen.
	Previous float64
	// Op is the pending operator, or OpNone.
	Op Op
	// Waiting is set right after an operator or equals press; the next digit
	// then starts a fresh operand instead of appending.
	Waiting bool
}

// Initial returns the documented starting state.
func Initial() State {
	return State{Display: InitialDisplay}
}

// HasPending reports whether an operator and left operand are held.
func (s State) HasPending() bool {
	return s.Op != OpNone
}

// Errored reports whether the state shows the error marker.
func (s State) Errored() bool {
	return s.Display == ErrorDisplay
}

// Value parses the current display as a number. The error state and an
// unparsable display both yield zero.
func (s State) Value() float64 {
	if s.Errored() {
		return 0
	}
	v, err := strconv.ParseFloat(s.Display, 64)
	if err != nil {
		return 0
	}
	return v
}

// Calculation describes one completed equals evaluation.
type Calculation struct {
	// Expression is the human-readable "a op b" form.
	Expression string
	// Result is the evaluated value.
	Result float64
}

// Apply advances the state by one input event. It is total: every event on
// every state returns a valid next state, never an error. The returned
// Calculation is non-nil only when an Equals press completed an evaluation.
func Apply(s State, ev Event) (State, *Calculation) {
	if s.Errored() {
		// Error is transient and read-only until acknowledged.
		switch ev.Kind {
		case KindClear:
			s.Display = InitialDisplay
			s.Waiting = false
			return s, nil
		case KindAllClear:
			return Initial(), nil
		default:
			return s, nil
		}
	}

	switch ev.Kind {
	case KindDigit:
		return applyDigit(s, ev.Digit), nil
	case KindDecimal:
		return applyDecimal(s), nil
	case KindOperator:
		return applyOperator(s, ev.Op), nil
	case KindEquals:
		return applyEquals(s)
	case KindClear:
		s.Display = InitialDisplay
		s.Waiting = false
		return s, nil
	case KindAllClear:
		return Initial(), nil
	default:
		return s, nil
	}
}

func applyDigit(s State, d byte) State {
	digit := string('0' + rune(d))
	if s.Waiting {
		s.Display = digit
		s.Waiting = false
		return s
	}
	if s.Display == InitialDisplay {
		s.Display = digit
		return s
	}
	if operandDigits(s.Display) >= maxOperandDigits {
		return s
	}
	s.Display += digit
	return s
}

func applyDecimal(s State) State {
	if s.Waiting {
		s.Display = "0."
		s.Waiting = false
		return s
	}
	if strings.Contains(s.Display, ".") {
		return s
	}
	s.Display += "."
	return s
}

func applyOperator(s State, op Op) State {
	if !s.HasPending() {
		s.Previous = s.Value()
		s.Op = op
		s.Waiting = true
		return s
	}
	if s.Waiting {
		// Operator pressed twice in a row replaces the pending operator.
		s.Op = op
		return s
	}
	result, err := Evaluate(s.Previous, s.Op, s.Value())
	if err != nil {
		return errorState()
	}
	formatted, ok := formatChecked(result)
	if !ok {
		return errorState()
	}
	return State{
		Display:  formatted,
		Previous: result,
		Op:       op,
		Waiting:  true,
	}
}

func applyEquals(s State) (State, *Calculation) {
	if !s.HasPending() {
		return s, nil
	}
	right := s.Value()
	result, err := Evaluate(s.Previous, s.Op, right)
	if err != nil {
		return errorState(), nil
	}
	formatted, ok := formatChecked(result)
	if !ok {
		return errorState(), nil
	}
	calc := &Calculation{
		Expression: Format(s.Previous) + " " + string(s.Op) + " " + Format(right),
		Result:     result,
	}
	return State{Display: formatted, Waiting: true}, calc
}

func errorState() State {
	return State{Display: ErrorDisplay}
}

func operandDigits(display string) int {
	count := 0
	for _, r := range display {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
