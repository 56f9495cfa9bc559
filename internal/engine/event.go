package engine

// Op identifies a binary arithmetic operator.
type Op string

const (
	// OpNone indicates no pending operator.
	OpNone Op = ""
	// OpAdd is addition.
	OpAdd Op = "+"
	// OpSubtract is subtraction.
	OpSubtract Op = "-"
	// OpMultiply is multiplication.
	OpMultiply Op = "×"
	// OpDivide is division.
	OpDivide Op = "÷"
)

// Valid reports whether the operator is one of the four supported operations.
func (op Op) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	default:
		return false
	}
}

// Kind identifies the category of an input event.
type Kind int

const (
	// KindNone is the zero event; Apply ignores it.
	KindNone Kind = iota
	// KindDigit appends or starts a digit.
	KindDigit
	// KindDecimal inserts the decimal point.
	KindDecimal
	// KindOperator selects or replaces the pending operator.
	KindOperator
	// KindEquals completes the pending evaluation.
	KindEquals
	// KindClear resets the display only (CE).
	KindClear
	// KindAllClear resets the whole state (AC).
	KindAllClear
)

// Event is one calculator input. Construct events through the typed
// constructors; the zero Event is a no-op.
type Event struct {
	Kind  Kind
	Digit byte
	Op    Op
}

// Digit returns a digit event for d in 0..9. Out-of-range digits yield a
// no-op event.
func Digit(d byte) Event {
	if d > 9 {
		return Event{}
	}
	return Event{Kind: KindDigit, Digit: d}
}

// Decimal returns the decimal point event.
func Decimal() Event { return Event{Kind: KindDecimal} }

// Operator returns an operator event. Invalid operators yield a no-op event.
func Operator(op Op) Event {
	if !op.Valid() {
		return Event{}
	}
	return Event{Kind: KindOperator, Op: op}
}

// Equals returns the equals event.
func Equals() Event { return Event{Kind: KindEquals} }

// Clear returns the clear-entry event.
func Clear() Event { return Event{Kind: KindClear} }

// AllClear returns the all-clear event.
func AllClear() Event { return Event{Kind: KindAllClear} }
