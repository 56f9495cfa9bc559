// Package keymap translates physical key presses into calculator events.
//
// The same mapping backs the web keypad, keyboard input, seed tapes, and the
// MCP press tool, so every surface drives the engine through one vocabulary.
package keymap

import (
	"fmt"
	"strings"

	"github.com/louisbranch/reckon.space/internal/engine"
)

// Resolve maps one key name to an engine event. Recognized keys:
//
//	0-9            digits
//	. or ,         decimal point
//	+ - * / × ÷    operators
//	= or Enter     equals
//	Backspace      clear entry (CE)
//	Escape or AC   all clear
//	CE or C        clear entry
func Resolve(key string) (engine.Event, error) {
	key = strings.TrimSpace(key)
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return engine.Digit(key[0] - '0'), nil
	}
	switch key {
	case ".", ",":
		return engine.Decimal(), nil
	case "+":
		return engine.Operator(engine.OpAdd), nil
	case "-", "−":
		return engine.Operator(engine.OpSubtract), nil
	case "*", "×", "x":
		return engine.Operator(engine.OpMultiply), nil
	case "/", "÷":
		return engine.Operator(engine.OpDivide), nil
	case "=", "Enter":
		return engine.Equals(), nil
	case "Backspace", "CE", "C", "c":
		return engine.Clear(), nil
	case "Escape", "AC", "ac":
		return engine.AllClear(), nil
	default:
		return engine.Event{}, fmt.Errorf("unrecognized key %q", key)
	}
}

// ResolveAll maps a sequence of key names, failing on the first unknown key.
func ResolveAll(keys []string) ([]engine.Event, error) {
	events := make([]engine.Event, 0, len(keys))
	for _, key := range keys {
		ev, err := Resolve(key)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
