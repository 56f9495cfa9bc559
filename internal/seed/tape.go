// Package seed replays scripted key tapes through the calculator to fill a
// history store with plausible data.
//
// Tapes are Lua scripts. A script builds a Tape with the global constructor
// and returns it:
//
//	local t = Tape.new("percent-discount")
//	t:keys("100-25=")
//	t:press("=")
//	return t
package seed

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const tapeTypeName = "tape"

// Tape is a named sequence of calculator keys.
type Tape struct {
	Name string
	Keys []string
}

// LoadTapeFile loads a tape script from disk.
func LoadTapeFile(path string) (*Tape, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerTapeType(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	tape, err := runTapeChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tape.Name) == "" {
		tape.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return tape, nil
}

// LoadTape loads a tape script from an in-memory chunk, typically an
// embedded default tape.
func LoadTape(name string, src []byte) (*Tape, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerTapeType(state)

	if err := state.Load(bytes.NewReader(src), "@"+name, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	tape, err := runTapeChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tape.Name) == "" {
		tape.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return tape, nil
}

func runTapeChunk(state *lua.State) (*Tape, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("tape script must return Tape")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	tape, ok := ud.(*Tape)
	if !ok || tape == nil {
		return nil, fmt.Errorf("tape script returned invalid Tape")
	}
	return tape, nil
}

func registerTapeType(state *lua.State) {
	lua.NewMetaTable(state, tapeTypeName)
	state.NewTable()
	lua.SetFunctions(state, tapeMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, tapeConstructor, 0)
	state.SetGlobal("Tape")
}

var tapeConstructor = []lua.RegistryFunction{
	{Name: "new", Function: tapeNew},
}

var tapeMethods = []lua.RegistryFunction{
	{Name: "press", Function: tapePress},
	{Name: "keys", Function: tapeKeys},
}

func tapeNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	tape := &Tape{Name: name}
	state.PushUserData(tape)
	lua.SetMetaTableNamed(state, tapeTypeName)
	return 1
}

func checkTape(state *lua.State) *Tape {
	ud := state.ToUserData(1)
	tape, ok := ud.(*Tape)
	if !ok || tape == nil {
		lua.Errorf(state, "expected tape receiver")
		return nil
	}
	return tape
}

// tapePress appends a single key, which may be a multi-rune key like "AC".
func tapePress(state *lua.State) int {
	tape := checkTape(state)
	key := lua.CheckString(state, 2)
	tape.Keys = append(tape.Keys, key)
	state.PushValue(1)
	return 1
}

// tapeKeys appends one key per rune, so "12+3=" expands to five presses.
func tapeKeys(state *lua.State) int {
	tape := checkTape(state)
	keys := lua.CheckString(state, 2)
	for _, r := range keys {
		tape.Keys = append(tape.Keys, string(r))
	}
	state.PushValue(1)
	return 1
}
