// Package engine implements the calculator state machine.
//
// The engine is a pure transition function over a small State value: it owns
// no I/O, no clock, and no storage. Collaborators feed it input events (digits,
// operators, equals, clear) and render whatever State comes back. Completed
// evaluations are surfaced as Calculation values so a persistence collaborator
// can record them without the engine knowing about storage.
package engine
