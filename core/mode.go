package core

import "fmt"

// Mode is the interaction protocol governing how many models respond to a
// turn and in what order. It is a closed set; the engine selects exactly one
// execution strategy per mode at a single dispatch point.
type Mode string

const (
	// ModeParallel fires all responder calls concurrently with streaming
	// output. This is the default.
	ModeParallel Mode = "parallel"
	// ModeSequential awaits each call fully before issuing the next, with a
	// fixed pacing delay between completions.
	ModeSequential Mode = "sequential"
	// ModeTurnBased dispatches exactly one responder per turn, rotating
	// through the resolved set.
	ModeTurnBased Mode = "turnbased"
	// ModeFacilitator, ModeSocratic and ModeDebateRounds execute exactly like
	// ModeSequential; their role semantics come entirely from persona text,
	// which is opaque to the engine.
	ModeFacilitator  Mode = "facilitator"
	ModeSocratic     Mode = "socratic"
	ModeDebateRounds Mode = "debate_rounds"
)

// Valid reports whether m is a member of the closed mode set.
func (m Mode) Valid() bool {
	switch m {
	case ModeParallel, ModeSequential, ModeTurnBased, ModeFacilitator, ModeSocratic, ModeDebateRounds:
		return true
	}
	return false
}

// Sequentialish reports whether m shares the sequential execution strategy.
func (m Mode) Sequentialish() bool {
	switch m {
	case ModeSequential, ModeFacilitator, ModeSocratic, ModeDebateRounds:
		return true
	}
	return false
}

// ParseMode validates a raw mode string.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}
