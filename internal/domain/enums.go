package domain

import "fmt"

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseSetup      Phase = iota // no grid; an image may be pending
	PhaseInProgress              // grid exists and is not fully revealed
	PhaseFinished                // transient, collapses back to Setup
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	default:
		return "setup"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "setup":
		*p = PhaseSetup
	case "in_progress":
		*p = PhaseInProgress
	case "finished":
		*p = PhaseFinished
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}
