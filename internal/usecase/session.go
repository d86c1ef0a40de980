package usecase

import (
	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/reveal"
)

// Session is the full mutable state of one play-through.
type Session struct {
	Phase    domain.Phase
	Pending  *domain.ImageDescriptor // chosen, not yet started
	Image    *domain.ImageDescriptor // image of the grid in play
	Geometry domain.GridGeometry
	State    *reveal.State

	ticket uint64 // latest image decode handed out
}

func NewSession() *Session { return &Session{Phase: domain.PhaseSetup} }

// BeginDecode hands out the ticket an ImageChosen event must carry. Any
// earlier ticket becomes stale.
func (s *Session) BeginDecode() uint64 {
	s.ticket++
	return s.ticket
}

// Snapshot is what the save slot should hold for the session right now.
func (s *Session) Snapshot() domain.Snapshot {
	switch {
	case s.State != nil && s.Image != nil:
		return domain.Snapshot{
			ImageRef:      s.Image.SourceRef,
			GridSize:      domain.GridSize{Rows: s.State.Rows(), Cols: s.State.Cols()},
			RevealedState: s.State.Matrix(),
			ImageSize:     &domain.ImageSize{Width: s.Image.Width, Height: s.Image.Height},
		}
	case s.Pending != nil:
		return domain.Snapshot{
			ImageRef:      s.Pending.SourceRef,
			RevealedState: [][]bool{},
			ImageSize:     &domain.ImageSize{Width: s.Pending.Width, Height: s.Pending.Height},
		}
	default:
		return domain.Snapshot{}
	}
}

func (s *Session) reset() {
	s.Phase = domain.PhaseSetup
	s.Pending = nil
	s.Image = nil
	s.Geometry = domain.GridGeometry{}
	s.State = nil
	// a decode started before completion must not repopulate the new game
	s.ticket++
}
