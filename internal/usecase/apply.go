package usecase

import (
	"fmt"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/geometry"
	"svw.info/picreveal/internal/ports"
	"svw.info/picreveal/internal/reveal"
)

// Apply runs one transition on s and returns the effects to execute. Errors
// are never fatal: s is left consistent and the effects, if any, still apply.
func Apply(s *Session, ev Event, sel ports.Selector) ([]Effect, error) {
	switch ev := ev.(type) {
	case ImageChosen:
		return chooseImage(s, ev)
	case StartRequested:
		return start(s)
	case CellClicked:
		if s.Phase != domain.PhaseInProgress {
			return nil, domain.ErrWrongPhase
		}
		return click(s, ev.Row, ev.Col)
	case RandomRevealRequested:
		if s.Phase != domain.PhaseInProgress {
			return nil, domain.ErrWrongPhase
		}
		c, ok := sel.Select(s.State)
		if !ok {
			return finish(s, nil), nil
		}
		return click(s, c.Row, c.Col)
	case RevealAllRequested:
		if s.Phase != domain.PhaseInProgress {
			return nil, domain.ErrWrongPhase
		}
		return revealAll(s), nil
	case Restored:
		return restore(s, ev)
	default:
		return nil, fmt.Errorf("usecase: unknown event %T", ev)
	}
}

func chooseImage(s *Session, ev ImageChosen) ([]Effect, error) {
	if ev.Ticket != s.ticket {
		return nil, domain.ErrStaleImage
	}
	if !ev.Image.Valid() {
		return nil, fmt.Errorf("%w: %dx%d", domain.ErrInvalidImage, ev.Image.Width, ev.Image.Height)
	}
	img := ev.Image
	s.Pending = &img
	return []Effect{MessageEffect{MsgImageReady}, PersistEffect{s.Snapshot()}}, nil
}

// start begins a game on the pending image. During play with nothing pending
// it restarts the current image.
func start(s *Session) ([]Effect, error) {
	img := s.Pending
	if img == nil && s.Phase == domain.PhaseInProgress {
		img = s.Image
	}
	if img == nil {
		return []Effect{MessageEffect{MsgNoImage}}, domain.ErrNoImageSelected
	}
	g, err := geometry.Compute(*img)
	if err != nil {
		return nil, err
	}
	s.Image = img
	s.Pending = nil
	s.Geometry = g
	s.State = reveal.New(g.Rows, g.Cols)
	s.Phase = domain.PhaseInProgress
	return []Effect{RenderEffect{}, MessageEffect{MsgStart}, PersistEffect{s.Snapshot()}}, nil
}

func click(s *Session, row, col int) ([]Effect, error) {
	ev, ok, err := s.State.Reveal(row, col)
	if err != nil || !ok {
		return nil, err
	}
	effects := []Effect{
		RevealEffect{ev},
		MessageEffect{revealedMsg(ev.RevealCount)},
		PersistEffect{s.Snapshot()},
	}
	if s.State.IsComplete() {
		effects = finish(s, effects)
	}
	return effects, nil
}

// revealAll finishes the game even if the grid was already complete.
func revealAll(s *Session) []Effect {
	var effects []Effect
	for _, ev := range s.State.RevealAll() {
		effects = append(effects, RevealEffect{ev})
	}
	effects = append(effects,
		MessageEffect{revealedMsg(s.State.Count())},
		PersistEffect{s.Snapshot()},
	)
	return finish(s, effects)
}

func finish(s *Session, effects []Effect) []Effect {
	s.Phase = domain.PhaseFinished
	effects = append(effects, FinishedEffect{}, MessageEffect{MsgComplete}, ClearEffect{})
	s.reset()
	return append(effects, RenderEffect{})
}

func restore(s *Session, ev Restored) ([]Effect, error) {
	if s.Phase != domain.PhaseSetup || s.State != nil {
		return nil, domain.ErrWrongPhase
	}
	if !ev.Found {
		return nil, nil
	}
	snap := ev.Snapshot
	img := domain.ImageDescriptor{SourceRef: snap.ImageRef}
	if snap.ImageSize != nil {
		img.Width, img.Height = snap.ImageSize.Width, snap.ImageSize.Height
	}

	if !snap.HasGrid() {
		if !img.Valid() {
			return []Effect{ClearEffect{}}, fmt.Errorf("%w: saved image has no size", domain.ErrInvalidImage)
		}
		s.Pending = &img
		return []Effect{MessageEffect{MsgImageReady}}, nil
	}

	st, err := reveal.Restore(snap.GridSize.Rows, snap.GridSize.Cols, snap.RevealedState)
	if err != nil {
		return []Effect{ClearEffect{}, RenderEffect{}}, err
	}
	if !img.Valid() {
		return []Effect{ClearEffect{}, RenderEffect{}}, fmt.Errorf("%w: saved image has no size", domain.ErrInvalidImage)
	}
	s.Image = &img
	s.Geometry = geometry.FromShape(st.Rows(), st.Cols(), img.Width, img.Height)
	s.State = st
	s.Phase = domain.PhaseInProgress
	effects := []Effect{RenderEffect{}, MessageEffect{revealedMsg(st.Count())}}
	if st.IsComplete() {
		effects = finish(s, effects)
	}
	return effects, nil
}
