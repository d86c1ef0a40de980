package usecase

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/geometry"
	"svw.info/picreveal/internal/persistence"
	"svw.info/picreveal/internal/ports"
)

// Controller owns one Session. Events run one at a time to completion; only
// image decoding happens outside the lock.
type Controller struct {
	mu        sync.Mutex
	session   *Session
	store     *persistence.Adapter
	sel       ports.Selector
	decoder   ports.ImageDecoder
	presenter ports.Presenter
	log       zerolog.Logger
	message   string
	booted    bool
}

type Option func(*Controller)

func WithDecoder(d ports.ImageDecoder) Option { return func(c *Controller) { c.decoder = d } }
func WithPresenter(p ports.Presenter) Option  { return func(c *Controller) { c.presenter = p } }

var errNotConfigured = errors.New("usecase dependency not configured")

func NewController(store *persistence.Adapter, sel ports.Selector, log zerolog.Logger, opts ...Option) *Controller {
	c := &Controller{
		session: NewSession(),
		store:   store,
		sel:     sel,
		log:     log.With().Str("component", "controller").Str("slot", store.Key()).Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Outcome is what a caller sees after one event.
type Outcome struct {
	View     View
	Reveals  []domain.RevealEvent
	Finished bool
}

// Boot restores the saved game. Only the first call has an effect.
func (c *Controller) Boot(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.booted {
		return Outcome{View: c.viewLocked()}, nil
	}
	c.booted = true
	snap, found := c.store.Load(ctx)
	if found && snap.ImageSize == nil && c.decoder != nil {
		if d, err := c.decoder.Describe(snap.ImageRef); err == nil {
			snap.ImageSize = &domain.ImageSize{Width: d.Width, Height: d.Height}
		}
	}
	out, err := c.applyLocked(ctx, Restored{Snapshot: snap, Found: found})
	if err != nil {
		c.log.Warn().Err(err).Msg("discarding saved game")
	}
	return out, err
}

// Dispatch applies one event and executes its effects.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(ctx, ev)
}

// ChooseImage decodes r and makes it the pending image. If another image is
// chosen while this one is still decoding, this result is dropped with
// domain.ErrStaleImage.
func (c *Controller) ChooseImage(ctx context.Context, r io.Reader) (Outcome, error) {
	if c.decoder == nil {
		return Outcome{}, errNotConfigured
	}
	c.mu.Lock()
	ticket := c.session.BeginDecode()
	c.mu.Unlock()

	type result struct {
		img domain.ImageDescriptor
		err error
	}
	done := make(chan result, 1)
	go func() {
		img, err := c.decoder.Decode(r)
		done <- result{img, err}
	}()

	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return Outcome{View: c.View()}, res.err
		}
		return c.Dispatch(ctx, ImageChosen{Ticket: ticket, Image: res.img})
	}
}

func (c *Controller) Start(ctx context.Context) (Outcome, error) {
	return c.Dispatch(ctx, StartRequested{})
}

func (c *Controller) Click(ctx context.Context, row, col int) (Outcome, error) {
	return c.Dispatch(ctx, CellClicked{Row: row, Col: col})
}

func (c *Controller) RandomReveal(ctx context.Context) (Outcome, error) {
	return c.Dispatch(ctx, RandomRevealRequested{})
}

func (c *Controller) RevealAll(ctx context.Context) (Outcome, error) {
	return c.Dispatch(ctx, RevealAllRequested{})
}

// View is a read-only picture of the session.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) applyLocked(ctx context.Context, ev Event) (Outcome, error) {
	effects, err := Apply(c.session, ev, c.sel)
	out := Outcome{}
	for _, e := range effects {
		switch e := e.(type) {
		case PersistEffect:
			if perr := c.store.Save(ctx, e.Snapshot); perr != nil {
				c.log.Debug().Err(perr).Msg("save skipped")
			}
		case ClearEffect:
			if perr := c.store.Clear(ctx); perr != nil {
				c.log.Debug().Err(perr).Msg("clear skipped")
			}
		case MessageEffect:
			c.message = e.Text
			if c.presenter != nil {
				c.presenter.Message(e.Text)
			}
		case RevealEffect:
			out.Reveals = append(out.Reveals, e.Event)
			if c.presenter != nil {
				c.presenter.Revealed(e.Event)
			}
		case RenderEffect:
			if c.presenter != nil {
				c.presenter.Redraw()
			}
		case FinishedEffect:
			out.Finished = true
			c.log.Info().Msg("puzzle fully revealed")
		}
	}
	if err != nil {
		c.log.Debug().Err(err).Str("event", eventName(ev)).Msg("event rejected")
	}
	out.View = c.viewLocked()
	return out, err
}

func (c *Controller) viewLocked() View {
	s := c.session
	v := View{
		Phase:        s.Phase,
		Message:      c.message,
		PendingImage: s.Pending != nil,
		Degraded:     c.store.Degraded(),
	}
	if s.State != nil && s.Image != nil {
		img := *s.Image
		v.Image = &img
		v.Grid = &GridView{
			GridGeometry:   s.Geometry,
			RenderedWidth:  geometry.NominalWidth,
			RenderedHeight: geometry.RenderedHeight(s.Geometry),
		}
		v.Revealed = s.State.Matrix()
		v.RevealCount = s.State.Count()
		v.TotalCells = s.State.Total()
	}
	return v
}

func eventName(ev Event) string {
	switch ev.(type) {
	case ImageChosen:
		return "image_chosen"
	case StartRequested:
		return "start"
	case CellClicked:
		return "cell_clicked"
	case RandomRevealRequested:
		return "random_reveal"
	case RevealAllRequested:
		return "reveal_all"
	case Restored:
		return "restored"
	default:
		return "unknown"
	}
}
