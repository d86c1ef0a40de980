package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"svw.info/picreveal/internal/persistence"
	"svw.info/picreveal/internal/ports"
)

// Sessions hands out one booted Controller per player, each saving to its own
// slot "<slot>:<player>". Idle controllers can be swept; the next Get rebuilds
// them from their slot.
type Sessions struct {
	mu      sync.Mutex
	byID    map[string]*sessionEntry
	kv      ports.KV
	slot    string
	sel     ports.Selector
	decoder ports.ImageDecoder
	log     zerolog.Logger
	now     func() time.Time
}

type sessionEntry struct {
	ctl      *Controller
	lastSeen time.Time
}

type SessionsOption func(*Sessions)

// WithClock replaces time.Now for idle tracking.
func WithClock(now func() time.Time) SessionsOption { return func(s *Sessions) { s.now = now } }

func NewSessions(kv ports.KV, slot string, sel ports.Selector, decoder ports.ImageDecoder, log zerolog.Logger, opts ...SessionsOption) *Sessions {
	if slot == "" {
		slot = persistence.DefaultSlot
	}
	s := &Sessions{
		byID:    map[string]*sessionEntry{},
		kv:      kv,
		slot:    slot,
		sel:     sel,
		decoder: decoder,
		log:     log,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the player's controller, restoring its saved game on first use.
func (s *Sessions) Get(ctx context.Context, player string) *Controller {
	player = strings.TrimSpace(player)
	s.mu.Lock()
	e, ok := s.byID[player]
	if !ok {
		key := s.slot
		if player != "" {
			key += ":" + player
		}
		e = &sessionEntry{ctl: NewController(persistence.New(s.kv, key, s.log), s.sel, s.log, WithDecoder(s.decoder))}
		s.byID[player] = e
	}
	e.lastSeen = s.now()
	c := e.ctl
	s.mu.Unlock()
	// a discarded save is already logged by Boot
	_, _ = c.Boot(ctx)
	return c
}

// Sweep drops controllers not used within idle and reports how many went.
func (s *Sessions) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.byID {
		if e.lastSeen.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

// Janitor sweeps every interval until ctx is done.
func (s *Sessions) Janitor(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 || idle <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(idle); n > 0 {
				s.log.Debug().Int("evicted", n).Int("live", s.Len()).Msg("idle sessions swept")
			}
		}
	}
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
