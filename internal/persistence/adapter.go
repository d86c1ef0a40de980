// Package persistence keeps the single save slot of a game session.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/ports"
)

// DefaultSlot is the slot key used when none is configured.
const DefaultSlot = "pictureGuessGameState"

// Adapter reads and writes one slot of a KV store. Store failures mark the
// adapter degraded; play continues from memory.
type Adapter struct {
	kv       ports.KV
	key      string
	log      zerolog.Logger
	degraded atomic.Bool
}

func New(kv ports.KV, key string, log zerolog.Logger) *Adapter {
	if key == "" {
		key = DefaultSlot
	}
	return &Adapter{kv: kv, key: key, log: log.With().Str("component", "persistence").Str("slot", key).Logger()}
}

// Key is the slot this adapter writes.
func (a *Adapter) Key() string { return a.key }

// Degraded reports whether the last store operation failed.
func (a *Adapter) Degraded() bool { return a.degraded.Load() }

// Save overwrites the slot.
func (a *Adapter) Save(ctx context.Context, s domain.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := a.kv.Put(ctx, a.key, data); err != nil {
		return a.unavailable("save", err)
	}
	a.recovered()
	return nil
}

// Load returns the saved snapshot. A missing slot, unreadable content or an
// unreachable store all read as no snapshot.
func (a *Adapter) Load(ctx context.Context) (domain.Snapshot, bool) {
	data, err := a.kv.Get(ctx, a.key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.recovered()
		return domain.Snapshot{}, false
	case err != nil:
		_ = a.unavailable("load", err)
		return domain.Snapshot{}, false
	}
	a.recovered()
	s, err := Decode(data)
	if err != nil {
		a.log.Warn().Err(err).Msg("ignoring saved game")
		return domain.Snapshot{}, false
	}
	return s, true
}

// Clear deletes the slot. Deleting a missing slot is not an error.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Delete(ctx, a.key); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return a.unavailable("clear", err)
	}
	a.recovered()
	return nil
}

func (a *Adapter) unavailable(op string, err error) error {
	if !a.degraded.Swap(true) {
		a.log.Warn().Err(err).Str("op", op).Msg("store unavailable, continuing in memory")
	} else {
		a.log.Debug().Err(err).Str("op", op).Msg("store still unavailable")
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistenceUnavailable, op, err)
}

func (a *Adapter) recovered() {
	if a.degraded.Swap(false) {
		a.log.Info().Msg("store available again")
	}
}
