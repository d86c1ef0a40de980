package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/picreveal/internal/infrastructure/storage"
	"svw.info/picreveal/internal/selector"
	"svw.info/picreveal/internal/usecase"
)

func TestSessionsAreIsolatedPerPlayer(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	reg := usecase.NewSessions(kv, "game", selector.NewRandom(nil), &fakeDecoder{}, zerolog.Nop())

	alice := reg.Get(ctx, "alice")
	_, err := alice.ChooseImage(ctx, strings.NewReader("500x500:a"))
	require.NoError(t, err)
	_, err = alice.Start(ctx)
	require.NoError(t, err)

	bob := reg.Get(ctx, "bob")
	assert.NotSame(t, alice, bob)
	assert.Nil(t, bob.View().Grid)
	assert.Same(t, alice, reg.Get(ctx, "alice"))
	assert.Equal(t, 2, reg.Len())

	_, err = kv.Get(ctx, "game:alice")
	assert.NoError(t, err)
	_, err = kv.Get(ctx, "game:bob")
	assert.Error(t, err)
}

func TestSessionsRestoreFromSlot(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Put(ctx, "game:carol", []byte(`{"imageRef":"500x500:c","gridSize":{"rows":1,"cols":2},"revealedState":[[true,false]],"imageSize":{"width":500,"height":500}}`)))

	reg := usecase.NewSessions(kv, "game", selector.NewRandom(nil), &fakeDecoder{}, zerolog.Nop())
	v := reg.Get(ctx, "carol").View()
	assert.Equal(t, 1, v.RevealCount)
	assert.Equal(t, 2, v.TotalCells)
}

type manualClock struct{ t time.Time }

func (c *manualClock) Now() time.Time          { return c.t }
func (c *manualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSessionsSweepIdle(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	clock := &manualClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	reg := usecase.NewSessions(kv, "game", selector.NewRandom(nil), &fakeDecoder{}, zerolog.Nop(), usecase.WithClock(clock.Now))

	dave := reg.Get(ctx, "dave")
	_, err := dave.ChooseImage(ctx, strings.NewReader("500x500:d"))
	require.NoError(t, err)
	_, err = dave.Start(ctx)
	require.NoError(t, err)
	_, err = dave.Click(ctx, 0, 0)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		reg.Get(ctx, fmt.Sprintf("drive-by-%d", i))
	}
	require.Equal(t, 101, reg.Len())

	clock.Advance(20 * time.Minute)
	reg.Get(ctx, "erin")
	clock.Advance(20 * time.Minute)

	assert.Equal(t, 101, reg.Sweep(30*time.Minute))
	assert.Equal(t, 1, reg.Len(), "only the recently seen player stays")

	back := reg.Get(ctx, "dave")
	assert.NotSame(t, dave, back)
	assert.Equal(t, 1, back.View().RevealCount, "rebuilt from the saved slot")
}

func TestSessionsJanitorStopsWithContext(t *testing.T) {
	reg := usecase.NewSessions(storage.NewMemory(), "game", selector.NewRandom(nil), &fakeDecoder{}, zerolog.Nop())
	reg.Get(context.Background(), "frank")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Janitor(ctx, time.Millisecond, time.Nanosecond)
		close(done)
	}()
	require.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
