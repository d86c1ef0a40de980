package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/infrastructure/storage"
	"svw.info/picreveal/internal/usecase"
)

type mockPresenter struct {
	mock.Mock
}

func (m *mockPresenter) Message(text string)            { m.Called(text) }
func (m *mockPresenter) Revealed(ev domain.RevealEvent) { m.Called(ev) }
func (m *mockPresenter) Redraw()                        { m.Called() }

func TestPresenterSeesEveryStep(t *testing.T) {
	ctx := context.Background()
	p := &mockPresenter{}
	p.On("Message", usecase.MsgImageReady).Once()
	p.On("Redraw").Once()
	p.On("Message", usecase.MsgStart).Once()
	p.On("Revealed", domain.RevealEvent{Row: 2, Col: 3, RevealCount: 1}).Once()
	p.On("Message", "Revealed cells: 1").Once()

	c := newController(storage.NewMemory(), usecase.WithPresenter(p))
	_, err := c.Boot(ctx)
	require.NoError(t, err)
	_, err = c.ChooseImage(ctx, strings.NewReader("500x500:square"))
	require.NoError(t, err)
	_, err = c.Start(ctx)
	require.NoError(t, err)
	_, err = c.Click(ctx, 2, 3)
	require.NoError(t, err)
	// a second click on the same cell is a no-op
	_, err = c.Click(ctx, 2, 3)
	require.NoError(t, err)

	p.AssertExpectations(t)
}
