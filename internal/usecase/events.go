package usecase

import (
	"fmt"

	"svw.info/picreveal/internal/domain"
)

// Status lines shown to the player.
const (
	MsgStart      = "Guess the picture!"
	MsgComplete   = "All cells have been revealed!"
	MsgNoImage    = "Please choose an image first."
	MsgImageReady = "Image uploaded! Press 'Start Game' to play."
)

func revealedMsg(n int) string { return fmt.Sprintf("Revealed cells: %d", n) }

// Event is an input to Apply.
type Event interface{ event() }

type (
	ImageChosen struct {
		Ticket uint64
		Image  domain.ImageDescriptor
	}
	StartRequested        struct{}
	CellClicked           struct{ Row, Col int }
	RandomRevealRequested struct{}
	RevealAllRequested    struct{}
	// Restored carries the save slot read at process start.
	Restored struct {
		Snapshot domain.Snapshot
		Found    bool
	}
)

func (ImageChosen) event()           {}
func (StartRequested) event()        {}
func (CellClicked) event()           {}
func (RandomRevealRequested) event() {}
func (RevealAllRequested) event()    {}
func (Restored) event()              {}

// Effect is work Apply asks the caller to carry out, in order.
type Effect interface{ effect() }

type (
	PersistEffect  struct{ Snapshot domain.Snapshot }
	ClearEffect    struct{}
	MessageEffect  struct{ Text string }
	RevealEffect   struct{ Event domain.RevealEvent }
	RenderEffect   struct{}
	FinishedEffect struct{}
)

func (PersistEffect) effect()  {}
func (ClearEffect) effect()    {}
func (MessageEffect) effect()  {}
func (RevealEffect) effect()   {}
func (RenderEffect) effect()   {}
func (FinishedEffect) effect() {}
