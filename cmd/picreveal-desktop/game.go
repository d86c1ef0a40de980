package main

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/geometry"
	"svw.info/picreveal/internal/imageinput"
	"svw.info/picreveal/internal/usecase"
)

const (
	padding     = 12
	hudHeight   = 44
	emptyHeight = 560
	maxWindowH  = 900
)

var (
	colBackground = color.RGBA{0x1d, 0x1f, 0x24, 0xff}
	colCover      = color.RGBA{0x4c, 0x56, 0x6a, 0xff}
	colGridLine   = color.RGBA{0x2e, 0x34, 0x40, 0xff}
	colText       = color.RGBA{0xec, 0xef, 0xf4, 0xff}
	colTextSoft   = color.RGBA{0x9a, 0xa3, 0xb5, 0xff}
	colWarn       = color.RGBA{0xeb, 0xcb, 0x8b, 0xff}
)

// game renders one Controller and feeds it input. It is also the
// controller's Presenter.
type game struct {
	ctl *usecase.Controller
	log zerolog.Logger

	view    usecase.View
	message string
	dirty   bool

	picture    *ebiten.Image
	pictureRef string
	winH       int
}

func newGame(log zerolog.Logger) *game {
	return &game{log: log, dirty: true}
}

func (g *game) Message(msg string)            { g.message = msg }
func (g *game) Revealed(_ domain.RevealEvent) { g.dirty = true }
func (g *game) Redraw()                       { g.dirty = true }

// refresh pulls a new view and reloads the picture when it changed.
func (g *game) refresh() {
	g.view = g.ctl.View()
	g.dirty = false
	if g.message == "" {
		g.message = g.view.Message
	}
	if g.view.Image == nil {
		g.picture, g.pictureRef = nil, ""
	} else if g.view.Image.SourceRef != g.pictureRef {
		img, err := imageinput.DecodeDataURL(g.view.Image.SourceRef)
		if err != nil {
			g.log.Error().Err(err).Msg("decode picture")
			g.picture, g.pictureRef = nil, ""
		} else {
			g.picture = ebiten.NewImageFromImage(img)
			g.pictureRef = g.view.Image.SourceRef
		}
	}
	g.resizeWindow()
}

func (g *game) resizeWindow() {
	_, h := g.Layout(0, 0)
	if h == g.winH {
		return
	}
	g.winH = h
	w := int(geometry.NominalWidth) + padding*2
	scale := 1.0
	if h > maxWindowH {
		scale = float64(maxWindowH) / float64(h)
	}
	ebiten.SetWindowSize(int(float64(w)*scale), int(float64(h)*scale))
}

func (g *game) chooseFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.choose(ctx, f)
}

func (g *game) choose(ctx context.Context, r io.Reader) error {
	if _, err := g.ctl.ChooseImage(ctx, r); err != nil {
		g.message = fmt.Sprintf("Could not use that image: %v", err)
		return err
	}
	return nil
}

func (g *game) handleDrop(ctx context.Context) {
	dropped := ebiten.DroppedFiles()
	if dropped == nil {
		return
	}
	entries, err := fs.ReadDir(dropped, ".")
	if err != nil || len(entries) == 0 {
		return
	}
	f, err := dropped.Open(entries[0].Name())
	if err != nil {
		g.log.Warn().Err(err).Msg("open dropped file")
		return
	}
	defer f.Close()
	if err := g.choose(ctx, f); err != nil {
		g.log.Warn().Err(err).Str("file", entries[0].Name()).Msg("dropped file rejected")
	}
}

// cellAt maps a cursor position onto the grid.
func (g *game) cellAt(mx, my int) (row, col int, ok bool) {
	if g.view.Grid == nil {
		return 0, 0, false
	}
	x := float64(mx - padding)
	y := float64(my - hudHeight - padding)
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	row = int(math.Floor(y / g.view.Grid.CellHeight))
	col = int(math.Floor(x / g.view.Grid.CellWidth))
	return row, col, row < g.view.Grid.Rows && col < g.view.Grid.Cols
}

func (g *game) Update() error {
	ctx := context.Background()
	g.handleDrop(ctx)

	// rejected events already carry their message through the presenter
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		_, _ = g.ctl.Start(ctx)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		_, _ = g.ctl.RandomReveal(ctx)
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		_, _ = g.ctl.RevealAll(ctx)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if row, col, ok := g.cellAt(ebiten.CursorPosition()); ok {
			_, _ = g.ctl.Click(ctx, row, col)
		}
	}

	if g.dirty {
		g.refresh()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	g.drawHUD(screen)

	v := g.view
	if v.Grid == nil {
		hint := "Drop an image on this window."
		if v.PendingImage {
			hint = "Image ready. Press S to start."
		}
		text.Draw(screen, hint, basicfont.Face7x13, padding, hudHeight+padding+20, colTextSoft)
		return
	}

	ox, oy := float32(padding), float32(hudHeight+padding)
	if g.picture != nil {
		b := g.picture.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(geometry.NominalWidth/float64(b.Dx()), v.Grid.RenderedHeight/float64(b.Dy()))
		op.GeoM.Translate(float64(ox), float64(oy))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(g.picture, op)
	}

	cw, ch := float32(v.Grid.CellWidth), float32(v.Grid.CellHeight)
	for r, row := range v.Revealed {
		for c, open := range row {
			if open {
				continue
			}
			x, y := ox+float32(c)*cw, oy+float32(r)*ch
			vector.DrawFilledRect(screen, x, y, cw, ch, colCover, false)
			vector.StrokeRect(screen, x, y, cw, ch, 1, colGridLine, false)
		}
	}
}

func (g *game) drawHUD(screen *ebiten.Image) {
	text.Draw(screen, g.message, basicfont.Face7x13, padding, 20, colText)
	status := "S start  R random  A reveal all"
	if g.view.Grid != nil {
		status = fmt.Sprintf("%d/%d revealed  |  %s", g.view.RevealCount, g.view.TotalCells, status)
	}
	text.Draw(screen, status, basicfont.Face7x13, padding, 36, colTextSoft)
	if g.view.Degraded {
		text.Draw(screen, "not saving", basicfont.Face7x13, int(geometry.NominalWidth)-70, 20, colWarn)
	}
	if ebiten.IsKeyPressed(ebiten.KeyF1) {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %0.1f  phase %s", ebiten.ActualTPS(), g.view.Phase), padding, hudHeight)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	w := int(geometry.NominalWidth) + padding*2
	h := hudHeight + padding*2 + emptyHeight
	if g.view.Grid != nil {
		h = hudHeight + padding*2 + int(math.Ceil(g.view.Grid.RenderedHeight))
	}
	return w, h
}
