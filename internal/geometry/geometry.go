// Package geometry derives a grid layout from an image's aspect ratio.
package geometry

import (
	"fmt"
	"math"

	"svw.info/picreveal/internal/domain"
)

const (
	// NominalWidth is the layout width every grid is drawn at.
	NominalWidth = 1000.0
	// TargetCells is the cell budget the row/column split aims for.
	TargetCells = 36
)

// Compute splits the image into roughly TargetCells cells whose shape follows
// the image's aspect ratio.
func Compute(img domain.ImageDescriptor) (domain.GridGeometry, error) {
	if !img.Valid() {
		return domain.GridGeometry{}, fmt.Errorf("%w: %dx%d", domain.ErrInvalidImage, img.Width, img.Height)
	}
	aspect := float64(img.Width) / float64(img.Height)
	rows := roundHalfUp(math.Sqrt(TargetCells / aspect))
	cols := roundHalfUp(float64(rows) * aspect)
	return layout(atLeastOne(rows), atLeastOne(cols), aspect), nil
}

// FromShape rebuilds a geometry for a persisted rows x cols grid. The shape is
// kept as given; width and height only set the rendered height. A zero size
// falls back to the grid's own proportions.
func FromShape(rows, cols, width, height int) domain.GridGeometry {
	rows, cols = atLeastOne(rows), atLeastOne(cols)
	aspect := float64(cols) / float64(rows)
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height)
	}
	return layout(rows, cols, aspect)
}

// RenderedHeight is the layout height of an image drawn NominalWidth wide.
func RenderedHeight(g domain.GridGeometry) float64 {
	return g.CellHeight * float64(g.Rows)
}

func layout(rows, cols int, aspect float64) domain.GridGeometry {
	h := NominalWidth / aspect
	return domain.GridGeometry{
		Rows:       rows,
		Cols:       cols,
		CellWidth:  NominalWidth / float64(cols),
		CellHeight: h / float64(rows),
	}
}

// roundHalfUp matches Math.round for the positive values seen here.
func roundHalfUp(v float64) int { return int(math.Floor(v + 0.5)) }

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
