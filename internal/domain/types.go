package domain

// ImageDescriptor is the decoded picture a game is played on.
type ImageDescriptor struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SourceRef string `json:"sourceRef,omitempty"`
}

// Valid reports whether both sides are positive.
func (d ImageDescriptor) Valid() bool { return d.Width > 0 && d.Height > 0 }

// GridGeometry holds the row/column split of the image and the size of one
// cell in layout units.
type GridGeometry struct {
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	CellWidth  float64 `json:"cellWidth"`
	CellHeight float64 `json:"cellHeight"`
}

// Cells is the total number of cells in the grid.
func (g GridGeometry) Cells() int { return g.Rows * g.Cols }

// CellCoord identifies a cell on the grid.
type CellCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// RevealEvent is emitted once per cell, the first time it is uncovered.
type RevealEvent struct {
	Row         int `json:"row"`
	Col         int `json:"col"`
	RevealCount int `json:"revealCount"`
}

// GridSize is the persisted shape of the grid.
type GridSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// ImageSize is the persisted pixel size of the image.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Snapshot is the durable save slot content.
type Snapshot struct {
	ImageRef      string     `json:"imageRef"`
	GridSize      GridSize   `json:"gridSize"`
	RevealedState [][]bool   `json:"revealedState"`
	ImageSize     *ImageSize `json:"imageSize,omitempty"`
}

// HasGrid reports whether the snapshot carries a game in progress rather than
// only a chosen image.
func (s Snapshot) HasGrid() bool {
	return s.GridSize.Rows > 0 || s.GridSize.Cols > 0 || len(s.RevealedState) > 0
}
