package usecase

import "svw.info/picreveal/internal/domain"

// GridView is the geometry plus the rendered size of the whole picture.
type GridView struct {
	domain.GridGeometry
	RenderedWidth  float64 `json:"renderedWidth"`
	RenderedHeight float64 `json:"renderedHeight"`
}

// View is the state a renderer draws from.
type View struct {
	Phase        domain.Phase            `json:"phase"`
	Message      string                  `json:"message,omitempty"`
	Image        *domain.ImageDescriptor `json:"image,omitempty"`
	PendingImage bool                    `json:"pendingImage"`
	Grid         *GridView               `json:"grid,omitempty"`
	Revealed     [][]bool                `json:"revealed,omitempty"`
	RevealCount  int                     `json:"revealCount"`
	TotalCells   int                     `json:"totalCells"`
	Degraded     bool                    `json:"degraded"`
}
