package persistence

import (
	"encoding/json"
	"fmt"
	"strings"

	"svw.info/picreveal/internal/domain"
)

// Encode serialises a snapshot into the slot's JSON shape.
func Encode(s domain.Snapshot) ([]byte, error) {
	if s.RevealedState == nil {
		s.RevealedState = [][]bool{}
	}
	return json.Marshal(s)
}

// Decode parses slot content. Anything that cannot describe a game, including
// a snapshot without an image, is reported as domain.ErrCorruptSnapshot.
func Decode(data []byte) (domain.Snapshot, error) {
	var s domain.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %w", domain.ErrCorruptSnapshot, err)
	}
	if strings.TrimSpace(s.ImageRef) == "" {
		return domain.Snapshot{}, fmt.Errorf("%w: missing imageRef", domain.ErrCorruptSnapshot)
	}
	if s.GridSize.Rows < 0 || s.GridSize.Cols < 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: negative grid size", domain.ErrCorruptSnapshot)
	}
	return s, nil
}
