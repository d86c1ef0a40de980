package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"svw.info/picreveal/internal/domain"
)

// FS keeps one JSON file per key under dir.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

// fileName maps a key onto one file name. Escaping is reversible, so distinct
// keys never share a file, and separators cannot leave dir.
func fileName(key string) string {
	return url.QueryEscape(key) + ".json"
}

func (s *FS) pathFor(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

func (s *FS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

// Put writes through a temp file and rename so a crash never leaves a half
// written slot.
func (s *FS) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: empty key")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	// keep files readable on disk
	var buf bytes.Buffer
	if err := json.Indent(&buf, value, "", "  "); err == nil {
		value = buf.Bytes()
	}
	target := s.pathFor(key)
	f, err := os.CreateTemp(s.dir, ".slot-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storage: replace %s: %w", target, err)
	}
	return nil
}

func (s *FS) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return domain.ErrNotFound
	}
	return err
}
