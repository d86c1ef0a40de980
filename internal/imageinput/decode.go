// Package imageinput turns uploaded image bytes into descriptors and back.
package imageinput

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"svw.info/picreveal/internal/domain"
)

// DefaultMaxBytes caps an upload.
const DefaultMaxBytes = 20 << 20

var ErrTooLarge = errors.New("image exceeds size limit")

// Decoder reads an image's size and keeps its bytes as a data URL.
type Decoder struct {
	MaxBytes int64
}

func NewDecoder(maxBytes int64) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Decoder{MaxBytes: maxBytes}
}

func (d *Decoder) Decode(r io.Reader) (domain.ImageDescriptor, error) {
	data, err := io.ReadAll(io.LimitReader(r, d.MaxBytes+1))
	if err != nil {
		return domain.ImageDescriptor{}, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > d.MaxBytes {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, d.MaxBytes)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}
	desc := domain.ImageDescriptor{
		Width:     cfg.Width,
		Height:    cfg.Height,
		SourceRef: "data:" + mimeType(format) + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	if !desc.Valid() {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: %dx%d", domain.ErrInvalidImage, cfg.Width, cfg.Height)
	}
	return desc, nil
}

func mimeType(format string) string {
	switch format {
	case "jpeg", "png", "gif", "bmp", "tiff", "webp":
		return "image/" + format
	default:
		return "application/octet-stream"
	}
}

// payload extracts the bytes of a base64 data URL.
func payload(ref string) ([]byte, error) {
	head, body, ok := strings.Cut(ref, ",")
	if !ok || !strings.HasPrefix(head, "data:") || !strings.HasSuffix(head, ";base64") {
		return nil, fmt.Errorf("%w: not a base64 data URL", domain.ErrInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}
	return data, nil
}

// DecodeDataURL decodes the pixels held in a source ref.
func DecodeDataURL(ref string) (image.Image, error) {
	data, err := payload(ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}
	return img, nil
}

// DescribeDataURL reads the size of the image held in a source ref.
func DescribeDataURL(ref string) (domain.ImageDescriptor, error) {
	data, err := payload(ref)
	if err != nil {
		return domain.ImageDescriptor{}, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}
	return domain.ImageDescriptor{Width: cfg.Width, Height: cfg.Height, SourceRef: ref}, nil
}

// Describe implements ports.ImageDecoder.
func (d *Decoder) Describe(ref string) (domain.ImageDescriptor, error) {
	return DescribeDataURL(ref)
}
