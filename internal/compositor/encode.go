package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"
)

// Format is an output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// ParseFormat accepts "jpeg", "jpg" and "webp", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg", "":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("compositor: unknown output format %q", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatWebP {
		return ".webp"
	}
	return ".jpg"
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/jpeg"
}

// Encode compresses img. WebP output is lossless; quality applies to JPEG only.
func Encode(img image.Image, f Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatWebP:
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("webp encode: %w", err)
		}
	case FormatJPEG, "":
		if quality <= 0 || quality > 100 {
			quality = DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("jpeg encode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	return buf.Bytes(), nil
}

// Artifact is an encoded snapshot ready for handoff.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

func newArtifact(data []byte, f Format, w, h int) *Artifact {
	return &Artifact{
		Name:        "snapshot-" + uuid.NewString() + f.Ext(),
		ContentType: f.ContentType(),
		Data:        data,
		Width:       w,
		Height:      h,
	}
}

// Reader returns a fresh reader over the encoded bytes.
func (a *Artifact) Reader() io.Reader {
	return bytes.NewReader(a.Data)
}

// Size returns the encoded length in bytes.
func (a *Artifact) Size() int64 {
	return int64(len(a.Data))
}
