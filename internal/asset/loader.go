// Package asset fetches and decodes overlay images.
package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"

	"tryon-ar/internal/raster"
)

// MaxBytes caps a single fetched asset.
const MaxBytes = 32 << 20

// ErrLoad is matched by every fetch or decode failure.
var ErrLoad = errors.New("asset: load failed")

// LoadError carries the reference that failed.
type LoadError struct {
	Ref string
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: load %s: %v", e.Ref, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes every LoadError match ErrLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// Loader resolves an image reference to decoded pixels.
type Loader interface {
	Load(ctx context.Context, ref string) (*image.NRGBA, error)
}

// Fetch reads the raw bytes behind ref: an http(s) URL, a file:// URL, or a
// filesystem path (relative paths resolve against root). A nil client gets
// one with DefaultTimeout.
func Fetch(ctx context.Context, client *http.Client, root, ref string) ([]byte, error) {
	if ref == "" {
		return nil, errors.New("empty reference")
	}

	u, err := url.Parse(ref)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return fetchHTTP(ctx, client, ref)
		case "file":
			return readFile(u.Path)
		}
	}

	path := ref
	if root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return readFile(path)
}

func fetchHTTP(ctx context.Context, client *http.Client, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return readLimited(resp.Body)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxBytes {
		return nil, fmt.Errorf("asset larger than %d bytes", MaxBytes)
	}
	return raw, nil
}

// Decode sniffs the format and returns origin-anchored NRGBA pixels.
// Supported: PNG, JPEG, GIF, WebP and TGA (the fallback, since TGA has no
// magic number).
func Decode(raw []byte) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	r := bytes.NewReader(raw)
	switch {
	case bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")):
		img, err = png.Decode(r)
	case bytes.HasPrefix(raw, []byte{0xff, 0xd8}):
		img, err = jpeg.Decode(r)
	case bytes.HasPrefix(raw, []byte("GIF8")):
		img, err = gif.Decode(r)
	case len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		img, err = webp.Decode(r)
	case len(raw) >= 18:
		img, err = tga.Decode(r)
	default:
		return nil, errors.New("unrecognized image data")
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("decode: empty image")
	}
	return raster.ToNRGBA(img), nil
}

// IsRemote reports whether ref is fetched over the network.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
