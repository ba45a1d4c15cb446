// Package source loads the line-art reference image from wherever the
// generator left it and resamples it to the working resolution.
package source

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"DoodleBoard/internal/raster"
)

// ErrUnsupportedSource is returned by Parse for locations it cannot open.
var ErrUnsupportedSource = errors.New("unsupported image source")

// ErrImageTooLarge is returned by Load for images wider or taller than
// MaxDimension.
var ErrImageTooLarge = errors.New("image too large")

// MaxDimension bounds the width and height Load will decode.
const MaxDimension = 16384

// Source is somewhere a reference image can be read from.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// File reads an image from the local filesystem.
type File string

func (f File) Open(context.Context) (io.ReadCloser, error) { return os.Open(string(f)) }
func (f File) String() string                              { return string(f) }

// HTTP fetches an image over http or https.
type HTTP struct {
	URL    string
	Client *http.Client
}

func (h HTTP) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", h.URL, resp.Status)
	}
	return resp.Body, nil
}

func (h HTTP) String() string { return h.URL }

// DataURL holds an inline "data:image/...;base64," image, the form the
// generation service hands back.
type DataURL string

func (d DataURL) Open(context.Context) (io.ReadCloser, error) {
	s := string(d)
	comma := strings.IndexByte(s, ',')
	if !strings.HasPrefix(s, "data:") || comma < 0 {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedSource)
	}
	meta, payload := s[len("data:"):comma], s[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data URL is not base64", ErrUnsupportedSource)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (d DataURL) String() string {
	s := string(d)
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[:i] + ",…"
	}
	return s
}

// Parse picks a Source for loc: a data URL, an http(s) URL, or a file path.
func Parse(loc string) (Source, error) {
	switch {
	case loc == "":
		return nil, fmt.Errorf("%w: empty location", ErrUnsupportedSource)
	case strings.HasPrefix(loc, "data:"):
		return DataURL(loc), nil
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return HTTP{URL: loc}, nil
	case strings.Contains(loc, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, loc)
	}
	return File(loc), nil
}

// Load decodes the image behind src and resamples it to w×h.
func Load(ctx context.Context, src Source, w, h int) (*raster.Buffer, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer rc.Close()

	// The header is checked before any pixels are allocated; whatever it
	// consumed is replayed for the full decode.
	var head bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(rc, &head))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("decode %s: %w: %s %dx%d", src, ErrImageTooLarge, format, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(io.MultiReader(&head, rc))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty %s image", src, format)
	}
	return raster.Resample(img, w, h), nil
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Buffer *raster.Buffer
	Err    error
}

// LoadAsync runs Load on its own goroutine and calls deliver exactly once
// with the outcome. deliver runs on that goroutine; callers that own the
// session hand the result back to their event loop themselves.
func LoadAsync(ctx context.Context, src Source, w, h int, deliver func(Result)) {
	go func() {
		buf, err := Load(ctx, src, w, h)
		deliver(Result{Buffer: buf, Err: err})
	}()
}
