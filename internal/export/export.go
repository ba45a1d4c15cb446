// Package export encodes a flattened coloring page and hands it to whatever
// delivers files on the host.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Name returns the timestamped file name for an export made at t.
func Name(t time.Time, ext string) string {
	return fmt.Sprintf("my-doodle-%d.%s", t.UnixMilli(), ext)
}

// PNG encodes img losslessly.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Sink delivers an encoded artifact under the given name.
type Sink interface {
	Deliver(name string, data []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string, data []byte) error

func (f SinkFunc) Deliver(name string, data []byte) error { return f(name, data) }

// Dir writes artifacts into a directory, creating it if needed.
type Dir string

func (d Dir) Deliver(name string, data []byte) error {
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", d, err)
	}
	path := filepath.Join(string(d), filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Save encodes img as PNG and delivers it to sink under a name stamped with
// now. It returns the name used.
func Save(sink Sink, img image.Image, now time.Time) (string, error) {
	data, err := PNG(img)
	if err != nil {
		return "", err
	}
	name := Name(now, "png")
	if err := sink.Deliver(name, data); err != nil {
		return "", fmt.Errorf("deliver %s: %w", name, err)
	}
	return name, nil
}
