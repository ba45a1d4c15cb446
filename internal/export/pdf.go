package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// pageMargin is the A4 margin around the printed page, in millimetres.
const pageMargin = 10.0

// PDF writes img onto a single A4 portrait page, scaled to fit inside the
// margins and centred.
func PDF(w io.Writer, img image.Image) error {
	data, err := PNG(img)
	if err != nil {
		return err
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetCreator("DoodleBoard", true)
	p.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("page", opt, bytes.NewReader(data))

	pageW, pageH := p.GetPageSize()
	boxW, boxH := pageW-2*pageMargin, pageH-2*pageMargin
	b := img.Bounds()
	scale := min(boxW/float64(b.Dx()), boxH/float64(b.Dy()))
	imgW, imgH := float64(b.Dx())*scale, float64(b.Dy())*scale
	p.ImageOptions("page", (pageW-imgW)/2, (pageH-imgH)/2, imgW, imgH, false, opt, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// SavePDF renders img as a PDF and delivers it to sink.
func SavePDF(sink Sink, img image.Image, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := PDF(&buf, img); err != nil {
		return "", err
	}
	name := Name(now, "pdf")
	if err := sink.Deliver(name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("deliver %s: %w", name, err)
	}
	return name, nil
}
