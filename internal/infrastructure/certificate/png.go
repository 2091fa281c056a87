// Package certificate renders completion certificates.
package certificate

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

// A4 landscape at 96 DPI.
const (
	pageWidth  = 1123
	pageHeight = 794
)

var (
	colorInk    = color.RGBA{R: 0x1e, G: 0x1b, B: 0x4b, A: 0xff}
	colorAccent = color.RGBA{R: 0x4f, G: 0x46, B: 0xe5, A: 0xff}
	colorMuted  = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
)

// PNGRenderer draws certificates with the Go font family.
type PNGRenderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	italic  *truetype.Font
}

func NewPNGRenderer() (*PNGRenderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	italic, err := truetype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse italic font: %w", err)
	}
	return &PNGRenderer{regular: regular, bold: bold, italic: italic}, nil
}

// face builds a fresh face per render; truetype faces are not safe for
// concurrent use.
func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

func (r *PNGRenderer) Render(ctx context.Context, cert domain.Certificate) (*ports.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	const cx = pageWidth / 2
	dc := gg.NewContext(pageWidth, pageHeight)

	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(colorAccent)
	dc.SetLineWidth(8)
	dc.DrawRectangle(24, 24, pageWidth-48, pageHeight-48)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(44, 44, pageWidth-88, pageHeight-88)
	dc.Stroke()

	dc.SetFontFace(face(r.bold, 20))
	dc.DrawStringAnchored(strings.ToUpper(cert.Issuer), cx, 110, 0.5, 0.5)

	dc.SetColor(colorInk)
	dc.SetFontFace(face(r.bold, 44))
	dc.DrawStringAnchored("CERTIFICATE OF COMPLETION", cx, 180, 0.5, 0.5)

	dc.SetColor(colorMuted)
	dc.SetFontFace(face(r.italic, 22))
	dc.DrawStringAnchored("This is to certify that", cx, 260, 0.5, 0.5)

	dc.SetColor(colorInk)
	dc.SetFontFace(face(r.bold, 52))
	dc.DrawStringAnchored(cert.RecipientName, cx, 335, 0.5, 0.5)

	dc.SetColor(colorMuted)
	dc.SetFontFace(face(r.italic, 22))
	dc.DrawStringAnchored("has successfully completed the course", cx, 410, 0.5, 0.5)

	dc.SetColor(colorAccent)
	dc.SetFontFace(face(r.bold, 34))
	dc.DrawStringWrapped(cert.CourseTitle, cx, 470, 0.5, 0.5, pageWidth-240, 1.3, gg.AlignCenter)

	if cert.Instructor != "" {
		dc.SetColor(colorMuted)
		dc.SetFontFace(face(r.regular, 20))
		dc.DrawStringAnchored("Instructor: "+cert.Instructor, cx, 545, 0.5, 0.5)
	}

	dc.SetColor(colorInk)
	dc.SetLineWidth(1.5)
	dc.DrawLine(160, 660, 440, 660)
	dc.DrawLine(pageWidth-440, 660, pageWidth-160, 660)
	dc.Stroke()

	dc.SetFontFace(face(r.regular, 20))
	dc.DrawStringAnchored(cert.IssueDate(), 300, 640, 0.5, 0.5)
	dc.DrawStringAnchored(cert.Issuer, pageWidth-300, 640, 0.5, 0.5)
	dc.SetColor(colorMuted)
	dc.SetFontFace(face(r.regular, 16))
	dc.DrawStringAnchored("Date of issue", 300, 685, 0.5, 0.5)
	dc.DrawStringAnchored("Issued by", pageWidth-300, 685, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode certificate: %w", err)
	}
	return &ports.Document{
		Filename:    Filename(cert, "png"),
		ContentType: "image/png",
		Body:        buf.Bytes(),
	}, nil
}

// Filename returns "Certificate - <name> - <title>.<ext>" with path
// separators removed.
func Filename(cert domain.Certificate, ext string) string {
	clean := strings.NewReplacer("/", "-", `\`, "-", `"`, "'").Replace
	return fmt.Sprintf("Certificate - %s - %s.%s", clean(cert.RecipientName), clean(cert.CourseTitle), ext)
}
