// Package compose renders a layout specification, formatted text, and image
// assets into one raster image.
//
// Drawing happens strictly in ascending z-index order — images, then shapes,
// then text — so later draws occlude earlier ones. That ordering is the whole
// compositing contract; there is no alpha blending beyond last-write-wins.
package compose

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/assets"
	"github.com/ddrutch/AWSInfoGraphic/pkg/fonts"
	"github.com/ddrutch/AWSInfoGraphic/pkg/layout"
	"github.com/ddrutch/AWSInfoGraphic/pkg/textfmt"
)

// Output formats accepted by Render.
const (
	FormatPNG  = "PNG"
	FormatJPEG = "JPEG"
)

// placeholderUpscaleCap bounds how far a placeholder may be enlarged past
// its native resolution before it turns into visible blur.
const placeholderUpscaleCap = 2.0

// ValidateFormat checks an output format string (case-insensitive).
func ValidateFormat(format string) error {
	switch strings.ToUpper(format) {
	case FormatPNG, FormatJPEG:
		return nil
	default:
		return apperrors.New(apperrors.Validation, apperrors.CodeInvalidFormat,
			"invalid output format: %q (must be PNG or JPEG)", format)
	}
}

// Render composites the final image and encodes it in the requested format.
// Encoding failures are fatal — they indicate malformed input, not transient
// unavailability — and are never retried upstream.
func Render(spec *layout.Specification, texts []textfmt.Element, images assets.Set, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	p := spec.Platform
	dc := gg.NewContext(p.Width, p.Height)
	dc.SetHexColor(spec.Scheme.Background)
	dc.Clear()

	// Index formatted text by source geometry so draw order can follow
	// z-index over the raw element sequence.
	formatted := make(map[layout.Element]textfmt.Element, len(texts))
	for _, t := range texts {
		formatted[t.Source] = t
	}

	ordered := append([]layout.Element(nil), spec.Elements...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Z < ordered[j].Z })

	for _, el := range ordered {
		switch el.Kind {
		case layout.KindImage:
			if err := drawImage(dc, el, images, p.Width, p.Height); err != nil {
				return nil, err
			}
		case layout.KindShape:
			dc.SetHexColor(spec.Scheme.Accent)
			dc.DrawRectangle(el.X*float64(p.Width), el.Y*float64(p.Height),
				el.W*float64(p.Width), el.H*float64(p.Height))
			dc.Fill()
		case layout.KindText:
			if t, ok := formatted[el]; ok {
				if err := drawText(dc, t, p.Width, p.Height); err != nil {
					return nil, err
				}
			}
		}
	}

	return encode(dc, format, p.JPEGQuality)
}

func drawImage(dc *gg.Context, el layout.Element, images assets.Set, canvasW, canvasH int) error {
	if el.AssetIndex < 0 || el.AssetIndex >= len(images) {
		return apperrors.New(apperrors.Logic, apperrors.CodeCompose,
			"image element references asset %d of %d", el.AssetIndex, len(images))
	}
	a := images[el.AssetIndex]

	boxX := el.X * float64(canvasW)
	boxY := el.Y * float64(canvasH)
	boxW := el.W * float64(canvasW)
	boxH := el.H * float64(canvasH)

	tw, th := int(boxW), int(boxH)

	// Quality guard: a placeholder never grows past twice its native size.
	if a.Origin == assets.OriginPlaceholder {
		if limit := int(placeholderUpscaleCap * float64(a.Width)); tw > limit {
			tw = limit
		}
		if limit := int(placeholderUpscaleCap * float64(a.Height)); th > limit {
			th = limit
		}
	}
	if tw < 1 || th < 1 {
		return apperrors.New(apperrors.Logic, apperrors.CodeCompose,
			"image element %q has empty pixel box", a.ID)
	}

	resized := imaging.Resize(a.Image, tw, th, imaging.Lanczos)

	// Center inside the box when the upscale cap shrank the target.
	x := boxX + (boxW-float64(tw))/2
	y := boxY + (boxH-float64(th))/2
	dc.DrawImage(resized, int(x), int(y))
	return nil
}

func drawText(dc *gg.Context, t textfmt.Element, canvasW, canvasH int) error {
	face, err := faceFor(t)
	if err != nil {
		return apperrors.Wrap(apperrors.Logic, apperrors.CodeCompose, err, "load font face")
	}
	dc.SetFontFace(face)
	dc.SetHexColor(t.Color)

	el := t.Source
	boxX := el.X * float64(canvasW)
	boxY := el.Y * float64(canvasH)
	boxW := el.W * float64(canvasW)
	boxH := el.H * float64(canvasH)
	lineH := t.LineHeight()

	// Vertically center the block of lines inside the box.
	blockH := float64(len(t.Lines)) * lineH
	top := boxY + (boxH-blockH)/2
	if top < boxY {
		top = boxY
	}

	for i, line := range t.Lines {
		y := top + (float64(i)+0.5)*lineH
		switch el.Align {
		case layout.AlignCenter:
			dc.DrawStringAnchored(line, boxX+boxW/2, y, 0.5, 0.35)
		case layout.AlignRight:
			dc.DrawStringAnchored(line, boxX+boxW, y, 1, 0.35)
		default:
			dc.DrawStringAnchored(line, boxX, y, 0, 0.35)
		}
	}
	return nil
}

// faceFor selects the face weight: titles render bold, everything else
// regular.
func faceFor(t textfmt.Element) (font.Face, error) {
	if t.Source.Role == layout.RoleTitle {
		return fonts.Bold(t.FontSize)
	}
	return fonts.Regular(t.FontSize)
}

func encode(dc *gg.Context, format string, jpegQuality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch strings.ToUpper(format) {
	case FormatPNG:
		err = png.Encode(&buf, dc.Image())
	case FormatJPEG:
		if jpegQuality <= 0 || jpegQuality > 100 {
			jpegQuality = 90
		}
		err = jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Logic, apperrors.CodeCompose, err,
			"encode %s output", format)
	}
	return buf.Bytes(), nil
}
