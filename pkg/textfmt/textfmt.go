// Package textfmt computes per-element typography: font size, line wrapping,
// and color for each text element of a layout.
//
// Sizing is shrink-to-fit: starting from a platform-scaled candidate size,
// the formatter wraps the text, estimates its rendered extent with a
// monospace-equivalent heuristic, and steps the size down until the estimate
// fits the element's pixel box or the minimum size is reached. The element
// box is a hard boundary inherited from the layout engine; content that still
// does not fit at the minimum is truncated with an ellipsis, never allowed to
// overflow.
//
// The formatter is a pure function: no external calls, no suspension points.
package textfmt

import (
	"math"
	"strings"

	"github.com/ddrutch/AWSInfoGraphic/pkg/layout"
)

// Estimation ratios relative to the font size. Derived from average glyph
// metrics of the embedded Go fonts; good enough for fitting, the composer
// does the exact rendering.
const (
	charWidthRatio  = 0.6
	lineHeightRatio = 1.2
)

const ellipsis = "…"

// Options carries the tunable constants of the shrink-to-fit loop.
type Options struct {
	MinSize int // font size floor in px
	Step    int // decrement per iteration in px
}

// DefaultOptions returns the standard tuning. The minimum size is a
// fallback; platform specs usually carry a stricter floor.
func DefaultOptions() Options {
	return Options{MinSize: 8, Step: 2}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinSize <= 0 {
		o.MinSize = d.MinSize
	}
	if o.Step <= 0 {
		o.Step = d.Step
	}
	return o
}

// Element is a text layout element with resolved typography, consumed by the
// composer and discarded after rendering.
type Element struct {
	Source   layout.Element
	FontSize int
	Lines    []string
	Color    string // hex color
}

// LineHeight returns the pixel line advance at the resolved size.
func (e Element) LineHeight() float64 {
	return float64(e.FontSize) * lineHeightRatio
}

// Format resolves typography for every text element of the layout.
// Non-text elements are passed over; output order follows layout order.
func Format(spec *layout.Specification, opts Options) []Element {
	opts = opts.withDefaults()
	p := spec.Platform

	minSize := p.MinFontSize
	if minSize <= 0 {
		minSize = opts.MinSize
	}

	var out []Element
	for _, el := range spec.Elements {
		if el.Kind != layout.KindText {
			continue
		}

		base := p.BodySize
		color := spec.Scheme.Text
		switch el.Role {
		case layout.RoleTitle:
			base = p.TitleSize
			color = spec.Scheme.Primary
		case layout.RoleMore:
			color = spec.Scheme.Secondary
		case layout.RoleSummary:
			base = p.TitleSize
		}

		boxW := el.W * float64(p.Width)
		boxH := el.H * float64(p.Height)

		size, lines := fit(el.Text, boxW, boxH, int(math.Round(p.FontScale*float64(base))), minSize, opts.Step)

		out = append(out, Element{
			Source:   el,
			FontSize: size,
			Lines:    lines,
			Color:    color,
		})
	}
	return out
}

// fit runs the shrink-to-fit loop and returns the resolved size with the
// wrapped (and possibly truncated) lines. The returned size is never below
// minSize.
func fit(text string, boxW, boxH float64, start, minSize, step int) (int, []string) {
	if start < minSize {
		start = minSize
	}

	for size := start; ; size -= step {
		if size < minSize {
			size = minSize
		}
		lines := wrap(text, maxChars(boxW, size))
		if fits(lines, size, boxW, boxH) || size == minSize {
			if size == minSize && !fits(lines, size, boxW, boxH) {
				lines = truncate(lines, size, boxW, boxH)
			}
			return size, lines
		}
	}
}

// maxChars is the per-line character budget of a box at the given size.
func maxChars(boxW float64, size int) int {
	n := int(boxW / (float64(size) * charWidthRatio))
	if n < 1 {
		n = 1
	}
	return n
}

func fits(lines []string, size int, boxW, boxH float64) bool {
	if float64(len(lines))*float64(size)*lineHeightRatio > boxH {
		return false
	}
	for _, l := range lines {
		if lineWidth(l, size) > boxW {
			return false
		}
	}
	return true
}

func lineWidth(line string, size int) float64 {
	return float64(len([]rune(line))) * float64(size) * charWidthRatio
}

// wrap greedily packs words into lines of at most limit characters. Words
// longer than the limit are hard-split so a single token can never force an
// overflowing line.
func wrap(text string, limit int) []string {
	var lines []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		for len([]rune(word)) > limit {
			flush()
			r := []rune(word)
			lines = append(lines, string(r[:limit]))
			word = string(r[limit:])
		}
		switch {
		case cur.Len() == 0:
			cur.WriteString(word)
		case len([]rune(cur.String()))+1+len([]rune(word)) <= limit:
			cur.WriteByte(' ')
			cur.WriteString(word)
		default:
			flush()
			cur.WriteString(word)
		}
	}
	flush()

	if lines == nil {
		lines = []string{""}
	}
	return lines
}

// truncate drops lines that exceed the box height and marks the cut with an
// ellipsis on the last surviving line. At least one line always survives.
func truncate(lines []string, size int, boxW, boxH float64) []string {
	maxLines := int(boxH / (float64(size) * lineHeightRatio))
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) <= maxLines {
		return lines
	}
	kept := append([]string(nil), lines[:maxLines]...)
	last := []rune(kept[maxLines-1])
	budget := maxChars(boxW, size)
	if len(last)+1 > budget && len(last) > 0 {
		last = last[:len(last)-1]
	}
	kept[maxLines-1] = string(last) + ellipsis
	return kept
}
