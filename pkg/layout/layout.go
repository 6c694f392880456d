// Package layout implements the deterministic layout engine: it maps analyzed
// content, available images, and a platform spec to a pixel-accurate element
// placement in normalized coordinates.
//
// The engine is a pure function of its inputs. Identical content, assets, and
// platform always produce an identical specification, which is what lets the
// pipeline cache and retry around it safely.
//
// # Canvas partitioning
//
// The canvas splits into up to three horizontal bands:
//
//	header band — the title (plus a thin accent bar shape)
//	body band   — key points on a ceil(sqrt(n)) column grid
//	hero band   — the first image asset, when one exists
//
// Every element keeps a margin of free space around it; bounding boxes never
// overlap and never extend past the canvas.
package layout

import (
	"fmt"
	"math"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/assets"
	"github.com/ddrutch/AWSInfoGraphic/pkg/content"
	"github.com/ddrutch/AWSInfoGraphic/pkg/platform"
)

// Kind distinguishes what an element renders as.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindShape Kind = "shape"
)

// Role records which part of the content a text element carries.
type Role string

const (
	RoleTitle   Role = "title"
	RoleBody    Role = "body"
	RoleMore    Role = "more"    // the folded "+N more" element
	RoleSummary Role = "summary" // degenerate-input fallback
	RoleNone    Role = ""
)

// Align is horizontal text alignment within an element box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Z-index convention enforced by the engine: images sit below shapes, shapes
// below text.
const (
	ZImage = 0
	ZShape = 1
	ZText  = 2
)

// Element is one positioned, sized entry of a layout. Position and size are
// normalized fractions of the canvas in [0,1].
type Element struct {
	Kind       Kind
	Role       Role
	X, Y       float64
	W, H       float64
	Z          int
	Text       string // content for text elements
	AssetIndex int    // index into the asset set for image elements
	Align      Align
}

// Specification is the complete, immutable output of the engine.
type Specification struct {
	Platform  platform.Spec
	Scheme    platform.ColorScheme
	Elements  []Element
	Truncated bool // key points were folded into a "+N more" element
	Folded    int  // how many points were folded
}

// Options carries the tunable constants of the algorithm. The defaults are
// the values the rest of the system is tested against.
type Options struct {
	MarginFrac      float64 // free space on each side of an element, fraction of canvas
	HeaderBand      float64 // height fraction reserved for the title
	HeroBand        float64 // height fraction reserved for the hero image
	MoreLabelFormat string  // fmt verb receiving the folded count
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		MarginFrac:      0.04,
		HeaderBand:      0.18,
		HeroBand:        0.30,
		MoreLabelFormat: "+%d more",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MarginFrac <= 0 || o.MarginFrac >= 0.25 {
		o.MarginFrac = d.MarginFrac
	}
	if o.HeaderBand <= 0 || o.HeaderBand >= 1 {
		o.HeaderBand = d.HeaderBand
	}
	if o.HeroBand <= 0 || o.HeroBand >= 1 {
		o.HeroBand = d.HeroBand
	}
	if o.MoreLabelFormat == "" {
		o.MoreLabelFormat = d.MoreLabelFormat
	}
	return o
}

// HeroTarget returns the pixel size an image asset should have to fill the
// hero band of the given platform. The sourcing fallback sizes placeholders
// with this so they match their layout element exactly.
func HeroTarget(p platform.Spec, opts Options) (w, h int) {
	opts = opts.withDefaults()
	w = int(math.Round((1 - 2*opts.MarginFrac) * float64(p.Width)))
	h = int(math.Round((opts.HeroBand - 2*opts.MarginFrac) * float64(p.Height)))
	return w, h
}

// Compute builds the layout specification for the given inputs.
//
// It fails only when the platform spec itself is malformed; every data shape
// (zero points, zero images, overflow) resolves to a defined layout. The
// returned element sequence is never empty.
func Compute(c *content.Model, images assets.Set, p platform.Spec, opts Options) (*Specification, error) {
	if !p.Valid() {
		return nil, apperrors.New(apperrors.Logic, apperrors.CodeLayout,
			"malformed platform spec %q: %dx%d max %d", p.ID, p.Width, p.Height, p.MaxElements)
	}
	opts = opts.withDefaults()

	spec := &Specification{
		Platform: p,
		Scheme:   p.Scheme(),
	}

	if c == nil {
		c = &content.Model{}
	}

	// Degenerate input: nothing to grid, emit the guaranteed single
	// full-canvas summary element.
	if len(c.KeyPoints) == 0 && len(images) == 0 {
		text := c.Summary
		if text == "" {
			text = c.MainTopic
		}
		spec.Elements = []Element{{
			Kind: KindText, Role: RoleSummary,
			X: 0, Y: 0, W: 1, H: 1,
			Z: ZText, Text: text, Align: AlignCenter,
		}}
		return spec, nil
	}

	hasTitle := c.SuggestedTitle != ""
	hasHero := len(images) > 0

	// Element budget: title and hero each consume one slot of the platform
	// cap, key points share the remainder.
	budget := p.MaxElements
	if hasTitle {
		budget--
	}
	if hasHero {
		budget--
	}
	if budget < 1 {
		budget = 1
	}

	points := c.KeyPoints
	if len(points) > budget {
		retained := budget - 1
		if retained < 0 {
			retained = 0
		}
		spec.Truncated = true
		spec.Folded = len(points) - retained
		folded := make([]string, 0, retained+1)
		folded = append(folded, points[:retained]...)
		folded = append(folded, fmt.Sprintf(opts.MoreLabelFormat, spec.Folded))
		points = folded
	}

	// Band boundaries.
	bodyTop := 0.0
	bodyBottom := 1.0
	if hasTitle {
		bodyTop = opts.HeaderBand
	}
	if hasHero {
		bodyBottom = 1 - opts.HeroBand
	}

	mf := opts.MarginFrac

	if hasHero {
		spec.Elements = append(spec.Elements, Element{
			Kind: KindImage,
			X:    mf, Y: bodyBottom + mf,
			W: 1 - 2*mf, H: opts.HeroBand - 2*mf,
			Z: ZImage, AssetIndex: 0, Align: AlignCenter,
		})
	}

	if hasTitle {
		// Accent bar under the title, only while the element cap allows it.
		barH := 0.008
		if !spec.Truncated && len(points)+len(spec.Elements)+2 <= p.MaxElements {
			spec.Elements = append(spec.Elements, Element{
				Kind: KindShape,
				X:    mf, Y: opts.HeaderBand - barH - 0.004,
				W: 1 - 2*mf, H: barH,
				Z: ZShape, Align: AlignLeft,
			})
		}
		spec.Elements = append(spec.Elements, Element{
			Kind: KindText, Role: RoleTitle,
			X: mf, Y: mf,
			W: 1 - 2*mf, H: opts.HeaderBand - 2*mf - barH - 0.004,
			Z: ZText, Text: c.SuggestedTitle, Align: AlignCenter,
		})
	}

	spec.Elements = append(spec.Elements, gridElements(points, spec.Truncated, bodyTop, bodyBottom, mf)...)
	return spec, nil
}

// gridElements lays out the retained key points on a ceil(sqrt(n)) column
// grid inside the body band.
func gridElements(points []string, truncated bool, top, bottom, mf float64) []Element {
	n := len(points)
	if n == 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))

	bandH := bottom - top
	cellW := 1.0 / float64(cols)
	cellH := bandH / float64(rows)

	// Margins may not consume a whole cell on dense grids.
	mx := math.Min(mf, cellW/4)
	my := math.Min(mf, cellH/4)

	els := make([]Element, 0, n)
	for i, text := range points {
		col := i % cols
		row := i / cols
		role := RoleBody
		if truncated && i == n-1 {
			role = RoleMore
		}
		els = append(els, Element{
			Kind: KindText, Role: role,
			X: float64(col)*cellW + mx,
			Y: top + float64(row)*cellH + my,
			W: cellW - 2*mx,
			H: cellH - 2*my,
			Z: ZText, Text: text, Align: AlignLeft,
		})
	}
	return els
}

// Counts returns the number of text and image elements in the specification.
func (s *Specification) Counts() (text, image int) {
	for _, el := range s.Elements {
		switch el.Kind {
		case KindText:
			text++
		case KindImage:
			image++
		}
	}
	return text, image
}
