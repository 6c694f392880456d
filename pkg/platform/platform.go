// Package platform defines the static registry of target platform
// specifications and the color schemes used throughout the pipeline.
//
// Every downstream component consumes a [Spec]: the layout engine partitions
// its canvas, the text formatter scales against its font sizes, and the
// composer renders at its pixel dimensions. The registry is immutable after
// process start; concurrent requests share it read-only.
package platform

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

// ColorScheme holds the hex palette applied to a composition.
type ColorScheme struct {
	Name       string
	Primary    string
	Secondary  string
	Accent     string
	Background string
	Text       string
}

// Spec describes the rendering constraints of one target platform.
type Spec struct {
	ID            string  `json:"id"`
	Width         int     `json:"width"`  // canvas width in pixels
	Height        int     `json:"height"` // canvas height in pixels
	MaxElements   int     `json:"max_elements"`
	FontScale     float64 `json:"font_scale"` // multiplier applied to base font sizes
	TitleSize     int     `json:"title_size"` // title font size in px before scaling
	BodySize      int     `json:"body_size"`  // body font size in px before scaling
	MinFontSize   int     `json:"min_font_size"`
	DefaultScheme string  `json:"default_scheme"`
	DefaultFormat string  `json:"default_format"` // "PNG" or "JPEG"
	JPEGQuality   int     `json:"jpeg_quality"`
}

// Valid reports whether the spec has usable canvas dimensions and limits.
func (s Spec) Valid() bool {
	return s.Width > 0 && s.Height > 0 && s.MaxElements > 0 && s.FontScale > 0
}

// Named color schemes, palettes carried over from the original design system.
var schemes = map[string]ColorScheme{
	"professional": {
		Name:       "professional",
		Primary:    "#2E86AB",
		Secondary:  "#A23B72",
		Accent:     "#F18F01",
		Background: "#FFFFFF",
		Text:       "#333333",
	},
	"modern": {
		Name:       "modern",
		Primary:    "#6C5CE7",
		Secondary:  "#A29BFE",
		Accent:     "#FD79A8",
		Background: "#F8F9FA",
		Text:       "#2D3436",
	},
	"corporate": {
		Name:       "corporate",
		Primary:    "#0984E3",
		Secondary:  "#74B9FF",
		Accent:     "#00B894",
		Background: "#FFFFFF",
		Text:       "#2D3436",
	},
}

// specs is the platform registry, keyed by lowercase platform id.
var specs = map[string]Spec{
	"whatsapp": {
		ID: "whatsapp", Width: 1080, Height: 1080, MaxElements: 8,
		FontScale: 1.0, TitleSize: 32, BodySize: 16, MinFontSize: 12,
		DefaultScheme: "professional", DefaultFormat: "PNG", JPEGQuality: 85,
	},
	"twitter": {
		ID: "twitter", Width: 1200, Height: 675, MaxElements: 6,
		FontScale: 0.9, TitleSize: 28, BodySize: 14, MinFontSize: 10,
		DefaultScheme: "modern", DefaultFormat: "PNG", JPEGQuality: 90,
	},
	"discord": {
		ID: "discord", Width: 1920, Height: 1080, MaxElements: 10,
		FontScale: 1.1, TitleSize: 36, BodySize: 16, MinFontSize: 10,
		DefaultScheme: "modern", DefaultFormat: "PNG", JPEGQuality: 95,
	},
	"instagram": {
		ID: "instagram", Width: 1080, Height: 1080, MaxElements: 7,
		FontScale: 1.0, TitleSize: 30, BodySize: 18, MinFontSize: 14,
		DefaultScheme: "modern", DefaultFormat: "JPEG", JPEGQuality: 95,
	},
	"linkedin": {
		ID: "linkedin", Width: 1200, Height: 627, MaxElements: 8,
		FontScale: 1.0, TitleSize: 32, BodySize: 16, MinFontSize: 12,
		DefaultScheme: "corporate", DefaultFormat: "PNG", JPEGQuality: 90,
	},
	"reddit": {
		ID: "reddit", Width: 1200, Height: 630, MaxElements: 9,
		FontScale: 0.9, TitleSize: 28, BodySize: 14, MinFontSize: 10,
		DefaultScheme: "professional", DefaultFormat: "PNG", JPEGQuality: 85,
	},
	"general": {
		ID: "general", Width: 1920, Height: 1080, MaxElements: 12,
		FontScale: 1.25, TitleSize: 40, BodySize: 18, MinFontSize: 8,
		DefaultScheme: "professional", DefaultFormat: "PNG", JPEGQuality: 95,
	},
}

// Lookup returns the spec for a platform id. Matching is case-insensitive.
func Lookup(id string) (Spec, error) {
	s, ok := specs[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Spec{}, apperrors.New(apperrors.Validation, apperrors.CodeUnknownPlatform,
			"unknown platform: %q (known: %s)", id, strings.Join(IDs(), ", "))
	}
	return s, nil
}

// IDs returns the sorted list of registered platform ids.
func IDs() []string {
	ids := make([]string, 0, len(specs))
	for id := range specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the registered specs sorted by id.
func All() []Spec {
	out := make([]Spec, 0, len(specs))
	for _, id := range IDs() {
		out = append(out, specs[id])
	}
	return out
}

// SchemeByName returns a color scheme by name, falling back to
// "professional" for unknown names so a misconfigured scheme never aborts
// a render.
func SchemeByName(name string) ColorScheme {
	if s, ok := schemes[strings.ToLower(name)]; ok {
		return s
	}
	return schemes["professional"]
}

// Scheme returns the default color scheme for the spec.
func (s Spec) Scheme() ColorScheme {
	return SchemeByName(s.DefaultScheme)
}

// ParseHex converts "#RRGGBB" to an RGBA color. Invalid input yields opaque
// black rather than an error; palette constants are validated by tests.
func ParseHex(hex string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 0xFF}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
