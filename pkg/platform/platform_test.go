package platform

import (
	"testing"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

func TestLookupKnownPlatforms(t *testing.T) {
	tests := []struct {
		id          string
		width       int
		height      int
		maxElements int
		format      string
	}{
		{"whatsapp", 1080, 1080, 8, "PNG"},
		{"twitter", 1200, 675, 6, "PNG"},
		{"discord", 1920, 1080, 10, "PNG"},
		{"instagram", 1080, 1080, 7, "JPEG"},
		{"linkedin", 1200, 627, 8, "PNG"},
		{"reddit", 1200, 630, 9, "PNG"},
		{"general", 1920, 1080, 12, "PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			spec, err := Lookup(tt.id)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.id, err)
			}
			if spec.Width != tt.width || spec.Height != tt.height {
				t.Errorf("canvas = %dx%d, want %dx%d", spec.Width, spec.Height, tt.width, tt.height)
			}
			if spec.MaxElements != tt.maxElements {
				t.Errorf("MaxElements = %d, want %d", spec.MaxElements, tt.maxElements)
			}
			if spec.DefaultFormat != tt.format {
				t.Errorf("DefaultFormat = %s, want %s", spec.DefaultFormat, tt.format)
			}
			if !spec.Valid() {
				t.Errorf("registry spec %q is not valid", tt.id)
			}
		})
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	for _, id := range []string{"Twitter", "TWITTER", "  twitter  "} {
		spec, err := Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", id, err)
		}
		if spec.ID != "twitter" {
			t.Errorf("Lookup(%q).ID = %s", id, spec.ID)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("myspace")
	if err == nil {
		t.Fatal("expected error for unknown platform")
	}
	if !apperrors.IsValidation(err) {
		t.Errorf("error category = %v, want validation", apperrors.CategoryOf(err))
	}
	if apperrors.CodeOf(err) != apperrors.CodeUnknownPlatform {
		t.Errorf("error code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeUnknownPlatform)
	}
}

func TestSchemeByName(t *testing.T) {
	pro := SchemeByName("professional")
	if pro.Primary != "#2E86AB" {
		t.Errorf("professional primary = %s", pro.Primary)
	}
	modern := SchemeByName("modern")
	if modern.Primary != "#6C5CE7" {
		t.Errorf("modern primary = %s", modern.Primary)
	}

	// Unknown schemes fall back to professional.
	if got := SchemeByName("vaporwave"); got != pro {
		t.Errorf("unknown scheme = %+v, want professional fallback", got)
	}
}

func TestSpecScheme(t *testing.T) {
	spec, err := Lookup("linkedin")
	if err != nil {
		t.Fatal(err)
	}
	if got := spec.Scheme(); got != SchemeByName(spec.DefaultScheme) {
		t.Errorf("Scheme() = %+v, want the %s scheme", got, spec.DefaultScheme)
	}
}

func TestIDsSortedAndComplete(t *testing.T) {
	ids := IDs()
	if len(ids) != 7 {
		t.Fatalf("got %d platform ids, want 7", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("ids not sorted: %q before %q", ids[i-1], ids[i])
		}
	}
	if len(All()) != len(ids) {
		t.Errorf("All() returns %d specs, want %d", len(All()), len(ids))
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
	}{
		{"#2E86AB", 0x2E, 0x86, 0xAB},
		{"2E86AB", 0x2E, 0x86, 0xAB},
		{"", 0, 0, 0},        // invalid input yields opaque black
		{"#GGGGGG", 0, 0, 0}, // invalid input yields opaque black
	}

	for _, tt := range tests {
		c := ParseHex(tt.in)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != 0xFF {
			t.Errorf("ParseHex(%q) = %v", tt.in, c)
		}
	}
}

func TestSchemePaletteParses(t *testing.T) {
	for name, scheme := range map[string]ColorScheme{
		"professional": SchemeByName("professional"),
		"modern":       SchemeByName("modern"),
		"corporate":    SchemeByName("corporate"),
	} {
		for _, hex := range []string{scheme.Primary, scheme.Secondary, scheme.Accent, scheme.Background, scheme.Text} {
			c := ParseHex(hex)
			if c.R == 0 && c.G == 0 && c.B == 0 && hex != "#000000" {
				t.Errorf("scheme %s color %q did not parse", name, hex)
			}
		}
	}
}
