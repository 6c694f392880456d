package compose

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/assets"
	"github.com/ddrutch/AWSInfoGraphic/pkg/content"
	"github.com/ddrutch/AWSInfoGraphic/pkg/layout"
	"github.com/ddrutch/AWSInfoGraphic/pkg/platform"
	"github.com/ddrutch/AWSInfoGraphic/pkg/textfmt"
)

func renderInputs(t *testing.T, p platform.Spec) (*layout.Specification, []textfmt.Element, assets.Set) {
	t.Helper()
	w, h := layout.HeroTarget(p, layout.Options{})
	images := assets.Set{assets.Placeholder("hero", w, h, p.Scheme())}

	c := &content.Model{
		SuggestedTitle: "Quarterly Review",
		KeyPoints:      []string{"Revenue up", "Costs flat", "Headcount steady"},
	}
	spec, err := layout.Compute(c, images, p, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return spec, textfmt.Format(spec, textfmt.Options{}), images
}

func mustLookup(t *testing.T, id string) platform.Spec {
	t.Helper()
	p, err := platform.Lookup(id)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRenderPNG(t *testing.T) {
	p := mustLookup(t, "twitter")
	spec, texts, images := renderInputs(t, p)

	data, err := Render(spec, texts, images, FormatPNG)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != p.Width || b.Dy() != p.Height {
		t.Errorf("output %dx%d, want %dx%d", b.Dx(), b.Dy(), p.Width, p.Height)
	}
}

func TestRenderJPEG(t *testing.T) {
	p := mustLookup(t, "instagram")
	spec, texts, images := renderInputs(t, p)

	data, err := Render(spec, texts, images, "jpeg") // case-insensitive
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != p.Width || b.Dy() != p.Height {
		t.Errorf("output %dx%d, want %dx%d", b.Dx(), b.Dy(), p.Width, p.Height)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	p := mustLookup(t, "general")
	spec, texts, images := renderInputs(t, p)

	_, err := Render(spec, texts, images, "GIF")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !apperrors.IsValidation(err) || apperrors.CodeOf(err) != apperrors.CodeInvalidFormat {
		t.Errorf("err = %v, want validation/%s", err, apperrors.CodeInvalidFormat)
	}
}

func TestRenderMissingAssetIsLogicError(t *testing.T) {
	p := mustLookup(t, "general")
	spec, texts, _ := renderInputs(t, p)

	// Drop the asset the layout references.
	_, err := Render(spec, texts, assets.Set{}, FormatPNG)
	if err == nil {
		t.Fatal("expected error for dangling asset reference")
	}
	if !apperrors.IsLogic(err) {
		t.Errorf("category = %v, want logic", apperrors.CategoryOf(err))
	}
}

func TestRenderDegenerateLayout(t *testing.T) {
	p := mustLookup(t, "whatsapp")
	spec, err := layout.Compute(&content.Model{Summary: "just a note"}, nil, p, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	texts := textfmt.Format(spec, textfmt.Options{})

	data, err := Render(spec, texts, nil, FormatPNG)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, ok := range []string{"PNG", "png", "JPEG", "Jpeg"} {
		if err := ValidateFormat(ok); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "gif", "webp", "jpg"} {
		if err := ValidateFormat(bad); err == nil {
			t.Errorf("ValidateFormat(%q) accepted", bad)
		}
	}
}
