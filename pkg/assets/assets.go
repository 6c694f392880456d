// Package assets defines image assets flowing through the pipeline: images
// produced by the generation collaborator and the solid-color placeholders
// substituted when generation fails.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/platform"
)

// Origin tags where an asset came from.
type Origin string

const (
	OriginGenerated   Origin = "generated"
	OriginPlaceholder Origin = "placeholder"
)

// Asset is one image available to the layout and composition stages.
// The identifier is unique within a request; Image is the decoded pixel
// data.
type Asset struct {
	ID     string
	Width  int
	Height int
	Origin Origin
	Image  image.Image
}

// Set is an ordered collection of assets. Order is visual priority: the
// first asset is the hero image.
type Set []Asset

// Placeholder synthesizes a solid-color asset at the exact target size,
// filled with the scheme's secondary color. Used when image sourcing fails
// so the run can continue degraded instead of aborting.
func Placeholder(id string, w, h int, scheme platform.ColorScheme) Asset {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(platform.ParseHex(scheme.Secondary)), image.Point{}, draw.Src)
	return Asset{ID: id, Width: w, Height: h, Origin: OriginPlaceholder, Image: img}
}

// Encode serializes the asset's pixels as PNG for caching.
func (a Asset) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, a.Image); err != nil {
		return nil, apperrors.Wrap(apperrors.Logic, apperrors.CodeInternal, err,
			"encode asset %s", a.ID)
	}
	return buf.Bytes(), nil
}

// Decode reconstructs a generated asset from cached PNG bytes.
func Decode(id string, data []byte) (Asset, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Asset{}, apperrors.Wrap(apperrors.Logic, apperrors.CodeInternal, err,
			"decode cached asset %s", id)
	}
	b := img.Bounds()
	return Asset{
		ID:     id,
		Width:  b.Dx(),
		Height: b.Dy(),
		Origin: OriginGenerated,
		Image:  img,
	}, nil
}

// FromImage wraps a decoded image as a generated asset.
func FromImage(id string, img image.Image) Asset {
	b := img.Bounds()
	return Asset{ID: id, Width: b.Dx(), Height: b.Dy(), Origin: OriginGenerated, Image: img}
}

// String implements fmt.Stringer for log output.
func (a Asset) String() string {
	return fmt.Sprintf("%s(%dx%d,%s)", a.ID, a.Width, a.Height, a.Origin)
}
