// Package fonts provides parsed font faces for raster composition.
//
// The Go fonts shipped with golang.org/x/image are compiled into the binary,
// so rendering needs no font files on disk. Faces are cached per size and
// weight; parsing happens once on first use.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	parseOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	parseErr  error

	mu    sync.Mutex
	faces = map[faceKey]font.Face{}
)

type faceKey struct {
	size int
	bold bool
}

func parse() {
	parseOnce.Do(func() {
		if regular, parseErr = truetype.Parse(goregular.TTF); parseErr != nil {
			return
		}
		bold, parseErr = truetype.Parse(gobold.TTF)
	})
}

// Regular returns a cached regular face at the given pixel size.
func Regular(size int) (font.Face, error) {
	return face(size, false)
}

// Bold returns a cached bold face at the given pixel size.
func Bold(size int) (font.Face, error) {
	return face(size, true)
}

func face(size int, useBold bool) (font.Face, error) {
	parse()
	if parseErr != nil {
		return nil, parseErr
	}

	mu.Lock()
	defer mu.Unlock()

	key := faceKey{size: size, bold: useBold}
	if f, ok := faces[key]; ok {
		return f, nil
	}

	src := regular
	if useBold {
		src = bold
	}
	f := truetype.NewFace(src, &truetype.Options{Size: float64(size)})
	faces[key] = f
	return f, nil
}
