package asset

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Ko-stant/battlemap/internal/geometry"
)

// RasterLoader reads PNG, BMP or WebP segment images from Dir.
type RasterLoader struct {
	Dir        string
	TileWidth  int
	TileHeight int
}

func (l *RasterLoader) Load(assetID string) (*geometry.Grid, error) {
	f, err := os.Open(filepath.Join(l.Dir, assetID))
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", assetID, err)
	}
	return GridFromImage(img, l.TileWidth, l.TileHeight)
}

// GridFromImage slices img into tileWidth x tileHeight cells. A cell is
// walkable when its centre pixel is pure white; each side is blocked when
// the pixel in the middle of that side is pure black. Partial cells at the
// right and bottom are dropped.
func GridFromImage(img image.Image, tileWidth, tileHeight int) (*geometry.Grid, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d", tileWidth, tileHeight)
	}
	b := img.Bounds()
	g, err := geometry.NewGrid(b.Dx()/tileWidth, b.Dy()/tileHeight)
	if err != nil {
		return nil, fmt.Errorf("image %dx%d smaller than one tile: %w", b.Dx(), b.Dy(), err)
	}

	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	}
	white := func(c color.NRGBA) bool { return c.R == 255 && c.G == 255 && c.B == 255 }
	black := func(c color.NRGBA) bool { return c.R == 0 && c.G == 0 && c.B == 0 }

	for ty := range g.Height {
		for tx := range g.Width {
			left, top := tx*tileWidth, ty*tileHeight
			cx, cy := left+tileWidth/2, top+tileHeight/2

			t := g.Tile(tx, ty)
			t.Walkable = white(at(cx, cy))
			t.SetEdge(geometry.North, black(at(cx, top)))
			t.SetEdge(geometry.South, black(at(cx, top+tileHeight-1)))
			t.SetEdge(geometry.West, black(at(left, cy)))
			t.SetEdge(geometry.East, black(at(left+tileWidth-1, cy)))
		}
	}
	return g, nil
}
