package visibility

import (
	"image"

	"golang.org/x/image/vector"
)

// coverageThreshold is the minimum subpixel alpha counted as covered.
const coverageThreshold = 0x80

// rasterize marks every tile of mask that the polygon covers. Each tile is
// sampled as subpixels x subpixels cells; one covered cell reveals the tile.
func rasterize(p Polygon, subpixels int, mask *Mask) {
	if p.Degenerate() {
		return
	}
	x0, y0, x1, y1 := p.Bounds()
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, mask.Width), min(y1, mask.Height)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	w, h := (x1-x0)*subpixels, (y1-y0)*subpixels
	s := float64(subpixels)
	toRaster := func(v Vertex) (float32, float32) {
		return float32((v.X - float64(x0)) * s), float32((v.Y - float64(y0)) * s)
	}

	r := vector.NewRasterizer(w, h)
	r.MoveTo(toRaster(p.Points[0]))
	for _, v := range p.Points[1:] {
		r.LineTo(toRaster(v))
	}
	r.ClosePath()

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	for ty := y0; ty < y1; ty++ {
		for tx := x0; tx < x1; tx++ {
			if tileCovered(dst, (tx-x0)*subpixels, (ty-y0)*subpixels, subpixels) {
				mask.Set(tx, ty)
			}
		}
	}
}

func tileCovered(dst *image.Alpha, px, py, n int) bool {
	for y := py; y < py+n; y++ {
		row := dst.Pix[y*dst.Stride+px : y*dst.Stride+px+n]
		for _, a := range row {
			if a >= coverageThreshold {
				return true
			}
		}
	}
	return false
}
