package testsupport

import (
	"image"
	"image/color"

	"verid/internal/docscan"
)

// Paper is the fill shade used for synthetic document regions.
var Paper = color.RGBA{R: 220, G: 220, B: 220, A: 255}

// TexturedFrame builds a dark camera frame with a sparse dot grid. The
// texture keeps flat background regions from binarizing into one large
// component under local-mean thresholding, mimicking sensor noise in real
// footage. Dots are suppressed inside clear so they never touch foreground
// shapes painted there afterwards.
func TexturedFrame(w, h int, clear image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	base := color.RGBA{R: 100, G: 100, B: 100, A: 255}
	dot := color.RGBA{R: 180, G: 180, B: 180, A: 255}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, base)
		}
	}
	for y := 2; y < h; y += 4 {
		for x := 2; x < w; x += 4 {
			if image.Pt(x, y).In(clear) {
				continue
			}
			img.SetRGBA(x, y, dot)
		}
	}
	return img
}

// DocumentFrame synthesizes a camera frame containing a bright document
// quadrilateral over a textured dark background.
func DocumentFrame(w, h int, corners [4]docscan.Point) *image.RGBA {
	minX, minY := w, h
	maxX, maxY := 0, 0
	for _, p := range corners {
		minX = min(minX, int(p.X))
		minY = min(minY, int(p.Y))
		maxX = max(maxX, int(p.X)+1)
		maxY = max(maxY, int(p.Y)+1)
	}

	img := TexturedFrame(w, h, image.Rect(minX-4, minY-4, maxX+4, maxY+4))
	FillConvexPolygon(img, corners[:], Paper)
	return img
}

// FillConvexPolygon paints every pixel inside the convex polygon. Vertices
// must be listed in a consistent winding order.
func FillConvexPolygon(img *image.RGBA, pts []docscan.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if insideConvex(pts, float64(x), float64(y)) {
				img.Set(x, y, c)
			}
		}
	}
}

func insideConvex(pts []docscan.Point, x, y float64) bool {
	sign := 0
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}
