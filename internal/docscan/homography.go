package docscan

import (
	"errors"
	"image"
	"math"
)

// Homography is a 3x3 projective transform in row-major order with the
// bottom-right element fixed at 1.
type Homography [9]float64

// Apply maps a point through the transform.
func (m Homography) Apply(p Point) Point {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	if w == 0 {
		return Point{}
	}
	return Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / w,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / w,
	}
}

// PerspectiveTransform computes the unique homography mapping the four src
// points onto the four dst points. The system is the standard eight-equation
// direct linear transform; it fails when three of the source points are
// collinear.
func PerspectiveTransform(src, dst Quad) (Homography, error) {
	// Unknowns: h0..h7 with h8 = 1.
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		a[2*i] = [9]float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx, dx}
		a[2*i+1] = [9]float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy, dy}
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Homography{}, errors.New("degenerate quadrilateral")
		}
		a[col], a[pivot] = a[pivot], a[col]

		inv := 1 / a[col][col]
		for c := col; c < 9; c++ {
			a[col][c] *= inv
		}
		for row := 0; row < 8; row++ {
			if row == col || a[row][col] == 0 {
				continue
			}
			factor := a[row][col]
			for c := col; c < 9; c++ {
				a[row][c] -= factor * a[col][c]
			}
		}
	}

	var m Homography
	for i := 0; i < 8; i++ {
		m[i] = a[i][8]
	}
	m[8] = 1
	return m, nil
}

// WarpPerspective resamples src through the transform mapping destination
// coordinates back into source coordinates, producing a width x height
// image. Bilinear interpolation; samples outside the source are black.
func WarpPerspective(src *image.RGBA, dstToSrc Homography, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	bounds := src.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mapped := dstToSrc.Apply(Point{X: float64(x), Y: float64(y)})
			r, g, b, ok := sampleBilinear(src, sw, sh, mapped.X, mapped.Y)
			offset := dst.PixOffset(x, y)
			if ok {
				dst.Pix[offset] = r
				dst.Pix[offset+1] = g
				dst.Pix[offset+2] = b
			}
			dst.Pix[offset+3] = 0xff
		}
	}
	return dst
}

func sampleBilinear(src *image.RGBA, w, h int, fx, fy float64) (uint8, uint8, uint8, bool) {
	if fx < 0 || fy < 0 || fx > float64(w-1) || fy > float64(h-1) {
		return 0, 0, 0, false
	}
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	channel := func(x, y, c int) float64 {
		return float64(src.Pix[src.PixOffset(x, y)+c])
	}
	var out [3]uint8
	for c := 0; c < 3; c++ {
		top := channel(x0, y0, c)*(1-tx) + channel(x1, y0, c)*tx
		bottom := channel(x0, y1, c)*(1-tx) + channel(x1, y1, c)*tx
		out[c] = uint8(top*(1-ty) + bottom*ty + 0.5)
	}
	return out[0], out[1], out[2], true
}
