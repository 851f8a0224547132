package docscan

import (
	"image"
	"math"
)

// Point is a 2D point in pixel coordinates.
type Point struct {
	X float64
	Y float64
}

func fromImagePoint(p image.Point) Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Quad holds the four corners of a document candidate in canonical order:
// top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// OrderCorners arranges four arbitrary points into canonical order. The
// corner with the minimum coordinate sum is top-left and the maximum sum is
// bottom-right; of the remaining two, the minimum y-x difference is top-right
// and the maximum is bottom-left. The result is invariant to the input order.
func OrderCorners(pts [4]Point) Quad {
	var q Quad

	minSum, maxSum := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		if s := p.X + p.Y; s < minSum {
			minSum = s
			q[0] = p
		}
		if s := p.X + p.Y; s > maxSum {
			maxSum = s
			q[2] = p
		}
	}

	minDiff, maxDiff := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		if p == q[0] || p == q[2] {
			continue
		}
		if d := p.Y - p.X; d < minDiff {
			minDiff = d
			q[1] = p
		}
		if d := p.Y - p.X; d > maxDiff {
			maxDiff = d
			q[3] = p
		}
	}
	return q
}

// DestinationSize computes the rectified width and height for an ordered
// quad as the larger of the two opposing edge lengths per axis, preserving
// the most visible extent of the physical document.
func (q Quad) DestinationSize() (int, int) {
	top := distance(q[0], q[1])
	bottom := distance(q[3], q[2])
	left := distance(q[0], q[3])
	right := distance(q[1], q[2])

	width := int(math.Max(top, bottom))
	height := int(math.Max(left, right))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// polygonArea returns the absolute shoelace area of a closed polygon.
func polygonArea(pts []Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

// polygonPerimeter returns the arc length of a closed polygon.
func polygonPerimeter(pts []Point) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += distance(pts[i], pts[(i+1)%n])
	}
	return sum
}
