package docscan

import "math"

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm. epsilon is the maximum allowed deviation of discarded points
// from the simplified outline; callers scale it with the contour perimeter.
func ApproxPolygon(contour []Point, epsilon float64) []Point {
	if len(contour) < 3 {
		return append([]Point(nil), contour...)
	}

	// For a closed curve, split at the point farthest from the first point
	// and simplify the two resulting open chains independently.
	farthest := 0
	maxDist := -1.0
	for i, p := range contour {
		if d := distance(contour[0], p); d > maxDist {
			maxDist = d
			farthest = i
		}
	}
	if farthest == 0 {
		// Degenerate: all points coincide.
		return []Point{contour[0]}
	}

	first := simplifyChain(contour[:farthest+1], epsilon)
	second := simplifyChain(append(contour[farthest:], contour[0]), epsilon)

	// Join the chains, dropping the duplicated split point and the
	// duplicated wrap-around point.
	result := make([]Point, 0, len(first)+len(second)-2)
	result = append(result, first...)
	if len(second) > 2 {
		result = append(result, second[1:len(second)-1]...)
	}
	return result
}

// simplifyChain runs Douglas-Peucker on an open polyline.
func simplifyChain(chain []Point, epsilon float64) []Point {
	if len(chain) < 3 {
		return append([]Point(nil), chain...)
	}

	index := 0
	maxDist := 0.0
	last := len(chain) - 1
	for i := 1; i < last; i++ {
		if d := pointSegmentDistance(chain[i], chain[0], chain[last]); d > maxDist {
			maxDist = d
			index = i
		}
	}

	if maxDist <= epsilon {
		return []Point{chain[0], chain[last]}
	}

	left := simplifyChain(chain[:index+1], epsilon)
	right := simplifyChain(chain[index:], epsilon)
	return append(left[:len(left)-1], right...)
}

// pointSegmentDistance returns the distance from p to segment ab.
func pointSegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))
	proj := Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return distance(p, proj)
}
