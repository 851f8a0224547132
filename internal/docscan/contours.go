package docscan

import "image"

// Neighbor offsets in clockwise screen order starting East. Used both for
// component labeling and Moore boundary tracing.
var neighbors8 = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func dirIndex(offset image.Point) int {
	for i, d := range neighbors8 {
		if d == offset {
			return i
		}
	}
	return 0
}

// FindExternalContours traces the outer boundary of every 8-connected
// foreground component in a binary image. Interior holes are ignored, so a
// document with printed text still yields a single outer contour.
func FindExternalContours(bin *image.Gray) [][]Point {
	bounds := bin.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	labels := make([]int32, w*h)
	var contours [][]Point
	next := int32(0)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if bin.Pix[y*bin.Stride+x] == 0 || labels[y*w+x] != 0 {
				continue
			}
			next++
			start := image.Point{X: x, Y: y}
			floodLabel(bin, labels, w, h, start, next)
			contours = append(contours, traceBoundary(labels, w, h, start, next))
		}
	}
	return contours
}

// floodLabel assigns label to every pixel 8-connected to start.
func floodLabel(bin *image.Gray, labels []int32, w, h int, start image.Point, label int32) {
	stack := []image.Point{start}
	labels[start.Y*w+start.X] = label
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range neighbors8 {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			idx := ny*w + nx
			if labels[idx] != 0 || bin.Pix[ny*bin.Stride+nx] == 0 {
				continue
			}
			labels[idx] = label
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}
}

// traceBoundary walks the outer boundary of a labeled component with Moore
// neighbor tracing. start must be the component's topmost-leftmost pixel,
// which scan order guarantees; its West neighbor is therefore background and
// serves as the initial backtrack position.
func traceBoundary(labels []int32, w, h int, start image.Point, label int32) []Point {
	inComponent := func(p image.Point) bool {
		if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
			return false
		}
		return labels[p.Y*w+p.X] == label
	}

	contour := []Point{fromImagePoint(start)}
	current := start
	backtrack := start.Add(neighbors8[4]) // West

	limit := 4 * (w*h + 1)
	for steps := 0; steps < limit; steps++ {
		// Sweep the neighbors of current clockwise, starting just past the
		// backtrack position; the first component pixel is the next boundary
		// point and the pixel examined before it becomes the new backtrack.
		from := dirIndex(backtrack.Sub(current))
		advanced := false
		for i := 1; i <= 8; i++ {
			candidate := (from + i) % 8
			nextPt := current.Add(neighbors8[candidate])
			if inComponent(nextPt) {
				backtrack = current.Add(neighbors8[(from+i-1)%8])
				current = nextPt
				advanced = true
				break
			}
		}
		if !advanced {
			// Isolated pixel.
			return contour
		}
		if current == start {
			break
		}
		contour = append(contour, fromImagePoint(current))
	}
	return contour
}
