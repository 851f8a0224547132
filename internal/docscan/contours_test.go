package docscan

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func binaryImage(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func fillRect(img *image.Gray, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
}

func TestFindExternalContoursSingleRectangle(t *testing.T) {
	img := binaryImage(60, 60)
	fillRect(img, 10, 15, 39, 44)

	contours := FindExternalContours(img)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	// Boundary pixel centers enclose (w-1)*(h-1).
	want := 29.0 * 29.0
	if got := polygonArea(contours[0]); math.Abs(got-want) > 1 {
		t.Fatalf("area: got %v want %v", got, want)
	}
}

func TestFindExternalContoursIgnoresHoles(t *testing.T) {
	img := binaryImage(60, 60)
	fillRect(img, 5, 5, 50, 50)
	// Punch a hole; the outer boundary must be unchanged.
	for y := 20; y <= 30; y++ {
		for x := 20; x <= 30; x++ {
			img.SetGray(x, y, color.Gray{})
		}
	}

	contours := FindExternalContours(img)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	want := 45.0 * 45.0
	if got := polygonArea(contours[0]); math.Abs(got-want) > 1 {
		t.Fatalf("area: got %v want %v", got, want)
	}
}

func TestFindExternalContoursSeparateComponents(t *testing.T) {
	img := binaryImage(60, 60)
	fillRect(img, 2, 2, 10, 10)
	fillRect(img, 30, 30, 50, 55)
	img.SetGray(57, 3, color.Gray{Y: 255}) // isolated pixel

	contours := FindExternalContours(img)
	if len(contours) != 3 {
		t.Fatalf("expected 3 contours, got %d", len(contours))
	}
}

func TestTraceBoundaryIsolatedPixel(t *testing.T) {
	img := binaryImage(10, 10)
	img.SetGray(5, 5, color.Gray{Y: 255})

	contours := FindExternalContours(img)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	if len(contours[0]) != 1 {
		t.Fatalf("expected single-point contour, got %v", contours[0])
	}
}
