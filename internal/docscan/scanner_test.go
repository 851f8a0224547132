package docscan_test

import (
	"image"
	"testing"

	"verid/internal/docscan"
	"verid/internal/testsupport"
)

func TestScannerFindsDocument(t *testing.T) {
	corners := [4]docscan.Point{{X: 50, Y: 40}, {X: 160, Y: 60}, {X: 150, Y: 170}, {X: 40, Y: 150}}
	frame := testsupport.DocumentFrame(200, 200, corners)

	scanner := docscan.NewScanner(testsupport.NewConfig(t), nil)
	rectified, found := scanner.LocateAndRectify(frame)
	if !found {
		t.Fatal("expected a document to be found")
	}

	bounds := rectified.Bounds()
	// The warped size tracks the quad's edge lengths; allow slack for the
	// blur and boundary tracing shaving a few pixels off each side.
	if bounds.Dx() < 100 || bounds.Dx() > 120 {
		t.Fatalf("unexpected rectified width %d", bounds.Dx())
	}
	if bounds.Dy() < 100 || bounds.Dy() > 120 {
		t.Fatalf("unexpected rectified height %d", bounds.Dy())
	}
}

func TestScannerDownscalesOversizedFrames(t *testing.T) {
	corners := [4]docscan.Point{{X: 50, Y: 40}, {X: 160, Y: 60}, {X: 150, Y: 170}, {X: 40, Y: 150}}
	frame := testsupport.DocumentFrame(200, 200, corners)

	cfg := testsupport.NewConfig(t)
	cfg.Document.MaxFrameSide = 100

	scanner := docscan.NewScanner(cfg, nil)
	rectified, found := scanner.LocateAndRectify(frame)
	if !found {
		t.Fatal("expected a document to be found after downscaling")
	}

	// At half resolution the quad's ~111 px edges shrink to ~55 px; without
	// the cap the rectified sides would exceed 100.
	bounds := rectified.Bounds()
	if bounds.Dx() < 40 || bounds.Dx() > 70 {
		t.Fatalf("unexpected rectified width %d", bounds.Dx())
	}
	if bounds.Dy() < 40 || bounds.Dy() > 70 {
		t.Fatalf("unexpected rectified height %d", bounds.Dy())
	}
}

func TestScannerRejectsSmallContour(t *testing.T) {
	corners := [4]docscan.Point{{X: 90, Y: 90}, {X: 112, Y: 92}, {X: 110, Y: 110}, {X: 88, Y: 108}}
	frame := testsupport.DocumentFrame(200, 200, corners)

	scanner := docscan.NewScanner(testsupport.NewConfig(t), nil)
	if _, found := scanner.LocateAndRectify(frame); found {
		t.Fatal("expected the small quad to fall below the area gate")
	}
}

func TestScannerRejectsNonQuadrilateral(t *testing.T) {
	// A plus shape: large enough to pass the area gate, but its outline
	// does not reduce to four vertices.
	frame := testsupport.TexturedFrame(200, 200, image.Rect(26, 26, 174, 174))
	horizontal := []docscan.Point{{X: 30, Y: 90}, {X: 170, Y: 90}, {X: 170, Y: 110}, {X: 30, Y: 110}}
	vertical := []docscan.Point{{X: 90, Y: 30}, {X: 110, Y: 30}, {X: 110, Y: 170}, {X: 90, Y: 170}}
	testsupport.FillConvexPolygon(frame, horizontal, testsupport.Paper)
	testsupport.FillConvexPolygon(frame, vertical, testsupport.Paper)

	scanner := docscan.NewScanner(testsupport.NewConfig(t), nil)
	if _, found := scanner.LocateAndRectify(frame); found {
		t.Fatal("expected the plus shape to be rejected")
	}
}
