package docscan

import (
	"image"
	"log/slog"

	"verid/internal/config"
	"verid/internal/imaging"
	"verid/internal/logging"
)

// Scanner locates a document quadrilateral in camera frames and rectifies it
// to a top-down view.
type Scanner struct {
	minAreaFraction float64
	blockSize       int
	bias            int
	epsilonFraction float64
	maxFrameSide    int
	logger          *slog.Logger
}

// NewScanner builds a Scanner from configuration. logger may be nil.
func NewScanner(cfg *config.Config, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	doc := config.Default().Document
	if cfg != nil {
		doc = cfg.Document
	}
	return &Scanner{
		minAreaFraction: doc.MinAreaFraction,
		blockSize:       doc.AdaptiveBlockSize,
		bias:            doc.AdaptiveBias,
		epsilonFraction: doc.ApproxEpsilonFraction,
		maxFrameSide:    doc.MaxFrameSide,
		logger:          logger.With(slog.String(logging.FieldComponent, "docscan")),
	}
}

// LocateAndRectify searches the frame for a document-shaped quadrilateral.
// The boolean result reports whether one was found; a miss is the normal
// case for most frames of a session and carries no error.
func (s *Scanner) LocateAndRectify(frame image.Image) (image.Image, bool) {
	// Camera photos routinely exceed what contour tracing needs; the area
	// gate is a frame fraction, so it is unaffected by the cap.
	frame = imaging.Downscale(frame, s.maxFrameSide)
	gray := imaging.Grayscale(frame)
	blurred := imaging.GaussianBlur(gray)
	binary := imaging.AdaptiveThreshold(blurred, s.blockSize, s.bias)

	contours := FindExternalContours(binary)
	if len(contours) == 0 {
		return nil, false
	}

	best := contours[0]
	bestArea := polygonArea(best)
	for _, contour := range contours[1:] {
		if area := polygonArea(contour); area > bestArea {
			best = contour
			bestArea = area
		}
	}

	bounds := frame.Bounds()
	minArea := s.minAreaFraction * float64(bounds.Dx()*bounds.Dy())
	if bestArea < minArea {
		s.logger.Debug("largest contour below area gate",
			slog.Float64("area", bestArea), slog.Float64("min_area", minArea))
		return nil, false
	}

	epsilon := s.epsilonFraction * polygonPerimeter(best)
	approx := ApproxPolygon(best, epsilon)
	if len(approx) != 4 {
		s.logger.Debug("contour did not reduce to a quadrilateral",
			slog.Int("vertices", len(approx)))
		return nil, false
	}

	quad := OrderCorners([4]Point{approx[0], approx[1], approx[2], approx[3]})
	width, height := quad.DestinationSize()

	destination := Quad{
		{X: 0, Y: 0},
		{X: float64(width - 1), Y: 0},
		{X: float64(width - 1), Y: float64(height - 1)},
		{X: 0, Y: float64(height - 1)},
	}
	// Solve destination -> source directly so the warp can inverse-map
	// without a matrix inversion.
	dstToSrc, err := PerspectiveTransform(destination, quad)
	if err != nil {
		s.logger.Debug("degenerate quadrilateral", slog.Any("error", err))
		return nil, false
	}

	rectified := WarpPerspective(imaging.ToRGBA(frame), dstToSrc, width, height)
	s.logger.Debug("document rectified",
		slog.Int("width", width), slog.Int("height", height))
	return rectified, true
}
