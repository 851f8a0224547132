// Package facematch computes face embeddings from frames and performs
// distance-threshold match decisions against reference embeddings.
package facematch

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"

	"verid/internal/config"
	"verid/internal/logging"
	"verid/internal/services"
)

// Embedding is a fixed-length vector representing one detected face.
// Embeddings are compared by distance, never by equality.
type Embedding []float64

// Clone returns an independent copy so session state and store entries never
// share backing arrays.
func (e Embedding) Clone() Embedding {
	if e == nil {
		return nil
	}
	out := make(Embedding, len(e))
	copy(out, e)
	return out
}

// Model is the pluggable face-embedding provider. Encode returns one
// embedding per box, same indexing.
type Model interface {
	DetectFaces(ctx context.Context, frame image.Image) ([]image.Rectangle, error)
	Encode(ctx context.Context, frame image.Image, boxes []image.Rectangle) ([]Embedding, error)
}

// Distance returns the Euclidean distance between two embeddings. Comparing
// embeddings of different lengths means the caller mixed models and is
// reported as a model error.
func Distance(a, b Embedding) (float64, error) {
	if len(a) != len(b) {
		return 0, services.Wrap(services.ErrModel, "facematch", "distance",
			fmt.Sprintf("embedding length mismatch: %d vs %d", len(a), len(b)), nil)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Confidence converts a distance into the [0,1] score reported to callers.
// It is not a calibrated probability.
func Confidence(distance float64) float64 {
	return math.Min(math.Max(1-distance, 0), 1)
}

// Matcher wraps a Model with the verification threshold policy.
type Matcher struct {
	model     Model
	threshold float64
	logger    *slog.Logger
}

// NewMatcher builds a Matcher from configuration. logger may be nil.
func NewMatcher(model Model, cfg *config.Config, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	threshold := config.Default().Matching.Threshold
	if cfg != nil {
		threshold = cfg.Matching.Threshold
	}
	return &Matcher{
		model:     model,
		threshold: threshold,
		logger:    logger.With(slog.String(logging.FieldComponent, "facematch")),
	}
}

// Threshold reports the configured match cutoff.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Embed detects faces in the frame and encodes exactly one. When several
// faces are present the one with the largest bounding box wins, keeping the
// choice deterministic for a given frame. The boolean result is false when no
// face is visible, which is not an error.
func (m *Matcher) Embed(ctx context.Context, frame image.Image) (Embedding, bool, error) {
	boxes, err := m.model.DetectFaces(ctx, frame)
	if err != nil {
		return nil, false, services.Wrap(services.ErrModel, "facematch", "embed", "detect faces", err)
	}
	if len(boxes) == 0 {
		return nil, false, nil
	}

	best := 0
	bestArea := boxes[0].Dx() * boxes[0].Dy()
	for i, box := range boxes[1:] {
		if area := box.Dx() * box.Dy(); area > bestArea {
			best = i + 1
			bestArea = area
		}
	}
	if len(boxes) > 1 {
		m.logger.Debug("multiple faces detected, using largest box",
			slog.Int("count", len(boxes)), slog.Int("area", bestArea))
	}

	embeddings, err := m.model.Encode(ctx, frame, boxes[best:best+1])
	if err != nil {
		return nil, false, services.Wrap(services.ErrModel, "facematch", "embed", "encode face", err)
	}
	if len(embeddings) != 1 {
		return nil, false, services.Wrap(services.ErrModel, "facematch", "embed",
			fmt.Sprintf("model returned %d embeddings for 1 box", len(embeddings)), nil)
	}
	return embeddings[0], true, nil
}

// Compare applies the threshold decision to two embeddings and reports the
// match verdict with its confidence score.
func (m *Matcher) Compare(a, b Embedding) (bool, float64, error) {
	distance, err := Distance(a, b)
	if err != nil {
		return false, 0, err
	}
	return distance <= m.threshold, Confidence(distance), nil
}
