// Package ocr defines the provider contract for optical character
// recognition over rectified document images.
package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"verid/internal/services"
)

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// Image is the encoded image payload. PNG is the only format the
	// built-in providers produce.
	Image []byte
	// Languages is a list of trained-data hints (e.g., "eng", "hin")
	// that providers can use to select models.
	Languages []string
}

// Result captures recognition output for a single input image.
type Result struct {
	// PlainText contains the linearized text extracted from the image.
	PlainText string
}

// Engine is the OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// InputFromImage encodes a decoded frame as PNG for submission.
func InputFromImage(img image.Image, languages []string) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Input{}, services.Wrap(services.ErrModel, "ocr", "encode", "encode image", err)
	}
	return Input{Image: buf.Bytes(), Languages: append([]string(nil), languages...)}, nil
}
