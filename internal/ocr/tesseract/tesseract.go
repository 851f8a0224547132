// Package tesseract provides the default OCR engine backed by the
// gosseract bindings to libtesseract.
package tesseract

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"verid/internal/ocr"
	"verid/internal/services"
)

// Engine implements ocr.Engine using a fresh gosseract client per call.
// Clients are not safe for concurrent use, so none are retained.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed OCR engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single image input.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, services.Wrap(services.ErrModel, "ocr", "recognize", "set image", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, services.Wrap(services.ErrModel, "ocr", "recognize", "set languages", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, services.Wrap(services.ErrModel, "ocr", "recognize", "recognize text", err)
	}
	return ocr.Result{PlainText: strings.TrimSpace(text)}, nil
}
