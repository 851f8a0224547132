// Package docextract classifies rectified identity-document images and
// extracts structured fields from their OCR text.
package docextract

import (
	"context"
	"image"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"verid/internal/config"
	"verid/internal/imaging"
	"verid/internal/logging"
	"verid/internal/ocr"
	"verid/internal/services"
)

// DocumentType identifies the kind of identity document in an image.
type DocumentType string

const (
	TypeAadhaar DocumentType = "aadhaar"
	TypePAN     DocumentType = "pan"
	TypeUnknown DocumentType = "unknown"
)

// Field is an optionally present extracted value. Absent and empty are
// distinct: a pattern that does not match leaves Present false.
type Field struct {
	Value   string
	Present bool
}

func present(value string) Field {
	return Field{Value: value, Present: true}
}

// Fields holds the values extracted from one document image. Address is only
// populated for aadhaar documents.
type Fields struct {
	Number  Field
	Name    Field
	DOB     Field
	Address Field
}

// Result pairs a classification with whatever fields matched. Fields is zero
// when Type is TypeUnknown.
type Result struct {
	Type   DocumentType
	Fields Fields
}

var (
	aadhaarAliases = regexp.MustCompile(`aadhaar|आधार|adhar|uid`)
	panAliases     = regexp.MustCompile(`income tax|permanent account|pan|आयकर|पैन`)

	aadhaarNumber = regexp.MustCompile(`\d{4}\s\d{4}\s\d{4}`)
	panNumber     = regexp.MustCompile(`[A-Z]{5}\d{4}[A-Z]`)
	namePattern   = regexp.MustCompile(`(?i)(?:name|नाम)[:\s]*([A-Za-z][A-Za-z ]*)`)
	dobPattern    = regexp.MustCompile(`(?i)(?:DOB|Date of Birth|जन्म तिथि)[:\s]*(\d{2}/\d{2}/\d{4})`)
	addrPattern   = regexp.MustCompile(`(?is)(?:address|पता)[:\s]*(.+?)(?:\n\n|\z)`)
)

// Classify resolves a document type from raw OCR text. Aadhaar aliases take
// priority when a page mentions both document kinds, so mixed-keyword text
// resolves deterministically. Matching is case-insensitive and tolerant of
// decomposed Devanagari codepoints.
func Classify(text string) DocumentType {
	lowered := strings.ToLower(norm.NFC.String(text))
	if aadhaarAliases.MatchString(lowered) {
		return TypeAadhaar
	}
	if panAliases.MatchString(lowered) {
		return TypePAN
	}
	return TypeUnknown
}

// ExtractFields runs the per-type patterns over raw OCR text. Non-matching
// fields stay absent; partial extraction is the expected common case given
// OCR noise.
func ExtractFields(docType DocumentType, text string) Fields {
	if docType == TypeUnknown {
		return Fields{}
	}
	text = norm.NFC.String(text)

	var fields Fields
	if m := namePattern.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			fields.Name = present(name)
		}
	}
	if m := dobPattern.FindStringSubmatch(text); m != nil {
		fields.DOB = present(m[1])
	}

	switch docType {
	case TypeAadhaar:
		if m := aadhaarNumber.FindString(text); m != "" {
			fields.Number = present(strings.ReplaceAll(m, " ", ""))
		}
		if m := addrPattern.FindStringSubmatch(text); m != nil {
			if addr := strings.TrimSpace(m[1]); addr != "" {
				fields.Address = present(addr)
			}
		}
	case TypePAN:
		if m := panNumber.FindString(text); m != "" {
			fields.Number = present(m)
		}
	}
	return fields
}

// Extractor binarizes rectified document images, runs OCR, and applies the
// classification and field patterns.
type Extractor struct {
	engine    ocr.Engine
	languages []string
	logger    *slog.Logger
}

// NewExtractor builds an Extractor around an OCR engine. logger may be nil.
func NewExtractor(engine ocr.Engine, cfg *config.Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	languages := config.Default().OCR.Languages
	if cfg != nil {
		languages = cfg.OCR.Languages
	}
	return &Extractor{
		engine:    engine,
		languages: languages,
		logger:    logger.With(slog.String(logging.FieldComponent, "docextract")),
	}
}

// ClassifyAndExtract identifies the document type in a rectified image and
// extracts its fields. An unknown type is not an error; extraction is simply
// skipped for it.
func (e *Extractor) ClassifyAndExtract(ctx context.Context, rectified image.Image) (Result, error) {
	// A rectified document is a flat surface, so a single global threshold
	// beats the local-mean method used on raw camera frames.
	gray := imaging.MedianBlur3(imaging.Grayscale(rectified))
	binary := imaging.OtsuThreshold(gray)

	input, err := ocr.InputFromImage(binary, e.languages)
	if err != nil {
		return Result{}, err
	}
	recognized, err := e.engine.Recognize(ctx, input)
	if err != nil {
		return Result{}, services.Wrap(services.ErrModel, "docextract", "classify", "run ocr", err)
	}

	docType := Classify(recognized.PlainText)
	if docType == TypeUnknown {
		e.logger.Debug("document type not recognized", slog.String("engine", e.engine.Name()))
		return Result{Type: TypeUnknown}, nil
	}

	fields := ExtractFields(docType, recognized.PlainText)
	e.logger.Debug("document fields extracted",
		slog.String("type", string(docType)),
		slog.Bool("number", fields.Number.Present),
		slog.Bool("name", fields.Name.Present),
		slog.Bool("dob", fields.DOB.Present))
	return Result{Type: docType, Fields: fields}, nil
}
