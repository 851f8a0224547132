package docextract_test

import (
	"context"
	"image"
	"testing"

	"verid/internal/docextract"
	"verid/internal/ocr"
	"verid/internal/testsupport"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		text string
		want docextract.DocumentType
	}{
		{"aadhaar keyword", "Government of India\nAadhaar\n1234 5678 9012", docextract.TypeAadhaar},
		{"aadhaar devanagari", "भारत सरकार आधार", docextract.TypeAadhaar},
		{"aadhaar misspelling", "ADHAR card", docextract.TypeAadhaar},
		{"uid keyword", "UID: 1234 5678 9012", docextract.TypeAadhaar},
		{"pan keyword", "INCOME TAX DEPARTMENT\nPermanent Account Number", docextract.TypePAN},
		{"pan devanagari", "आयकर विभाग", docextract.TypePAN},
		{"mixed keywords prefer aadhaar", "PAN mentioned, but this is an Aadhaar card", docextract.TypeAadhaar},
		{"no keywords", "Driving Licence\nState Transport", docextract.TypeUnknown},
		{"empty", "", docextract.TypeUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := docextract.Classify(tc.text); got != tc.want {
				t.Fatalf("docextract.Classify(%q): got %q want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractAadhaarFields(t *testing.T) {
	text := "Government of India\nAadhaar\nName: Priya Sharma\nDOB: 05/03/1990\n1234 5678 9012\nAddress: 12 MG Road\nBengaluru 560001\n\nsome trailing noise"
	fields := docextract.ExtractFields(docextract.TypeAadhaar, text)

	if !fields.Number.Present || fields.Number.Value != "123456789012" {
		t.Fatalf("number: got %+v", fields.Number)
	}
	if !fields.Name.Present || fields.Name.Value != "Priya Sharma" {
		t.Fatalf("name: got %+v", fields.Name)
	}
	if !fields.DOB.Present || fields.DOB.Value != "05/03/1990" {
		t.Fatalf("dob: got %+v", fields.DOB)
	}
	if !fields.Address.Present || fields.Address.Value != "12 MG Road\nBengaluru 560001" {
		t.Fatalf("address: got %+v", fields.Address)
	}
}

func TestExtractAadhaarAddressRunsToEndOfText(t *testing.T) {
	fields := docextract.ExtractFields(docextract.TypeAadhaar, "Address: 4 Lake View\nPune 411001")
	if !fields.Address.Present || fields.Address.Value != "4 Lake View\nPune 411001" {
		t.Fatalf("address: got %+v", fields.Address)
	}
}

func TestExtractPANFields(t *testing.T) {
	text := "INCOME TAX DEPARTMENT\nPermanent Account Number\nABCDE1234F\nName: Rahul Verma\nDOB: 21/11/1985"
	fields := docextract.ExtractFields(docextract.TypePAN, text)

	if !fields.Number.Present || fields.Number.Value != "ABCDE1234F" {
		t.Fatalf("number: got %+v", fields.Number)
	}
	if !fields.Name.Present || fields.Name.Value != "Rahul Verma" {
		t.Fatalf("name: got %+v", fields.Name)
	}
	if !fields.DOB.Present || fields.DOB.Value != "21/11/1985" {
		t.Fatalf("dob: got %+v", fields.DOB)
	}
	if fields.Address.Present {
		t.Fatalf("address should be absent for pan, got %+v", fields.Address)
	}
}

func TestExtractMalformedValuesStayAbsent(t *testing.T) {
	cases := []struct {
		name string
		typ  docextract.DocumentType
		text string
	}{
		{"aadhaar wrong grouping", docextract.TypeAadhaar, "123 45678 9012"},
		{"aadhaar too few digits", docextract.TypeAadhaar, "1234 5678 901"},
		{"pan lowercase", docextract.TypePAN, "abcde1234f"},
		{"pan wrong letter positions", docextract.TypePAN, "ABCD12345F"},
		{"dob wrong format", docextract.TypeAadhaar, "DOB: 5/3/1990"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := docextract.ExtractFields(tc.typ, tc.text)
			if fields.Number.Present {
				t.Fatalf("number should be absent, got %+v", fields.Number)
			}
			if fields.DOB.Present {
				t.Fatalf("dob should be absent, got %+v", fields.DOB)
			}
		})
	}
}

func TestExtractUnknownTypeSkipsExtraction(t *testing.T) {
	fields := docextract.ExtractFields(docextract.TypeUnknown, "Name: Someone\nDOB: 05/03/1990\n1234 5678 9012")
	if fields != (docextract.Fields{}) {
		t.Fatalf("expected zero fields for unknown type, got %+v", fields)
	}
}

type stubEngine struct {
	text string
	err  error
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Recognize(_ context.Context, _ ocr.Input) (ocr.Result, error) {
	if s.err != nil {
		return ocr.Result{}, s.err
	}
	return ocr.Result{PlainText: s.text}, nil
}

func TestClassifyAndExtract(t *testing.T) {
	engine := &stubEngine{text: "Aadhaar\nName: Priya Sharma\n1234 5678 9012"}
	extractor := docextract.NewExtractor(engine, testsupport.NewConfig(t), nil)

	result, err := extractor.ClassifyAndExtract(context.Background(), image.NewRGBA(image.Rect(0, 0, 32, 32)))
	if err != nil {
		t.Fatalf("ClassifyAndExtract: %v", err)
	}
	if result.Type != docextract.TypeAadhaar {
		t.Fatalf("type: got %q want %q", result.Type, docextract.TypeAadhaar)
	}
	if result.Fields.Number.Value != "123456789012" {
		t.Fatalf("number: got %+v", result.Fields.Number)
	}
}

func TestClassifyAndExtractUnknown(t *testing.T) {
	engine := &stubEngine{text: "Driving Licence"}
	extractor := docextract.NewExtractor(engine, testsupport.NewConfig(t), nil)

	result, err := extractor.ClassifyAndExtract(context.Background(), image.NewRGBA(image.Rect(0, 0, 32, 32)))
	if err != nil {
		t.Fatalf("ClassifyAndExtract: %v", err)
	}
	if result.Type != docextract.TypeUnknown {
		t.Fatalf("type: got %q want unknown", result.Type)
	}
	if result.Fields != (docextract.Fields{}) {
		t.Fatalf("expected no fields, got %+v", result.Fields)
	}
}
