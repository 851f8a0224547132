package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrStore, "enrollment", "put", "insert enrollment", cause)

	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "store error: enrollment: put: insert enrollment: disk full"
	if err.Error() != want {
		t.Fatalf("message: got %q want %q", err.Error(), want)
	}
}

func TestWrapDefaultsNilMarkerToTransient(t *testing.T) {
	err := Wrap(nil, "ocr", "recognize", "engine crashed", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
}

func TestIsInfrastructure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"model", Wrap(ErrModel, "ocr", "recognize", "engine unavailable", nil), true},
		{"store", Wrap(ErrStore, "audit", "record", "db locked", nil), true},
		{"transient", Wrap(ErrTransient, "", "", "", nil), true},
		{"validation", Wrap(ErrValidation, "enrollment", "put", "empty id", nil), false},
		{"not found", Wrap(ErrNotFound, "session", "get", "unknown session", nil), false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInfrastructure(tc.err); got != tc.want {
				t.Fatalf("IsInfrastructure: got %v want %v", got, tc.want)
			}
		})
	}
}
