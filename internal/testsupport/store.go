package testsupport

import (
	"testing"

	"verid/internal/audit"
	"verid/internal/config"
	"verid/internal/enrollment"
)

// MustOpenEnrollmentStore opens an enrollment.Store for tests and registers
// cleanup.
func MustOpenEnrollmentStore(t testing.TB, cfg *config.Config) *enrollment.Store {
	t.Helper()

	store, err := enrollment.Open(cfg)
	if err != nil {
		t.Fatalf("enrollment.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenAuditStore opens an audit.Store for tests and registers cleanup.
func MustOpenAuditStore(t testing.TB, cfg *config.Config) *audit.Store {
	t.Helper()

	store, err := audit.Open(cfg)
	if err != nil {
		t.Fatalf("audit.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
