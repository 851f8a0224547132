package session

import (
	"errors"
	"math"
	"sync"
	"testing"

	"verid/internal/facematch"
	"verid/internal/services"
	"verid/internal/testsupport"
)

func newMatcher(t testing.TB) *facematch.Matcher {
	return facematch.NewMatcher(nil, testsupport.NewConfig(t), nil)
}

func TestObserveFirstSightingAnchors(t *testing.T) {
	registry := NewRegistry()
	id := registry.Create()

	obs, err := registry.Observe(id, facematch.Embedding{1, 0}, newMatcher(t))
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if obs.Outcome != OutcomeFirstSighting {
		t.Fatalf("outcome: got %q want %q", obs.Outcome, OutcomeFirstSighting)
	}

	state, err := registry.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !state.Anchored() {
		t.Fatal("session should be anchored after first sighting")
	}
}

func TestObserveIdenticalEmbeddingIsSamePerson(t *testing.T) {
	registry := NewRegistry()
	id := registry.Create()
	matcher := newMatcher(t)
	reference := facematch.Embedding{0.2, 0.8, 0.1}

	if _, err := registry.Observe(id, reference, matcher); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	obs, err := registry.Observe(id, reference.Clone(), matcher)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if obs.Outcome != OutcomeSamePerson {
		t.Fatalf("outcome: got %q want %q", obs.Outcome, OutcomeSamePerson)
	}
	if math.Abs(obs.Confidence-1) > 1e-12 {
		t.Fatalf("confidence: got %v want 1", obs.Confidence)
	}
}

func TestObserveMismatchLeavesAnchorUnchanged(t *testing.T) {
	registry := NewRegistry()
	id := registry.Create()
	matcher := newMatcher(t)
	reference := facematch.Embedding{0, 0}
	intruder := facematch.Embedding{3, 4}

	if _, err := registry.Observe(id, reference, matcher); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	obs, err := registry.Observe(id, intruder, matcher)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if obs.Outcome != OutcomeDifferentPerson {
		t.Fatalf("outcome: got %q want %q", obs.Outcome, OutcomeDifferentPerson)
	}
	if obs.Confidence != 0 {
		t.Fatalf("confidence for distance 5: got %v want 0", obs.Confidence)
	}

	// A third frame matching the original reference proves the mismatch did
	// not replace the anchor.
	obs, err = registry.Observe(id, reference.Clone(), matcher)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if obs.Outcome != OutcomeSamePerson {
		t.Fatalf("outcome after mismatch: got %q want %q", obs.Outcome, OutcomeSamePerson)
	}
}

func TestObserveNoFaceLeavesStateUnchanged(t *testing.T) {
	registry := NewRegistry()
	id := registry.Create()
	matcher := newMatcher(t)

	obs, err := registry.Observe(id, nil, matcher)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if obs.Outcome != OutcomeNoFace {
		t.Fatalf("outcome: got %q want %q", obs.Outcome, OutcomeNoFace)
	}

	state, err := registry.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Anchored() {
		t.Fatal("no-face frame must not anchor the session")
	}
}

func TestObserveUnknownSession(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Observe("nope", facematch.Embedding{1}, newMatcher(t))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSessionsDoNotCrossContaminate(t *testing.T) {
	registry := NewRegistry()
	matcher := newMatcher(t)
	first := registry.Create()
	second := registry.Create()

	personA := facematch.Embedding{0, 0}
	personB := facematch.Embedding{10, 10}

	if _, err := registry.Observe(first, personA, matcher); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if _, err := registry.Observe(second, personB, matcher); err != nil {
		t.Fatalf("Observe: %v", err)
	}

	// Each session must match only its own anchor.
	obs, err := registry.Observe(first, personA.Clone(), matcher)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if obs.Outcome != OutcomeSamePerson {
		t.Fatalf("first session: got %q want %q", obs.Outcome, OutcomeSamePerson)
	}
	obs, err = registry.Observe(second, personA.Clone(), matcher)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if obs.Outcome != OutcomeDifferentPerson {
		t.Fatalf("second session: got %q want %q", obs.Outcome, OutcomeDifferentPerson)
	}
}

func TestConcurrentSessionsAreIsolated(t *testing.T) {
	registry := NewRegistry()
	matcher := newMatcher(t)

	const sessions = 16
	ids := make([]string, sessions)
	for i := range ids {
		ids[i] = registry.Create()
	}

	var wg sync.WaitGroup
	errs := make(chan error, sessions)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			anchor := facematch.Embedding{float64(i) * 10, 0}
			if _, err := registry.Observe(id, anchor, matcher); err != nil {
				errs <- err
				return
			}
			for n := 0; n < 20; n++ {
				obs, err := registry.Observe(id, anchor.Clone(), matcher)
				if err != nil {
					errs <- err
					return
				}
				if obs.Outcome != OutcomeSamePerson {
					errs <- errors.New("anchor leaked across sessions")
					return
				}
			}
		}(i, id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	registry := NewRegistry()
	id := registry.Create()
	registry.Delete(id)

	if _, err := registry.Get(id); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", registry.Len())
	}
}

func TestLastInteractionMonotonic(t *testing.T) {
	registry := NewRegistry()
	id := registry.Create()
	matcher := newMatcher(t)

	state, err := registry.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	before := state.LastInteraction()

	if _, err := registry.Observe(id, nil, matcher); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if state.LastInteraction().Before(before) {
		t.Fatal("last interaction moved backwards")
	}
}
