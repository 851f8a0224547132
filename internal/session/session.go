// Package session holds per-session identity state and classifies each new
// frame against the session's anchored reference embedding.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"verid/internal/facematch"
	"verid/internal/services"
)

// Outcome tags the continuity classification of one observed frame.
type Outcome string

const (
	// OutcomeFirstSighting is emitted once per session, on the first frame
	// containing a detected face. That frame's embedding becomes the
	// session's permanent reference.
	OutcomeFirstSighting   Outcome = "first_sighting"
	OutcomeSamePerson      Outcome = "same_person"
	OutcomeDifferentPerson Outcome = "different_person"
	OutcomeNoFace          Outcome = "no_face_detected"
)

// Observation is the result of classifying one frame for a session.
type Observation struct {
	Outcome    Outcome
	Confidence float64
}

// State is one session's identity state. The anchor is set exactly once and
// never overwritten; a session represents one continuous presence, not an
// evolving identity.
type State struct {
	mu              sync.Mutex
	anchor          facematch.Embedding
	startedAt       time.Time
	lastInteraction time.Time
}

// LastInteraction reports when the session last observed a frame.
func (s *State) LastInteraction() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInteraction
}

// Anchored reports whether the session has a reference embedding.
func (s *State) Anchored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor != nil
}

func (s *State) touch(now time.Time) {
	if now.After(s.lastInteraction) {
		s.lastInteraction = now
	}
}

// Registry is the concurrent session-state store. The registry lock guards
// only the map; each session carries its own lock, and neither is ever held
// across model or store I/O.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*State
	clock    func() time.Time
}

// NewRegistry builds an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*State),
		clock:    time.Now,
	}
}

// Create registers a new empty session and returns its identifier.
func (r *Registry) Create() string {
	id := uuid.NewString()
	now := r.clock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &State{startedAt: now, lastInteraction: now}
	return id
}

// Get looks up a session by id.
func (r *Registry) Get(id string) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[id]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "session", "get",
			fmt.Sprintf("unknown session %s", id), nil)
	}
	return state, nil
}

// Delete removes a session's state. Deleting an unknown id is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Observe classifies an already-computed embedding against the session's
// reference. A nil embedding records a frame with no detected face. The
// caller serializes frames per session; distinct sessions never contend.
func (r *Registry) Observe(id string, embedding facematch.Embedding, matcher *facematch.Matcher) (Observation, error) {
	state, err := r.Get(id)
	if err != nil {
		return Observation{}, err
	}
	now := r.clock()

	state.mu.Lock()
	defer state.mu.Unlock()
	state.touch(now)

	if embedding == nil {
		return Observation{Outcome: OutcomeNoFace}, nil
	}
	if state.anchor == nil {
		state.anchor = embedding.Clone()
		return Observation{Outcome: OutcomeFirstSighting, Confidence: 1}, nil
	}

	match, confidence, err := matcher.Compare(state.anchor, embedding)
	if err != nil {
		return Observation{}, err
	}
	if match {
		return Observation{Outcome: OutcomeSamePerson, Confidence: confidence}, nil
	}
	// A single mismatched frame does not reset the anchor; the reference
	// embedding never updates within a session.
	return Observation{Outcome: OutcomeDifferentPerson, Confidence: confidence}, nil
}
