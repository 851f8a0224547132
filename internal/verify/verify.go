// Package verify composes document capture, profile verification, and
// session continuity into per-frame decisions.
package verify

import (
	"context"
	"image"
	"log/slog"

	"verid/internal/audit"
	"verid/internal/docextract"
	"verid/internal/docscan"
	"verid/internal/enrollment"
	"verid/internal/facematch"
	"verid/internal/logging"
	"verid/internal/services"
	"verid/internal/session"
)

// Outcome tags one identity-verification decision.
type Outcome string

const (
	// OutcomeVerified means profile verification passed and the session
	// considers this the same person (or its very first sighting).
	OutcomeVerified        Outcome = "verified"
	OutcomeNoFace          Outcome = "no_face_detected"
	OutcomeNotEnrolled     Outcome = "not_enrolled"
	OutcomeProfileMismatch Outcome = "profile_mismatch"
	OutcomeDifferentPerson Outcome = "different_person"
)

// Result is the decision for one identity frame.
type Result struct {
	Outcome    Outcome
	Confidence float64
}

// DocumentOutcome tags one document-frame decision.
type DocumentOutcome string

const (
	DocumentNone      DocumentOutcome = "no_document_detected"
	DocumentUnknown   DocumentOutcome = "unknown_document"
	DocumentExtracted DocumentOutcome = "extracted"
)

// DocumentResult is the decision for one document frame. Record is set only
// for DocumentExtracted.
type DocumentResult struct {
	Outcome   DocumentOutcome
	Extracted docextract.Result
	Record    *audit.DocumentRecord
}

// Service is the verification orchestrator. Each frame is handled by one
// synchronous call; callers serialize frames per session.
type Service struct {
	scanner     *docscan.Scanner
	extractor   *docextract.Extractor
	matcher     *facematch.Matcher
	registry    *session.Registry
	enrollments EnrollmentStore
	audits      AuditStore
	logger      *slog.Logger
}

// EnrollmentStore is the persistence needed for profile verification.
type EnrollmentStore interface {
	Put(ctx context.Context, userID string, embedding facematch.Embedding) error
	Get(ctx context.Context, userID string) (*enrollment.Record, error)
}

// AuditStore is the persistence consumed for decisions, session lifecycle,
// and extracted documents.
type AuditStore interface {
	RecordDecision(ctx context.Context, sessionID, userID, outcome string, confidence float64) (*audit.Decision, error)
	StartSession(ctx context.Context, id, userID string) error
	EndSession(ctx context.Context, id string) error
	SaveDocument(ctx context.Context, userID string, extracted docextract.Result) (*audit.DocumentRecord, error)
}

// New wires the orchestrator. logger may be nil.
func New(
	scanner *docscan.Scanner,
	extractor *docextract.Extractor,
	matcher *facematch.Matcher,
	registry *session.Registry,
	enrollments EnrollmentStore,
	audits AuditStore,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		scanner:     scanner,
		extractor:   extractor,
		matcher:     matcher,
		registry:    registry,
		enrollments: enrollments,
		audits:      audits,
		logger:      logger.With(slog.String(logging.FieldComponent, "verify")),
	}
}

// StartSession creates the in-memory session state and mirrors it to the
// durable session record.
func (s *Service) StartSession(ctx context.Context, userID string) (string, error) {
	id := s.registry.Create()
	if err := s.audits.StartSession(ctx, id, userID); err != nil {
		s.registry.Delete(id)
		return "", err
	}
	s.logger.Info("session started",
		slog.String(logging.FieldSessionID, id),
		slog.String(logging.FieldUserID, userID))
	return id, nil
}

// EndSession discards the session's identity state and closes its durable
// record.
func (s *Service) EndSession(ctx context.Context, id string) error {
	s.registry.Delete(id)
	if err := s.audits.EndSession(ctx, id); err != nil {
		return err
	}
	s.logger.Info("session ended", slog.String(logging.FieldSessionID, id))
	return nil
}

// Enroll binds a user to the face in the given frame. The boolean result is
// false when no face is visible, which is not an error.
func (s *Service) Enroll(ctx context.Context, userID string, frame image.Image) (bool, error) {
	embedding, found, err := s.matcher.Embed(ctx, frame)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := s.enrollments.Put(ctx, userID, embedding); err != nil {
		return false, err
	}
	s.logger.Info("user enrolled", slog.String(logging.FieldUserID, userID))
	return true, nil
}

// VerifyFrame makes the per-frame identity decision for a session: profile
// verification against the user's enrollment first, then session continuity.
// Profile failure short-circuits before continuity is consulted. Every
// decision is audited; audit failures are logged and swallowed so they never
// block the verification result.
func (s *Service) VerifyFrame(ctx context.Context, sessionID, userID string, frame image.Image) (Result, error) {
	ctx = services.WithSessionID(ctx, sessionID)
	ctx = services.WithUserID(ctx, userID)

	embedding, found, err := s.matcher.Embed(ctx, frame)
	if err != nil {
		return Result{}, err
	}
	if !found {
		// A faceless frame is still session activity; recording it keeps
		// the state's last-interaction timestamp live.
		if _, obsErr := s.registry.Observe(sessionID, nil, s.matcher); obsErr != nil {
			return Result{}, obsErr
		}
		return s.decide(ctx, sessionID, userID, Result{Outcome: OutcomeNoFace}), nil
	}

	record, err := s.enrollments.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if record == nil {
		return s.decide(ctx, sessionID, userID, Result{Outcome: OutcomeNotEnrolled}), nil
	}

	match, profileConfidence, err := s.matcher.Compare(record.Embedding, embedding)
	if err != nil {
		return Result{}, err
	}
	if !match {
		return s.decide(ctx, sessionID, userID, Result{
			Outcome:    OutcomeProfileMismatch,
			Confidence: profileConfidence,
		}), nil
	}

	observation, err := s.registry.Observe(sessionID, embedding, s.matcher)
	if err != nil {
		return Result{}, err
	}
	switch observation.Outcome {
	case session.OutcomeFirstSighting:
		// Continuity has nothing to compare against yet; the profile match
		// alone carries the decision.
		return s.decide(ctx, sessionID, userID, Result{
			Outcome:    OutcomeVerified,
			Confidence: profileConfidence,
		}), nil
	case session.OutcomeSamePerson:
		return s.decide(ctx, sessionID, userID, Result{
			Outcome:    OutcomeVerified,
			Confidence: observation.Confidence,
		}), nil
	default:
		return s.decide(ctx, sessionID, userID, Result{
			Outcome:    OutcomeDifferentPerson,
			Confidence: observation.Confidence,
		}), nil
	}
}

// ProcessDocumentFrame runs the document pipeline on one frame: locate and
// rectify, classify, extract, persist. A frame without a document or with an
// unrecognized document type is a normal outcome, not an error.
func (s *Service) ProcessDocumentFrame(ctx context.Context, userID string, frame image.Image) (DocumentResult, error) {
	rectified, found := s.scanner.LocateAndRectify(frame)
	if !found {
		return DocumentResult{Outcome: DocumentNone}, nil
	}

	extracted, err := s.extractor.ClassifyAndExtract(ctx, rectified)
	if err != nil {
		return DocumentResult{}, err
	}
	if extracted.Type == docextract.TypeUnknown {
		return DocumentResult{Outcome: DocumentUnknown}, nil
	}

	record, err := s.audits.SaveDocument(ctx, userID, extracted)
	if err != nil {
		return DocumentResult{}, err
	}
	s.logger.Info("document extracted",
		slog.String(logging.FieldUserID, userID),
		slog.String("document_type", string(extracted.Type)))
	return DocumentResult{Outcome: DocumentExtracted, Extracted: extracted, Record: record}, nil
}

func (s *Service) decide(ctx context.Context, sessionID, userID string, result Result) Result {
	if _, err := s.audits.RecordDecision(ctx, sessionID, userID, string(result.Outcome), result.Confidence); err != nil {
		s.logger.Warn("audit save failed",
			slog.String(logging.FieldSessionID, sessionID),
			slog.Any("error", err))
	}
	s.logger.Info("verification decision",
		slog.String(logging.FieldSessionID, sessionID),
		slog.String(logging.FieldUserID, userID),
		slog.String(logging.FieldOutcome, string(result.Outcome)),
		slog.Float64("confidence", result.Confidence))
	return result
}
