// Package services defines shared utilities consumed by the verification
// pipeline components and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, user IDs, and pipeline stage
//     names for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep infrastructure
//     failures distinguishable from expected-empty and mismatch results,
//     which are modeled as tagged outcome values rather than errors.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
