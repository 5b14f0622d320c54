// Package services defines shared utilities consumed by the organizer,
// publisher, plan interpreter and the reasoning-service integration.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and operation names for
//     logging correlation.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (write failure, rejected plan, configuration) with errors.Is.
//   - ExitCode, which maps those markers onto CLI exit statuses.
//
// Use these helpers when wiring new components so failure reporting stays
// uniform across the pipeline.
package services
