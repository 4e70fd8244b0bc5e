// Package internal documents the Pankho Ki Udaan server internals.
//
// The internal tree is organized by responsibility:
// - api: routing, handlers, middleware and the JSON envelope
// - domain: admins, events and media business rules
// - notify: public form validation and email delivery
// - storage: Postgres repositories and migrations
// - jobs: queued email delivery on River
// - apperr, auth, audit, config, metrics, sanitize, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
