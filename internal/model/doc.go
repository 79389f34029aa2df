// Package model defines the core data structures used throughout CitrusCounter.
//
// This package contains the following main types:
//   - Identity: The locally cached user record (name, phone)
//   - FarmMetadata: Land size and tree count for the active farm
//   - CountingSubmission: The exactly-four-image payload sent to the counting service
//   - CountingResult: The count and per-phone history returned by the service
//   - Report: The immutable farm report derived from a counting result
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (imageset, counting, session, report, store)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for the service wire
// format and for local key-value storage.
package model
