// Package counting implements the HTTP client for the remote counting
// service.
//
// The service exposes a JSON-over-HTTPS API:
//   - POST /summary takes a multipart body with four image parts plus the
//     phone number and returns the aggregate count and per-phone history
//   - POST /generate-report persists a finished report server-side
//
// Errors fall into three classes that callers tell apart with errors.Is
// and errors.As:
//   - validation errors (never sent over the network, user-correctable)
//   - *ServiceError (the server answered and rejected the request)
//   - *NetworkError (no usable answer: timeout, DNS, connection reset)
//
// One submission may be outstanding per client at a time; a second Submit
// while one is in flight fails with ErrSubmissionInFlight without touching
// the first. This guards against double-tapped "proceed" actions producing
// duplicate counts.
package counting
