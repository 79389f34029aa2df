// Package auth implements the HTTP client for the identity endpoints of
// the CitrusCounter backend (/auth/login, /auth/signup, /auth/edit-profile).
//
// Authentication is out of the counting core: this client exists only to
// populate and refresh the locally cached Identity. Passwords pass through
// to the backend and are never persisted locally.
//
// The error taxonomy is shared with the counting client, since both talk
// to the same backend: *counting.ServiceError when the server rejected the
// request, *counting.NetworkError when no usable answer arrived.
package auth
