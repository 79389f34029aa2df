// Package session coordinates a single counting session from image
// collection through submission to the finished report.
//
// A session is a small state machine:
//
//	Collecting -> Submitting -> Aggregating -> ReportReady
//
// Submission failures move the session to the Error state, from which the
// user can either retry the same submission or reset back to Collecting.
// Reset is allowed from every state and bumps the session epoch, so a
// submission that was already on the wire when the user reset can never
// write its result into the fresh session.
package session
