// Package history narrows counting results down to the entries that belong
// to a single farmer. The backend answers /summary with the history of every
// phone number it knows about, so the client is responsible for keeping only
// the rows whose phone matches the logged-in identity.
package history
