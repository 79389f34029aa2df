// Package log provides privacy-aware logging built on top of the standard
// slog package.
//
// CitrusCounter logs carry farmer contact details: every submission, login,
// and history lookup is keyed by a phone number, and auth commands briefly
// handle passwords and OTP codes. The SanitizingHandler keeps those out of
// log output that may be shared when reporting problems:
//   - Credential attributes (password, token, otp) are fully redacted
//   - Phone numbers are masked to their first three and last two digits,
//     both when the attribute key names a phone and when a value merely
//     looks like one
//
// Masking rather than redacting phone numbers keeps log lines correlatable
// across a session (two masked numbers still compare equal) without
// exposing the full contact detail.
//
// # Usage
//
//	logger := log.NewSanitizingLogger(os.Stderr, verbose)
//	logger.Info("submission accepted",
//	    "phone", "03001234567", // logged as "030******67"
//	)
//	slog.SetDefault(logger)
package log
