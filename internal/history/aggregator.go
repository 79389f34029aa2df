package history

import (
	"github.com/citruscounter/citruscounter/internal/model"
)

// FilterForIdentity returns the count entries from result that belong to
// identity, preserving the server's order. Entries for other phone numbers
// are dropped. The result value is never mutated; callers may hold on to it.
//
// A nil result or an empty history yields an empty (non-nil) slice so that
// downstream report code can range over it without a nil check.
func FilterForIdentity(result *model.CountingResult, identity model.Identity) []model.CountEntry {
	if result == nil {
		return []model.CountEntry{}
	}

	entries := make([]model.CountEntry, 0, len(result.History))
	for _, entry := range result.History {
		if entry.Phone != identity.Phone {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// LatestEntry returns the most recent entry for identity, relying on the
// server's ordering where the newest row comes last. The second return value
// reports whether any entry matched.
func LatestEntry(result *model.CountingResult, identity model.Identity) (model.CountEntry, bool) {
	entries := FilterForIdentity(result, identity)
	if len(entries) == 0 {
		return model.CountEntry{}, false
	}
	return entries[len(entries)-1], true
}
