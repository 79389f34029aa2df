// Package store provides the durable local storage for CitrusCounter.
//
// Two concerns live here:
//   - A string-keyed key-value table holding session-independent data:
//     the cached identity, the farmer name, farm metadata, and the last
//     known count. Writes are last-writer-wins; all writes originate from
//     a single user session so no optimistic concurrency is needed.
//   - A count-history mirror of the server-reported history, so the
//     history command works offline and across restarts.
//
// Design decision: We use a single sqlite database file under the XDG data
// directory rather than a flat JSON file. The history mirror needs ordered,
// filterable rows, and sqlite gives both concerns one durable, crash-safe
// home with no extra serialization code.
package store
