// Package imageset manages the fixed four-slot image collection of a
// counting session.
//
// The counting model consumes exactly four tree photographs per request, so
// the Manager enforces a fixed cardinality: four slots always exist, a slot
// fills only through an explicit set, replacement is allowed, and nothing
// short of a full Reset empties a slot again.
//
// The package also contains the two collaborators around image selection:
//   - Picker abstracts where image references come from (camera, gallery);
//     the CLI implementation resolves local files.
//   - Inspector reads capture metadata (EXIF) from filled slots so the tool
//     can warn about photos with no capture date or with embedded GPS
//     coordinates before they are uploaded.
package imageset
