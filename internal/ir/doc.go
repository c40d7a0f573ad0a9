// Package ir provides the canonical encoding shared by the journal and the
// scenario harness.
//
// Journal records and golden traces are serialized with MarshalCanonical so
// that the same sequence of announcements always produces the same bytes,
// and therefore the same content-addressed event IDs.
//
// Key design constraints:
//   - NO floats and NO null values; indexes are integers, absence is omission
//   - Object keys sorted by UTF-16 code units
//   - Strings NFC-normalized at the serialization boundary
//   - All JSON keys use snake_case
package ir
