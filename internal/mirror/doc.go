// Package mirror keeps a replica of bank contents driven only by
// announcements.
//
// A Replica never looks at the model graph while applying events: CREATED
// inserts at the announced index, UPDATED substitutes at it and DELETED
// removes from it. If announcements are complete and correctly ordered the
// replica equals the registry after every call, which Diff checks.
//
// Replay rebuilds a replica from journal records, so a journal can be
// checked against the session that produced it.
package mirror
