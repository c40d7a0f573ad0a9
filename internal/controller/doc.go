// Package controller is the mutation engine for the bank/pedalboard graph.
//
// Every operation follows the same shape:
//  1. Check preconditions against the registry
//  2. Perform the structural change (if any)
//  3. Announce it on the notification bus
//  4. Repair the current selection when the change affected it
//
// A failed precondition returns a *StructuralError before step 2, so a
// failing call never changes the graph and never notifies anyone.
//
// EXECUTION MODEL:
//
// Single writer, synchronous. Each call runs to completion on the caller's
// goroutine, observers included. There is no locking; the command-dispatch
// layer above must process one command at a time.
//
// ANNOUNCEMENT COUNTS:
//   - Created, Update, Delete: exactly one event
//   - Replace: exactly one UPDATED event
//   - Move: exactly two events, DELETED (old index) then CREATED (new index)
//
// Every event produced by a call carries the call's token verbatim.
package controller
