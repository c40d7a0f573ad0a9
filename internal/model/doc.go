// Package model holds the bank and pedalboard graph.
//
// A Registry owns an ordered list of banks, and each Bank owns an ordered
// list of pedalboards. Positions are never stored on the entities: a
// pedalboard's index is found by locating it in its owning bank, and a
// bank's index by locating it in the registry that holds it. Moving or
// removing an element therefore can never leave a stale index behind.
//
// This package is the ordered-container layer only. It performs no
// validation beyond keeping the owner pointers consistent; precondition
// checks and change announcements live in the controller package.
//
// Thread-safety: none of the types here are safe for concurrent use. The
// single writer (one command processed at a time) is expected to serialize
// every call.
package model
