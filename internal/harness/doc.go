// Package harness runs YAML conformance scenarios against the real
// controllers.
//
// # Scenario Format
//
//	name: move_forward
//	description: "Moving a pedalboard announces DELETED then CREATED"
//	setlist: setlists/live        # optional CUE setlist directory
//	banks:                        # optional inline layout
//	  - name: Live
//	    pedalboards: [A, B, C]
//	current: {bank: Live, pedalboard: A}
//	steps:
//	  - op: move
//	    bank: Live
//	    pedalboard: A
//	    index: 2
//	    token: t1
//	  - op: delete
//	    bank: Gone
//	    pedalboard: X
//	    expect_error: BANK_UNREGISTERED
//	assertions:
//	  - type: event_count
//	    count: 2
//	  - type: event
//	    at: 0
//	    event_type: DELETED
//	    pedalboard: A
//	    index: 0
//	  - type: bank_order
//	    bank: Live
//	    pedalboards: [B, C, A]
//	  - type: current
//	    pedalboard: A
//	    pedalboard_number: 2
//	  - type: mirror_consistent
//
// Pedalboards are addressed by bank name and pedalboard name. A step with
// no bank addresses a loose pedalboard that belongs to no bank, created on
// first use. Banks stay addressable after delete_bank so a scenario can
// exercise unregistered banks.
//
// # Assertion Types
//
//   - event_count: number of events announced by the steps (optionally for one token)
//   - event: fields of the event at position at
//   - bank_order: pedalboard names of a bank, in order
//   - current: the cursor's selection and derived numbers
//   - mirror_consistent: a replica fed by the bus, and one replayed from the
//     journal, both equal the registry
//
// # Deterministic Testing
//
// The initial layout is announced with the token "setup" so the journal can
// be replayed from empty; those events are not part of the trace. Generated
// tokens come from a sequence generator and journal seqs from a
// testutil.DeterministicClock, so traces compare byte for byte against
// golden files (RunWithGolden).
package harness
