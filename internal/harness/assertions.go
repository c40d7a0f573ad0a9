package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/pedalboard/internal/mirror"
)

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] step %d %s %s@%s[%d] token=%q\n",
			i, ev.Step, ev.Type, ev.Pedalboard, ev.Bank, ev.Index, ev.Token)
	}
	return buf.String()
}

// evaluate checks every assertion against the harness state.
// Returns a message per failed assertion.
func (h *Harness) evaluate(assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertEventCount:
			err = assertEventCount(h.result.Trace, a)
		case AssertEvent:
			err = assertEvent(h.result.Trace, a)
		case AssertBankOrder:
			err = h.assertBankOrder(a)
		case AssertCurrent:
			err = h.assertCurrent(a)
		case AssertMirrorConsistent:
			err = h.assertMirrorConsistent()
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertEventCount checks the number of step events, optionally only
// those carrying a token.
func assertEventCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if a.Token == "" || ev.Token == a.Token {
			count++
		}
	}
	if count == a.Count {
		return nil
	}

	expected := fmt.Sprintf("%d events", a.Count)
	if a.Token != "" {
		expected = fmt.Sprintf("%d events with token %q", a.Count, a.Token)
	}
	return &AssertionError{
		Type:     AssertEventCount,
		Expected: expected,
		Actual:   fmt.Sprintf("%d events", count),
		Trace:    trace,
	}
}

// assertEvent checks the specified fields of the event at position a.At.
// Unspecified fields are not checked.
func assertEvent(trace []TraceEvent, a Assertion) error {
	if a.At >= len(trace) {
		return &AssertionError{
			Type:     AssertEvent,
			Expected: fmt.Sprintf("an event at position %d", a.At),
			Actual:   fmt.Sprintf("%d events", len(trace)),
			Trace:    trace,
		}
	}
	ev := trace[a.At]

	var mismatches []string
	check := func(field, want, got string) {
		if want != "" && want != got {
			mismatches = append(mismatches, fmt.Sprintf("%s=%q (want %q)", field, got, want))
		}
	}
	check("event_type", a.EventType, ev.Type)
	check("pedalboard", a.Pedalboard, ev.Pedalboard)
	check("bank", a.Bank, ev.Bank)
	check("token", a.Token, ev.Token)
	if a.Index != nil && *a.Index != ev.Index {
		mismatches = append(mismatches, fmt.Sprintf("index=%d (want %d)", ev.Index, *a.Index))
	}

	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertEvent,
		Expected: fmt.Sprintf("event %d to match", a.At),
		Actual:   strings.Join(mismatches, ", "),
		Trace:    trace,
	}
}

// assertBankOrder checks a bank's pedalboard names in order. The bank need
// not be registered.
func (h *Harness) assertBankOrder(a Assertion) error {
	b, err := h.bank(a.Bank)
	if err != nil {
		return &AssertionError{Type: AssertBankOrder, Expected: fmt.Sprintf("bank %q", a.Bank), Actual: err.Error(), Trace: h.result.Trace}
	}

	got := make([]string, 0, b.Len())
	for _, p := range b.Pedalboards() {
		got = append(got, p.Name)
	}
	if slices.Equal(got, a.Pedalboards) {
		return nil
	}
	return &AssertionError{
		Type:     AssertBankOrder,
		Expected: fmt.Sprintf("%s %v", a.Bank, a.Pedalboards),
		Actual:   fmt.Sprintf("%s %v", a.Bank, got),
		Trace:    h.result.Trace,
	}
}

// assertCurrent checks the cursor's selection and derived numbers.
func (h *Harness) assertCurrent(a Assertion) error {
	state := h.currentState()

	var mismatches []string
	if a.None && state.Pedalboard != "" {
		mismatches = append(mismatches, fmt.Sprintf("selection=%q (want none)", state.Pedalboard))
	}
	if a.Pedalboard != "" && a.Pedalboard != state.Pedalboard {
		mismatches = append(mismatches, fmt.Sprintf("pedalboard=%q (want %q)", state.Pedalboard, a.Pedalboard))
	}
	if a.Bank != "" && a.Bank != state.Bank {
		mismatches = append(mismatches, fmt.Sprintf("bank=%q (want %q)", state.Bank, a.Bank))
	}
	if a.BankNumber != nil && *a.BankNumber != state.BankNumber {
		mismatches = append(mismatches, fmt.Sprintf("bank_number=%d (want %d)", state.BankNumber, *a.BankNumber))
	}
	if a.PedalboardNumber != nil && *a.PedalboardNumber != state.PedalboardNumber {
		mismatches = append(mismatches, fmt.Sprintf("pedalboard_number=%d (want %d)", state.PedalboardNumber, *a.PedalboardNumber))
	}

	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertCurrent,
		Expected: "current selection to match",
		Actual:   strings.Join(mismatches, ", "),
		Trace:    h.result.Trace,
	}
}

// assertMirrorConsistent checks that the live replica and a replica
// replayed from the journal both equal the registry.
func (h *Harness) assertMirrorConsistent() error {
	fail := func(actual string) error {
		return &AssertionError{
			Type:     AssertMirrorConsistent,
			Expected: "replicas equal to the registry",
			Actual:   actual,
			Trace:    h.result.Trace,
		}
	}

	if errs := h.replica.Errors(); len(errs) > 0 {
		return fail(fmt.Sprintf("live replica rejected %d events: %v", len(errs), errs[0]))
	}
	if err := h.replica.Diff(h.registry); err != nil {
		return fail("live replica: " + err.Error())
	}

	records, err := h.store.Records(h.ctx)
	if err != nil {
		return fail("read journal: " + err.Error())
	}
	replayed, err := mirror.Replay(records, mirror.WithLogger(h.logger))
	if err != nil {
		return fail(err.Error())
	}
	if err := replayed.Diff(h.registry); err != nil {
		return fail("replayed journal: " + err.Error())
	}
	return nil
}
