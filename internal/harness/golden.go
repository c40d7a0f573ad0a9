package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pedalboard/internal/ir"
)

// TraceSnapshot captures what a scenario announced and left behind.
// Serialized with canonical JSON for byte-exact comparison.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
	Banks        []BankState
	Current      CurrentState
}

// NewSnapshot builds the snapshot of a finished run.
func NewSnapshot(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Banks:        result.Banks,
		Current:      result.Current,
	}
}

// toCanonicalMap converts the snapshot for ir.MarshalCanonical, which only
// handles primitives, string slices, []any and ir.Object.
func (s TraceSnapshot) toCanonicalMap() ir.Object {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		obj := ir.Object{
			"step":       ev.Step,
			"seq":        ev.Seq,
			"type":       ev.Type,
			"pedalboard": ev.Pedalboard,
			"bank":       ev.Bank,
			"index":      ev.Index,
		}
		if ev.Token != "" {
			obj["token"] = ev.Token
		}
		trace[i] = obj
	}

	banks := make([]any, len(s.Banks))
	for i, b := range s.Banks {
		banks[i] = ir.Object{
			"name":        b.Name,
			"pedalboards": b.Pedalboards,
		}
	}

	cur := ir.Object{
		"bank_number":       s.Current.BankNumber,
		"pedalboard_number": s.Current.PedalboardNumber,
	}
	if s.Current.Pedalboard != "" {
		cur["pedalboard"] = s.Current.Pedalboard
		cur["bank"] = s.Current.Bank
	}

	return ir.Object{
		"scenario_name": s.ScenarioName,
		"trace":         trace,
		"banks":         banks,
		"current":       cur,
	}
}

// MarshalCanonical returns the snapshot's canonical JSON.
func (s TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenarioName, result).MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
