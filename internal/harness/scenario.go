package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: an initial layout, a list
// of operations and assertions on what they announced and left behind.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setlist is an optional CUE setlist directory, relative to the
	// scenario file. Its banks are registered before Banks.
	Setlist string `yaml:"setlist,omitempty"`

	// Banks is the inline initial layout.
	Banks []BankLayout `yaml:"banks,omitempty"`

	// Current is the initial selection.
	Current *Selection `yaml:"current,omitempty"`

	// GenerateTokens gives every step without a token a generated one
	// (token-1, token-2, ...). Otherwise such steps carry no token.
	GenerateTokens bool `yaml:"generate_tokens,omitempty"`

	// Token, when set, is carried by every step without its own token.
	// Excludes GenerateTokens.
	Token string `yaml:"token,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final state.
	Assertions []Assertion `yaml:"assertions"`
}

// BankLayout declares one bank by pedalboard names.
type BankLayout struct {
	Name        string   `yaml:"name"`
	Pedalboards []string `yaml:"pedalboards"`
}

// Selection addresses one pedalboard.
type Selection struct {
	Bank       string `yaml:"bank"`
	Pedalboard string `yaml:"pedalboard"`
}

// Step is one operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Bank and Pedalboard address the subject. An empty Bank addresses a
	// loose pedalboard.
	Bank       string `yaml:"bank,omitempty"`
	Pedalboard string `yaml:"pedalboard,omitempty"`

	// Index is the target of move and the insertion point of create
	// (append when absent).
	Index *int `yaml:"index,omitempty"`

	// Rename changes the pedalboard's name before update announces it.
	Rename string `yaml:"rename,omitempty"`

	// Effects sets the effects of a created, updated or replacement
	// pedalboard.
	Effects []string `yaml:"effects,omitempty"`

	// With names the replacement of a replace step. WithBank addresses an
	// existing pedalboard; without it a new loose pedalboard is used.
	With     string `yaml:"with,omitempty"`
	WithBank string `yaml:"with_bank,omitempty"`

	// Pedalboards populates a create_bank step.
	Pedalboards []string `yaml:"pedalboards,omitempty"`

	// Token is passed verbatim to the controller.
	Token string `yaml:"token,omitempty"`

	// ExpectError is the structural error code the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step operations.
const (
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpReplace      = "replace"
	OpMove         = "move"
	OpSelect       = "select"
	OpCreateBank   = "create_bank"
	OpDeleteBank   = "delete_bank"
	OpNext         = "next"
	OpPrevious     = "previous"
	OpNextBank     = "next_bank"
	OpPreviousBank = "previous_bank"
)

// announces reports whether the op goes through the pedalboard controller
// and so carries a token.
func (s Step) announces() bool {
	switch s.Op {
	case OpCreate, OpUpdate, OpDelete, OpReplace, OpMove, OpCreateBank:
		return true
	}
	return false
}

// Assertion validates the trace or final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected number of events (event_count).
	Count int `yaml:"count,omitempty"`

	// At is the position in the trace (event).
	At int `yaml:"at,omitempty"`

	// EventType is CREATED, UPDATED or DELETED (event).
	EventType string `yaml:"event_type,omitempty"`

	// Pedalboard and Bank are names (event, bank_order, current).
	Pedalboard string `yaml:"pedalboard,omitempty"`
	Bank       string `yaml:"bank,omitempty"`

	// Index is the announced index (event).
	Index *int `yaml:"index,omitempty"`

	// Token filters event_count and is checked by event.
	Token string `yaml:"token,omitempty"`

	// Pedalboards is the expected bank content (bank_order).
	Pedalboards []string `yaml:"pedalboards,omitempty"`

	// None asserts that nothing is selected (current).
	None bool `yaml:"none,omitempty"`

	// BankNumber and PedalboardNumber are the derived cursor numbers (current).
	BankNumber       *int `yaml:"bank_number,omitempty"`
	PedalboardNumber *int `yaml:"pedalboard_number,omitempty"`
}

// Assertion type constants.
const (
	AssertEventCount       = "event_count"
	AssertEvent            = "event"
	AssertBankOrder        = "bank_order"
	AssertCurrent          = "current"
	AssertMirrorConsistent = "mirror_consistent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative setlist path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Setlist != "" && !filepath.IsAbs(scenario.Setlist) {
		scenario.Setlist = filepath.Join(filepath.Dir(path), scenario.Setlist)
	}
	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files directly inside dir,
// sorted by name.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.GenerateTokens && s.Token != "" {
		return fmt.Errorf("token and generate_tokens are mutually exclusive")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, b := range s.Banks {
		if b.Name == "" {
			return fmt.Errorf("banks[%d]: name is required", i)
		}
	}
	if s.Current != nil && (s.Current.Bank == "" || s.Current.Pedalboard == "") {
		return fmt.Errorf("current: bank and pedalboard are required")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateStep validates a single step based on its op.
func validateStep(index int, s *Step) error {
	switch s.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpCreate, OpUpdate, OpDelete, OpSelect:
		if s.Pedalboard == "" {
			return fmt.Errorf("steps[%d]: pedalboard is required for %s", index, s.Op)
		}
	case OpReplace:
		if s.Pedalboard == "" || s.With == "" {
			return fmt.Errorf("steps[%d]: pedalboard and with are required for replace", index)
		}
	case OpMove:
		if s.Pedalboard == "" {
			return fmt.Errorf("steps[%d]: pedalboard is required for move", index)
		}
		if s.Index == nil {
			return fmt.Errorf("steps[%d]: index is required for move", index)
		}
	case OpCreateBank, OpDeleteBank:
		if s.Bank == "" {
			return fmt.Errorf("steps[%d]: bank is required for %s", index, s.Op)
		}
	case OpNext, OpPrevious, OpNextBank, OpPreviousBank:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertEventCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertEvent:
		if a.At < 0 {
			return fmt.Errorf("assertions[%d]: at must be non-negative for event", index)
		}
		if a.EventType == "" && a.Pedalboard == "" && a.Bank == "" && a.Index == nil && a.Token == "" {
			return fmt.Errorf("assertions[%d]: event needs at least one expected field", index)
		}
	case AssertBankOrder:
		if a.Bank == "" {
			return fmt.Errorf("assertions[%d]: bank is required for bank_order", index)
		}
		if a.Pedalboards == nil {
			return fmt.Errorf("assertions[%d]: pedalboards is required for bank_order (use [] for empty)", index)
		}
	case AssertCurrent:
		if !a.None && a.Pedalboard == "" && a.Bank == "" && a.BankNumber == nil && a.PedalboardNumber == nil {
			return fmt.Errorf("assertions[%d]: current needs none or at least one expected field", index)
		}
	case AssertMirrorConsistent:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
