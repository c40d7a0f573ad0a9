package harness

// TraceEvent is one announcement made while running a scenario's steps.
type TraceEvent struct {
	Step       int    `json:"step"`
	Seq        int64  `json:"seq"`
	Type       string `json:"type"`
	Pedalboard string `json:"pedalboard"`
	Bank       string `json:"bank"`
	Index      int    `json:"index"`
	Token      string `json:"token,omitempty"`
}

// BankState is the final content of one registered bank.
type BankState struct {
	Name        string   `json:"name"`
	Pedalboards []string `json:"pedalboards"`
}

// CurrentState is the cursor's final selection. Numbers are -1 when
// nothing is selected.
type CurrentState struct {
	Bank             string `json:"bank,omitempty"`
	Pedalboard       string `json:"pedalboard,omitempty"`
	BankNumber       int    `json:"bank_number"`
	PedalboardNumber int    `json:"pedalboard_number"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step behaved as expected and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace holds the step announcements in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Banks is the final registered layout, in bank order.
	Banks []BankState `json:"banks"`

	// Current is the final selection.
	Current CurrentState `json:"current"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Banks:  []BankState{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
