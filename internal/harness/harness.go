package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/pedalboard/internal/controller"
	"github.com/roach88/pedalboard/internal/current"
	"github.com/roach88/pedalboard/internal/journal"
	"github.com/roach88/pedalboard/internal/mirror"
	"github.com/roach88/pedalboard/internal/model"
	"github.com/roach88/pedalboard/internal/notify"
	"github.com/roach88/pedalboard/internal/setlist"
	"github.com/roach88/pedalboard/internal/testutil"
)

// SetupToken marks the announcements that build the initial layout.
const SetupToken notify.Token = "setup"

// Option configures a run.
type Option func(*runOptions)

type runOptions struct {
	journalPath string
	logger      *slog.Logger
}

// WithJournalPath keeps the run's journal in a SQLite file instead of
// memory. The file may already hold earlier runs; seqs continue after them.
func WithJournalPath(path string) Option {
	return func(o *runOptions) {
		o.journalPath = path
	}
}

// WithLogger sets the logger handed to every component. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *runOptions) {
		o.logger = l
	}
}

// Harness holds one scenario's wiring: the real controllers, a replica and
// a journal on the same bus, plus the scenario's name tables.
type Harness struct {
	ctx         context.Context
	registry    *model.Registry
	cursor      *current.Cursor
	pedalboards *controller.Pedalboards
	banks       *controller.Banks
	replica     *mirror.Replica
	store       *journal.Store
	journal     *journal.Observer
	logger      *slog.Logger

	// known holds every bank the scenario created, registered or not.
	known map[string]*model.Bank
	// loose holds pedalboards addressed without a bank.
	loose map[string]*model.Pedalboard

	generate bool
	tracing  bool
	step     int
	result   *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh registry and, unless WithJournalPath
// is given, an in-memory journal.
//
// Execution flow:
//  1. Wire controllers, replica, journal and tracer onto one bus
//  2. Register the setlist and inline banks, announcing their pedalboards
//  3. Apply the initial selection
//  4. Execute steps, checking expected errors
//  5. Evaluate assertions and capture the final state
//
// A returned error means the scenario could not be executed (unknown
// names, journal failure); step and assertion failures go into the Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := runOptions{
		journalPath: ":memory:",
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := journal.Open(o.journalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer st.Close()

	h, err := newHarness(context.Background(), st, scenario, o.logger)
	if err != nil {
		return nil, err
	}

	if err := h.setup(scenario); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	h.tracing = true
	for i, step := range scenario.Steps {
		h.step = i
		if err := h.execute(step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	for _, msg := range h.evaluate(scenario.Assertions) {
		h.result.AddError(msg)
	}
	if n := h.journal.Failures(); n > 0 {
		h.result.AddError(fmt.Sprintf("journal: %d announcements could not be written", n))
	}

	h.captureFinalState()
	return h.result, nil
}

func newHarness(ctx context.Context, st *journal.Store, scenario *Scenario, logger *slog.Logger) (*Harness, error) {
	registry := model.NewRegistry()
	bus := notify.NewBus()
	cursor := current.New(registry, current.WithLogger(logger))

	clock := testutil.NewDeterministicClock()
	last, err := st.LastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	var seq journal.Sequencer = clock
	if last > 0 {
		seq = journal.NewClockAt(last)
	}
	obs, err := journal.NewObserver(ctx, st, journal.WithSequencer(seq), journal.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create journal observer: %w", err)
	}

	var tokens controller.TokenGenerator = controller.NewSequenceGenerator("token")
	if scenario.Token != "" {
		tokens = testutil.NewFixedTokenGenerator(scenario.Token)
	}

	h := &Harness{
		ctx:      ctx,
		registry: registry,
		cursor:   cursor,
		pedalboards: controller.NewPedalboards(registry, bus, cursor,
			controller.WithLogger(logger),
			controller.WithTokenGenerator(tokens),
		),
		banks:    controller.NewBanks(registry, cursor, controller.WithLogger(logger)),
		replica:  mirror.New(mirror.WithLogger(logger)),
		store:    st,
		journal:  obs,
		logger:   logger,
		known:    make(map[string]*model.Bank),
		loose:    make(map[string]*model.Pedalboard),
		generate: scenario.GenerateTokens || scenario.Token != "",
		result:   NewResult(),
	}

	bus.Register(h.replica)
	bus.Register(h.journal)
	bus.Register(notify.ObserverFunc(h.trace))
	return h, nil
}

// setup registers the initial layout. Every pedalboard is announced so
// that both the replica and the journal start from empty. Setlist banks
// are built with their pedalboards already appended; inline banks are
// appended and announced one pedalboard at a time.
func (h *Harness) setup(s *Scenario) error {
	if s.Setlist != "" {
		if err := h.loadSetlist(s.Setlist); err != nil {
			return err
		}
	}

	for _, layout := range s.Banks {
		if _, dup := h.known[layout.Name]; dup {
			return fmt.Errorf("bank %q declared twice", layout.Name)
		}
		if err := h.createBank(layout.Name, layout.Pedalboards, SetupToken); err != nil {
			return err
		}
	}

	if s.Current != nil {
		p, err := h.resolve(s.Current.Bank, s.Current.Pedalboard)
		if err != nil {
			return fmt.Errorf("current: %w", err)
		}
		h.cursor.Set(p)
	}
	return nil
}

// execute runs one step. Structural errors are compared with the step's
// expectation; anything else aborts the run.
func (h *Harness) execute(step Step) error {
	token := notify.Token(step.Token)
	if !token.IsSet() && h.generate && step.announces() {
		token = h.pedalboards.NewToken()
	}

	err := h.dispatch(step, token)
	if err != nil && !controller.IsStructuralError(err) {
		return err
	}

	code := string(controller.CodeOf(err))
	switch {
	case step.ExpectError != "" && code != step.ExpectError:
		h.result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %v", h.step, step.Op, step.ExpectError, err))
	case step.ExpectError == "" && err != nil:
		h.result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", h.step, step.Op, err))
	}

	h.logger.Info("scenario step completed",
		"step", h.step,
		"op", step.Op,
		"token", string(token),
		"error", code,
	)
	return nil
}

func (h *Harness) dispatch(step Step, token notify.Token) error {
	switch step.Op {
	case OpCreate:
		p := model.NewPedalboard(step.Pedalboard, step.Effects...)
		if step.Bank == "" {
			h.loose[step.Pedalboard] = p
		} else {
			b, err := h.bank(step.Bank)
			if err != nil {
				return err
			}
			if step.Index != nil {
				b.Insert(*step.Index, p)
			} else {
				b.Append(p)
			}
		}
		return h.pedalboards.Created(p, token)

	case OpUpdate:
		p, err := h.resolve(step.Bank, step.Pedalboard)
		if err != nil {
			return err
		}
		if step.Rename != "" {
			p.Name = step.Rename
		}
		if step.Effects != nil {
			p.Effects = step.Effects
		}
		return h.pedalboards.Update(p, token)

	case OpDelete:
		p, err := h.resolve(step.Bank, step.Pedalboard)
		if err != nil {
			return err
		}
		return h.pedalboards.Delete(p, token)

	case OpReplace:
		old, err := h.resolve(step.Bank, step.Pedalboard)
		if err != nil {
			return err
		}
		var replacement *model.Pedalboard
		if step.WithBank != "" {
			replacement, err = h.resolve(step.WithBank, step.With)
			if err != nil {
				return err
			}
		} else {
			replacement = model.NewPedalboard(step.With, step.Effects...)
		}
		return h.pedalboards.Replace(old, replacement, token)

	case OpMove:
		p, err := h.resolve(step.Bank, step.Pedalboard)
		if err != nil {
			return err
		}
		return h.pedalboards.Move(p, *step.Index, token)

	case OpSelect:
		p, err := h.resolve(step.Bank, step.Pedalboard)
		if err != nil {
			return err
		}
		h.cursor.Set(p)
		return nil

	case OpCreateBank:
		return h.createBank(step.Bank, step.Pedalboards, token)

	case OpDeleteBank:
		b, err := h.bank(step.Bank)
		if err != nil {
			return err
		}
		return h.banks.Delete(b)

	case OpNext:
		h.cursor.Next()
	case OpPrevious:
		h.cursor.Previous()
	case OpNextBank:
		h.cursor.NextBank()
	case OpPreviousBank:
		h.cursor.PreviousBank()

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// loadSetlist registers the setlist's banks in order and announces their
// pedalboards, effects included.
func (h *Harness) loadSetlist(dir string) error {
	specs, err := setlist.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("setlist %s: %w", dir, err)
	}
	banks, err := setlist.Populate(h.banks, specs)
	if err != nil {
		return fmt.Errorf("setlist %s: %w", dir, err)
	}
	for _, b := range banks {
		h.known[b.Name] = b
		for _, p := range b.Pedalboards() {
			if err := h.pedalboards.Created(p, SetupToken); err != nil {
				return err
			}
		}
	}
	return nil
}

// createBank registers a bank (reusing a known one of that name) and
// announces each listed pedalboard as it is appended.
func (h *Harness) createBank(name string, pedalboards []string, token notify.Token) error {
	b, ok := h.known[name]
	if !ok {
		b = model.NewBank(name)
		h.known[name] = b
	}
	if err := h.banks.Create(b); err != nil {
		return err
	}
	for _, pname := range pedalboards {
		p := model.NewPedalboard(pname)
		b.Append(p)
		if err := h.pedalboards.Created(p, token); err != nil {
			return err
		}
	}
	return nil
}

func (h *Harness) bank(name string) (*model.Bank, error) {
	b, ok := h.known[name]
	if !ok {
		return nil, fmt.Errorf("unknown bank %q", name)
	}
	return b, nil
}

// resolve finds a pedalboard by bank and name. An empty bank addresses a
// loose pedalboard, created on first use.
func (h *Harness) resolve(bankName, name string) (*model.Pedalboard, error) {
	if bankName == "" {
		p, ok := h.loose[name]
		if !ok {
			p = model.NewPedalboard(name)
			h.loose[name] = p
		}
		return p, nil
	}
	b, err := h.bank(bankName)
	if err != nil {
		return nil, err
	}
	p := b.Lookup(name)
	if p == nil {
		return nil, fmt.Errorf("bank %q has no pedalboard %q", bankName, name)
	}
	return p, nil
}

// trace records step announcements. Setup announcements are skipped.
func (h *Harness) trace(ev notify.UpdateEvent) {
	if !h.tracing {
		return
	}
	h.result.Trace = append(h.result.Trace, TraceEvent{
		Step:       h.step,
		Seq:        int64(len(h.result.Trace) + 1),
		Type:       ev.Type.String(),
		Pedalboard: ev.Pedalboard.Name,
		Bank:       ev.Origin.Name,
		Index:      ev.Index,
		Token:      string(ev.Token),
	})
}

func (h *Harness) captureFinalState() {
	for _, b := range h.registry.Banks() {
		state := BankState{Name: b.Name, Pedalboards: []string{}}
		for _, p := range b.Pedalboards() {
			state.Pedalboards = append(state.Pedalboards, p.Name)
		}
		h.result.Banks = append(h.result.Banks, state)
	}
	h.result.Current = h.currentState()
}

func (h *Harness) currentState() CurrentState {
	state := CurrentState{
		BankNumber:       h.cursor.BankNumber(),
		PedalboardNumber: h.cursor.PedalboardNumber(),
	}
	if p := h.cursor.Pedalboard(); p != nil {
		state.Pedalboard = p.Name
		if b := p.Bank(); b != nil {
			state.Bank = b.Name
		}
	}
	return state
}
