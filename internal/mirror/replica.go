package mirror

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/pedalboard/internal/model"
	"github.com/roach88/pedalboard/internal/notify"
)

// Entry is one replicated pedalboard.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BankView is the replicated content of one bank.
type BankView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Pedalboards []Entry `json:"pedalboards"`
}

// Replica is an announcement-driven copy of every bank it has heard about.
// Banks are kept in first-seen order.
type Replica struct {
	banks  map[string]*BankView
	order  []string
	errs   []error
	logger *slog.Logger
}

// Option configures a Replica.
type Option func(*Replica)

// WithLogger sets the logger used to report inconsistent events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Replica) {
		r.logger = l
	}
}

// New creates an empty replica.
func New(opts ...Option) *Replica {
	r := &Replica{
		banks:  make(map[string]*BankView),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Seed copies the current contents of every registered bank.
// Used when the replica starts observing a graph that already has content.
func (r *Replica) Seed(registry *model.Registry) {
	for _, b := range registry.Banks() {
		view := r.bank(b.ID, b.Name)
		view.Pedalboards = view.Pedalboards[:0]
		for _, p := range b.Pedalboards() {
			view.Pedalboards = append(view.Pedalboards, Entry{ID: p.ID, Name: p.Name})
		}
	}
}

// OnPedalboardUpdated implements notify.Observer.
// An event that cannot be applied is logged and kept in Errors.
func (r *Replica) OnPedalboardUpdated(ev notify.UpdateEvent) {
	if ev.Pedalboard == nil || ev.Origin == nil {
		r.fail(fmt.Errorf("%s event without pedalboard or origin", ev.Type))
		return
	}
	err := r.Apply(ev.Origin.ID, ev.Origin.Name, ev.Type, ev.Index, Entry{ID: ev.Pedalboard.ID, Name: ev.Pedalboard.Name})
	if err != nil {
		r.fail(err)
	}
}

// Apply applies one announcement to the bank identified by bankID.
func (r *Replica) Apply(bankID, bankName string, typ notify.UpdateType, index int, e Entry) error {
	view := r.bank(bankID, bankName)
	n := len(view.Pedalboards)

	switch typ {
	case notify.Created:
		if index < 0 || index > n {
			return fmt.Errorf("CREATED %s at %d: bank %q has %d pedalboards", e.Name, index, bankName, n)
		}
		view.Pedalboards = slices.Insert(view.Pedalboards, index, e)
	case notify.Updated:
		if index < 0 || index >= n {
			return fmt.Errorf("UPDATED %s at %d: bank %q has %d pedalboards", e.Name, index, bankName, n)
		}
		view.Pedalboards[index] = e
	case notify.Deleted:
		if index < 0 || index >= n {
			return fmt.Errorf("DELETED %s at %d: bank %q has %d pedalboards", e.Name, index, bankName, n)
		}
		if got := view.Pedalboards[index].ID; got != e.ID {
			return fmt.Errorf("DELETED %s at %d: slot holds %s", e.Name, index, got)
		}
		view.Pedalboards = slices.Delete(view.Pedalboards, index, index+1)
	default:
		return fmt.Errorf("unknown update type %d", int(typ))
	}
	return nil
}

// Bank returns a copy of the replicated bank, or false if the replica has
// never heard of it.
func (r *Replica) Bank(id string) (BankView, bool) {
	view, ok := r.banks[id]
	if !ok {
		return BankView{}, false
	}
	out := *view
	out.Pedalboards = slices.Clone(view.Pedalboards)
	return out, true
}

// Banks returns copies of every replicated bank in first-seen order.
func (r *Replica) Banks() []BankView {
	out := make([]BankView, 0, len(r.order))
	for _, id := range r.order {
		view, _ := r.Bank(id)
		out = append(out, view)
	}
	return out
}

// Errors returns the events that could not be applied.
func (r *Replica) Errors() []error {
	return slices.Clone(r.errs)
}

// Diff compares the replica with every registered bank.
// Banks the replica knows but the registry no longer holds are ignored.
// Returns nil when they agree.
func (r *Replica) Diff(registry *model.Registry) error {
	for _, b := range registry.Banks() {
		var got []Entry
		if view, ok := r.banks[b.ID]; ok {
			got = view.Pedalboards
		}
		want := make([]Entry, 0, b.Len())
		for _, p := range b.Pedalboards() {
			want = append(want, Entry{ID: p.ID, Name: p.Name})
		}
		if !slices.Equal(got, want) {
			return fmt.Errorf("bank %q: replica has %s, registry has %s", b.Name, names(got), names(want))
		}
	}
	return nil
}

func (r *Replica) bank(id, name string) *BankView {
	view, ok := r.banks[id]
	if !ok {
		view = &BankView{ID: id, Name: name, Pedalboards: []Entry{}}
		r.banks[id] = view
		r.order = append(r.order, id)
	}
	view.Name = name
	return view
}

func (r *Replica) fail(err error) {
	r.errs = append(r.errs, err)
	r.logger.Error("replica out of sync", "error", err)
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
