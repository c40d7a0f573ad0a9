package controller

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pedalboard/internal/current"
	"github.com/roach88/pedalboard/internal/model"
	"github.com/roach88/pedalboard/internal/notify"
	"github.com/roach88/pedalboard/internal/testutil"
)

const patchToken notify.Token = "PATCH_TOKEN"

type fixture struct {
	registry    *model.Registry
	bus         *notify.Bus
	cursor      *current.Cursor
	pedalboards *Pedalboards
	banks       *Banks
	observer    *testutil.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry := model.NewRegistry()
	bus := notify.NewBus()
	cursor := current.New(registry, current.WithLogger(logger))
	observer := testutil.NewRecorder()
	bus.Register(observer)

	return &fixture{
		registry:    registry,
		bus:         bus,
		cursor:      cursor,
		pedalboards: NewPedalboards(registry, bus, cursor, WithLogger(logger), WithTokenGenerator(NewSequenceGenerator("tok"))),
		banks:       NewBanks(registry, cursor, WithLogger(logger)),
		observer:    observer,
	}
}

// registeredBank creates and registers a bank holding pedalboards named names.
func (f *fixture) registeredBank(t *testing.T, name string, names ...string) *model.Bank {
	t.Helper()
	b := model.NewBank(name)
	for _, n := range names {
		b.Append(model.NewPedalboard(n))
	}
	require.NoError(t, f.banks.Create(b))
	return b
}

func event(p *model.Pedalboard, typ notify.UpdateType, token notify.Token, index int, origin *model.Bank) notify.UpdateEvent {
	return notify.UpdateEvent{Pedalboard: p, Type: typ, Token: token, Index: index, Origin: origin}
}

func boardNames(b *model.Bank) []string {
	var out []string
	for _, p := range b.Pedalboards() {
		out = append(out, p.Name)
	}
	return out
}

func TestPedalboards_Created(t *testing.T) {
	f := newFixture(t)
	bank := model.NewBank("bank")
	p1 := model.NewPedalboard("test_create_pedalboard")
	p2 := model.NewPedalboard("test_create_pedalboard2")
	bank.Append(p1)
	require.NoError(t, f.banks.Create(bank))

	require.NoError(t, f.pedalboards.Created(p1, notify.NoToken))
	last, _ := f.observer.Last()
	assert.Equal(t, event(p1, notify.Created, notify.NoToken, 0, bank), last)

	bank.Append(p2)
	require.NoError(t, f.pedalboards.Created(p2, patchToken))
	last, _ = f.observer.Last()
	assert.Equal(t, event(p2, notify.Created, patchToken, 1, bank), last)

	assert.Equal(t, 2, f.observer.Count())
}

func TestPedalboards_CreatedWithUnregisteredBank(t *testing.T) {
	f := newFixture(t)
	bank := model.NewBank("bank")
	p := model.NewPedalboard("p")
	bank.Append(p)

	err := f.pedalboards.Created(p, notify.NoToken)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidStructure))
	assert.Equal(t, ErrCodeBankUnregistered, CodeOf(err))
	assert.Equal(t, 0, f.observer.Count())
}

func TestPedalboards_CreatedWithoutBank(t *testing.T) {
	f := newFixture(t)
	p := model.NewPedalboard("orphan")

	err := f.pedalboards.Created(p, patchToken)

	require.Error(t, err)
	assert.Equal(t, ErrCodeBankUnset, CodeOf(err))
	assert.Equal(t, 0, f.observer.Count())
}

func TestPedalboards_Update(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank")
	p := model.NewPedalboard("test_update_pedalboard")
	bank.Append(p)
	require.NoError(t, f.pedalboards.Created(p, notify.NoToken))

	p.Name = "test_update_pedalboard2"
	require.NoError(t, f.pedalboards.Update(p, notify.NoToken))
	last, _ := f.observer.Last()
	assert.Equal(t, event(p, notify.Updated, notify.NoToken, 0, bank), last)

	p.Name = "test_update_pedalboard3"
	require.NoError(t, f.pedalboards.Update(p, patchToken))
	last, _ = f.observer.Last()
	assert.Equal(t, event(p, notify.Updated, patchToken, 0, bank), last)
}

func TestPedalboards_UpdateWithUnregisteredBank(t *testing.T) {
	f := newFixture(t)
	bank := model.NewBank("bank")
	p := model.NewPedalboard("p")
	bank.Append(p)

	err := f.pedalboards.Update(p, notify.NoToken)

	assert.True(t, IsStructuralError(err))
	assert.Equal(t, 0, f.observer.Count())
}

func TestPedalboards_UpdateCurrent(t *testing.T) {
	f := newFixture(t)
	f.registeredBank(t, "other", "x")
	bank := f.registeredBank(t, "bank")
	p := model.NewPedalboard("test_update_current_pedalboard")
	bank.Append(p)
	require.NoError(t, f.pedalboards.Created(p, notify.NoToken))
	f.cursor.Set(p)

	p.Name = "test_update_current_pedalboard2"
	require.NoError(t, f.pedalboards.Update(p, notify.NoToken))

	assert.Same(t, p, f.cursor.Pedalboard())
	assert.Same(t, bank, f.cursor.Bank())
	assert.Equal(t, p.Index(), f.cursor.PedalboardNumber())
	assert.Equal(t, f.registry.IndexOf(bank), f.cursor.BankNumber())
	assert.Equal(t, 1, f.cursor.BankNumber())

	p.Name = "test_update_current_pedalboard3"
	require.NoError(t, f.pedalboards.Update(p, patchToken))
	last, _ := f.observer.Last()
	assert.Equal(t, event(p, notify.Updated, patchToken, 0, bank), last)
	assert.Equal(t, "test_update_current_pedalboard3", f.cursor.Pedalboard().Name)
}

func TestPedalboards_Replace(t *testing.T) {
	f := newFixture(t)
	bank := model.NewBank("bank")
	p1 := model.NewPedalboard("test_replace")
	p2 := model.NewPedalboard("test_replace2")
	p3 := model.NewPedalboard("test_replace3")
	bank.Append(p1)
	require.NoError(t, f.banks.Create(bank))

	require.NoError(t, f.pedalboards.Replace(p1, p2, notify.NoToken))
	last, _ := f.observer.Last()
	assert.Equal(t, event(p2, notify.Updated, notify.NoToken, 0, bank), last)

	require.NoError(t, f.pedalboards.Replace(p2, p3, patchToken))
	last, _ = f.observer.Last()
	assert.Equal(t, event(p3, notify.Updated, patchToken, 0, bank), last)

	assert.Equal(t, 2, f.observer.Count())
	assert.Equal(t, []string{"test_replace3"}, boardNames(bank))
	assert.Nil(t, p1.Bank())
	assert.Nil(t, p2.Bank())
}

func TestPedalboards_ReplaceKeepsPosition(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B", "C")
	n := model.NewPedalboard("N")

	require.NoError(t, f.pedalboards.Replace(bank.At(1), n, notify.NoToken))

	assert.Equal(t, []string{"A", "N", "C"}, boardNames(bank))
	last, _ := f.observer.Last()
	assert.Equal(t, 1, last.Index)
}

func TestPedalboards_ReplaceErrors(t *testing.T) {
	f := newFixture(t)
	bank := model.NewBank("bank")
	p := model.NewPedalboard("test_replace")
	p2 := model.NewPedalboard("test_replace2")
	bank.Append(p2)
	require.NoError(t, f.banks.Create(bank))

	// old is not in any bank
	err := f.pedalboards.Replace(p, p2, notify.NoToken)
	require.Error(t, err)
	assert.Equal(t, ErrCodeBankUnset, CodeOf(err))
	assert.Equal(t, 0, f.observer.Count())

	// new is already in old's bank
	bank.Append(p)
	err = f.pedalboards.Replace(p, p2, notify.NoToken)
	require.Error(t, err)
	assert.Equal(t, ErrCodeAlreadyInBank, CodeOf(err))
	assert.Equal(t, 0, f.observer.Count())
	assert.Equal(t, []string{"test_replace2", "test_replace"}, boardNames(bank))
}

func TestPedalboards_ReplaceWithPedalboardOwnedElsewhere(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A")
	other := f.registeredBank(t, "other", "O")

	err := f.pedalboards.Replace(bank.At(0), other.At(0), notify.NoToken)

	assert.Equal(t, ErrCodeOwnedElsewhere, CodeOf(err))
	assert.Equal(t, []string{"A"}, boardNames(bank))
	assert.Equal(t, []string{"O"}, boardNames(other))
	assert.Equal(t, 0, f.observer.Count())
}

func TestPedalboards_ReplaceNil(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A")

	err := f.pedalboards.Replace(bank.At(0), nil, notify.NoToken)

	assert.True(t, IsStructuralError(err))
	assert.Equal(t, 0, f.observer.Count())
}

func TestPedalboards_ReplaceCurrentSwapsSelection(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B")
	old := bank.At(1)
	f.cursor.Set(old)
	n := model.NewPedalboard("N")

	require.NoError(t, f.pedalboards.Replace(old, n, notify.NoToken))

	assert.Same(t, n, f.cursor.Pedalboard())
	assert.Equal(t, 1, f.cursor.PedalboardNumber())
}

func TestPedalboards_ReplaceNonCurrentLeavesSelection(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B")
	a := bank.At(0)
	f.cursor.Set(a)

	require.NoError(t, f.pedalboards.Replace(bank.At(1), model.NewPedalboard("N"), notify.NoToken))

	assert.Same(t, a, f.cursor.Pedalboard())
}

func TestPedalboards_Delete(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank")
	p1 := model.NewPedalboard("test_delete_pedalboard")
	p2 := model.NewPedalboard("test_delete_pedalboard2")
	bank.Append(p1)
	bank.Append(p2)
	require.NoError(t, f.pedalboards.Created(p1, notify.NoToken))
	require.NoError(t, f.pedalboards.Created(p2, notify.NoToken))

	require.NoError(t, f.pedalboards.Delete(p1, notify.NoToken))
	last, _ := f.observer.Last()
	assert.Equal(t, event(p1, notify.Deleted, notify.NoToken, 0, bank), last)

	require.NoError(t, f.pedalboards.Delete(p2, patchToken))
	last, _ = f.observer.Last()
	assert.Equal(t, event(p2, notify.Deleted, patchToken, 0, bank), last)

	assert.Equal(t, 0, bank.Len())
	assert.Nil(t, p1.Bank())
	assert.Equal(t, 4, f.observer.Count())
}

func TestPedalboards_DeleteReportsPreRemovalIndex(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B", "C")

	require.NoError(t, f.pedalboards.Delete(bank.At(2), notify.NoToken))

	last, _ := f.observer.Last()
	assert.Equal(t, 2, last.Index)
	assert.Equal(t, "C", last.Pedalboard.Name)
}

func TestPedalboards_DeleteWithUnregisteredBank(t *testing.T) {
	f := newFixture(t)
	bank := model.NewBank("bank")
	p := model.NewPedalboard("p")
	bank.Append(p)

	err := f.pedalboards.Delete(p, notify.NoToken)

	assert.True(t, errors.Is(err, ErrInvalidStructure))
	assert.Equal(t, 0, f.observer.Count())
	assert.Same(t, bank, p.Bank(), "failed delete must not detach")
}

func TestPedalboards_DeleteCurrent(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank")
	p1 := model.NewPedalboard("test_delete_pedalboard")
	p2 := model.NewPedalboard("test_delete_pedalboard2")
	bank.Append(p1)
	bank.Append(p2)
	require.NoError(t, f.pedalboards.Created(p1, notify.NoToken))
	require.NoError(t, f.pedalboards.Created(p2, notify.NoToken))
	f.cursor.Set(p1)

	require.NoError(t, f.pedalboards.Delete(p1, notify.NoToken))

	assert.Same(t, p2, f.cursor.Pedalboard())
	assert.Same(t, p2.Bank(), f.cursor.Bank())
	assert.Equal(t, p2.Index(), f.cursor.PedalboardNumber())
	assert.Equal(t, f.registry.IndexOf(p2.Bank()), f.cursor.BankNumber())
}

func TestPedalboards_DeleteCurrentRepairsAfterNotifying(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "X")
	a := bank.At(0)
	f.cursor.Set(a)

	var seenCurrent *model.Pedalboard
	f.bus.Register(notify.ObserverFunc(func(notify.UpdateEvent) {
		seenCurrent = f.cursor.Pedalboard()
	}))

	require.NoError(t, f.pedalboards.Delete(a, notify.NoToken))

	assert.Same(t, a, seenCurrent, "observers run before the cursor is repaired")
	assert.Equal(t, "X", f.cursor.Pedalboard().Name)
	assert.Equal(t, 0, f.cursor.PedalboardNumber())
	assert.Equal(t, 1, f.observer.Count())
}

func TestPedalboards_DeleteLastPedalboardOfCurrentBank(t *testing.T) {
	f := newFixture(t)
	other := f.registeredBank(t, "other", "O")
	bank := f.registeredBank(t, "solo", "S")
	f.cursor.Set(bank.At(0))

	require.NoError(t, f.pedalboards.Delete(bank.At(0), notify.NoToken))

	assert.Same(t, other.At(0), f.cursor.Pedalboard())
}

func TestPedalboards_DeleteNonCurrentLeavesSelection(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B", "C")
	c := bank.At(2)
	f.cursor.Set(c)

	require.NoError(t, f.pedalboards.Delete(bank.At(0), notify.NoToken))

	assert.Same(t, c, f.cursor.Pedalboard())
	assert.Equal(t, 1, f.cursor.PedalboardNumber())
}

func TestPedalboards_Move(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "Pedalboard 1", "Pedalboard 2", "Pedalboard 3", "Pedalboard 4")
	moved := bank.At(3)

	require.NoError(t, f.pedalboards.Move(moved, 1, notify.NoToken))

	assert.Same(t, moved, bank.At(1))
	assert.Equal(t, []notify.UpdateEvent{
		event(moved, notify.Deleted, notify.NoToken, 3, bank),
		event(moved, notify.Created, notify.NoToken, 1, bank),
	}, f.observer.Events())

	f.observer.Reset()
	require.NoError(t, f.pedalboards.Move(moved, 3, patchToken))

	assert.Same(t, moved, bank.At(3))
	assert.Equal(t, []notify.UpdateEvent{
		event(moved, notify.Deleted, patchToken, 1, bank),
		event(moved, notify.Created, patchToken, 3, bank),
	}, f.observer.Events())
}

func TestPedalboards_MoveShiftsIntermediateElements(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "B", "A", "C", "D", "E")

	require.NoError(t, f.pedalboards.Move(bank.At(3), 1, notify.NoToken))
	assert.Equal(t, []string{"A", "E", "C", "D"}, boardNames(bank))

	require.NoError(t, f.pedalboards.Move(bank.At(0), 3, notify.NoToken))
	assert.Equal(t, []string{"E", "C", "D", "A"}, boardNames(bank))
}

func TestPedalboards_MoveToSameIndex(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B")

	require.NoError(t, f.pedalboards.Move(bank.At(1), 1, notify.NoToken))

	assert.Equal(t, []string{"A", "B"}, boardNames(bank))
	assert.Equal(t, 2, f.observer.Count())
}

func TestPedalboards_MoveCompletesBeforeNotifying(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B", "C", "D")
	moved := bank.At(3)

	var snapshots [][]string
	f.bus.Register(notify.ObserverFunc(func(notify.UpdateEvent) {
		snapshots = append(snapshots, boardNames(bank))
	}))

	require.NoError(t, f.pedalboards.Move(moved, 1, notify.NoToken))

	want := []string{"A", "D", "B", "C"}
	assert.Equal(t, [][]string{want, want}, snapshots)
}

func TestPedalboards_MoveOutOfRange(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B")

	for _, idx := range []int{-1, 2, 10} {
		err := f.pedalboards.Move(bank.At(0), idx, patchToken)
		assert.Equal(t, ErrCodeIndexOutOfRange, CodeOf(err), "index %d", idx)
	}
	assert.Equal(t, []string{"A", "B"}, boardNames(bank))
	assert.Equal(t, 0, f.observer.Count())
}

func TestPedalboards_MoveWithUnregisteredBank(t *testing.T) {
	f := newFixture(t)
	bank := model.NewBank("bank")
	bank.Append(model.NewPedalboard("A"))
	bank.Append(model.NewPedalboard("B"))

	err := f.pedalboards.Move(bank.At(1), 0, notify.NoToken)

	assert.Equal(t, ErrCodeBankUnregistered, CodeOf(err))
	assert.Equal(t, []string{"A", "B"}, boardNames(bank))
	assert.Equal(t, 0, f.observer.Count())
}

func TestPedalboards_MoveCurrent(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "Pedalboard 1", "Pedalboard 2", "Pedalboard 3", "Pedalboard 4")
	moved := bank.At(3)
	f.cursor.Set(moved)

	assert.Equal(t, bank.Index(), f.cursor.BankNumber())
	assert.Equal(t, 3, f.cursor.PedalboardNumber())

	require.NoError(t, f.pedalboards.Move(moved, 1, notify.NoToken))

	assert.Equal(t, bank.Index(), f.cursor.BankNumber())
	assert.Equal(t, 1, f.cursor.PedalboardNumber())
	assert.Same(t, moved, f.cursor.Pedalboard())
}

func TestPedalboards_NilPedalboard(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, ErrCodeBankUnset, CodeOf(f.pedalboards.Created(nil, notify.NoToken)))
	assert.Equal(t, ErrCodeBankUnset, CodeOf(f.pedalboards.Update(nil, notify.NoToken)))
	assert.Equal(t, ErrCodeBankUnset, CodeOf(f.pedalboards.Delete(nil, notify.NoToken)))
	assert.Equal(t, ErrCodeBankUnset, CodeOf(f.pedalboards.Move(nil, 0, notify.NoToken)))
	assert.Equal(t, 0, f.observer.Count())
}

func TestPedalboards_TokenPropagatesToEveryEvent(t *testing.T) {
	f := newFixture(t)
	bank := f.registeredBank(t, "bank", "A", "B", "C")
	token := f.pedalboards.NewToken()
	require.Equal(t, notify.Token("tok-1"), token)

	require.NoError(t, f.pedalboards.Created(bank.At(0), token))
	require.NoError(t, f.pedalboards.Update(bank.At(1), token))
	require.NoError(t, f.pedalboards.Move(bank.At(2), 0, token))
	require.NoError(t, f.pedalboards.Replace(bank.At(1), model.NewPedalboard("N"), token))
	require.NoError(t, f.pedalboards.Delete(bank.At(0), token))

	require.Equal(t, 6, f.observer.Count())
	for _, ev := range f.observer.Events() {
		assert.Equal(t, token, ev.Token)
	}
}

func TestPedalboards_EveryObserverReceivesEachEvent(t *testing.T) {
	f := newFixture(t)
	second := testutil.NewRecorder()
	h := f.bus.Register(second)
	bank := f.registeredBank(t, "bank", "A")

	require.NoError(t, f.pedalboards.Created(bank.At(0), notify.NoToken))
	f.bus.Unregister(h)
	require.NoError(t, f.pedalboards.Update(bank.At(0), notify.NoToken))

	assert.Equal(t, 2, f.observer.Count())
	assert.Equal(t, 1, second.Count())
}
