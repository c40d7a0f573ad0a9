package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(b *Bank) []string {
	out := make([]string, 0, b.Len())
	for _, p := range b.Pedalboards() {
		out = append(out, p.Name)
	}
	return out
}

func TestPedalboard_Unowned(t *testing.T) {
	p := NewPedalboard("Clean")

	assert.Nil(t, p.Bank())
	assert.Equal(t, -1, p.Index())
	assert.NotEmpty(t, p.ID)
}

func TestPedalboard_IDsAreUnique(t *testing.T) {
	a := NewPedalboard("A")
	b := NewPedalboard("A")

	assert.NotEqual(t, a.ID, b.ID)
}

func TestBank_AppendSetsOwnerAndIndex(t *testing.T) {
	b := NewBank("Live")
	p1 := NewPedalboard("one")
	p2 := NewPedalboard("two")

	b.Append(p1)
	b.Append(p2)

	assert.Same(t, b, p1.Bank())
	assert.Same(t, b, p2.Bank())
	assert.Equal(t, 0, p1.Index())
	assert.Equal(t, 1, p2.Index())
	assert.Equal(t, 2, b.Len())
}

func TestBank_InsertShiftsLaterElements(t *testing.T) {
	b := NewBank("Live")
	a, c := NewPedalboard("A"), NewPedalboard("C")
	b.Append(a)
	b.Append(c)

	x := NewPedalboard("X")
	b.Insert(1, x)

	assert.Equal(t, []string{"A", "X", "C"}, names(b))
	assert.Equal(t, 2, c.Index())
}

func TestBank_InsertClampsIndex(t *testing.T) {
	b := NewBank("Live")
	b.Append(NewPedalboard("A"))

	b.Insert(99, NewPedalboard("Z"))
	b.Insert(-5, NewPedalboard("F"))

	assert.Equal(t, []string{"F", "A", "Z"}, names(b))
}

func TestBank_InsertSamePedalboardMovesIt(t *testing.T) {
	b := NewBank("Live")
	a, c, d := NewPedalboard("A"), NewPedalboard("C"), NewPedalboard("D")
	b.Append(a)
	b.Append(c)
	b.Append(d)

	b.Insert(0, d)

	assert.Equal(t, []string{"D", "A", "C"}, names(b))
	assert.Equal(t, 3, b.Len())
}

func TestBank_AppendDetachesFromPreviousOwner(t *testing.T) {
	first := NewBank("first")
	second := NewBank("second")
	p := NewPedalboard("P")
	first.Append(p)

	second.Append(p)

	assert.Equal(t, 0, first.Len())
	assert.Same(t, second, p.Bank())
}

func TestBank_Remove(t *testing.T) {
	b := NewBank("Live")
	a, c := NewPedalboard("A"), NewPedalboard("C")
	b.Append(a)
	b.Append(c)

	idx := b.Remove(a)

	assert.Equal(t, 0, idx)
	assert.Nil(t, a.Bank())
	assert.Equal(t, -1, a.Index())
	assert.Equal(t, 0, c.Index())
}

func TestBank_RemoveMissingReturnsMinusOne(t *testing.T) {
	b := NewBank("Live")

	assert.Equal(t, -1, b.Remove(NewPedalboard("ghost")))
}

func TestBank_SetSubstitutes(t *testing.T) {
	b := NewBank("Live")
	a, c := NewPedalboard("A"), NewPedalboard("C")
	b.Append(a)
	b.Append(c)

	n := NewPedalboard("N")
	old := b.Set(0, n)

	assert.Same(t, a, old)
	assert.Nil(t, a.Bank())
	assert.Same(t, b, n.Bank())
	assert.Equal(t, []string{"N", "C"}, names(b))
}

func TestBank_SetWithMemberOfSameBank(t *testing.T) {
	b := NewBank("Live")
	a, c, d := NewPedalboard("A"), NewPedalboard("C"), NewPedalboard("D")
	b.Append(a)
	b.Append(c)
	b.Append(d)

	old := b.Set(2, a)

	assert.Same(t, d, old)
	assert.Equal(t, []string{"C", "A"}, names(b))
}

func TestBank_AtOutOfRange(t *testing.T) {
	b := NewBank("Live")
	b.Append(NewPedalboard("A"))

	assert.Nil(t, b.At(-1))
	assert.Nil(t, b.At(1))
	assert.Equal(t, "A", b.At(0).Name)
}

func TestBank_PedalboardsReturnsCopy(t *testing.T) {
	b := NewBank("Live")
	b.Append(NewPedalboard("A"))

	list := b.Pedalboards()
	list[0] = nil

	assert.NotNil(t, b.At(0))
}

func TestBank_Lookup(t *testing.T) {
	b := NewBank("Live")
	a := NewPedalboard("A")
	b.Append(a)

	assert.Same(t, a, b.Lookup("A"))
	assert.Nil(t, b.Lookup("missing"))
}

func TestRegistry_RegisterAssignsIndexByAppendOrder(t *testing.T) {
	r := NewRegistry()
	b1, b2 := NewBank("one"), NewBank("two")

	assert.Equal(t, 0, r.Register(b1))
	assert.Equal(t, 1, r.Register(b2))
	assert.Equal(t, 1, b2.Index())
	assert.True(t, r.Contains(b1))
	assert.Same(t, r, b1.Registry())
}

func TestRegistry_RegisterTwiceIsNoop(t *testing.T) {
	r := NewRegistry()
	b := NewBank("one")
	r.Register(b)

	assert.Equal(t, 0, r.Register(b))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_UnregisterShiftsLaterBanks(t *testing.T) {
	r := NewRegistry()
	b1, b2, b3 := NewBank("one"), NewBank("two"), NewBank("three")
	r.Register(b1)
	r.Register(b2)
	r.Register(b3)

	require.Equal(t, 1, r.Unregister(b2))

	assert.False(t, r.Contains(b2))
	assert.Equal(t, -1, b2.Index())
	assert.Equal(t, 1, b3.Index())
	assert.Equal(t, -1, r.Unregister(b2))
}

func TestRegistry_RegisterMovesBetweenRegistries(t *testing.T) {
	r1, r2 := NewRegistry(), NewRegistry()
	b := NewBank("one")
	r1.Register(b)

	r2.Register(b)

	assert.False(t, r1.Contains(b))
	assert.True(t, r2.Contains(b))
	assert.Equal(t, 0, r1.Len())
}

func TestRegistry_ContainsNil(t *testing.T) {
	assert.False(t, NewRegistry().Contains(nil))
}

func TestRegistry_AtAndLookup(t *testing.T) {
	r := NewRegistry()
	b := NewBank("one")
	r.Register(b)

	assert.Same(t, b, r.At(0))
	assert.Nil(t, r.At(1))
	assert.Same(t, b, r.Lookup("one"))
	assert.Nil(t, r.Lookup("two"))
}
