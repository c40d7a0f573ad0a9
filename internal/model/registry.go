package model

import "slices"

// Registry holds the ordered set of registered banks.
// Registration order defines each bank's index.
type Registry struct {
	banks []*Bank
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends b, giving it the next index.
// A bank registered elsewhere is moved to this registry; registering a bank
// twice is a no-op. Returns the bank's index.
func (r *Registry) Register(b *Bank) int {
	if b.registry == r {
		return r.IndexOf(b)
	}
	if b.registry != nil {
		b.registry.Unregister(b)
	}
	r.banks = append(r.banks, b)
	b.registry = r
	return len(r.banks) - 1
}

// Unregister removes b and returns the index it held, or -1 when b was not
// registered here. Later banks shift down by one.
func (r *Registry) Unregister(b *Bank) int {
	i := r.IndexOf(b)
	if i < 0 {
		return -1
	}
	r.banks[i] = nil
	r.banks = slices.Delete(r.banks, i, i+1)
	b.registry = nil
	return i
}

// Banks returns a copy of the registered banks in order.
func (r *Registry) Banks() []*Bank {
	return slices.Clone(r.banks)
}

// IndexOf returns b's current index, or -1.
func (r *Registry) IndexOf(b *Bank) int {
	return slices.Index(r.banks, b)
}

// Contains reports whether b is currently registered here.
func (r *Registry) Contains(b *Bank) bool {
	return b != nil && b.registry == r
}

// At returns the bank at index i, or nil when i is out of range.
func (r *Registry) At(i int) *Bank {
	if i < 0 || i >= len(r.banks) {
		return nil
	}
	return r.banks[i]
}

// Len returns the number of registered banks.
func (r *Registry) Len() int {
	return len(r.banks)
}

// Lookup returns the first registered bank named name, or nil.
func (r *Registry) Lookup(name string) *Bank {
	for _, b := range r.banks {
		if b.Name == name {
			return b
		}
	}
	return nil
}
