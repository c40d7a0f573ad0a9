package notify

import "slices"

// Observer receives pedalboard change announcements.
type Observer interface {
	OnPedalboardUpdated(ev UpdateEvent)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ev UpdateEvent)

// OnPedalboardUpdated calls f(ev).
func (f ObserverFunc) OnPedalboardUpdated(ev UpdateEvent) {
	f(ev)
}

// Handle identifies one registration on a Bus.
// The zero Handle never identifies a registration.
type Handle uint64

type subscriber struct {
	handle   Handle
	observer Observer
}

// Bus is the observer registry and synchronous fan-out.
//
// Thread-safety: Bus is not safe for concurrent use. Mutations and their
// announcements are serialized by the caller.
type Bus struct {
	subs []subscriber
	next Handle
}

// NewBus creates a bus with no observers.
func NewBus() *Bus {
	return &Bus{}
}

// Register adds o and returns a handle for Unregister.
// The same observer may be registered more than once; each registration
// receives every event.
func (b *Bus) Register(o Observer) Handle {
	b.next++
	b.subs = append(b.subs, subscriber{handle: b.next, observer: o})
	return b.next
}

// Unregister removes the registration identified by h.
// Returns false when h is unknown (already removed, or never issued).
func (b *Bus) Unregister(h Handle) bool {
	i := slices.IndexFunc(b.subs, func(s subscriber) bool { return s.handle == h })
	if i < 0 {
		return false
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	return true
}

// Publish hands ev to every registered observer, in registration order,
// before returning.
func (b *Bus) Publish(ev UpdateEvent) {
	for _, s := range b.subs {
		s.observer.OnPedalboardUpdated(ev)
	}
}

// Len returns the number of registrations.
func (b *Bus) Len() int {
	return len(b.subs)
}
