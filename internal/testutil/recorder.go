package testutil

import (
	"slices"

	"github.com/roach88/pedalboard/internal/notify"
)

// Recorder is an observer that keeps every event it receives, in order.
type Recorder struct {
	events []notify.UpdateEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnPedalboardUpdated implements notify.Observer.
func (r *Recorder) OnPedalboardUpdated(ev notify.UpdateEvent) {
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []notify.UpdateEvent {
	return slices.Clone(r.events)
}

// Count returns how many events were recorded.
func (r *Recorder) Count() int {
	return len(r.events)
}

// Last returns the most recent event; ok is false when nothing was recorded.
func (r *Recorder) Last() (ev notify.UpdateEvent, ok bool) {
	if len(r.events) == 0 {
		return notify.UpdateEvent{}, false
	}
	return r.events[len(r.events)-1], true
}

// Reset forgets every recorded event.
func (r *Recorder) Reset() {
	r.events = nil
}
