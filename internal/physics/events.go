package physics

import "github.com/go-gl/mathgl/mgl64"

// ListenerID identifies a listener registered on an Event.
type ListenerID uint64

// Event is a multi-cast event: every registered listener is called, in
// registration order, each time the event fires.
type Event[T any] struct {
	listeners []listener[T]
	nextID    ListenerID
}

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// AddListener adds a callback to be invoked when the event fires
func (e *Event[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener removes the listener registered under id
func (e *Event[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllListeners clears all listeners
func (e *Event[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls all registered listeners
func (e *Event[T]) Invoke(arg T) {
	for _, l := range e.listeners {
		l.fn(arg)
	}
}

// ListenerCount returns the number of registered listeners
func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}

// ContactEvent reports a pair of bodies that started or stopped touching.
// Geometry fields are only filled for ContactBegan.
type ContactEvent struct {
	A, B   Handle
	Point  mgl64.Vec2
	Normal mgl64.Vec2
	Depth  float64
	// Speed is how fast the bodies approached along the normal.
	Speed float64
}

type pairKey struct {
	a, b Handle
}
