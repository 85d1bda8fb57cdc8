// Package core implements the tools shared by the services of the runtime.
//
// Documentation Last Review: 16.10.2026
//
package core

import (
	"sync"

	"go.dedis.ch/confidential/core/execution"
)

// Observer is the interface to implement to watch the executed commands.
type Observer interface {
	NotifyCallback(event execution.Event)
}

// Observable provides primitives to add and remove observers and to notify
// them of new events.
type Observable interface {
	// Add adds the observer to the list of observers that will be notified of
	// new events.
	Add(observer Observer)

	// Remove removes the observer from the list thus stopping it from receiving
	// new events.
	Remove(observer Observer)

	// Notify notifies the observers of a new event.
	Notify(event execution.Event)
}

// Watcher is an implementation of the Observable interface. Observers are
// notified in the order they were added.
//
// - implements core.Observable
type Watcher struct {
	sync.RWMutex

	observers []Observer
}

// NewWatcher creates a new empty watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Add implements core.Observable. Adding the same observer twice has no
// effect.
func (w *Watcher) Add(observer Observer) {
	w.Lock()
	defer w.Unlock()

	if w.indexOf(observer) >= 0 {
		return
	}

	w.observers = append(w.observers, observer)
}

// Remove implements core.Observable.
func (w *Watcher) Remove(observer Observer) {
	w.Lock()
	defer w.Unlock()

	i := w.indexOf(observer)
	if i < 0 {
		return
	}

	w.observers = append(w.observers[:i], w.observers[i+1:]...)
}

// Notify implements core.Observable. The observers are called one after the
// other in the caller's goroutine.
func (w *Watcher) Notify(event execution.Event) {
	w.RLock()
	observers := append([]Observer(nil), w.observers...)
	w.RUnlock()

	for _, obs := range observers {
		obs.NotifyCallback(event)
	}
}

// Len returns the number of observers.
func (w *Watcher) Len() int {
	w.RLock()
	defer w.RUnlock()

	return len(w.observers)
}

func (w *Watcher) indexOf(observer Observer) int {
	for i, obs := range w.observers {
		if obs == observer {
			return i
		}
	}

	return -1
}
