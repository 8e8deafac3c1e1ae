// Package handle implements ownership of engine objects.
//
// An Owner carries the single release obligation of one engine object. The
// wrapped value obtained from Get is a non-owning view: it has no release
// and must not be used after the owner is released. Views handed out by the
// engine itself (the actors of a scene, say) are plain values and never
// Owners.
//
// Engine objects come in two ownership models and an Owner always states
// which one it uses. Unique objects are destroyed by their release call.
// Shared objects keep an engine-side reference count: every Owner holds one
// reference and its release drops exactly that one.
package handle

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

var (
	ErrReleased = errors.New("handle: object already released")
	ErrUnique   = errors.New("handle: uniquely owned object cannot be cloned")
	ErrNotOwned = errors.New("handle: ownership was relinquished")
)

type State int32

const (
	Unowned State = iota
	Owned
	Released
)

func (s State) String() string {
	switch s {
	case Unowned:
		return "unowned"
	case Owned:
		return "owned"
	case Released:
		return "released"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

type Policy int

const (
	// Unique objects have exactly one owner; releasing it destroys them.
	Unique Policy = iota
	// Shared objects are reference counted by the engine.
	Shared
)

func (p Policy) String() string {
	if p == Shared {
		return "shared"
	}
	return "unique"
}

// Object is a wrapper around a raw engine pointer.
type Object interface {
	Ptr() unsafe.Pointer
}

// Owner owns one engine object. Release, Clone and Into may be called
// concurrently; the release function still runs once and a clone never
// acquires a reference after release.
type Owner[T Object] struct {
	obj    T
	policy Policy
	// mu orders state transitions against Clone's acquire.
	mu      sync.Mutex
	state   atomic.Int32
	release func(unsafe.Pointer)
	acquire func(unsafe.Pointer)
	wrap    func(unsafe.Pointer) T
}

// FromRaw takes unique ownership of ptr. A nil ptr yields no owner and
// release is never called. The caller guarantees ptr points at an object
// of the type wrap produces and that nobody else releases it.
func FromRaw[T Object](ptr unsafe.Pointer, wrap func(unsafe.Pointer) T, release func(unsafe.Pointer)) (*Owner[T], bool) {
	if ptr == nil {
		return nil, false
	}
	o := &Owner[T]{obj: wrap(ptr), policy: Unique, release: release, wrap: wrap}
	o.state.Store(int32(Owned))
	return o, true
}

// FromRawShared takes ownership of one reference of a reference counted
// object. acquire adds a reference and is used by Clone.
func FromRawShared[T Object](ptr unsafe.Pointer, wrap func(unsafe.Pointer) T, release, acquire func(unsafe.Pointer)) (*Owner[T], bool) {
	if ptr == nil {
		return nil, false
	}
	o := &Owner[T]{obj: wrap(ptr), policy: Shared, release: release, acquire: acquire, wrap: wrap}
	o.state.Store(int32(Owned))
	return o, true
}

func (o *Owner[T]) State() State {
	return State(o.state.Load())
}

func (o *Owner[T]) Policy() Policy {
	return o.policy
}

// Get returns a view of the owned object. It panics once the owner is
// released or relinquished: a view must not outlive its owner.
func (o *Owner[T]) Get() T {
	switch o.State() {
	case Released:
		panic(ErrReleased)
	case Unowned:
		panic(ErrNotOwned)
	}
	return o.obj
}

// Release discharges the release obligation. Only the first call releases;
// later calls return ErrReleased.
func (o *Owner[T]) Release() error {
	o.mu.Lock()
	swapped := o.state.CompareAndSwap(int32(Owned), int32(Released))
	o.mu.Unlock()
	if !swapped {
		if o.State() == Unowned {
			return ErrNotOwned
		}
		return ErrReleased
	}
	o.release(o.obj.Ptr())
	return nil
}

// Clone returns an independent owner of a shared object, holding a
// reference of its own.
func (o *Owner[T]) Clone() (*Owner[T], error) {
	if o.policy != Shared {
		return nil, ErrUnique
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.State() {
	case Released:
		return nil, ErrReleased
	case Unowned:
		return nil, ErrNotOwned
	}
	ptr := o.obj.Ptr()
	o.acquire(ptr)
	c, _ := FromRawShared(ptr, o.wrap, o.release, o.acquire)
	return c, nil
}

// Into relinquishes ownership without releasing, for objects whose
// lifetime the engine takes over. The owner becomes unusable.
func (o *Owner[T]) Into() (T, error) {
	var zero T
	o.mu.Lock()
	swapped := o.state.CompareAndSwap(int32(Owned), int32(Unowned))
	o.mu.Unlock()
	if !swapped {
		if o.State() == Unowned {
			return zero, ErrNotOwned
		}
		return zero, ErrReleased
	}
	return o.obj, nil
}
