// Package arena provides append-only element storage addressed by typed
// handles.
//
// A Handle is a small, copyable reference into the Arena that issued it.
// Because arenas only ever grow, a handle obtained from Append stays valid
// for the lifetime of the arena, and a handle can depend only on elements
// appended before it. Validation code relies on that ordering guarantee.
package arena

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// Handle is a typed reference to an element in an Arena of T.
//
// The underlying value is a 1-based ordinal. The zero value is invalid and
// means "no handle". Handles carry no pointer to their arena; they are only
// meaningful together with the arena that issued them.
type Handle[T any] uint32

// Ordinal returns the 1-based position of the element in its arena.
func (h Handle[T]) Ordinal() uint32 {
	return uint32(h)
}

// Index returns the 0-based slice index of the element. The result is -1
// for the zero handle.
func (h Handle[T]) Index() int {
	return int(h) - 1
}

// IsValid reports whether h is a real handle rather than the zero sentinel.
func (h Handle[T]) IsValid() bool {
	return h != 0
}

// String formats the handle for debugging as "[ordinal]".
func (h Handle[T]) String() string {
	return fmt.Sprintf("[%d]", uint32(h))
}

// Span is a half-open byte range into the source text a module was built
// from. Spans are diagnostic metadata only; they never affect element
// identity or validation outcomes.
type Span struct {
	Start uint32
	End   uint32
}

// IsDefined reports whether the span carries a real range.
func (s Span) IsDefined() bool {
	return s != Span{}
}

// Arena is an append-only container whose elements are addressed by typed
// handles instead of pointers. The zero value is an empty arena ready to
// use.
type Arena[T any] struct {
	data  []T
	spans []Span
}

// Of builds an arena holding the given values in order.
func Of[T any](values ...T) Arena[T] {
	var a Arena[T]
	for _, v := range values {
		a.Append(v)
	}
	return a
}

// Append adds value to the arena and returns its handle.
func (a *Arena[T]) Append(value T) Handle[T] {
	return a.AppendWithSpan(value, Span{})
}

// AppendWithSpan adds value together with its source span and returns its
// handle.
func (a *Arena[T]) AppendWithSpan(value T, span Span) Handle[T] {
	a.data = append(a.data, value)
	a.spans = append(a.spans, span)
	ordinal, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena element count overflow: %w", err))
	}
	return Handle[T](ordinal)
}

// Len returns the number of elements appended so far.
func (a *Arena[T]) Len() int {
	return len(a.data)
}

// Get returns the element h refers to. It panics if h does not belong to
// this arena, matching slice indexing behavior. Use TryGet when the handle
// comes from untrusted input.
func (a *Arena[T]) Get(h Handle[T]) *T {
	return &a.data[h.Index()]
}

// TryGet returns the element h refers to, or a *BadHandle error.
func (a *Arena[T]) TryGet(h Handle[T]) (*T, error) {
	if !a.Contains(h) {
		return nil, badHandle(h)
	}
	return &a.data[h.Index()], nil
}

// Contains reports whether h refers to an element of this arena. It runs in
// constant time.
func (a *Arena[T]) Contains(h Handle[T]) bool {
	return h != 0 && h.Index() < len(a.data)
}

// CheckContains returns nil when h refers to an element of this arena, and
// a *BadHandle error otherwise.
func (a *Arena[T]) CheckContains(h Handle[T]) error {
	if a.Contains(h) {
		return nil
	}
	return badHandle(h)
}

// GetSpan returns the span recorded for h, or the zero Span when h is
// unknown or was appended without one.
func (a *Arena[T]) GetSpan(h Handle[T]) Span {
	if !a.Contains(h) {
		return Span{}
	}
	return a.spans[h.Index()]
}

// Iter yields each element together with its handle in insertion order.
func (a *Arena[T]) Iter() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		for i := range a.data {
			if !yield(Handle[T](uint32(i)+1), &a.data[i]) {
				return
			}
		}
	}
}

// BadHandle reports a handle dereferenced against an arena it does not
// belong to, either because the ordinal is out of range or because it is
// the zero sentinel.
type BadHandle struct {
	// Kind names the element type of the arena the handle was checked
	// against.
	Kind string
	// Ordinal is the 1-based ordinal the offending handle carried.
	Ordinal uint32
}

func (e *BadHandle) Error() string {
	return fmt.Sprintf("handle %d of %s is either not present, or inaccessible yet", e.Ordinal, e.Kind)
}

func badHandle[T any](h Handle[T]) *BadHandle {
	var zero T
	return &BadHandle{Kind: fmt.Sprintf("%T", zero), Ordinal: h.Ordinal()}
}
