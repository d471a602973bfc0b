/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package seq implements Sequence, a growable array-backed container that
// owns its elements.
//
// A Sequence tracks an explicit capacity. When an insertion finds the
// sequence full, the capacity doubles; it never shrinks. Removal operations
// come in two flavours: RemoveAt and Pop hand ownership of the value back to
// the caller, while DeleteAt runs the release hook configured with
// WithRelease. Set and Destroy also run the hook on the values they drop.
//
// Sequence is not safe for concurrent use.
package seq

import (
	"fmt"
	"iter"

	"dirpx.dev/dxdoc/dxcore/errors"
	"dirpx.dev/dxdoc/dxcore/model"
	"dirpx.dev/rxmerr"
)

const typeName = "Sequence"

// Sequence is an ordered, index-addressable container of owned values.
//
// The zero value is not usable; construct sequences with New.
type Sequence[T any] struct {
	length  int
	elems   []T // len(elems) is the capacity
	release func(T)
	maxCap  int
}

// Option configures a Sequence at construction time.
type Option[T any] func(*Sequence[T])

// WithRelease installs the hook run on every value the sequence drops:
// values replaced by Set, removed by DeleteAt, and every live value on
// Destroy.
func WithRelease[T any](release func(T)) Option[T] {
	return func(s *Sequence[T]) {
		s.release = release
	}
}

// WithMaxCapacity bounds the backing store. Growth past max fails with
// *errors.AllocationError and leaves the sequence unchanged. Zero or a
// negative value means unbounded.
func WithMaxCapacity[T any](max int) Option[T] {
	return func(s *Sequence[T]) {
		s.maxCap = max
	}
}

// New returns an empty sequence with the given initial capacity.
//
// The capacity must be at least 1, otherwise New returns a
// *errors.ResizeError: doubling a zero capacity would never make progress.
func New[T any](capacity int, opts ...Option[T]) (*Sequence[T], error) {
	if capacity < 1 {
		return nil, &errors.ResizeError{Type: typeName, Current: 0, Requested: capacity}
	}
	s := &Sequence[T]{}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxCap > 0 && capacity > s.maxCap {
		return nil, &errors.AllocationError{Type: typeName, Requested: capacity, Limit: s.maxCap}
	}
	s.elems = make([]T, capacity)
	return s, nil
}

// Len returns the number of live elements.
func (s *Sequence[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.length
}

// Cap returns the current capacity.
func (s *Sequence[T]) Cap() int {
	if s == nil {
		return 0
	}
	return len(s.elems)
}

// Grow raises the capacity to exactly capacity.
//
// It fails with *errors.ResizeError when capacity is not larger than Cap and
// with *errors.AllocationError when it exceeds the configured maximum.
func (s *Sequence[T]) Grow(capacity int) error {
	if s == nil {
		return &errors.NullInputError{Type: typeName, Op: "Grow"}
	}
	if capacity <= len(s.elems) {
		return &errors.ResizeError{Type: typeName, Current: len(s.elems), Requested: capacity}
	}
	if s.maxCap > 0 && capacity > s.maxCap {
		return &errors.AllocationError{Type: typeName, Requested: capacity, Limit: s.maxCap}
	}
	elems := make([]T, capacity)
	copy(elems, s.elems[:s.length])
	s.elems = elems
	return nil
}

// InsertAt places value at idx and shifts the elements at [idx, Len) one slot
// right. idx may equal Len, which appends. A full sequence doubles its
// capacity first; a sequence with no capacity grows to one slot.
func (s *Sequence[T]) InsertAt(idx int, value T) error {
	if s == nil {
		return &errors.NullInputError{Type: typeName, Op: "InsertAt"}
	}
	if idx < 0 || idx > s.length {
		return &errors.IndexError{Type: typeName, Index: idx, Length: s.length}
	}
	if s.length == len(s.elems) {
		if err := s.Grow(max(len(s.elems)*2, 1)); err != nil {
			return err
		}
	}
	copy(s.elems[idx+1:s.length+1], s.elems[idx:s.length])
	s.elems[idx] = value
	s.length++
	return nil
}

// Push appends value.
func (s *Sequence[T]) Push(value T) error {
	if s == nil {
		return &errors.NullInputError{Type: typeName, Op: "Push"}
	}
	return s.InsertAt(s.length, value)
}

// RemoveAt removes the element at idx and returns it. Ownership moves to the
// caller; the release hook does not run.
func (s *Sequence[T]) RemoveAt(idx int) (T, error) {
	var zero T
	if s == nil {
		return zero, &errors.NullInputError{Type: typeName, Op: "RemoveAt"}
	}
	if idx < 0 || idx >= s.length {
		return zero, &errors.IndexError{Type: typeName, Index: idx, Length: s.length}
	}
	value := s.elems[idx]
	copy(s.elems[idx:s.length-1], s.elems[idx+1:s.length])
	s.length--
	s.elems[s.length] = zero
	return value, nil
}

// Pop removes and returns the last element.
func (s *Sequence[T]) Pop() (T, error) {
	if s == nil {
		var zero T
		return zero, &errors.NullInputError{Type: typeName, Op: "Pop"}
	}
	return s.RemoveAt(s.length - 1)
}

// DeleteAt removes the element at idx and runs the release hook on it.
func (s *Sequence[T]) DeleteAt(idx int) error {
	value, err := s.RemoveAt(idx)
	if err != nil {
		return err
	}
	s.drop(value)
	return nil
}

// Get returns the element at idx. The sequence keeps ownership.
func (s *Sequence[T]) Get(idx int) (T, error) {
	var zero T
	if s == nil {
		return zero, &errors.NullInputError{Type: typeName, Op: "Get"}
	}
	if idx < 0 || idx >= s.length {
		return zero, &errors.IndexError{Type: typeName, Index: idx, Length: s.length}
	}
	return s.elems[idx], nil
}

// Set replaces the element at idx, releasing the previous occupant.
func (s *Sequence[T]) Set(idx int, value T) error {
	if s == nil {
		return &errors.NullInputError{Type: typeName, Op: "Set"}
	}
	if idx < 0 || idx >= s.length {
		return &errors.IndexError{Type: typeName, Index: idx, Length: s.length}
	}
	s.drop(s.elems[idx])
	s.elems[idx] = value
	return nil
}

// Find returns the index of the first element equal to value according to
// eq. The boolean is false when no element matches.
func (s *Sequence[T]) Find(value T, eq func(a, b T) bool) (int, bool) {
	if eq == nil {
		return -1, false
	}
	return s.IndexFunc(func(v T) bool { return eq(v, value) })
}

// IndexFunc returns the index of the first element satisfying pred.
func (s *Sequence[T]) IndexFunc(pred func(T) bool) (int, bool) {
	if s == nil || pred == nil {
		return -1, false
	}
	for i := 0; i < s.length; i++ {
		if pred(s.elems[i]) {
			return i, true
		}
	}
	return -1, false
}

// All yields index/value pairs in order. The sequence must not be mutated
// during iteration.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.Len(); i++ {
			if !yield(i, s.elems[i]) {
				return
			}
		}
	}
}

// Values yields the values in order.
func (s *Sequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < s.Len(); i++ {
			if !yield(s.elems[i]) {
				return
			}
		}
	}
}

// Slice returns a copy of the live elements.
func (s *Sequence[T]) Slice() []T {
	out := make([]T, s.Len())
	if s != nil {
		copy(out, s.elems[:s.length])
	}
	return out
}

// Destroy releases every live element and drops the backing store. The
// sequence is empty with zero capacity afterwards and may be reused.
func (s *Sequence[T]) Destroy() {
	if s == nil {
		return
	}
	for i := 0; i < s.length; i++ {
		s.drop(s.elems[i])
	}
	s.elems = nil
	s.length = 0
}

func (s *Sequence[T]) drop(value T) {
	if s.release != nil {
		s.release(value)
	}
}

// Validate checks the length/capacity invariants.
func (s *Sequence[T]) Validate() error {
	if s == nil {
		return &errors.NullInputError{Type: typeName, Op: "Validate"}
	}
	c := rxmerr.NewCollector()
	if s.length < 0 {
		c.Append(&errors.ValidationError{Type: typeName, Field: "Len", Reason: "negative length", Value: s.length})
	}
	if s.length > len(s.elems) {
		c.Append(&errors.ValidationError{Type: typeName, Field: "Len", Reason: "length exceeds capacity", Value: s.length})
	}
	if s.maxCap > 0 && len(s.elems) > s.maxCap {
		c.Append(&errors.ValidationError{Type: typeName, Field: "Cap", Reason: "capacity exceeds limit", Value: len(s.elems)})
	}
	return c.Err()
}

// TypeName returns "Sequence".
func (s *Sequence[T]) TypeName() string {
	return typeName
}

// String returns a short summary of the sequence shape.
func (s *Sequence[T]) String() string {
	return fmt.Sprintf("Sequence{len=%d cap=%d}", s.Len(), s.Cap())
}

// Redacted is identical to String; the summary holds no element data.
func (s *Sequence[T]) Redacted() string {
	return s.String()
}

var _ model.Container = (*Sequence[int])(nil)
