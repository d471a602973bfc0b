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

// Package chain implements Chain, a doubly linked container that owns its
// elements. Chain backs the buckets of hashmap.Map and is usable on its own.
//
// Head and tail operations are O(1); positional operations walk from the
// nearer end. Ownership follows the same rules as seq.Sequence: RemoveAt and
// the Pop methods return the value to the caller, DeleteAt, Set and Destroy
// run the release hook.
package chain

import (
	"fmt"
	"iter"

	"dirpx.dev/dxdoc/dxcore/errors"
	"dirpx.dev/dxdoc/dxcore/model"
	"dirpx.dev/rxmerr"
)

const typeName = "Chain"

type node[T any] struct {
	prev, next *node[T]
	value      T
}

// Chain is a doubly linked sequence of owned values.
//
// The zero value is an empty chain with no release hook and no length limit.
type Chain[T any] struct {
	length     int
	head, tail *node[T]
	release    func(T)
	maxLen     int
}

// Option configures a Chain at construction time.
type Option[T any] func(*Chain[T])

// WithRelease installs the hook run on every value the chain drops.
func WithRelease[T any](release func(T)) Option[T] {
	return func(c *Chain[T]) {
		c.release = release
	}
}

// WithMaxLength bounds the number of nodes. Insertions past max fail with
// *errors.AllocationError. Zero or a negative value means unbounded.
func WithMaxLength[T any](max int) Option[T] {
	return func(c *Chain[T]) {
		c.maxLen = max
	}
}

// New returns an empty chain.
func New[T any](opts ...Option[T]) *Chain[T] {
	c := &Chain[T]{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len returns the number of nodes.
func (c *Chain[T]) Len() int {
	if c == nil {
		return 0
	}
	return c.length
}

// nodeAt returns the node at idx, which must be in range.
func (c *Chain[T]) nodeAt(idx int) *node[T] {
	if idx < c.length/2 {
		n := c.head
		for i := 0; i < idx; i++ {
			n = n.next
		}
		return n
	}
	n := c.tail
	for i := c.length - 1; i > idx; i-- {
		n = n.prev
	}
	return n
}

// InsertAt links value so that it ends up at position idx. idx == 0 makes it
// the new head and idx == Len the new tail.
func (c *Chain[T]) InsertAt(idx int, value T) error {
	if c == nil {
		return &errors.NullInputError{Type: typeName, Op: "InsertAt"}
	}
	if idx < 0 || idx > c.length {
		return &errors.IndexError{Type: typeName, Index: idx, Length: c.length}
	}
	if c.maxLen > 0 && c.length >= c.maxLen {
		return &errors.AllocationError{Type: typeName, Requested: c.length + 1, Limit: c.maxLen}
	}

	n := &node[T]{value: value}
	switch {
	case c.length == 0:
		c.head, c.tail = n, n
	case idx == 0:
		n.next = c.head
		c.head.prev = n
		c.head = n
	case idx == c.length:
		n.prev = c.tail
		c.tail.next = n
		c.tail = n
	default:
		at := c.nodeAt(idx)
		n.prev, n.next = at.prev, at
		at.prev.next = n
		at.prev = n
	}
	c.length++
	return nil
}

// PushFront inserts value at the head.
func (c *Chain[T]) PushFront(value T) error {
	return c.InsertAt(0, value)
}

// PushBack inserts value at the tail.
func (c *Chain[T]) PushBack(value T) error {
	if c == nil {
		return &errors.NullInputError{Type: typeName, Op: "PushBack"}
	}
	return c.InsertAt(c.length, value)
}

// RemoveAt unlinks the node at idx and returns its value. Ownership moves to
// the caller.
func (c *Chain[T]) RemoveAt(idx int) (T, error) {
	var zero T
	if c == nil {
		return zero, &errors.NullInputError{Type: typeName, Op: "RemoveAt"}
	}
	if idx < 0 || idx >= c.length {
		return zero, &errors.IndexError{Type: typeName, Index: idx, Length: c.length}
	}
	n := c.nodeAt(idx)
	c.unlink(n)
	return n.value, nil
}

func (c *Chain[T]) unlink(n *node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
	c.length--
}

// PopFront removes and returns the head value.
func (c *Chain[T]) PopFront() (T, error) {
	return c.RemoveAt(0)
}

// PopBack removes and returns the tail value.
func (c *Chain[T]) PopBack() (T, error) {
	if c == nil {
		var zero T
		return zero, &errors.NullInputError{Type: typeName, Op: "PopBack"}
	}
	return c.RemoveAt(c.length - 1)
}

// DeleteAt unlinks the node at idx and runs the release hook on its value.
func (c *Chain[T]) DeleteAt(idx int) error {
	value, err := c.RemoveAt(idx)
	if err != nil {
		return err
	}
	c.drop(value)
	return nil
}

// Get returns the value at idx. The chain keeps ownership.
func (c *Chain[T]) Get(idx int) (T, error) {
	var zero T
	if c == nil {
		return zero, &errors.NullInputError{Type: typeName, Op: "Get"}
	}
	if idx < 0 || idx >= c.length {
		return zero, &errors.IndexError{Type: typeName, Index: idx, Length: c.length}
	}
	return c.nodeAt(idx).value, nil
}

// Front returns the head value.
func (c *Chain[T]) Front() (T, error) {
	return c.Get(0)
}

// Back returns the tail value.
func (c *Chain[T]) Back() (T, error) {
	return c.Get(c.Len() - 1)
}

// Set replaces the value at idx, releasing the previous one.
func (c *Chain[T]) Set(idx int, value T) error {
	if c == nil {
		return &errors.NullInputError{Type: typeName, Op: "Set"}
	}
	if idx < 0 || idx >= c.length {
		return &errors.IndexError{Type: typeName, Index: idx, Length: c.length}
	}
	n := c.nodeAt(idx)
	c.drop(n.value)
	n.value = value
	return nil
}

// Find returns the index of the first value equal to value according to eq.
// The boolean reports whether a match was found.
func (c *Chain[T]) Find(value T, eq func(a, b T) bool) (int, bool) {
	if eq == nil {
		return -1, false
	}
	return c.IndexFunc(func(v T) bool { return eq(v, value) })
}

// IndexFunc returns the index of the first value satisfying pred.
func (c *Chain[T]) IndexFunc(pred func(T) bool) (int, bool) {
	if c == nil || pred == nil {
		return -1, false
	}
	i := 0
	for n := c.head; n != nil; n = n.next {
		if pred(n.value) {
			return i, true
		}
		i++
	}
	return -1, false
}

// All yields index/value pairs from head to tail.
func (c *Chain[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if c == nil {
			return
		}
		i := 0
		for n := c.head; n != nil; n = n.next {
			if !yield(i, n.value) {
				return
			}
			i++
		}
	}
}

// Backward yields index/value pairs from tail to head.
func (c *Chain[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if c == nil {
			return
		}
		i := c.length - 1
		for n := c.tail; n != nil; n = n.prev {
			if !yield(i, n.value) {
				return
			}
			i--
		}
	}
}

// Values yields values from head to tail.
func (c *Chain[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range c.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Destroy releases every value and empties the chain.
func (c *Chain[T]) Destroy() {
	if c == nil {
		return
	}
	for n := c.head; n != nil; {
		next := n.next
		c.drop(n.value)
		n.prev, n.next = nil, nil
		n = next
	}
	c.head, c.tail = nil, nil
	c.length = 0
}

func (c *Chain[T]) drop(value T) {
	if c.release != nil {
		c.release(value)
	}
}

// Validate checks the link invariants: head and tail are nil exactly when
// the chain is empty, forward and backward walks visit Len nodes, and every
// prev pointer mirrors the corresponding next pointer.
func (c *Chain[T]) Validate() error {
	if c == nil {
		return &errors.NullInputError{Type: typeName, Op: "Validate"}
	}
	col := rxmerr.NewCollector()
	if (c.head == nil) != (c.length == 0) || (c.tail == nil) != (c.length == 0) {
		col.Append(&errors.ValidationError{Type: typeName, Field: "Len", Reason: "head/tail disagree with length", Value: c.length})
	}

	forward := 0
	var last *node[T]
	for n := c.head; n != nil && forward <= c.length; n = n.next {
		if n.prev != last {
			col.Append(&errors.ValidationError{Type: typeName, Field: "prev", Reason: fmt.Sprintf("broken back link at %d", forward)})
		}
		last = n
		forward++
	}
	if forward != c.length {
		col.Append(&errors.ValidationError{Type: typeName, Field: "next", Reason: "forward walk does not match length", Value: forward})
	}
	if last != c.tail {
		col.Append(&errors.ValidationError{Type: typeName, Field: "tail", Reason: "forward walk does not end at tail"})
	}

	backward := 0
	for n := c.tail; n != nil && backward <= c.length; n = n.prev {
		backward++
	}
	if backward != c.length {
		col.Append(&errors.ValidationError{Type: typeName, Field: "prev", Reason: "backward walk does not match length", Value: backward})
	}
	if c.maxLen > 0 && c.length > c.maxLen {
		col.Append(&errors.ValidationError{Type: typeName, Field: "Len", Reason: "length exceeds limit", Value: c.length})
	}
	return col.Err()
}

// TypeName returns "Chain".
func (c *Chain[T]) TypeName() string {
	return typeName
}

// String returns a short summary of the chain.
func (c *Chain[T]) String() string {
	return fmt.Sprintf("Chain{len=%d}", c.Len())
}

// Redacted is identical to String.
func (c *Chain[T]) Redacted() string {
	return c.String()
}

var _ model.Container = (*Chain[int])(nil)
