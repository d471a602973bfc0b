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

// Package hashmap implements Map, a hash table with separate chaining.
//
// Buckets are chain.Chain values held in a seq.Sequence. A key lives in
// bucket hash(key) % Buckets(). Each entry caches the hash computed on
// insertion so that Resize never calls the hash function again.
//
// The table never resizes on its own. MaxChainLen reports the longest
// bucket seen since the last Resize so callers can decide when to call
// Resize themselves.
//
// # Ownership
//
// The map owns its keys and values. Remove hands the value back to the
// caller; Delete, Destroy and the replace path of Insert run the release
// hooks. When Insert finds an existing key, the stored key is kept and the
// key passed by the caller is released.
package hashmap

import (
	"fmt"
	"iter"

	"dirpx.dev/dxdoc/dxcore/container/chain"
	"dirpx.dev/dxdoc/dxcore/container/seq"
	"dirpx.dev/dxdoc/dxcore/errors"
	"dirpx.dev/dxdoc/dxcore/model"
	"dirpx.dev/rxmerr"
	"github.com/cespare/xxhash/v2"
)

const typeName = "Map"

// HashFunc maps a key to its 64-bit hash.
type HashFunc[K any] func(K) uint64

// EqualFunc reports whether two keys denote the same logical key.
type EqualFunc[K any] func(a, b K) bool

type entry[K, V any] struct {
	hash  uint64
	key   K
	value V
}

// Map is a separately chained hash table from K to V.
//
// The zero value is not usable; construct maps with New or NewString.
type Map[K, V any] struct {
	length       int
	bucketCount  int
	maxChainLen  int
	buckets      *seq.Sequence[*chain.Chain[*entry[K, V]]]
	hash         HashFunc[K]
	equal        EqualFunc[K]
	keyRelease   func(K)
	valueRelease func(V)
}

// Option configures a Map at construction time.
type Option[K, V any] func(*Map[K, V])

// WithKeyRelease installs the hook run on keys the map drops.
func WithKeyRelease[K, V any](release func(K)) Option[K, V] {
	return func(m *Map[K, V]) {
		m.keyRelease = release
	}
}

// WithValueRelease installs the hook run on values the map drops.
func WithValueRelease[K, V any](release func(V)) Option[K, V] {
	return func(m *Map[K, V]) {
		m.valueRelease = release
	}
}

// New returns an empty map with the given number of buckets. A bucket count
// below 1 is coerced to 1. hash and equal are required.
func New[K, V any](buckets int, hash HashFunc[K], equal EqualFunc[K], opts ...Option[K, V]) (*Map[K, V], error) {
	if hash == nil {
		return nil, &errors.NullInputError{Type: typeName, Op: "hash"}
	}
	if equal == nil {
		return nil, &errors.NullInputError{Type: typeName, Op: "equal"}
	}
	m := &Map[K, V]{hash: hash, equal: equal}
	for _, opt := range opts {
		opt(m)
	}
	b, n, err := newBuckets[K, V](buckets)
	if err != nil {
		return nil, err
	}
	m.buckets, m.bucketCount = b, n
	return m, nil
}

// HashString is the xxhash64 digest of s.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// EqualString reports whether a == b.
func EqualString(a, b string) bool {
	return a == b
}

// NewString returns a map keyed by strings, hashed with xxhash64.
func NewString[V any](buckets int, opts ...Option[string, V]) (*Map[string, V], error) {
	return New[string, V](buckets, HashString, EqualString, opts...)
}

func newBuckets[K, V any](n int) (*seq.Sequence[*chain.Chain[*entry[K, V]]], int, error) {
	if n < 1 {
		n = 1
	}
	b, err := seq.New[*chain.Chain[*entry[K, V]]](n)
	if err != nil {
		return nil, 0, err
	}
	for i := 0; i < n; i++ {
		if err := b.Push(chain.New[*entry[K, V]]()); err != nil {
			return nil, 0, err
		}
	}
	return b, n, nil
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return m.length
}

// Buckets returns the current bucket count.
func (m *Map[K, V]) Buckets() int {
	if m == nil {
		return 0
	}
	return m.bucketCount
}

// MaxChainLen returns the longest bucket observed since construction or the
// last Resize. Removals do not lower it.
func (m *Map[K, V]) MaxChainLen() int {
	if m == nil {
		return 0
	}
	return m.maxChainLen
}

func (m *Map[K, V]) bucketFor(h uint64) *chain.Chain[*entry[K, V]] {
	b, _ := m.buckets.Get(int(h % uint64(m.bucketCount)))
	return b
}

// lookup returns the bucket for key, the position of the matching entry and
// the entry itself. The cached hash is compared before calling equal.
func (m *Map[K, V]) lookup(key K) (uint64, *chain.Chain[*entry[K, V]], int, *entry[K, V]) {
	h := m.hash(key)
	b := m.bucketFor(h)
	for i, e := range b.All() {
		if e.hash == h && m.equal(e.key, key) {
			return h, b, i, e
		}
	}
	return h, b, -1, nil
}

// Insert stores value under key.
//
// When key is already present the stored key is kept, the key argument is
// passed to the key release hook, the old value is released and value takes
// its place; Len does not change. Otherwise a new entry is appended to the
// bucket and Len grows by one.
func (m *Map[K, V]) Insert(key K, value V) error {
	if m == nil {
		return &errors.NullInputError{Type: typeName, Op: "Insert"}
	}
	h, b, _, e := m.lookup(key)
	if e != nil {
		if m.keyRelease != nil {
			m.keyRelease(key)
		}
		if m.valueRelease != nil {
			m.valueRelease(e.value)
		}
		e.value = value
		return nil
	}
	if err := b.PushBack(&entry[K, V]{hash: h, key: key, value: value}); err != nil {
		return err
	}
	m.length++
	m.maxChainLen = max(m.maxChainLen, b.Len())
	return nil
}

// Remove deletes the entry for key and returns its value. Ownership of the
// value moves to the caller; the stored key is released.
func (m *Map[K, V]) Remove(key K) (V, error) {
	var zero V
	if m == nil {
		return zero, &errors.NullInputError{Type: typeName, Op: "Remove"}
	}
	_, b, idx, e := m.lookup(key)
	if e == nil {
		return zero, &errors.IndexError{Type: typeName, Index: -1, Length: m.length, Key: key}
	}
	if _, err := b.RemoveAt(idx); err != nil {
		return zero, err
	}
	m.length--
	if m.keyRelease != nil {
		m.keyRelease(e.key)
	}
	return e.value, nil
}

// Delete removes the entry for key, releasing both key and value.
func (m *Map[K, V]) Delete(key K) error {
	value, err := m.Remove(key)
	if err != nil {
		return err
	}
	if m.valueRelease != nil {
		m.valueRelease(value)
	}
	return nil
}

// Get returns the value stored under key. The map keeps ownership.
func (m *Map[K, V]) Get(key K) (V, error) {
	var zero V
	if m == nil {
		return zero, &errors.NullInputError{Type: typeName, Op: "Get"}
	}
	_, _, _, e := m.lookup(key)
	if e == nil {
		return zero, &errors.IndexError{Type: typeName, Index: -1, Length: m.length, Key: key}
	}
	return e.value, nil
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	if m == nil {
		return false
	}
	_, _, _, e := m.lookup(key)
	return e != nil
}

// Resize rebuilds the table with n buckets (coerced to at least 1).
//
// Entries are drained from each old bucket front to back and appended to
// bucket cachedHash % n of the new table. MaxChainLen is recomputed from the
// new layout. The map switches to the new table only after every old bucket
// has been drained.
func (m *Map[K, V]) Resize(n int) error {
	if m == nil {
		return &errors.NullInputError{Type: typeName, Op: "Resize"}
	}
	next, count, err := newBuckets[K, V](n)
	if err != nil {
		return err
	}

	longest := 0
	for old := range m.buckets.Values() {
		for old.Len() > 0 {
			e, err := old.PopFront()
			if err != nil {
				return err
			}
			dst, _ := next.Get(int(e.hash % uint64(count)))
			if err := dst.PushBack(e); err != nil {
				return err
			}
			longest = max(longest, dst.Len())
		}
	}

	m.buckets.Destroy()
	m.buckets, m.bucketCount, m.maxChainLen = next, count, longest
	return nil
}

// All yields key/value pairs bucket by bucket, in chain order within each
// bucket. The map must not be mutated during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for b := range m.buckets.Values() {
			for e := range b.Values() {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}

// Keys yields the stored keys in the same order as All.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Destroy releases every key and value and leaves the map empty with its
// bucket count unchanged.
func (m *Map[K, V]) Destroy() {
	if m == nil {
		return
	}
	for b := range m.buckets.Values() {
		for e := range b.Values() {
			if m.keyRelease != nil {
				m.keyRelease(e.key)
			}
			if m.valueRelease != nil {
				m.valueRelease(e.value)
			}
		}
		b.Destroy()
	}
	m.length = 0
	m.maxChainLen = 0
}

// Validate checks the table invariants: bucket count matches the bucket
// sequence, every entry sits in the bucket selected by its cached hash,
// Len equals the number of entries and MaxChainLen is at least the longest
// bucket.
func (m *Map[K, V]) Validate() error {
	if m == nil {
		return &errors.NullInputError{Type: typeName, Op: "Validate"}
	}
	c := rxmerr.NewCollector()
	if m.bucketCount < 1 || m.buckets.Len() != m.bucketCount {
		c.Append(&errors.ValidationError{Type: typeName, Field: "Buckets", Reason: "bucket count does not match bucket sequence", Value: m.bucketCount})
		return c.Err()
	}

	total, longest := 0, 0
	for i, b := range m.buckets.All() {
		if err := b.Validate(); err != nil {
			c.Append(fmt.Errorf("bucket %d: %w", i, err))
		}
		for e := range b.Values() {
			if want := int(e.hash % uint64(m.bucketCount)); want != i {
				c.Append(&errors.ValidationError{Type: typeName, Field: "entry", Reason: fmt.Sprintf("entry in bucket %d belongs in bucket %d", i, want)})
			}
		}
		total += b.Len()
		longest = max(longest, b.Len())
	}
	if total != m.length {
		c.Append(&errors.ValidationError{Type: typeName, Field: "Len", Reason: "does not match bucket total", Value: m.length})
	}
	if longest > m.maxChainLen {
		c.Append(&errors.ValidationError{Type: typeName, Field: "MaxChainLen", Reason: "below longest bucket", Value: m.maxChainLen})
	}
	return c.Err()
}

// TypeName returns "Map".
func (m *Map[K, V]) TypeName() string {
	return typeName
}

// String returns a short summary of the table shape.
func (m *Map[K, V]) String() string {
	return fmt.Sprintf("Map{len=%d buckets=%d maxchain=%d}", m.Len(), m.Buckets(), m.MaxChainLen())
}

// Redacted is identical to String; the summary holds no keys or values.
func (m *Map[K, V]) Redacted() string {
	return m.String()
}

var _ model.Container = (*Map[string, int])(nil)
