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

// Package jsondoc implements an owned JSON document tree and a strict
// recursive-descent parser for it.
//
// A Document is a tagged value of one of six kinds. Arrays are backed by a
// seq.Sequence and objects by a hashmap.Map keyed with xxhash64, so the
// document tree reuses the owning containers of this module: releasing a
// Document releases every child exactly once.
//
// Documents serialize to compact JSON with sorted object keys and to YAML
// through yaml.v3 nodes.
//
// Documents are not safe for concurrent mutation.
package jsondoc

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"dirpx.dev/dxdoc/dxcore/container/hashmap"
	"dirpx.dev/dxdoc/dxcore/container/seq"
	"dirpx.dev/dxdoc/dxcore/errors"
	"dirpx.dev/dxdoc/dxcore/model"
	"dirpx.dev/rxmerr"
)

const typeName = "Document"

// Document is a single JSON value and everything it owns.
//
// The zero value is a Null document.
type Document struct {
	kind Kind
	flag bool
	num  float64
	text string
	arr  *seq.Sequence[*Document]
	obj  *hashmap.Map[string, *Document]
}

var (
	_ model.Model                 = (*Document)(nil)
	_ model.Comparable[*Document] = (*Document)(nil)
	_ model.Cloneable[*Document]  = (*Document)(nil)
)

// Allocation observers, nil outside tests.
var (
	onNew     func(*Document)
	onRelease func(*Document)
)

func newDocument(k Kind) *Document {
	d := &Document{kind: k}
	if onNew != nil {
		onNew(d)
	}
	return d
}

// NewNull returns a Null document.
func NewNull() *Document {
	return newDocument(Null)
}

// NewBool returns a Boolean document.
func NewBool(v bool) *Document {
	d := newDocument(Boolean)
	d.flag = v
	return d
}

// NewNumber returns a Number document. Non-finite values are accepted here
// but fail Validate and MarshalJSON.
func NewNumber(v float64) *Document {
	d := newDocument(Number)
	d.num = v
	return d
}

// NewString returns a String document holding s as raw bytes.
func NewString(s string) *Document {
	d := newDocument(String)
	d.text = s
	return d
}

// NewArray returns an empty Array document with the given initial capacity.
// The capacity must be at least 1.
func NewArray(capacity int) (*Document, error) {
	s, err := seq.New[*Document](capacity, seq.WithRelease((*Document).Release))
	if err != nil {
		return nil, err
	}
	d := newDocument(Array)
	d.arr = s
	return d, nil
}

// NewObject returns an empty Object document with the given bucket count,
// coerced to at least 1.
func NewObject(buckets int) (*Document, error) {
	m, err := hashmap.NewString[*Document](buckets,
		hashmap.WithValueRelease[string]((*Document).Release))
	if err != nil {
		return nil, err
	}
	d := newDocument(Object)
	d.obj = m
	return d, nil
}

func (d *Document) kindError(op string, want Kind) error {
	return &errors.ValidationError{
		Type:   typeName,
		Field:  op,
		Reason: "requires " + want.String() + ", have " + d.Kind().String(),
	}
}

// Kind returns the variant held by d. A nil document is Null.
func (d *Document) Kind() Kind {
	if d == nil {
		return Null
	}
	return d.kind
}

// Bool returns the boolean payload. ok is false for other kinds.
func (d *Document) Bool() (v bool, ok bool) {
	if d.Kind() != Boolean {
		return false, false
	}
	return d.flag, true
}

// Number returns the numeric payload. ok is false for other kinds.
func (d *Document) Number() (v float64, ok bool) {
	if d.Kind() != Number {
		return 0, false
	}
	return d.num, true
}

// Text returns the string payload. ok is false for other kinds.
func (d *Document) Text() (v string, ok bool) {
	if d.Kind() != String {
		return "", false
	}
	return d.text, true
}

// Array returns the backing sequence of an Array document, or nil. The
// document keeps ownership of the sequence and its elements.
func (d *Document) Array() *seq.Sequence[*Document] {
	if d.Kind() != Array {
		return nil
	}
	return d.arr
}

// Object returns the backing map of an Object document, or nil. The
// document keeps ownership of the map and its values.
func (d *Document) Object() *hashmap.Map[string, *Document] {
	if d.Kind() != Object {
		return nil
	}
	return d.obj
}

// Len returns the element count of an Array, the entry count of an Object
// and the byte length of a String. Other kinds report 0.
func (d *Document) Len() int {
	switch d.Kind() {
	case Array:
		return d.arr.Len()
	case Object:
		return d.obj.Len()
	case String:
		return len(d.text)
	default:
		return 0
	}
}

// Index returns the i-th element of an Array document.
func (d *Document) Index(i int) (*Document, error) {
	if d == nil {
		return nil, &errors.NullInputError{Type: typeName, Op: "Index"}
	}
	if d.kind != Array {
		return nil, d.kindError("Index", Array)
	}
	return d.arr.Get(i)
}

// Field returns the value stored under key in an Object document. A missing
// key yields a *errors.IndexError.
func (d *Document) Field(key string) (*Document, error) {
	if d == nil {
		return nil, &errors.NullInputError{Type: typeName, Op: "Field"}
	}
	if d.kind != Object {
		return nil, d.kindError("Field", Object)
	}
	return d.obj.Get(key)
}

// Keys returns the keys of an Object document in ascending byte order, or
// nil for other kinds.
func (d *Document) Keys() []string {
	if d.Kind() != Object {
		return nil
	}
	return slices.Sorted(d.obj.Keys())
}

// Append adds child to the end of an Array document. On success d owns
// child; on failure the caller keeps it.
func (d *Document) Append(child *Document) error {
	if d == nil || child == nil {
		return &errors.NullInputError{Type: typeName, Op: "Append"}
	}
	if d.kind != Array {
		return d.kindError("Append", Array)
	}
	return d.arr.Push(child)
}

// Put stores child under key in an Object document. An existing value under
// key is released and replaced; putting the value already stored under key
// is a no-op. On success d owns child.
func (d *Document) Put(key string, child *Document) error {
	if d == nil || child == nil {
		return &errors.NullInputError{Type: typeName, Op: "Put"}
	}
	if d.kind != Object {
		return d.kindError("Put", Object)
	}
	if old, err := d.obj.Get(key); err == nil && old == child {
		return nil
	}
	return d.obj.Insert(key, child)
}

// Walk yields every node of the tree in pre-order together with its depth.
// The root has depth 0. Object members are visited in key order.
func (d *Document) Walk() iter.Seq2[int, *Document] {
	return func(yield func(int, *Document) bool) {
		if d != nil {
			d.walk(0, yield)
		}
	}
}

func (d *Document) walk(depth int, yield func(int, *Document) bool) bool {
	if !yield(depth, d) {
		return false
	}
	switch d.kind {
	case Array:
		for child := range d.arr.Values() {
			if !child.walk(depth+1, yield) {
				return false
			}
		}
	case Object:
		for _, k := range d.Keys() {
			child, _ := d.obj.Get(k)
			if !child.walk(depth+1, yield) {
				return false
			}
		}
	}
	return true
}

// Release frees d and everything it owns. Afterwards d is a Null document.
// Releasing nil is a no-op.
func (d *Document) Release() {
	if d == nil {
		return
	}
	if onRelease != nil {
		onRelease(d)
	}
	switch d.kind {
	case Array:
		d.arr.Destroy()
	case Object:
		d.obj.Destroy()
	}
	*d = Document{}
}

// Equal reports whether d and other hold the same tree. Numbers compare
// with ==, objects compare as key sets regardless of bucket layout.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case Null:
		return true
	case Boolean:
		return d.flag == other.flag
	case Number:
		return d.num == other.num
	case String:
		return d.text == other.text
	case Array:
		if d.arr.Len() != other.arr.Len() {
			return false
		}
		for i, child := range d.arr.All() {
			o, _ := other.arr.Get(i)
			if !child.Equal(o) {
				return false
			}
		}
		return true
	case Object:
		if d.obj.Len() != other.obj.Len() {
			return false
		}
		for k, child := range d.obj.All() {
			o, err := other.obj.Get(k)
			if err != nil || !child.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of d. Arrays keep their capacity and objects
// their bucket count.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	switch d.kind {
	case Array:
		// Neither call can fail: the capacity is positive and unbounded.
		c, _ := NewArray(max(d.arr.Cap(), 1))
		for child := range d.arr.Values() {
			_ = c.arr.Push(child.Clone())
		}
		return c
	case Object:
		c, _ := NewObject(d.obj.Buckets())
		for k, child := range d.obj.All() {
			_ = c.obj.Insert(k, child.Clone())
		}
		return c
	default:
		c := newDocument(d.kind)
		c.flag, c.num, c.text = d.flag, d.num, d.text
		return c
	}
}

// Validate checks that every node has a known kind and finite number and
// that the backing containers satisfy their invariants. All failures are
// reported, each prefixed with its location.
func (d *Document) Validate() error {
	if d == nil {
		return &errors.NullInputError{Type: typeName, Op: "Validate"}
	}
	c := rxmerr.NewCollector()
	d.validate("$", func(err error) { c.Append(err) })
	return c.Err()
}

func (d *Document) validate(path string, add func(error)) {
	if err := d.kind.Validate(); err != nil {
		add(fmt.Errorf("%s: %w", path, err))
		return
	}
	switch d.kind {
	case Number:
		if math.IsInf(d.num, 0) || math.IsNaN(d.num) {
			add(fmt.Errorf("%s: %w", path, &errors.ValidationError{
				Type: typeName, Field: "Number", Reason: "not finite", Value: d.num,
			}))
		}
	case Array:
		if err := d.arr.Validate(); err != nil {
			add(fmt.Errorf("%s: %w", path, err))
		}
		for i, child := range d.arr.All() {
			if child == nil {
				add(fmt.Errorf("%s[%d]: %w", path, i, &errors.NullInputError{Type: typeName, Op: "element"}))
				continue
			}
			child.validate(fmt.Sprintf("%s[%d]", path, i), add)
		}
	case Object:
		if err := d.obj.Validate(); err != nil {
			add(fmt.Errorf("%s: %w", path, err))
		}
		for k, child := range d.obj.All() {
			if child == nil {
				add(fmt.Errorf("%s.%s: %w", path, k, &errors.NullInputError{Type: typeName, Op: "member"}))
				continue
			}
			child.validate(path+"."+k, add)
		}
	}
}

// TypeName returns "Document".
func (d *Document) TypeName() string {
	return typeName
}

// IsZero reports whether d is nil or Null.
func (d *Document) IsZero() bool {
	return d.Kind() == Null
}

// String returns the compact JSON form of d. Documents that cannot be
// marshaled render as a placeholder naming the failure.
func (d *Document) String() string {
	if d == nil {
		return NullStr
	}
	out, err := d.MarshalJSON()
	if err != nil {
		return "Document{invalid: " + err.Error() + "}"
	}
	return string(out)
}

// Redacted reports the kind and size of d without any payload.
func (d *Document) Redacted() string {
	switch k := d.Kind(); k {
	case Array, Object, String:
		return fmt.Sprintf("Document{kind=%s len=%d}", k, d.Len())
	default:
		return fmt.Sprintf("Document{kind=%s}", k)
	}
}
