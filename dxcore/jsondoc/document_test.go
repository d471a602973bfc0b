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

package jsondoc

import (
	stderrors "errors"
	"math"
	"slices"
	"strings"
	"testing"

	"dirpx.dev/dxdoc/dxcore/errors"
)

func mustArray(t *testing.T, capacity int) *Document {
	t.Helper()
	d, err := NewArray(capacity)
	if err != nil {
		t.Fatalf("NewArray(%d) error = %v", capacity, err)
	}
	return d
}

func mustObject(t *testing.T, buckets int) *Document {
	t.Helper()
	d, err := NewObject(buckets)
	if err != nil {
		t.Fatalf("NewObject(%d) error = %v", buckets, err)
	}
	return d
}

func TestDocument_Scalars(t *testing.T) {
	if d := NewNull(); d.Kind() != Null || !d.IsZero() {
		t.Errorf("NewNull() = %v, want zero null", d.Kind())
	}

	b := NewBool(true)
	if v, ok := b.Bool(); !ok || !v {
		t.Errorf("Bool() = %v, %v, want true, true", v, ok)
	}
	if _, ok := b.Number(); ok {
		t.Error("Number() on boolean ok = true, want false")
	}

	n := NewNumber(2.5)
	if v, ok := n.Number(); !ok || v != 2.5 {
		t.Errorf("Number() = %v, %v, want 2.5, true", v, ok)
	}
	if _, ok := n.Text(); ok {
		t.Error("Text() on number ok = true, want false")
	}

	s := NewString("héllo")
	if v, ok := s.Text(); !ok || v != "héllo" {
		t.Errorf("Text() = %q, %v", v, ok)
	}
	if s.Len() != len("héllo") {
		t.Errorf("Len() = %d, want %d", s.Len(), len("héllo"))
	}
	if _, ok := s.Bool(); ok {
		t.Error("Bool() on string ok = true, want false")
	}
	if s.Array() != nil || s.Object() != nil || s.Keys() != nil {
		t.Error("container accessors on string returned non-nil")
	}
	if n.Len() != 0 || b.Len() != 0 {
		t.Error("Len() on scalar != 0")
	}
}

func TestDocument_NilReceiver(t *testing.T) {
	var d *Document
	if d.Kind() != Null || !d.IsZero() || d.Len() != 0 {
		t.Error("nil document is not an empty null")
	}
	if got := d.String(); got != "null" {
		t.Errorf("String() = %q, want null", got)
	}
	d.Release()

	var ne *errors.NullInputError
	if _, err := d.Index(0); !stderrors.As(err, &ne) {
		t.Errorf("Index() error = %v, want *NullInputError", err)
	}
	if _, err := d.Field("a"); !stderrors.As(err, &ne) {
		t.Errorf("Field() error = %v, want *NullInputError", err)
	}
	if err := d.Validate(); !stderrors.As(err, &ne) {
		t.Errorf("Validate() error = %v, want *NullInputError", err)
	}
	if err := d.Append(NewNull()); !stderrors.As(err, &ne) {
		t.Errorf("Append() error = %v, want *NullInputError", err)
	}
}

func TestNewArray_InvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -3} {
		_, err := NewArray(c)
		if errors.CodeOf(err) != errors.InvalidResize {
			t.Errorf("NewArray(%d) error = %v, want %v", c, err, errors.InvalidResize)
		}
	}
}

func TestNewObject_CoercesBuckets(t *testing.T) {
	d := mustObject(t, 0)
	if got := d.Object().Buckets(); got != 1 {
		t.Errorf("Buckets() = %d, want 1", got)
	}
}

func TestDocument_AppendAndIndex(t *testing.T) {
	arr := mustArray(t, 1)
	for i := 0; i < 5; i++ {
		if err := arr.Append(NewNumber(float64(i))); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}
	if arr.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", arr.Len())
	}
	if got := arr.Array().Cap(); got != 8 {
		t.Errorf("Cap() = %d, want 8", got)
	}
	for i := 0; i < 5; i++ {
		e, err := arr.Index(i)
		if err != nil {
			t.Fatalf("Index(%d) error = %v", i, err)
		}
		if v, _ := e.Number(); v != float64(i) {
			t.Errorf("Index(%d) = %v, want %d", i, v, i)
		}
	}

	if _, err := arr.Index(5); errors.CodeOf(err) != errors.IndexOutOfBounds {
		t.Errorf("Index(5) error = %v, want %v", err, errors.IndexOutOfBounds)
	}
	if err := arr.Append(nil); errors.CodeOf(err) != errors.NullInput {
		t.Errorf("Append(nil) error = %v, want %v", err, errors.NullInput)
	}
	if err := arr.Put("k", NewNull()); err == nil {
		t.Error("Put() on array error = nil, want kind error")
	}
	if _, err := arr.Field("k"); err == nil {
		t.Error("Field() on array error = nil, want kind error")
	}
}

func TestDocument_PutSameChild(t *testing.T) {
	live := trackLive(t)
	obj := mustObject(t, 4)
	k := NewString("k")
	for i := 0; i < 2; i++ {
		if err := obj.Put("a", k); err != nil {
			t.Fatalf("Put(a) #%d error = %v", i, err)
		}
	}
	got, err := obj.Field("a")
	if err != nil {
		t.Fatalf("Field(a) error = %v", err)
	}
	if got != k {
		t.Fatal("Field(a) is not the stored child")
	}
	if v, ok := got.Text(); !ok || v != "k" {
		t.Errorf("Field(a).Text() = %q, %v, want \"k\", true", v, ok)
	}
	if n := live(); n != 2 {
		t.Errorf("live documents = %d, want 2", n)
	}
	obj.Release()
	if n := live(); n != 0 {
		t.Errorf("live documents after Release = %d, want 0", n)
	}
}

func TestDocument_PutAndField(t *testing.T) {
	live := trackLive(t)
	obj := mustObject(t, 4)
	for _, k := range []string{"zeta", "alpha", "mid"} {
		if err := obj.Put(k, NewString(k)); err != nil {
			t.Fatalf("Put(%q) error = %v", k, err)
		}
	}
	if got, want := obj.Keys(), []string{"alpha", "mid", "zeta"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	if err := obj.Put("mid", NewBool(false)); err != nil {
		t.Fatalf("Put(mid) error = %v", err)
	}
	if obj.Len() != 3 {
		t.Errorf("Len() = %d after replace, want 3", obj.Len())
	}
	mid, err := obj.Field("mid")
	if err != nil {
		t.Fatalf("Field(mid) error = %v", err)
	}
	if mid.Kind() != Boolean {
		t.Errorf("Field(mid) = %v, want boolean", mid.Kind())
	}
	// object plus three live values
	if got := live(); got != 4 {
		t.Errorf("live documents = %d, want 4", got)
	}

	_, err = obj.Field("missing")
	var ie *errors.IndexError
	if !stderrors.As(err, &ie) || ie.Key != "missing" {
		t.Errorf("Field(missing) error = %v, want *IndexError for key", err)
	}
	// a rejected child stays with the caller
	if err := obj.Append(NewNull()); err == nil {
		t.Error("Append() on object error = nil, want kind error")
	}
	if _, err := obj.Index(0); err == nil {
		t.Error("Index() on object error = nil, want kind error")
	}

	obj.Release()
	if got := live(); got != 1 {
		t.Errorf("live documents = %d, want only the rejected child", got)
	}
}

func TestDocument_Release(t *testing.T) {
	live := trackLive(t)
	d := mustParse(t, `{"a": [1, [2, {"b": "c"}]], "d": {}}`)
	if got := live(); got != 8 {
		t.Fatalf("live documents = %d, want 8", got)
	}
	d.Release()
	if got := live(); got != 0 {
		t.Errorf("live documents after Release = %d, want 0", got)
	}
	if d.Kind() != Null || d.Len() != 0 {
		t.Errorf("released document = %v len %d, want empty null", d.Kind(), d.Len())
	}
}

func TestDocument_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same scalars", `1`, `1.0`, true},
		{"different numbers", `1`, `2`, false},
		{"different kinds", `0`, `false`, false},
		{"strings", `"x"`, `"x"`, true},
		{"arrays", `[1, [true]]`, `[1,[true]]`, true},
		{"array order", `[1, 2]`, `[2, 1]`, false},
		{"array length", `[1]`, `[1, 1]`, false},
		{"object order ignored", `{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`, true},
		{"object value", `{"a": 1}`, `{"a": 2}`, false},
		{"object key", `{"a": 1}`, `{"b": 1}`, false},
		{"object size", `{"a": 1}`, `{"a": 1, "b": 1}`, false},
		{"nulls", `null`, `null`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustParse(t, tt.a), mustParse(t, tt.b)
			if got := a.Equal(b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := b.Equal(a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}

	small, _ := ParseWithOptions([]byte(`{"a": 1, "b": 2, "c": 3}`), ParseOptions{ObjectBuckets: 1})
	large, _ := ParseWithOptions([]byte(`{"c": 3, "a": 1, "b": 2}`), ParseOptions{ObjectBuckets: 64})
	if !small.Equal(large) {
		t.Error("Equal() depends on bucket layout")
	}

	var nilDoc *Document
	if !nilDoc.Equal(nil) || nilDoc.Equal(NewNull()) || NewNull().Equal(nil) {
		t.Error("Equal() with nil documents mismatch")
	}
}

func TestDocument_Clone(t *testing.T) {
	orig := mustParse(t, `{"a": [1, "two", null], "b": {"c": true}}`)
	clone := orig.Clone()
	if !clone.Equal(orig) {
		t.Fatalf("Clone() = %v, want %v", clone, orig)
	}
	if clone.Object().Buckets() != orig.Object().Buckets() {
		t.Errorf("Clone() buckets = %d, want %d", clone.Object().Buckets(), orig.Object().Buckets())
	}

	a, _ := clone.Field("a")
	if err := a.Append(NewNumber(4)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	origA, _ := orig.Field("a")
	if origA.Len() != 3 {
		t.Errorf("original array Len() = %d after mutating clone, want 3", origA.Len())
	}

	clone.Release()
	if err := orig.Validate(); err != nil {
		t.Errorf("original Validate() after releasing clone = %v", err)
	}
	if (*Document)(nil).Clone() != nil {
		t.Error("nil Clone() != nil")
	}
}

func TestDocument_Validate(t *testing.T) {
	ok := mustParse(t, `{"a": [1, 2, {"b": "c"}]}`)
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := mustArray(t, 2)
	_ = bad.Append(NewNumber(math.NaN()))
	obj := mustObject(t, 2)
	_ = obj.Put("inf", NewNumber(math.Inf(-1)))
	_ = bad.Append(obj)

	err := bad.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	msg := err.Error()
	for _, want := range []string{"$[0]", "$[1].inf", "not finite"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Validate() = %q, want it to mention %q", msg, want)
		}
	}

	unknown := &Document{kind: Kind(17)}
	if err := unknown.Validate(); err == nil {
		t.Error("Validate() on unknown kind = nil, want error")
	}
}

func TestDocument_StringAndRedacted(t *testing.T) {
	d := mustParse(t, `{"secret": "hunter2", "list": [1, 2]}`)
	if got, want := d.String(), `{"list":[1,2],"secret":"hunter2"}`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	red := d.Redacted()
	if strings.Contains(red, "hunter2") {
		t.Errorf("Redacted() = %q leaks payload", red)
	}
	if red != "Document{kind=object len=2}" {
		t.Errorf("Redacted() = %q", red)
	}

	tests := []struct {
		doc  *Document
		want string
	}{
		{NewNull(), "Document{kind=null}"},
		{NewBool(true), "Document{kind=boolean}"},
		{NewNumber(3), "Document{kind=number}"},
		{NewString("abc"), "Document{kind=string len=3}"},
	}
	for _, tt := range tests {
		if got := tt.doc.Redacted(); got != tt.want {
			t.Errorf("Redacted() = %q, want %q", got, tt.want)
		}
	}

	if got := NewNumber(math.Inf(1)).String(); !strings.HasPrefix(got, "Document{invalid:") {
		t.Errorf("String() of +Inf = %q, want placeholder", got)
	}
	if got := d.TypeName(); got != "Document" {
		t.Errorf("TypeName() = %q", got)
	}
}

func TestDocument_Walk(t *testing.T) {
	d := mustParse(t, `{"b": [1, [2]], "a": "x"}`)
	var got []string
	for depth, n := range d.Walk() {
		got = append(got, strings.Repeat(".", depth)+n.Kind().String())
	}
	want := []string{"object", ".string", ".array", "..number", "..array", "...number"}
	if !slices.Equal(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}

	count := 0
	for range d.Walk() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("Walk() did not stop early, visited %d", count)
	}
}

func TestSummarize(t *testing.T) {
	d, err := ParseWithOptions([]byte(`{"a": 1, "b": [true, null, {"c": "x", "d": 2, "e": []}], "f": "y"}`),
		ParseOptions{ObjectBuckets: 1})
	if err != nil {
		t.Fatalf("ParseWithOptions() error = %v", err)
	}
	st := Summarize(d)
	if st.Nodes != 10 {
		t.Errorf("Nodes = %d, want 10", st.Nodes)
	}
	if st.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", st.MaxDepth)
	}
	if st.LargestObject != 3 {
		t.Errorf("LargestObject = %d, want 3", st.LargestObject)
	}
	if st.LongestChain != 3 {
		t.Errorf("LongestChain = %d, want 3", st.LongestChain)
	}
	wantKinds := map[Kind]int{Object: 2, Number: 2, Array: 2, Boolean: 1, Null: 1, String: 2}
	for k, n := range wantKinds {
		if st.Kinds[k] != n {
			t.Errorf("Kinds[%v] = %d, want %d", k, st.Kinds[k], n)
		}
	}

	if empty := Summarize(nil); empty.Nodes != 0 {
		t.Errorf("Summarize(nil).Nodes = %d, want 0", empty.Nodes)
	}
}
