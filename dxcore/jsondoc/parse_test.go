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
	"bytes"
	stderrors "errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"dirpx.dev/dxdoc/dxcore/errors"
)

// trackLive counts documents created minus documents released until the
// test ends.
func trackLive(t *testing.T) func() int {
	t.Helper()
	created, released := 0, 0
	onNew = func(*Document) { created++ }
	onRelease = func(*Document) { released++ }
	t.Cleanup(func() {
		onNew, onRelease = nil, nil
	})
	return func() int { return created - released }
}

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	d, err := Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", text, err)
	}
	return d
}

func wantMalformed(t *testing.T, err error, offset int) {
	t.Helper()
	var me *errors.MalformedInputError
	if !stderrors.As(err, &me) {
		t.Fatalf("error = %v, want *MalformedInputError", err)
	}
	if offset >= 0 && me.Offset != offset {
		t.Errorf("Offset = %d, want %d (%v)", me.Offset, offset, err)
	}
	if errors.CodeOf(err) != errors.MalformedInput {
		t.Errorf("CodeOf() = %v, want %v", errors.CodeOf(err), errors.MalformedInput)
	}
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		input    string
		kind     Kind
		wantBool bool
	}{
		{"null", Null, false},
		{"true", Boolean, true},
		{"false", Boolean, false},
		{"  \t\r\n\v\ftrue \n", Boolean, true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			d := mustParse(t, tt.input)
			if d.Kind() != tt.kind {
				t.Fatalf("Kind() = %v, want %v", d.Kind(), tt.kind)
			}
			if tt.kind == Boolean {
				if b, ok := d.Bool(); !ok || b != tt.wantBool {
					t.Errorf("Bool() = %v, %v, want %v", b, ok, tt.wantBool)
				}
			}
		})
	}
}

func TestParse_BadLiterals(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{"nul", 0},
		{"nulL", 0},
		{"tru", 0},
		{"fals", 0},
		{"nullx", 4},
		{"truefalse", 4},
		{"NULL", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			wantMalformed(t, err, tt.offset)
		})
	}
}

func TestParse_Numbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"-123.45e-2", -1.2345},
		{"0", 0},
		{"42", 42},
		{"-7", -7},
		{"3.25", 3.25},
		{"1.5E+3", 1500},
		{"2e3", 2000},
		{"25e-1", 2.5},
		{"007", 7},
		{"1.", 1},
		{"-.5", -0.5},
		{"[0.1]", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := mustParse(t, tt.input)
			if d.Kind() == Array {
				d, _ = d.Index(0)
			}
			got, ok := d.Number()
			if !ok {
				t.Fatalf("Kind() = %v, want number", d.Kind())
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Number() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_NumberOutOfRange(t *testing.T) {
	d := mustParse(t, "1e400")
	got, _ := d.Number()
	if !math.IsInf(got, 1) {
		t.Fatalf("Number() = %v, want +Inf", got)
	}
	if err := d.Validate(); err == nil {
		t.Error("Validate() error = nil, want non-finite error")
	}
	if _, err := d.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() error = nil, want error")
	}
}

func TestParse_BadNumbers(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{"-", 0},
		{"-x", 0},
		{"-.", 0},
		{"+1", 0},
		{".5", 0},
		{"1e", 1},
		{"1e+", 1},
		{"0x10", 1},
		{"1.2.3", 3},
		{"Infinity", 0},
		{"NaN", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			wantMalformed(t, err, tt.offset)
		})
	}
}

func TestParse_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"empty", `""`, []byte{}},
		{"plain", `"hello"`, []byte("hello")},
		{"euro", `"\u20AC"`, []byte{0xE2, 0x82, 0xAC}},
		{"euro lower hex", `"\u20ac"`, []byte{0xE2, 0x82, 0xAC}},
		{"one byte", `"\u0041"`, []byte("A")},
		{"two bytes", `"\u00e9"`, []byte{0xC3, 0xA9}},
		{"nul", `"\u0000"`, []byte{0x00}},
		{"simple escapes", `"\"\\\/\b\f\n\r\t"`, []byte("\"\\/\b\f\n\r\t")},
		{"escaped quote inside", `"a\"b"`, []byte(`a"b`)},
		{"surrogates encoded alone", `"\uD83D\uDE00"`, []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
		{"raw utf8", "\"caf\xc3\xa9\"", []byte("caf\xc3\xa9")},
		{"raw control", "\"a\tb\"", []byte("a\tb")},
		{"raw invalid utf8", "\"\xff\xfe\"", []byte{0xFF, 0xFE}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustParse(t, tt.input)
			got, ok := d.Text()
			if !ok {
				t.Fatalf("Kind() = %v, want string", d.Kind())
			}
			if !bytes.Equal([]byte(got), tt.want) {
				t.Errorf("Text() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestParse_BadStrings(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"unterminated", `"abc`, 1},
		{"unterminated after escape", `"abc\"`, 1},
		{"lone backslash", `"\`, 1},
		{"short hex", `"\u12"`, 2},
		{"short hex unterminated", `"\u12`, 1},
		{"bad hex", `"\u12G4"`, 2},
		{"unknown escape", `"\x"`, 2},
		{"unquoted key", `{a:1}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			wantMalformed(t, err, tt.offset)
		})
	}
}

func TestParse_ShortUnicodeEscape(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{`"\u12"`, 2},
		{`["\u", 1]`, 3},
		{`{"k\u0": "v"}`, 4},
	}

	for _, tt := range tests {
		live := trackLive(t)
		_, err := Parse([]byte(tt.input))
		var me *errors.MalformedInputError
		if !stderrors.As(err, &me) {
			t.Fatalf("Parse(%q) error = %v, want *MalformedInputError", tt.input, err)
		}
		if me.Offset != tt.offset || me.Reason != `invalid \u escape` {
			t.Errorf("Parse(%q) = offset %d %q, want offset %d %q", tt.input, me.Offset, me.Reason, tt.offset, `invalid \u escape`)
		}
		if n := live(); n != 0 {
			t.Errorf("Parse(%q) live documents = %d, want 0", tt.input, n)
		}
	}
}

func TestParse_Arrays(t *testing.T) {
	tests := []struct {
		input string
		len   int
	}{
		{"[]", 0},
		{"[ \n ]", 0},
		{"[1]", 1},
		{"[1, 2, 3]", 3},
		{`[null, true, "x", [], {}]`, 5},
		{"[[[[]]]]", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := mustParse(t, tt.input)
			if d.Kind() != Array {
				t.Fatalf("Kind() = %v, want array", d.Kind())
			}
			if d.Len() != tt.len {
				t.Errorf("Len() = %d, want %d", d.Len(), tt.len)
			}
		})
	}
}

func TestParse_ArrayOrder(t *testing.T) {
	d := mustParse(t, "[3, 1, 2, 10, 9, 8, 7, 6, 5, 4]")
	want := []float64{3, 1, 2, 10, 9, 8, 7, 6, 5, 4}
	if d.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", d.Len(), len(want))
	}
	for i, w := range want {
		e, err := d.Index(i)
		if err != nil {
			t.Fatalf("Index(%d) error = %v", i, err)
		}
		if got, _ := e.Number(); got != w {
			t.Errorf("Index(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestParse_NestedObject(t *testing.T) {
	d := mustParse(t, `{ "a": 1, "b": [true, false], "c": { "d": null } }`)
	if d.Kind() != Object {
		t.Fatalf("Kind() = %v, want object", d.Kind())
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}

	a, err := d.Field("a")
	if err != nil {
		t.Fatalf("Field(a) error = %v", err)
	}
	if v, _ := a.Number(); v != 1 {
		t.Errorf("a = %v, want 1", v)
	}

	b, err := d.Field("b")
	if err != nil {
		t.Fatalf("Field(b) error = %v", err)
	}
	if b.Kind() != Array || b.Len() != 2 {
		t.Fatalf("b = %v len %d, want 2-element array", b.Kind(), b.Len())
	}
	for i, want := range []bool{true, false} {
		e, _ := b.Index(i)
		if got, ok := e.Bool(); !ok || got != want {
			t.Errorf("b[%d] = %v, want %v", i, got, want)
		}
	}

	c, err := d.Field("c")
	if err != nil {
		t.Fatalf("Field(c) error = %v", err)
	}
	cd, err := c.Field("d")
	if err != nil {
		t.Fatalf("Field(c.d) error = %v", err)
	}
	if cd.Kind() != Null {
		t.Errorf("c.d = %v, want null", cd.Kind())
	}

	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	live := trackLive(t)
	d := mustParse(t, `{"k": [1, 2], "x": 0, "k": "last"}`)
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	k, _ := d.Field("k")
	if s, _ := k.Text(); s != "last" {
		t.Errorf("k = %q, want last", s)
	}
	// object, x, last
	if got := live(); got != 3 {
		t.Errorf("live documents = %d, want 3", got)
	}
	d.Release()
	if got := live(); got != 0 {
		t.Errorf("live documents after Release = %d, want 0", got)
	}
}

func TestParse_MalformedReleasesEverything(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"truncated array", "[1, 2,", 6},
		{"trailing garbage", "[1, 2] junk", 7},
		{"trailing comma", "[1, 2,]", 6},
		{"missing comma", "[1 2]", 3},
		{"unclosed array", "[", 1},
		{"deep failure", `{"a": [1, {"b": [true, tru]}]}`, 23},
		{"missing colon", `{"a" 1}`, 5},
		{"trailing comma object", `{"a": 1,}`, 8},
		{"unclosed object", `{"a": [1]`, 9},
		{"bad key", `{"a": 1, 2: 3}`, 9},
		{"two values", `{} {}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := trackLive(t)
			d, err := Parse([]byte(tt.input))
			if d != nil {
				t.Errorf("Parse() document = %v, want nil", d)
			}
			wantMalformed(t, err, tt.offset)
			if got := live(); got != 0 {
				t.Errorf("live documents = %d, want 0", got)
			}
		})
	}
}

func TestParse_EmptyAndNil(t *testing.T) {
	_, err := Parse(nil)
	var ne *errors.NullInputError
	if !stderrors.As(err, &ne) {
		t.Errorf("Parse(nil) error = %v, want *NullInputError", err)
	}

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := Parse([]byte(in))
		wantMalformed(t, err, len(in))
	}
}

func TestParser_StickyError(t *testing.T) {
	p := &parser{text: []byte("null"), opts: ParseOptions{}.withDefaults()}
	p.fail("first")
	p.fail("second")
	if d := p.value(); d != nil {
		t.Errorf("value() = %v after failure, want nil", d)
	}
	var me *errors.MalformedInputError
	if !stderrors.As(p.err, &me) || me.Reason != "first" {
		t.Errorf("err = %v, want first failure", p.err)
	}
	if p.pos != 0 {
		t.Errorf("pos = %d, want 0", p.pos)
	}
}

func TestParseWithOptions(t *testing.T) {
	d, err := ParseWithOptions([]byte(`{"a": []}`), ParseOptions{ArrayCapacity: 2, ObjectBuckets: 5})
	if err != nil {
		t.Fatalf("ParseWithOptions() error = %v", err)
	}
	if got := d.Object().Buckets(); got != 5 {
		t.Errorf("Buckets() = %d, want 5", got)
	}
	a, _ := d.Field("a")
	if got := a.Array().Cap(); got != 2 {
		t.Errorf("Cap() = %d, want 2", got)
	}

	d, err = ParseWithOptions([]byte(`[{}]`), ParseOptions{})
	if err != nil {
		t.Fatalf("ParseWithOptions() error = %v", err)
	}
	if got := d.Array().Cap(); got != DefaultArrayCapacity {
		t.Errorf("Cap() = %d, want %d", got, DefaultArrayCapacity)
	}
	o, _ := d.Index(0)
	if got := o.Object().Buckets(); got != DefaultObjectBuckets {
		t.Errorf("Buckets() = %d, want %d", got, DefaultObjectBuckets)
	}
}

func TestParseWithOptions_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := ParseWithOptions([]byte("[1,"), ParseOptions{Logger: logger}); err == nil {
		t.Fatal("ParseWithOptions() error = nil, want error")
	}
	out := buf.String()
	if !strings.Contains(out, "parse failed") || !strings.Contains(out, "offset 3") {
		t.Errorf("log output = %q, want parse failure record", out)
	}

	buf.Reset()
	if _, err := ParseWithOptions([]byte("[1]"), ParseOptions{Logger: logger}); err != nil {
		t.Fatalf("ParseWithOptions() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("log output = %q, want none on success", buf.String())
	}
}

func TestParseWithOptions_MaxDepth(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int // -1 when the input parses
	}{
		{"at limit", "[[[1]]]", -1},
		{"siblings reuse depth", "[[], [], [[]]]", -1},
		{"array too deep", "[[[[1]]]]", 3},
		{"object too deep", `{"a": {"b": [ {} ]}}`, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := trackLive(t)
			d, err := ParseWithOptions([]byte(tt.input), ParseOptions{MaxDepth: 3})
			if tt.offset < 0 {
				if err != nil {
					t.Fatalf("ParseWithOptions(%q) error = %v", tt.input, err)
				}
				d.Release()
			} else {
				wantMalformed(t, err, tt.offset)
			}
			if n := live(); n != 0 {
				t.Errorf("live documents = %d, want 0", n)
			}
		})
	}
}

func TestParse_DefaultMaxDepth(t *testing.T) {
	live := trackLive(t)
	deep := strings.Repeat("[", DefaultMaxDepth) + strings.Repeat("]", DefaultMaxDepth)
	d, err := Parse([]byte(deep))
	if err != nil {
		t.Fatalf("Parse() at default depth error = %v", err)
	}
	d.Release()

	_, err = Parse(bytes.Repeat([]byte("["), 2*DefaultMaxDepth))
	wantMalformed(t, err, DefaultMaxDepth)
	var me *errors.MalformedInputError
	if stderrors.As(err, &me) && me.Reason != "nesting too deep" {
		t.Errorf("Reason = %q, want nesting too deep", me.Reason)
	}
	if n := live(); n != 0 {
		t.Errorf("live documents = %d, want 0", n)
	}
}

func TestEncodeUTF8(t *testing.T) {
	tests := []struct {
		cp   uint32
		want []byte
	}{
		{0x24, []byte{0x24}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0xC2, 0x80}},
		{0xA2, []byte{0xC2, 0xA2}},
		{0x7FF, []byte{0xDF, 0xBF}},
		{0x800, []byte{0xE0, 0xA0, 0x80}},
		{0x20AC, []byte{0xE2, 0x82, 0xAC}},
		{0xFFFF, []byte{0xEF, 0xBF, 0xBF}},
		{0x10348, []byte{0xF0, 0x90, 0x8D, 0x88}},
	}

	for _, tt := range tests {
		if got := encodeUTF8(nil, tt.cp); !bytes.Equal(got, tt.want) {
			t.Errorf("encodeUTF8(%#x) = % X, want % X", tt.cp, got, tt.want)
		}
	}
}
