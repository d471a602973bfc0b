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
	"log/slog"
	"strconv"

	"dirpx.dev/dxdoc/dxcore/errors"
)

// Defaults applied by ParseWithOptions to zero ParseOptions fields.
const (
	DefaultArrayCapacity = 8
	DefaultObjectBuckets = 16
	DefaultMaxDepth      = 10000
)

// ParseOptions tunes the containers built by the parser.
type ParseOptions struct {
	// ArrayCapacity is the initial capacity of every parsed array.
	ArrayCapacity int

	// ObjectBuckets is the bucket count of every parsed object.
	ObjectBuckets int

	// MaxDepth bounds the nesting of arrays and objects. Deeper input is
	// malformed.
	MaxDepth int

	// Logger receives a debug record for every failed parse. Nil means
	// slog.Default().
	Logger *slog.Logger
}

func (o ParseOptions) withDefaults() ParseOptions {
	if o.ArrayCapacity < 1 {
		o.ArrayCapacity = DefaultArrayCapacity
	}
	if o.ObjectBuckets < 1 {
		o.ObjectBuckets = DefaultObjectBuckets
	}
	if o.MaxDepth < 1 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Parse parses exactly one JSON value from text using default options.
func Parse(text []byte) (*Document, error) {
	return ParseWithOptions(text, ParseOptions{})
}

// ParseWithOptions parses exactly one JSON value from text. Only whitespace
// may follow it.
//
// A nil text yields *errors.NullInputError. Syntax errors yield
// *errors.MalformedInputError carrying the byte offset of the first
// failure; the partially built tree is released before returning.
func ParseWithOptions(text []byte, opts ParseOptions) (*Document, error) {
	opts = opts.withDefaults()
	if text == nil {
		return nil, &errors.NullInputError{Type: "Parser", Op: "Parse"}
	}

	p := &parser{text: text, opts: opts}
	doc := p.value()
	if p.err == nil {
		p.skipSpace()
		if p.pos < len(p.text) {
			p.fail("unexpected trailing content")
		}
	}
	if p.err != nil {
		doc.Release()
		opts.Logger.Debug("jsondoc: parse failed",
			slog.Int("size", len(text)),
			slog.Any("error", p.err))
		return nil, p.err
	}
	return doc, nil
}

// parser is a cursor over an immutable buffer. err holds the first failure
// and stays set for the rest of the parse.
type parser struct {
	text  []byte
	pos   int
	depth int
	err   error
	opts  ParseOptions
}

func (p *parser) fail(reason string) {
	if p.err == nil {
		p.err = &errors.MalformedInputError{Offset: p.pos, Reason: reason}
	}
}

func (p *parser) setErr(err error) {
	if p.err == nil {
		p.err = err
	}
}

// enter opens one level of nesting at the current bracket. Every successful
// enter is paired with leave.
func (p *parser) enter() bool {
	if p.depth >= p.opts.MaxDepth {
		p.fail("nesting too deep")
		return false
	}
	p.depth++
	return true
}

func (p *parser) leave() {
	p.depth--
}

// isSpace matches the C locale isspace set.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (p *parser) skipSpace() {
	for p.pos < len(p.text) && isSpace(p.text[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.text) {
		return 0, false
	}
	return p.text[p.pos], true
}

func (p *parser) value() *Document {
	if p.err != nil {
		return nil
	}
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		p.fail("unexpected end of input")
		return nil
	}

	switch {
	case c == 'n':
		return p.literal("null", NewNull)
	case c == 't':
		return p.literal("true", func() *Document { return NewBool(true) })
	case c == 'f':
		return p.literal("false", func() *Document { return NewBool(false) })
	case c == '"':
		p.pos++
		s, ok := p.str()
		if !ok {
			return nil
		}
		return NewString(s)
	case c == '[':
		return p.array()
	case c == '{':
		return p.object()
	case c == '-' || isDigit(c):
		return p.number()
	default:
		p.fail("unexpected character " + strconv.QuoteRune(rune(c)))
		return nil
	}
}

func (p *parser) literal(lit string, build func() *Document) *Document {
	if !bytes.HasPrefix(p.text[p.pos:], []byte(lit)) {
		p.fail("invalid literal, expected " + lit)
		return nil
	}
	p.pos += len(lit)
	return build()
}

// number scans -? digits* ('.' digits*)? ([eE] [+-]? digits+)? and converts
// the scanned bytes with strconv.ParseFloat. Out-of-range values become
// signed infinities.
func (p *parser) number() *Document {
	start := p.pos
	i := p.pos
	if i < len(p.text) && p.text[i] == '-' {
		i++
	}
	mantissa := 0
	for i < len(p.text) && isDigit(p.text[i]) {
		i++
		mantissa++
	}
	if i < len(p.text) && p.text[i] == '.' {
		i++
		for i < len(p.text) && isDigit(p.text[i]) {
			i++
			mantissa++
		}
	}
	if mantissa == 0 {
		p.fail("invalid number")
		return nil
	}
	if i < len(p.text) && (p.text[i] == 'e' || p.text[i] == 'E') {
		j := i + 1
		if j < len(p.text) && (p.text[j] == '+' || p.text[j] == '-') {
			j++
		}
		digits := 0
		for j < len(p.text) && isDigit(p.text[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}

	v, err := strconv.ParseFloat(string(p.text[start:i]), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			p.fail("invalid number")
			return nil
		}
	}
	p.pos = i
	return NewNumber(v)
}

// str decodes a string whose opening quote has been consumed. The first pass
// finds the closing quote and the worst-case decoded size; the second pass
// decodes into a single buffer of that size.
func (p *parser) str() (string, bool) {
	size := 0
	end := -1
	for i := p.pos; i < len(p.text); {
		c := p.text[i]
		if c == '"' {
			end = i
			break
		}
		if c == '\\' {
			if i+1 < len(p.text) && p.text[i+1] == 'u' {
				size += 4
				i += 2
				for n := 0; n < 4 && i < len(p.text) && isHex(p.text[i]); n++ {
					i++
				}
			} else {
				size++
				i += 2
			}
			continue
		}
		size++
		i++
	}
	if end < 0 {
		p.fail("unterminated string")
		return "", false
	}

	buf := make([]byte, 0, size)
	for p.pos < end {
		c := p.text[p.pos]
		if c != '\\' {
			buf = append(buf, c)
			p.pos++
			continue
		}
		p.pos++
		switch esc := p.text[p.pos]; esc {
		case '"', '\\', '/':
			buf = append(buf, esc)
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'u':
			cp, ok := parseHex4(p.text[p.pos+1 : min(p.pos+5, end)])
			if !ok {
				p.fail("invalid \\u escape")
				return "", false
			}
			buf = encodeUTF8(buf, cp)
			p.pos += 4
		default:
			p.fail("invalid escape " + strconv.QuoteRune(rune(esc)))
			return "", false
		}
		p.pos++
	}
	p.pos = end + 1
	return string(buf), true
}

// parseHex4 decodes exactly four hex digits.
func parseHex4(b []byte) (uint32, bool) {
	if len(b) != 4 {
		return 0, false
	}
	var cp uint32
	for _, c := range b {
		cp <<= 4
		switch {
		case c >= '0' && c <= '9':
			cp |= uint32(c - '0')
		case c >= 'a' && c <= 'f':
			cp |= uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			cp |= uint32(c-'A') + 10
		default:
			return 0, false
		}
	}
	return cp, true
}

// encodeUTF8 appends cp using the 1 to 4 byte UTF-8 layout chosen by its
// range. Surrogate halves are encoded as-is.
func encodeUTF8(dst []byte, cp uint32) []byte {
	switch {
	case cp < 0x80:
		return append(dst, byte(cp))
	case cp < 0x800:
		return append(dst,
			0xC0|byte(cp>>6),
			0x80|byte(cp&0x3F))
	case cp < 0x10000:
		return append(dst,
			0xE0|byte(cp>>12),
			0x80|byte((cp>>6)&0x3F),
			0x80|byte(cp&0x3F))
	default:
		return append(dst,
			0xF0|byte(cp>>18),
			0x80|byte((cp>>12)&0x3F),
			0x80|byte((cp>>6)&0x3F),
			0x80|byte(cp&0x3F))
	}
}

func (p *parser) array() *Document {
	if !p.enter() {
		return nil
	}
	defer p.leave()
	p.pos++
	arr, err := NewArray(p.opts.ArrayCapacity)
	if err != nil {
		p.setErr(err)
		return nil
	}

	p.skipSpace()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return arr
	}

	for {
		elem := p.value()
		if p.err != nil {
			arr.Release()
			return nil
		}
		if err := arr.Append(elem); err != nil {
			elem.Release()
			arr.Release()
			p.setErr(err)
			return nil
		}

		p.skipSpace()
		c, ok := p.peek()
		switch {
		case ok && c == ',':
			p.pos++
		case ok && c == ']':
			p.pos++
			return arr
		default:
			p.fail("expected ',' or ']' in array")
			arr.Release()
			return nil
		}
	}
}

func (p *parser) object() *Document {
	if !p.enter() {
		return nil
	}
	defer p.leave()
	p.pos++
	obj, err := NewObject(p.opts.ObjectBuckets)
	if err != nil {
		p.setErr(err)
		return nil
	}

	p.skipSpace()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return obj
	}

	for {
		p.skipSpace()
		if c, ok := p.peek(); !ok || c != '"' {
			p.fail("expected string key in object")
			obj.Release()
			return nil
		}
		p.pos++
		key, ok := p.str()
		if !ok {
			obj.Release()
			return nil
		}

		p.skipSpace()
		if c, ok := p.peek(); !ok || c != ':' {
			p.fail("expected ':' after object key")
			obj.Release()
			return nil
		}
		p.pos++

		val := p.value()
		if p.err != nil {
			obj.Release()
			return nil
		}
		if err := obj.Put(key, val); err != nil {
			val.Release()
			obj.Release()
			p.setErr(err)
			return nil
		}

		p.skipSpace()
		c, ok := p.peek()
		switch {
		case ok && c == ',':
			p.pos++
		case ok && c == '}':
			p.pos++
			return obj
		default:
			p.fail("expected ',' or '}' in object")
			obj.Release()
			return nil
		}
	}
}
