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
	"encoding/json"

	"dirpx.dev/dxdoc/dxcore/errors"
	"dirpx.dev/dxdoc/dxcore/model"
	"gopkg.in/yaml.v3"
)

// Kind identifies which of the six JSON variants a Document holds.
type Kind int

const (
	// Null is the JSON null literal. It is the zero Kind.
	Null Kind = iota

	// Boolean is true or false.
	Boolean

	// Number is a finite IEEE-754 double.
	Number

	// String is a byte string decoded from a quoted JSON string.
	String

	// Array is an ordered list of child documents backed by seq.Sequence.
	Array

	// Object is a set of string keys mapped to child documents, backed by
	// hashmap.Map.
	Object
)

var _ model.Model = (*Kind)(nil)

// Canonical external names for Kind values. They appear in CLI output,
// JSON and YAML payloads, so changing one is a breaking change.
const (
	NullStr    = "null"
	BooleanStr = "boolean"
	NumberStr  = "number"
	StringStr  = "string"
	ArrayStr   = "array"
	ObjectStr  = "object"
)

// String returns the canonical lowercase name, or "unknown" for values
// outside the defined constants.
//
//	Number.String()  // "number"
//	Kind(9).String() // "unknown"
func (k Kind) String() string {
	switch k {
	case Null:
		return NullStr
	case Boolean:
		return BooleanStr
	case Number:
		return NumberStr
	case String:
		return StringStr
	case Array:
		return ArrayStr
	case Object:
		return ObjectStr
	default:
		return "unknown"
	}
}

// ParseKind converts a textual name into a Kind. It accepts the canonical
// names, their CamelCase and upper-case forms, and "bool" as a shorthand.
// Unknown names yield a *errors.ParseError.
//
// Examples:
//
//	ParseKind("object")  -> Object, nil
//	ParseKind("BOOLEAN") -> Boolean, nil
//	ParseKind("bool")    -> Boolean, nil
//	ParseKind("tuple")   -> Null, *errors.ParseError
func ParseKind(str string) (Kind, error) {
	switch str {
	case NullStr, "Null", "NULL":
		return Null, nil
	case BooleanStr, "Boolean", "BOOLEAN", "bool":
		return Boolean, nil
	case NumberStr, "Number", "NUMBER":
		return Number, nil
	case StringStr, "String", "STRING":
		return String, nil
	case ArrayStr, "Array", "ARRAY":
		return Array, nil
	case ObjectStr, "Object", "OBJECT":
		return Object, nil
	default:
		return Null, &errors.ParseError{Type: "Kind", Value: str}
	}
}

// Valid reports whether k is one of the defined constants.
func (k Kind) Valid() bool {
	return k >= Null && k <= Object
}

// IsScalar reports whether k carries no children.
func (k Kind) IsScalar() bool {
	return k.Valid() && k != Array && k != Object
}

// MarshalJSON encodes a valid Kind as its canonical name.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, &errors.MarshalError{Type: "Kind", Value: int(k)}
	}
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON accepts a JSON string holding a name understood by
// ParseKind. Numbers are rejected: the wire form of a Kind is its name.
//
// Example:
//
//	var k jsondoc.Kind
//	_ = json.Unmarshal([]byte(`"Array"`), &k) // k == jsondoc.Array
//	err := json.Unmarshal([]byte(`4`), &k)    // *errors.UnmarshalError
func (k *Kind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &errors.UnmarshalError{Type: "Kind", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseKind(str)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, &errors.MarshalError{Type: "Kind", Value: int(k)}
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseKind.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes a valid Kind as its canonical name, so a
// map[Kind]int renders as
//
//	array: 2
//	object: 1
func (k Kind) MarshalYAML() (any, error) {
	if !k.Valid() {
		return nil, &errors.MarshalError{Type: "Kind", Value: int(k)}
	}
	return k.String(), nil
}

// UnmarshalYAML accepts the names understood by ParseKind.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return &errors.UnmarshalError{Type: "Kind", Data: []byte(node.Value), Reason: err.Error()}
	}
	parsed, err := ParseKind(str)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TypeName returns "Kind".
func (k Kind) TypeName() string {
	return "Kind"
}

// Redacted is identical to String.
func (k Kind) Redacted() string {
	return k.String()
}

// IsZero reports whether k is Null. Null is a valid Kind.
func (k Kind) IsZero() bool {
	return k == Null
}

// Equal reports whether other is a Kind or *Kind with the same value.
func (k Kind) Equal(other any) bool {
	switch v := other.(type) {
	case Kind:
		return k == v
	case *Kind:
		return v != nil && k == *v
	default:
		return false
	}
}

// Validate returns a *errors.ValidationError for values outside the defined
// constants.
func (k Kind) Validate() error {
	if !k.Valid() {
		return &errors.ValidationError{Type: "Kind", Reason: "unknown kind", Value: int(k)}
	}
	return nil
}
