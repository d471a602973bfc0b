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

// Package errors provides the error taxonomy shared by the dxdoc containers
// and the JSON document model.
//
// Every fallible operation in dxdoc returns one of the value types defined
// here instead of panicking. The types are plain structs with stable message
// formats so that they are:
//
//   - easy to construct at the failure site,
//   - easy to recognize via errors.As or CodeOf,
//   - and easy to read when surfaced in logs or CLI output.
//
// # Taxonomy
//
// The container and parser failures map onto a small discriminant, Code:
//
//   - NullInput          -> *NullInputError
//   - AllocationFailure  -> *AllocationError
//   - IndexOutOfBounds   -> *IndexError
//   - InvalidResize      -> *ResizeError
//   - MalformedInput     -> *MalformedInputError
//
// Codec and validation failures of model types use ParseError, MarshalError,
// UnmarshalError and ValidationError. Those carry CodeUnknown.
//
// # Usage
//
//	doc, err := jsondoc.Parse(data)
//	switch errors.CodeOf(err) {
//	case errors.MalformedInput:
//	    // report the offset to the user
//	case errors.NullInput:
//	    // programming error
//	}
//
// None of these errors is fatal: every operation that returns one leaves
// its receiver in a consistent state and the caller may retry or continue.
package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
)

// Code is the coarse classification of a dxdoc failure.
type Code int

const (
	// CodeUnknown is reported for nil errors and for errors that do not
	// belong to the container/parser taxonomy.
	CodeUnknown Code = iota

	// NullInput means a required handle or argument was absent.
	NullInput

	// AllocationFailure means backing storage could not grow. The operation
	// had no effect.
	AllocationFailure

	// IndexOutOfBounds means an index was out of range or a key was absent.
	IndexOutOfBounds

	// InvalidResize means a requested capacity does not represent forward
	// progress.
	InvalidResize

	// MalformedInput means the parser met a syntax error.
	MalformedInput
)

// String returns the stable name of the code.
func (c Code) String() string {
	switch c {
	case NullInput:
		return "null-input"
	case AllocationFailure:
		return "allocation-failure"
	case IndexOutOfBounds:
		return "index-out-of-bounds"
	case InvalidResize:
		return "invalid-resize"
	case MalformedInput:
		return "malformed-input"
	default:
		return "unknown"
	}
}

// Coder is implemented by every error in the container/parser taxonomy.
type Coder interface {
	error
	Code() Code
}

// CodeOf returns the Code carried by err or by any error it wraps.
// It returns CodeUnknown for nil and for errors outside the taxonomy.
func CodeOf(err error) Code {
	var c Coder
	if stderrors.As(err, &c) {
		return c.Code()
	}
	return CodeUnknown
}

// NullInputError is returned when a required receiver or argument is nil.
//
// Type names the container or component ("Sequence", "Map", "Parser") and
// Op names the operation or argument that was missing.
type NullInputError struct {
	// Type is the logical name of the component that rejected the call.
	Type string

	// Op is the operation or argument that was nil.
	Op string
}

// Error implements the error interface for NullInputError.
//
// The error message format is:
//
//	"dxdoc: {Type}.{Op}: nil input"
func (e *NullInputError) Error() string {
	return "dxdoc: " + e.Type + "." + e.Op + ": nil input"
}

// Code returns NullInput.
func (e *NullInputError) Code() Code { return NullInput }

// AllocationError is returned when a container would have to grow past its
// configured limit. The container is left unmodified.
type AllocationError struct {
	// Type is the logical name of the container.
	Type string

	// Requested is the size the container tried to reach.
	Requested int

	// Limit is the configured maximum.
	Limit int
}

// Error implements the error interface for AllocationError.
//
// The error message format is:
//
//	"dxdoc: {Type} cannot grow to {Requested}: limit {Limit}"
func (e *AllocationError) Error() string {
	return "dxdoc: " + e.Type + " cannot grow to " + strconv.Itoa(e.Requested) +
		": limit " + strconv.Itoa(e.Limit)
}

// Code returns AllocationFailure.
func (e *AllocationError) Code() Code { return AllocationFailure }

// IndexError is returned when an index is out of range or a key is absent.
//
// For positional containers Index and Length describe the failed access.
// For keyed containers Key holds the missing key and Index is -1.
type IndexError struct {
	// Type is the logical name of the container.
	Type string

	// Index is the requested position, or -1 for key lookups.
	Index int

	// Length is the container length at the time of the call.
	Length int

	// Key is the missing key for keyed lookups, nil otherwise.
	Key any
}

// Error implements the error interface for IndexError.
//
// The error message format is one of:
//
//	"dxdoc: {Type} index {Index} out of range [0,{Length})"
//	"dxdoc: {Type} has no entry for key {Key}"
func (e *IndexError) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("dxdoc: %s has no entry for key %v", e.Type, e.Key)
	}
	return "dxdoc: " + e.Type + " index " + strconv.Itoa(e.Index) +
		" out of range [0," + strconv.Itoa(e.Length) + ")"
}

// Code returns IndexOutOfBounds.
func (e *IndexError) Code() Code { return IndexOutOfBounds }

// ResizeError is returned when a requested capacity is not larger than the
// current one.
type ResizeError struct {
	// Type is the logical name of the container.
	Type string

	// Current is the capacity before the call.
	Current int

	// Requested is the rejected capacity.
	Requested int
}

// Error implements the error interface for ResizeError.
//
// The error message format is:
//
//	"dxdoc: {Type} cannot resize from {Current} to {Requested}"
func (e *ResizeError) Error() string {
	return "dxdoc: " + e.Type + " cannot resize from " + strconv.Itoa(e.Current) +
		" to " + strconv.Itoa(e.Requested)
}

// Code returns InvalidResize.
func (e *ResizeError) Code() Code { return InvalidResize }

// MalformedInputError is returned when the JSON parser meets a syntax error.
//
// Offset is the byte position in the input where the parser stopped and
// Reason a short description such as "unterminated string".
type MalformedInputError struct {
	// Offset is the zero-based byte offset of the failure.
	Offset int

	// Reason is a short, human-readable explanation.
	Reason string
}

// Error implements the error interface for MalformedInputError.
//
// The error message format is:
//
//	"dxdoc: malformed JSON at offset {Offset}: {Reason}"
func (e *MalformedInputError) Error() string {
	return "dxdoc: malformed JSON at offset " + strconv.Itoa(e.Offset) + ": " + e.Reason
}

// Code returns MalformedInput.
func (e *MalformedInputError) Code() Code { return MalformedInput }

// ParseError is returned when parsing a string into a strongly typed
// enum-like value fails.
//
// Type identifies the logical type being parsed (for example, "Kind"), and
// Value contains the exact string that could not be interpreted.
type ParseError struct {
	// Type is the logical name of the type being parsed (for example, "Kind").
	Type string

	// Value is the invalid textual representation that was provided.
	Value string
}

// Error implements the error interface for ParseError.
//
// The error message format is:
//
//	"dxdoc: invalid {Type} value: {Value}"
func (e *ParseError) Error() string {
	return "dxdoc: invalid " + e.Type + " value: " + e.Value
}

// MarshalError is returned when marshaling a value fails because it cannot
// be represented in the target format.
//
// Type identifies the logical type being marshaled and Value is the
// offending numeric representation, rendered as a decimal integer. Reason is
// optional; when set it replaces the numeric rendering (for example, "NaN is
// not representable").
type MarshalError struct {
	// Type is the logical name of the type being marshaled (for example, "Kind").
	Type string

	// Value is the underlying numeric representation that could not be
	// marshaled.
	Value int

	// Reason optionally explains the failure.
	Reason string
}

// Error implements the error interface for MarshalError.
//
// The error message format is:
//
//	"dxdoc: cannot marshal invalid {Type} value: {Value}"
//	"dxdoc: cannot marshal {Type}: {Reason}" (when Reason is set)
func (e *MarshalError) Error() string {
	if e.Reason != "" {
		return "dxdoc: cannot marshal " + e.Type + ": " + e.Reason
	}
	return "dxdoc: cannot marshal invalid " + e.Type + " value: " + strconv.Itoa(e.Value)
}

// UnmarshalError is returned when unmarshaling data into a typed value fails.
//
// Type identifies the logical type being populated, Data contains the
// original raw payload, and Reason provides a human-readable description of
// what went wrong.
type UnmarshalError struct {
	// Type is the logical name of the type being unmarshaled into.
	Type string

	// Data is the raw input that failed to unmarshal.
	//
	// Callers MAY choose to log or redact this field depending on privacy
	// and size considerations.
	Data []byte

	// Reason is a short, human-readable explanation of the failure.
	Reason string
}

// Error implements the error interface for UnmarshalError.
//
// The error message format is:
//
//	"dxdoc: cannot unmarshal {Type}: {Reason}"
//
// The Data field is not included in the formatted message.
func (e *UnmarshalError) Error() string {
	return "dxdoc: cannot unmarshal " + e.Type + ": " + e.Reason
}

// ValidationError is returned when an invariant check fails.
//
// Type identifies the container or model being validated, Field optionally
// identifies the part that failed, Reason explains the failure and Value
// optionally carries the offending value.
type ValidationError struct {
	// Type is the logical name of the type being validated.
	Type string

	// Field is the name of the field or invariant that failed validation.
	// May be empty if the error applies to the entire type.
	Field string

	// Reason is a short, human-readable explanation of why validation failed.
	Reason string

	// Value optionally contains the invalid value.
	Value any
}

// Error implements the error interface for ValidationError.
//
// The error message format is:
//
//	"dxdoc: invalid {Type}.{Field}: {Reason}" (when Field is specified)
//	"dxdoc: invalid {Type}: {Reason}" (when Field is empty)
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "dxdoc: invalid " + e.Type + "." + e.Field + ": " + e.Reason
	}
	return "dxdoc: invalid " + e.Type + ": " + e.Reason
}
