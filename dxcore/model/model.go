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

// Package model defines the contracts shared by dxdoc types.
//
// Two families of types implement these contracts:
//
//   - the owning containers (seq.Sequence, chain.Chain, hashmap.Map), which
//     implement Container: they can check their own invariants, identify
//     themselves in logs, report their size and release what they own;
//   - the JSON document model (jsondoc.Document, jsondoc.Kind), which
//     implements the full Model contract including JSON and YAML
//     serialization.
//
// The contracts prioritize data integrity and debuggability. Validation
// catches corrupted invariants before data crosses an API boundary.
// Serialization provides round-trip guarantees. Loggable keeps payload data
// out of logs unless a caller explicitly asks for it.
//
// Implementations are not safe for concurrent mutation. Callers MUST
// synchronize writes themselves.
//
// Types implementing Model can be used with the generic helpers in this
// package: ValidateAll, FilterZero, MustValidate, SafeString, ToJSON, ToYAML,
// FromJSON, FromYAML, Clone and Equal.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the root interface combining all contracts required for
// serializable dxdoc types: validation, JSON and YAML round-tripping, safe
// logging, type identification and zero-value detection.
//
// Example implementation check:
//
//	var _ model.Model = (*Document)(nil)
type Model interface {
	Validatable
	Serializable
	Loggable
	Identifiable
	ZeroCheckable
}

// Container is the contract implemented by the owning containers.
//
// Destroy releases every owned element through the hooks configured at
// construction. After Destroy the container reports Len() == 0.
type Container interface {
	Validatable
	Loggable
	Identifiable

	// Len returns the number of live elements.
	Len() int

	// Destroy releases every owned element.
	Destroy()
}

// Validatable defines the contract for types that check their own
// invariants.
//
// Validate MUST NOT mutate the receiver, MUST be deterministic and MUST NOT
// perform I/O. It returns nil if and only if the instance is consistent.
// When several invariants fail, implementations SHOULD report all of them
// in one aggregated error.
type Validatable interface {
	// Validate checks that the instance satisfies all invariants.
	Validate() error
}

// Serializable defines the contract for types that round-trip through JSON
// and YAML.
//
// A value serialized to JSON and then deserialized MUST be equivalent to the
// original, and the same MUST hold for YAML. Marshal methods SHOULD refuse
// values that cannot be represented (for example, non-finite numbers)
// instead of emitting invalid output.
type Serializable interface {
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Loggable defines the contract for types that provide both a full and a
// log-safe string representation.
//
// Redacted MUST NOT include payload data such as string contents; it is
// meant for production logs. String MAY include everything and is meant for
// debugging and tests.
type Loggable interface {
	// Redacted returns a representation safe to emit in production logs.
	Redacted() string

	// String returns the complete representation.
	String() string
}

// Identifiable defines the contract for types that report a stable type
// name for logs and error messages.
type Identifiable interface {
	// TypeName returns the canonical name of the type, such as "Document".
	TypeName() string
}

// ZeroCheckable defines the contract for types that can report whether they
// hold their zero value.
type ZeroCheckable interface {
	// IsZero reports whether the instance is empty or uninitialized.
	IsZero() bool
}

// Comparable defines structural equality against another value of the
// same type.
type Comparable[T any] interface {
	Equal(other T) bool
}

// Cloneable defines deep copying. The clone MUST NOT share mutable state
// with the receiver.
type Cloneable[T any] interface {
	Clone() T
}
