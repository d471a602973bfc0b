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
	"math"
	"strconv"

	"dirpx.dev/dxdoc/dxcore/errors"
	"gopkg.in/yaml.v3"
)

const hexDigits = "0123456789abcdef"

// MarshalJSON encodes d as compact JSON. Object keys are sorted. String
// bytes are copied verbatim except for '"', '\\' and control bytes, which
// are escaped. Non-finite numbers yield a *errors.MarshalError.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte(NullStr), nil
	}
	return d.appendJSON(make([]byte, 0, 64))
}

// AppendJSON appends the compact JSON form of d to dst.
func (d *Document) AppendJSON(dst []byte) ([]byte, error) {
	if d == nil {
		return append(dst, NullStr...), nil
	}
	return d.appendJSON(dst)
}

func (d *Document) appendJSON(dst []byte) ([]byte, error) {
	switch d.kind {
	case Null:
		return append(dst, NullStr...), nil
	case Boolean:
		return strconv.AppendBool(dst, d.flag), nil
	case Number:
		if math.IsInf(d.num, 0) || math.IsNaN(d.num) {
			return nil, &errors.MarshalError{Type: typeName, Reason: "non-finite number " + strconv.FormatFloat(d.num, 'g', -1, 64)}
		}
		return appendNumber(dst, d.num), nil
	case String:
		return appendQuoted(dst, d.text), nil
	case Array:
		dst = append(dst, '[')
		for i, child := range d.arr.All() {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = child.appendJSON(dst); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case Object:
		dst = append(dst, '{')
		for i, k := range d.Keys() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendQuoted(dst, k)
			dst = append(dst, ':')
			child, _ := d.obj.Get(k)
			var err error
			if dst, err = child.appendJSON(dst); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	default:
		return nil, &errors.MarshalError{Type: typeName, Value: int(d.kind)}
	}
}

// appendNumber writes the shortest representation that parses back to f,
// switching to exponent form outside [1e-6, 1e21) like encoding/json.
func appendNumber(dst []byte, f float64) []byte {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// e-09 becomes e-9
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}

// appendQuoted writes s as a JSON string without validating or rewriting its
// UTF-8, so that parsing the output reproduces the exact bytes.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			dst = append(dst, '\\', c)
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}

// UnmarshalJSON replaces the contents of d with the document parsed from
// data. On failure d is left unchanged.
func (d *Document) UnmarshalJSON(data []byte) error {
	if d == nil {
		return &errors.NullInputError{Type: typeName, Op: "UnmarshalJSON"}
	}
	parsed, err := Parse(data)
	if err != nil {
		return &errors.UnmarshalError{Type: typeName, Data: data, Reason: err.Error()}
	}
	d.Release()
	*d = *parsed
	return nil
}

// MarshalYAML returns the yaml.v3 node tree for d. Integral numbers below
// 2^53 are tagged !!int, other numbers !!float. Object keys are sorted.
func (d *Document) MarshalYAML() (any, error) {
	return d.yamlNode()
}

const maxExactInt = 1 << 53

func (d *Document) yamlNode() (*yaml.Node, error) {
	switch d.Kind() {
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case Boolean:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(d.flag)}, nil
	case Number:
		if math.IsInf(d.num, 0) || math.IsNaN(d.num) {
			return nil, &errors.MarshalError{Type: typeName, Reason: "non-finite number " + strconv.FormatFloat(d.num, 'g', -1, 64)}
		}
		if d.num == math.Trunc(d.num) && math.Abs(d.num) < maxExactInt {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(d.num), 10)}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: string(appendNumber(nil, d.num))}, nil
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.text}, nil
	case Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for child := range d.arr.Values() {
			n, err := child.yamlNode()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, n)
		}
		return node, nil
	case Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range d.Keys() {
			child, _ := d.obj.Get(k)
			n, err := child.yamlNode()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, n)
		}
		return node, nil
	default:
		return nil, &errors.MarshalError{Type: typeName, Value: int(d.kind)}
	}
}

// UnmarshalYAML replaces the contents of d with the document described by
// node. Aliases are resolved; non-finite numbers and non-scalar mapping
// keys are rejected. On failure d is left unchanged.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	if d == nil {
		return &errors.NullInputError{Type: typeName, Op: "UnmarshalYAML"}
	}
	built, err := FromYAMLNode(node, ParseOptions{})
	if err != nil {
		return err
	}
	d.Release()
	*d = *built
	return nil
}

// maxAliasNodes bounds the documents built while expanding aliases, so a
// small input cannot expand into an exponentially large tree.
const maxAliasNodes = 100_000

// FromYAMLNode builds a Document from a yaml.v3 node tree, sizing arrays and
// objects with opts. Aliases are expanded by copying the anchored subtree.
// An alias that refers to one of its own ancestors, expansion beyond
// maxAliasNodes documents, or nesting deeper than opts.MaxDepth yields an
// *errors.UnmarshalError.
//
// Example:
//
//	var node yaml.Node
//	if err := yaml.Unmarshal(data, &node); err != nil {
//	    return err
//	}
//	doc, err := jsondoc.FromYAMLNode(&node, jsondoc.ParseOptions{})
func FromYAMLNode(node *yaml.Node, opts ParseOptions) (*Document, error) {
	if node == nil {
		return nil, &errors.NullInputError{Type: typeName, Op: "FromYAMLNode"}
	}
	b := &yamlBuilder{opts: opts.withDefaults(), open: map[*yaml.Node]bool{}}
	return b.build(node)
}

func yamlError(node *yaml.Node, reason string) error {
	return &errors.UnmarshalError{Type: typeName, Data: []byte(node.Value), Reason: "line " + strconv.Itoa(node.Line) + ": " + reason}
}

// yamlBuilder converts one node tree. open holds the anchored nodes on the
// current path; aliased counts documents built inside alias expansions.
type yamlBuilder struct {
	opts    ParseOptions
	open    map[*yaml.Node]bool
	depth   int
	aliases int
	aliased int
}

func (b *yamlBuilder) build(node *yaml.Node) (*Document, error) {
	if b.aliases > 0 {
		b.aliased++
		if b.aliased > maxAliasNodes {
			return nil, yamlError(node, "alias expansion limit exceeded")
		}
	}
	if node.Anchor != "" {
		if b.open[node] {
			return nil, yamlError(node, "alias cycle")
		}
		b.open[node] = true
		defer delete(b.open, node)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NewNull(), nil
		}
		return b.build(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, yamlError(node, "dangling alias")
		}
		if b.open[node.Alias] {
			return nil, yamlError(node, "alias cycle")
		}
		b.aliases++
		defer func() { b.aliases-- }()
		return b.build(node.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	case yaml.SequenceNode:
		if b.depth >= b.opts.MaxDepth {
			return nil, yamlError(node, "nesting too deep")
		}
		b.depth++
		defer func() { b.depth-- }()

		arr, err := NewArray(max(b.opts.ArrayCapacity, len(node.Content)))
		if err != nil {
			return nil, err
		}
		for _, c := range node.Content {
			child, err := b.build(c)
			if err != nil {
				arr.Release()
				return nil, err
			}
			if err := arr.Append(child); err != nil {
				child.Release()
				arr.Release()
				return nil, err
			}
		}
		return arr, nil
	case yaml.MappingNode:
		if b.depth >= b.opts.MaxDepth {
			return nil, yamlError(node, "nesting too deep")
		}
		b.depth++
		defer func() { b.depth-- }()

		obj, err := NewObject(b.opts.ObjectBuckets)
		if err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			k := node.Content[i]
			if k.Kind != yaml.ScalarNode {
				obj.Release()
				return nil, yamlError(k, "mapping key is not a scalar")
			}
			child, err := b.build(node.Content[i+1])
			if err != nil {
				obj.Release()
				return nil, err
			}
			if err := obj.Put(k.Value, child); err != nil {
				child.Release()
				obj.Release()
				return nil, err
			}
		}
		return obj, nil
	default:
		return nil, yamlError(node, "unsupported node kind")
	}
}

func scalarFromYAML(node *yaml.Node) (*Document, error) {
	switch node.ShortTag() {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, yamlError(node, err.Error())
		}
		return NewBool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, yamlError(node, err.Error())
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, yamlError(node, "non-finite number")
		}
		return NewNumber(f), nil
	default:
		return NewString(node.Value), nil
	}
}
