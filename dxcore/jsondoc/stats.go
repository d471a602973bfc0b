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

// Stats summarizes the shape of a document tree.
type Stats struct {
	// Nodes is the total number of nodes, root included.
	Nodes int `json:"nodes" yaml:"nodes"`

	// MaxDepth is the deepest nesting level. A scalar root has depth 0.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// LargestObject is the highest entry count among objects.
	LargestObject int `json:"largest_object" yaml:"largest_object"`

	// LongestChain is the highest bucket chain high-water mark among objects.
	LongestChain int `json:"longest_chain" yaml:"longest_chain"`

	// Kinds counts nodes per kind.
	Kinds map[Kind]int `json:"kinds" yaml:"kinds"`
}

// Summarize walks d and collects its Stats. A nil document has no nodes.
func Summarize(d *Document) Stats {
	st := Stats{Kinds: make(map[Kind]int)}
	for depth, n := range d.Walk() {
		st.Nodes++
		st.Kinds[n.kind]++
		st.MaxDepth = max(st.MaxDepth, depth)
		if n.kind == Object {
			st.LargestObject = max(st.LargestObject, n.obj.Len())
			st.LongestChain = max(st.LongestChain, n.obj.MaxChainLen())
		}
	}
	return st
}
