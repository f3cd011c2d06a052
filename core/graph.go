// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"maps"
	"slices"
)

// Graph maps a head token to the set of tokens related to it.
// Edges are directed as stored; symmetry is not assumed.
type Graph struct {
	heads     []string
	neighbors map[string]map[string]struct{}
}

// NewGraph creates an empty relation graph.
func NewGraph() *Graph {
	return &Graph{
		neighbors: make(map[string]map[string]struct{}),
	}
}

// Merge adds related to the neighbor set of head, creating the set on first
// use. Existing neighbors are kept; merging with no related tokens still
// registers head.
func (g *Graph) Merge(head string, related ...string) {
	set, ok := g.neighbors[head]
	if !ok {
		set = make(map[string]struct{}, len(related))
		g.neighbors[head] = set
		g.heads = append(g.heads, head)
	}
	for _, r := range related {
		set[r] = struct{}{}
	}
}

// Has reports whether head is a key of the graph.
func (g *Graph) Has(head string) bool {
	_, ok := g.neighbors[head]
	return ok
}

// Neighbors returns the related tokens of head in lexicographic order.
func (g *Graph) Neighbors(head string) []string {
	return slices.Sorted(maps.Keys(g.neighbors[head]))
}

// Heads returns the head tokens in first-seen order.
func (g *Graph) Heads() []string {
	return slices.Clone(g.heads)
}

// Len returns the number of heads.
func (g *Graph) Len() int {
	return len(g.heads)
}
