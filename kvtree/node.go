/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

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

package kvtree

import (
	"encoding/json"
	"math/big"

	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/pkg/errors"
)

// Hash identifies a node. Computed hashes are canonical hex strings while
// raw leaves are kept exactly as they were given.
type Hash string

// element parses a node hash into a field element.
func element(h Hash) (*big.Int, error) {
	n, err := hashing.ParseElement(string(h))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidElement, "%q: %v", h, err)
	}
	return n, nil
}

// Ref is an optional link to another node.
type Ref struct {
	Hash  Hash
	Valid bool
}

func Some(h Hash) Ref {
	return Ref{Hash: h, Valid: true}
}

func (r Ref) Get() (Hash, bool) {
	return r.Hash, r.Valid
}

// Node holds the structural links of a node. Leaves have no children and
// only the root lacks a parent.
type Node struct {
	Parent Ref
	Left   Ref
	Right  Ref
}

func (n Node) IsLeaf() bool {
	return !n.Left.Valid && !n.Right.Valid
}

type jsonNode struct {
	P Hash `json:"p,omitempty"`
	L Hash `json:"l,omitempty"`
	R Hash `json:"r,omitempty"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonNode{P: n.Parent.Hash, L: n.Left.Hash, R: n.Right.Hash})
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return err
	}
	*n = Node{Parent: optional(jn.P), Left: optional(jn.L), Right: optional(jn.R)}
	return nil
}

func optional(h Hash) Ref {
	if h == "" {
		return Ref{}
	}
	return Some(h)
}

// NodeStore maps a node hash to its links. Equal hashes share one entry, so
// every null subtree of a given depth is stored once.
type NodeStore struct {
	nodes map[Hash]Node
}

func newNodeStore() *NodeStore {
	return &NodeStore{nodes: make(map[Hash]Node)}
}

func (s *NodeStore) Get(h Hash) (Node, bool) {
	n, ok := s.nodes[h]
	return n, ok
}

func (s *NodeStore) Len() int {
	return len(s.nodes)
}

// put replaces any previous entry.
func (s *NodeStore) put(h Hash, n Node) {
	s.nodes[h] = n
}

// link records parent on both children and replaces the parent entry with
// its two children.
func (s *NodeStore) link(parent, left, right Hash) {
	l := s.nodes[left]
	l.Parent = Some(parent)
	s.nodes[left] = l

	r := s.nodes[right]
	r.Parent = Some(parent)
	s.nodes[right] = r

	s.nodes[parent] = Node{Left: Some(left), Right: Some(right)}
}

func (s *NodeStore) export() map[Hash]Node {
	out := make(map[Hash]Node, len(s.nodes))
	for h, n := range s.nodes {
		out[h] = n
	}
	return out
}
