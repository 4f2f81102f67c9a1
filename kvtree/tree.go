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

// Package kvtree implements an immutable binary Merkle tree built from
// ordered key/value data or from raw leaves. The tree answers inclusion
// proofs and can be exported either as a full snapshot of its nodes or in an
// optimized format which prunes the subtrees made only of padding.
package kvtree

import (
	"math/big"

	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/bbva/kvmerkle/log"
	"github.com/pkg/errors"
)

// Tree owns its node and pointer stores. It is never modified once built,
// so it is safe for concurrent readers.
type Tree struct {
	nodes    *NodeStore
	pointers *PointerStore

	root       Ref
	height     int
	hashLeaves bool

	hasher hashing.Hasher
	nulls  *NullTable
	log    log.Logger
}

func newTree(o *options) *Tree {
	return &Tree{
		nodes:      newNodeStore(),
		pointers:   newPointerStore(),
		hashLeaves: o.hashLeaves,
		hasher:     o.hasher,
		nulls:      o.nulls,
		log:        o.logger,
	}
}

func (t *Tree) Root() (Hash, error) {
	if !t.root.Valid {
		return "", ErrUninitialized
	}
	return t.root.Hash, nil
}

// Height is the number of hashing rounds between the leaves and the root.
func (t *Tree) Height() int {
	return t.height
}

func (t *Tree) HashLeaves() bool {
	return t.hashLeaves
}

func (t *Tree) Nodes() *NodeStore {
	return t.nodes
}

func (t *Tree) Pointers() *PointerStore {
	return t.pointers
}

// Value returns the value stored for a key, as canonical hex.
func (t *Tree) Value(key string) (string, error) {
	p, err := t.pointer(key)
	if err != nil {
		return "", err
	}
	return p.Value, nil
}

// Leaf returns the leaf a key produced.
func (t *Tree) Leaf(key string) (Hash, error) {
	p, err := t.pointer(key)
	if err != nil {
		return "", err
	}
	return p.Leaf, nil
}

func (t *Tree) pointer(key string) (Pointer, error) {
	if t.pointers.Empty() {
		return Pointer{}, ErrNoPointerData
	}
	p, ok := t.pointers.Get(key)
	if !ok {
		return Pointer{}, ErrKeyNotFound
	}
	return p, nil
}

func (t *Tree) nullTable() (*NullTable, error) {
	if t.nulls == nil {
		if t.hasher == nil {
			return nil, ErrMissingHashFunction
		}
		nulls, err := NewNullTable(t.hasher, DefaultMaxDepth)
		if err != nil {
			return nil, err
		}
		t.nulls = nulls
	}
	return t.nulls, nil
}

func (t *Tree) hash(inputs ...Hash) (Hash, error) {
	if t.hasher == nil {
		return "", ErrMissingHashFunction
	}
	return hashAll(t.hasher, inputs...)
}

func hashAll(hasher hashing.Hasher, inputs ...Hash) (Hash, error) {
	elements := make([]*big.Int, len(inputs))
	for i, in := range inputs {
		e, err := element(in)
		if err != nil {
			return "", err
		}
		elements[i] = e
	}
	digest, err := hasher.Hash(elements...)
	if err != nil {
		return "", errors.Wrap(err, "hashing node")
	}
	return Hash(hashing.ToHex(digest)), nil
}
