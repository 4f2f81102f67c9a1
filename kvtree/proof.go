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

const (
	// SiblingRight means the proven node is the left child.
	SiblingRight uint8 = 0
	// SiblingLeft means the proven node is the right child.
	SiblingLeft uint8 = 1
)

// PathStep is one level of a Merkle path.
type PathStep struct {
	Sibling   *big.Int
	Direction uint8
}

// MerklePath lists the siblings from the leaf up to the root.
type MerklePath []PathStep

func (p MerklePath) Elements() []*big.Int {
	elements := make([]*big.Int, len(p))
	for i, step := range p {
		elements[i] = step.Sibling
	}
	return elements
}

func (p MerklePath) Indices() []uint8 {
	indices := make([]uint8, len(p))
	for i, step := range p {
		indices[i] = step.Direction
	}
	return indices
}

type jsonPath struct {
	Elements []string `json:"elements"`
	Indices  []int    `json:"indices"`
}

func (p MerklePath) MarshalJSON() ([]byte, error) {
	jp := jsonPath{
		Elements: make([]string, len(p)),
		Indices:  make([]int, len(p)),
	}
	for i, step := range p {
		if step.Sibling == nil {
			return nil, errors.Wrapf(ErrInvalidPath, "missing sibling at step %d", i)
		}
		jp.Elements[i] = hashing.ToHex(step.Sibling)
		jp.Indices[i] = int(step.Direction)
	}
	return json.Marshal(jp)
}

func (p *MerklePath) UnmarshalJSON(data []byte) error {
	var jp jsonPath
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	if len(jp.Elements) != len(jp.Indices) {
		return errors.Wrapf(ErrInvalidPath, "%d elements and %d indices", len(jp.Elements), len(jp.Indices))
	}
	path := make(MerklePath, len(jp.Elements))
	for i := range jp.Elements {
		sibling, err := hashing.ParseElement(jp.Elements[i])
		if err != nil {
			return errors.Wrapf(ErrInvalidPath, "element %d: %v", i, err)
		}
		if jp.Indices[i] != int(SiblingRight) && jp.Indices[i] != int(SiblingLeft) {
			return errors.Wrapf(ErrInvalidPath, "direction %d at step %d", jp.Indices[i], i)
		}
		path[i] = PathStep{Sibling: sibling, Direction: uint8(jp.Indices[i])}
	}
	*p = path
	return nil
}

// PathFromKey returns the Merkle path of the leaf a key produced.
func (t *Tree) PathFromKey(key string) (MerklePath, error) {
	p, err := t.pointer(key)
	if err != nil {
		return nil, err
	}
	return t.PathFromLeaf(p.Leaf)
}

// PathFromLeaf walks parent links from a leaf up to the root.
func (t *Tree) PathFromLeaf(leaf Hash) (MerklePath, error) {
	current := leaf
	node, ok := t.nodes.Get(current)
	if !ok {
		return nil, ErrLeafNotFound
	}

	path := make(MerklePath, 0, t.height)
	for node.Parent.Valid {
		if len(path) >= t.nodes.Len() {
			return nil, errors.Wrapf(ErrCorruptTree, "cycle walking up from %s", leaf)
		}
		parentHash := node.Parent.Hash
		parent, ok := t.nodes.Get(parentHash)
		if !ok {
			return nil, errors.Wrapf(ErrCorruptTree, "missing parent %s", parentHash)
		}

		var step PathStep
		switch {
		case parent.Left.Valid && parent.Left.Hash == current && parent.Right.Valid:
			sibling, err := element(parent.Right.Hash)
			if err != nil {
				return nil, err
			}
			step = PathStep{Sibling: sibling, Direction: SiblingRight}
		case parent.Right.Valid && parent.Right.Hash == current && parent.Left.Valid:
			sibling, err := element(parent.Left.Hash)
			if err != nil {
				return nil, err
			}
			step = PathStep{Sibling: sibling, Direction: SiblingLeft}
		default:
			return nil, errors.Wrapf(ErrCorruptTree, "%s is not a child of %s", current, parentHash)
		}
		path = append(path, step)

		current = parentHash
		node = parent
	}

	PathTotal.Inc()
	return path, nil
}

// Verify checks that the leaf belongs to the tree and that the path
// recomputes the tree root from it.
func (t *Tree) Verify(path MerklePath, leaf Hash) (bool, error) {
	if _, ok := t.nodes.Get(leaf); !ok {
		return false, ErrLeafNotFound
	}
	if t.hasher == nil {
		return false, ErrMissingHashFunction
	}
	root, err := t.Root()
	if err != nil {
		return false, err
	}
	return VerifyPath(t.hasher, root, leaf, path)
}

// VerifyPath recomputes a root from a leaf and its Merkle path and compares
// it with the expected one. It needs no tree.
func VerifyPath(hasher hashing.Hasher, root, leaf Hash, path MerklePath) (bool, error) {
	if hasher == nil {
		return false, ErrMissingHashFunction
	}
	expected, err := element(root)
	if err != nil {
		return false, err
	}
	acc, err := element(leaf)
	if err != nil {
		return false, err
	}

	for i, step := range path {
		if step.Sibling == nil {
			return false, errors.Wrapf(ErrInvalidPath, "missing sibling at step %d", i)
		}
		switch step.Direction {
		case SiblingRight:
			acc, err = hasher.Hash(acc, step.Sibling)
		case SiblingLeft:
			acc, err = hasher.Hash(step.Sibling, acc)
		default:
			return false, errors.Wrapf(ErrInvalidPath, "direction %d at step %d", step.Direction, i)
		}
		if err != nil {
			return false, errors.Wrapf(err, "hashing step %d", i)
		}
	}

	VerifyTotal.Inc()
	return acc.Cmp(expected) == 0, nil
}

// Position returns the zero-based slot of a key's leaf in the padded leaf
// level. The directions read from the root down are its binary digits.
func (t *Tree) Position(key string) (uint64, error) {
	path, err := t.PathFromKey(key)
	if err != nil {
		return 0, err
	}
	var position uint64
	for i := len(path) - 1; i >= 0; i-- {
		position = position<<1 | uint64(path[i].Direction)
	}
	return position, nil
}
