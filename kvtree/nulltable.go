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
	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/pkg/errors"
)

const (
	// ZeroLeaf is the value used to pad the leaf level up to a power of two.
	ZeroLeaf Hash = "0x00"

	DefaultMaxDepth = 32

	// MaxSupportedDepth keeps every leaf position addressable with an uint64.
	MaxSupportedDepth = 62
)

// NullTable holds the hash of a subtree made only of padding, for every
// depth up to MaxDepth. Entry 0 is the zero leaf and entry i is the hash of
// two entries i-1.
//
// A NullTable is read-only once built and can be shared by any number of
// trees built with the same hasher. Extend must not be called while other
// goroutines read the table.
type NullTable struct {
	hasher hashing.Hasher
	levels []Hash
	depths map[Hash]int
}

func NewNullTable(hasher hashing.Hasher, maxDepth int) (*NullTable, error) {
	if hasher == nil {
		return nil, ErrMissingHashFunction
	}
	if maxDepth < 0 {
		return nil, errors.Wrapf(ErrDepthExceeded, "negative depth %d", maxDepth)
	}
	t := &NullTable{
		hasher: hasher,
		levels: []Hash{ZeroLeaf},
		depths: map[Hash]int{ZeroLeaf: 0},
	}
	if err := t.Extend(maxDepth); err != nil {
		return nil, err
	}
	return t, nil
}

// Extend computes the missing entries up to the given depth.
func (t *NullTable) Extend(depth int) error {
	if depth > MaxSupportedDepth {
		return errors.Wrapf(ErrDepthExceeded, "depth %d over supported %d", depth, MaxSupportedDepth)
	}
	for len(t.levels) <= depth {
		prev, err := element(t.levels[len(t.levels)-1])
		if err != nil {
			return err
		}
		digest, err := t.hasher.Hash(prev, prev)
		if err != nil {
			return errors.Wrapf(err, "hashing null subtree at depth %d", len(t.levels))
		}
		next := Hash(hashing.ToHex(digest))
		if _, ok := t.depths[next]; !ok {
			t.depths[next] = len(t.levels)
		}
		t.levels = append(t.levels, next)
	}
	return nil
}

func (t *NullTable) MaxDepth() int {
	return len(t.levels) - 1
}

// At returns the null subtree hash for the given depth.
func (t *NullTable) At(depth int) (Hash, error) {
	if depth < 0 || depth > t.MaxDepth() {
		return "", errors.Wrapf(ErrDepthExceeded, "depth %d, table holds %d", depth, t.MaxDepth())
	}
	return t.levels[depth], nil
}

// Depth returns the depth of a null subtree hash. The boolean is false when
// the hash does not belong to the table.
func (t *NullTable) Depth(h Hash) (int, bool) {
	d, ok := t.depths[h]
	return d, ok
}

func (t *NullTable) Hasher() hashing.Hasher {
	return t.hasher
}

// parentOf returns the shortcut parent of two equal null subtrees.
func (t *NullTable) parentOf(left, right Hash) (Hash, bool) {
	if left != right {
		return "", false
	}
	d, ok := t.depths[left]
	if !ok || d >= t.MaxDepth() {
		return "", false
	}
	return t.levels[d+1], true
}
