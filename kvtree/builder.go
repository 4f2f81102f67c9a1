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
	"math/bits"
	"time"

	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/pkg/errors"
)

// Entry is a key/value pair committed by a data tree. Both are field
// elements written as 0x-prefixed hex or decimal strings.
type Entry struct {
	Key   string
	Value string
}

// FromData builds a tree over the entries in the order given. Leaves are
// hash(key, value) unless WithHashLeaves(false) is passed, in which case the
// leaf is the key followed by the decimal value.
func FromData(data []Entry, hasher hashing.Hasher, opts ...Option) (*Tree, error) {
	if hasher == nil {
		return nil, ErrMissingHashFunction
	}
	o := newOptions(true, append(opts, WithHasher(hasher)))
	t, err := prepare(o)
	if err != nil {
		return nil, err
	}

	leaves := make([]Hash, 0, len(data))
	seen := make(map[Hash]struct{}, len(data))
	for i, entry := range data {
		key, err := hashing.ParseElement(entry.Key)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidElement, "key %d %q: %v", i, entry.Key, err)
		}
		value, err := hashing.ParseElement(entry.Value)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidElement, "value %d %q: %v", i, entry.Value, err)
		}
		// hash(0, 0) is a null subtree hash, such a leaf would be
		// indistinguishable from padding.
		if key.Sign() == 0 && value.Sign() == 0 {
			continue
		}
		if _, ok := t.pointers.Get(entry.Key); ok {
			return nil, errors.Wrapf(ErrDuplicateKey, "key %q", entry.Key)
		}

		var leaf Hash
		if t.hashLeaves {
			digest, err := hasher.Hash(key, value)
			if err != nil {
				return nil, errors.Wrapf(err, "hashing leaf for key %q", entry.Key)
			}
			leaf = Hash(hashing.ToHex(digest))
		} else {
			leaf = Hash(entry.Key + value.String())
		}
		if _, ok := seen[leaf]; ok {
			return nil, errors.Wrapf(ErrDuplicateKey, "key %q collides on leaf %s", entry.Key, leaf)
		}
		seen[leaf] = struct{}{}

		t.pointers.put(entry.Key, Pointer{Leaf: leaf, Value: hashing.ToHex(value)})
		leaves = append(leaves, leaf)
	}

	if err := t.build(leaves, o); err != nil {
		return nil, err
	}
	return t, nil
}

// FromLeaves builds a tree over raw leaf values. Leaves are stored verbatim
// unless WithHashLeaves(true) is passed, in which case each one is replaced
// by hash(leaf). No key/value pointers are recorded.
func FromLeaves(leaves []string, hasher hashing.Hasher, opts ...Option) (*Tree, error) {
	if hasher == nil {
		return nil, ErrMissingHashFunction
	}
	o := newOptions(false, append(opts, WithHasher(hasher)))
	t, err := prepare(o)
	if err != nil {
		return nil, err
	}

	values := make([]Hash, len(leaves))
	for i, leaf := range leaves {
		n, err := hashing.ParseElement(leaf)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidElement, "leaf %d %q: %v", i, leaf, err)
		}
		if !t.hashLeaves {
			values[i] = Hash(leaf)
			continue
		}
		digest, err := hasher.Hash(n)
		if err != nil {
			return nil, errors.Wrapf(err, "hashing leaf %d", i)
		}
		values[i] = Hash(hashing.ToHex(digest))
	}

	if err := t.build(values, o); err != nil {
		return nil, err
	}
	return t, nil
}

func prepare(o *options) (*Tree, error) {
	nulls, err := o.nullTable()
	if err != nil {
		return nil, err
	}
	o.nulls = nulls
	return newTree(o), nil
}

// targetHeight returns the height of the padded leaf level.
func targetHeight(n int, o *options) (int, error) {
	if n == 0 {
		return 0, ErrNoLeaves
	}
	height := 0
	if n > 1 {
		height = bits.Len(uint(n - 1))
	}
	if !o.forced {
		return height, nil
	}
	if o.forceHeight < 0 {
		return 0, errors.Wrapf(ErrInvalidForcedHeight, "negative height %d", o.forceHeight)
	}
	if o.forceHeight > MaxSupportedDepth {
		return 0, errors.Wrapf(ErrDepthExceeded, "forced height %d", o.forceHeight)
	}
	if o.forceHeight < height {
		return 0, errors.Wrapf(ErrInvalidForcedHeight, "height %d cannot hold %d leaves", o.forceHeight, n)
	}
	return o.forceHeight, nil
}

// build reduces the leaves level by level up to the root. Only the real
// prefix of each level is materialized: the padding on its right is a run
// of one null subtree hash, whose single pair is linked after the real
// pairs, which is the order a left to right walk over the padded level
// would leave the stores in.
func (t *Tree) build(leaves []Hash, o *options) error {
	start := time.Now()

	height, err := targetHeight(len(leaves), o)
	if err != nil {
		return err
	}
	if height > t.nulls.MaxDepth() {
		return errors.Wrapf(ErrDepthExceeded, "height %d, table holds %d", height, t.nulls.MaxDepth())
	}

	t.log.Debugf("Building tree of height %d over %d leaves", height, len(leaves))

	defer func() {
		BuildTotal.Inc()
		BuildDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	if height == 0 {
		t.nodes.put(leaves[0], Node{})
		t.root = Some(leaves[0])
		t.height = 0
		return nil
	}

	level := leaves
	for depth := 0; depth < height; depth++ {
		width := 1 << uint(height-depth)
		null := t.nulls.levels[depth]

		parents := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left, right := level[i], null
			if i+1 < len(level) {
				right = level[i+1]
			}
			parent, err := t.parentOf(left, right)
			if err != nil {
				return err
			}
			t.nodes.link(parent, left, right)
			parents = append(parents, parent)
		}

		if 2*len(parents) < width {
			t.nodes.link(t.nulls.levels[depth+1], null, null)
		}

		level = parents
		t.height++
	}
	t.root = Some(level[0])

	t.log.Debugf("Built tree with root %s and %d nodes", level[0], t.nodes.Len())
	return nil
}

// parentOf takes the null table shortcut for two equal null subtrees and
// hashes the pair otherwise.
func (t *Tree) parentOf(left, right Hash) (Hash, error) {
	if parent, ok := t.nulls.parentOf(left, right); ok {
		return parent, nil
	}
	return t.hash(left, right)
}
