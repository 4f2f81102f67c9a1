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
	"strings"

	"github.com/pkg/errors"
)

const pointerSeparator = "#"

// CompactV1 is the level by level export of a tree. Level i lists the non
// null nodes at distance i from the root, left to right. The last level
// lists one "key#value" pointer per leaf of the level before it.
type CompactV1 [][]string

// ToCompactV1 walks the tree breadth first skipping null subtrees.
//
// Trees the format cannot rebuild fail with ErrNonCanonicalTree instead of
// being pruned: a real node placed after a null one on the same level, a
// node whose two children are the same non null hash (so a root over two
// equal leaves is not cut down to a single level), and trees made only of
// padding.
func (t *Tree) ToCompactV1() (CompactV1, error) {
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	nulls, err := t.nullTable()
	if err != nil {
		return nil, err
	}
	isNull := func(h Hash) bool {
		_, ok := nulls.Depth(h)
		return ok
	}

	levels := make(CompactV1, 0, t.height+2)
	current := []Hash{root}
	for len(current) > 0 {
		values := make([]string, 0, len(current))
		next := make([]Hash, 0, 2*len(current))
		skipped := false

		push := func(h Hash) error {
			if isNull(h) {
				skipped = true
				return nil
			}
			if skipped {
				return errors.Wrapf(ErrNonCanonicalTree, "%s follows a null subtree", h)
			}
			next = append(next, h)
			return nil
		}

		for _, h := range current {
			node, ok := t.nodes.Get(h)
			if !ok {
				return nil, errors.Wrapf(ErrCorruptTree, "missing node %s", h)
			}
			values = append(values, string(h))

			if node.Left.Valid != node.Right.Valid {
				return nil, errors.Wrapf(ErrCorruptTree, "node %s has a single child", h)
			}
			if node.Left == node.Right {
				if node.Left.Valid {
					return nil, errors.Wrapf(ErrNonCanonicalTree, "node %s has identical children", h)
				}
				continue
			}
			if err := push(node.Left.Hash); err != nil {
				return nil, err
			}
			if err := push(node.Right.Hash); err != nil {
				return nil, err
			}
		}

		levels = append(levels, values)
		current = next
	}

	if len(levels) != t.height+1 {
		return nil, errors.Wrapf(ErrNonCanonicalTree, "%d levels for height %d", len(levels), t.height)
	}

	leaves := levels[len(levels)-1]
	pointers := make([]string, 0, len(leaves))
	if !t.pointers.Empty() {
		keys := t.pointers.byLeaf()
		for _, leaf := range leaves {
			key, ok := keys[Hash(leaf)]
			if !ok {
				return nil, errors.Wrapf(ErrMissingPointer, "leaf %s", leaf)
			}
			p, _ := t.pointers.Get(key)
			pointers = append(pointers, key+pointerSeparator+p.Value)
		}
	}
	levels = append(levels, pointers)

	EncodeTotal.Inc()
	return levels, nil
}

// FromCompactV1 rebuilds a tree from its compact export. The null table
// comes from WithNullTable or is computed with the WithHasher hasher.
func FromCompactV1(levels CompactV1, opts ...Option) (*Tree, error) {
	o := newOptions(true, opts)
	nulls, err := o.nullTable()
	if err != nil {
		return nil, err
	}
	o.nulls = nulls

	if err := validateCompact(levels); err != nil {
		return nil, err
	}
	height := len(levels) - 2
	if height > nulls.MaxDepth() {
		return nil, errors.Wrapf(ErrDepthExceeded, "height %d, table holds %d", height, nulls.MaxDepth())
	}

	t := newTree(o)
	nullAt := func(depth int) Ref {
		if depth < 0 || depth > height {
			return Ref{}
		}
		return Some(nulls.levels[depth])
	}
	at := func(level []string, j int, fallback Ref) Ref {
		if j < len(level) {
			return Some(Hash(level[j]))
		}
		return fallback
	}

	for i := 0; i <= height; i++ {
		current := levels[i]
		linksOf := func(j int) Node {
			var n Node
			if i > 0 {
				n.Parent = at(levels[i-1], j/2, nullAt(height-i+1))
			}
			if i < height {
				n.Left = at(levels[i+1], 2*j, nullAt(height-i-1))
				n.Right = at(levels[i+1], 2*j+1, nullAt(height-i-1))
			}
			return n
		}

		for j, h := range current {
			t.nodes.put(Hash(h), linksOf(j))
		}
		if width := 1 << uint(i); len(current) < width {
			t.nodes.put(nulls.levels[height-i], linksOf(width-1))
		}
	}

	leaves := levels[height]
	for i, formatted := range levels[height+1] {
		key, value, _ := strings.Cut(formatted, pointerSeparator)
		t.pointers.put(key, Pointer{Leaf: Hash(leaves[i]), Value: value})
	}

	t.root = Some(Hash(levels[0][0]))
	t.height = height

	DecodeTotal.Inc()
	return t, nil
}

func validateCompact(levels CompactV1) error {
	if len(levels) < 2 {
		return errors.Wrapf(ErrInvalidCompactFormat, "%d levels", len(levels))
	}
	if len(levels[0]) != 1 {
		return errors.Wrapf(ErrInvalidCompactFormat, "%d roots", len(levels[0]))
	}
	height := len(levels) - 2
	if height > MaxSupportedDepth {
		return errors.Wrapf(ErrDepthExceeded, "height %d", height)
	}
	for i := 0; i <= height; i++ {
		level := levels[i]
		if len(level) == 0 {
			return errors.Wrapf(ErrInvalidCompactFormat, "empty level %d", i)
		}
		if len(level) > 1<<uint(i) {
			return errors.Wrapf(ErrInvalidCompactFormat, "level %d holds %d nodes", i, len(level))
		}
		if i > 0 && len(level) > 2*len(levels[i-1]) {
			return errors.Wrapf(ErrInvalidCompactFormat, "level %d outgrows its parents", i)
		}
		for j, h := range level {
			if h == "" {
				return errors.Wrapf(ErrInvalidCompactFormat, "empty node %d at level %d", j, i)
			}
		}
	}
	pointers := levels[height+1]
	if len(pointers) != 0 && len(pointers) != len(levels[height]) {
		return errors.Wrapf(ErrInvalidCompactFormat, "%d pointers for %d leaves", len(pointers), len(levels[height]))
	}
	for i, p := range pointers {
		if !strings.Contains(p, pointerSeparator) {
			return errors.Wrapf(ErrInvalidCompactFormat, "pointer %d %q", i, p)
		}
	}
	return nil
}
