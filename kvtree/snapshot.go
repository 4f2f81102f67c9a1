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
	"github.com/pkg/errors"
)

// Snapshot is the full export of a tree: every node with its links and,
// for data trees, every pointer.
type Snapshot struct {
	Root     Hash               `json:"root"`
	Height   int                `json:"height"`
	Tree     map[Hash]Node      `json:"tree"`
	Pointers map[string]Pointer `json:"pointers,omitempty"`
}

func (t *Tree) ToSnapshot() (*Snapshot, error) {
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Root:     root,
		Height:   t.height,
		Tree:     t.nodes.export(),
		Pointers: t.pointers.export(),
	}, nil
}

// FromSnapshot imports a tree without hashing anything. Pass WithHasher to
// be able to verify paths against the imported tree.
func FromSnapshot(s *Snapshot, opts ...Option) (*Tree, error) {
	if s == nil || s.Root == "" {
		return nil, ErrUninitialized
	}
	if s.Height < 0 {
		return nil, errors.Wrapf(ErrCorruptTree, "negative height %d", s.Height)
	}
	if _, ok := s.Tree[s.Root]; !ok {
		return nil, errors.Wrapf(ErrCorruptTree, "root %s not in tree", s.Root)
	}

	o := newOptions(true, opts)
	t := newTree(o)
	for h, n := range s.Tree {
		t.nodes.put(h, n)
	}
	for k, p := range s.Pointers {
		t.pointers.put(k, p)
	}
	t.root = Some(s.Root)
	t.height = s.Height
	return t, nil
}
