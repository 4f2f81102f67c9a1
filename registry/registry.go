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

// Package registry persists built trees in a storage.Store keyed by their
// root and brings them back as fully linked trees.
package registry

import (
	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/bbva/kvmerkle/kvtree"
	"github.com/bbva/kvmerkle/log"
	"github.com/bbva/kvmerkle/storage"
	"github.com/pkg/errors"
)

var (
	ErrTreeNotFound   = errors.New("tree not found")
	ErrCorruptRecord  = errors.New("corrupt tree record")
	ErrHasherMismatch = errors.New("tree was built with another hasher")
)

type Registry struct {
	store  storage.Store
	nulls  *kvtree.NullTable
	hasher hashing.Hasher
	log    log.Logger
}

// New returns a registry over the given store. Every tree it holds is
// decoded with the same null table and hasher.
func New(store storage.Store, nulls *kvtree.NullTable, hasher hashing.Hasher) *Registry {
	return &Registry{
		store:  store,
		nulls:  nulls,
		hasher: hasher,
		log:    log.L().Named("registry"),
	}
}

func (r *Registry) Hasher() hashing.Hasher {
	return r.hasher
}

// Put stores the tree and returns its root. Storing the same tree twice
// overwrites the first record.
func (r *Registry) Put(tree *kvtree.Tree) (kvtree.Hash, error) {
	root, err := tree.Root()
	if err != nil {
		return "", err
	}
	levels, err := tree.ToCompactV1()
	if err != nil {
		return "", errors.Wrapf(err, "encoding tree %s", root)
	}
	compressed, err := kvtree.CompressCompactV1(levels)
	if err != nil {
		return "", errors.Wrapf(err, "compressing tree %s", root)
	}

	record := &Record{
		Root:       string(root),
		Height:     tree.Height(),
		Leaves:     len(levels[tree.Height()]),
		Pointers:   tree.Pointers().Len(),
		HashLeaves: tree.HashLeaves(),
		Hasher:     r.hasher.Name(),
		Compressed: compressed,
	}
	value, err := encodeRecord(record)
	if err != nil {
		return "", err
	}

	err = r.store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.TreePrefix, []byte(root), value),
	})
	if err != nil {
		return "", errors.Wrapf(err, "storing tree %s", root)
	}

	r.log.Debugf("Stored tree %s of height %d (%d bytes)", root, record.Height, len(value))
	return root, nil
}

// Record returns the stored record of a tree without decoding it.
func (r *Registry) Record(root kvtree.Hash) (*Record, error) {
	kv, err := r.store.Get(storage.TreePrefix, []byte(root))
	if err == storage.ErrKeyNotFound {
		return nil, errors.Wrapf(ErrTreeNotFound, "root %s", root)
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(kv.Value)
}

// Get loads the tree with the given root.
func (r *Registry) Get(root kvtree.Hash) (*kvtree.Tree, error) {
	record, err := r.Record(root)
	if err != nil {
		return nil, err
	}
	if record.Hasher != r.hasher.Name() {
		return nil, errors.Wrapf(ErrHasherMismatch, "tree %s uses %s", root, record.Hasher)
	}

	tree, err := kvtree.FromCompressedV1(record.Compressed,
		kvtree.WithNullTable(r.nulls),
		kvtree.WithHasher(r.hasher),
		kvtree.WithHashLeaves(record.HashLeaves),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding tree %s", root)
	}
	return tree, nil
}

// List returns the metadata of every stored tree ordered by root. The
// compressed payload is left out.
func (r *Registry) List() ([]*Record, error) {
	pairs, err := storage.ReadAll(r.store.GetAll(storage.TreePrefix), 64)
	if err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(pairs))
	for _, kv := range pairs {
		record, err := decodeRecord(kv.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "key %s", kv.Key)
		}
		record.Compressed = nil
		records = append(records, record)
	}
	return records, nil
}

func (r *Registry) Delete(root kvtree.Hash) error {
	if _, err := r.Record(root); err != nil {
		return err
	}
	return r.store.Delete(storage.TreePrefix, []byte(root))
}
