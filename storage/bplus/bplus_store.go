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

package bplus

import (
	"bytes"
	"sync"

	"github.com/bbva/kvmerkle/storage"
	"github.com/google/btree"
)

type BPlusTreeStore struct {
	sync.RWMutex
	db *btree.BTree
}

func NewBPlusTreeStore() *BPlusTreeStore {
	return &BPlusTreeStore{db: btree.New(2)}
}

func (s *BPlusTreeStore) Mutate(mutations []*storage.Mutation) error {
	s.Lock()
	defer s.Unlock()
	for _, m := range mutations {
		key := append([]byte{m.Prefix}, m.Key...)
		s.db.ReplaceOrInsert(KVItem{key, m.Value})
	}
	return nil
}

func (s *BPlusTreeStore) Get(prefix byte, key []byte) (*storage.KVPair, error) {
	s.RLock()
	defer s.RUnlock()
	k := append([]byte{prefix}, key...)
	item := s.db.Get(KVItem{k, nil})
	if item == nil {
		return nil, storage.ErrKeyNotFound
	}
	return &storage.KVPair{Key: key, Value: item.(KVItem).Value}, nil
}

func (s *BPlusTreeStore) GetAll(prefix byte) storage.KVPairReader {
	return NewBPlusKVPairReader(prefix, s)
}

func (s *BPlusTreeStore) Delete(prefix byte, key []byte) error {
	s.Lock()
	defer s.Unlock()
	k := append([]byte{prefix}, key...)
	s.db.Delete(KVItem{k, nil})
	return nil
}

func (s *BPlusTreeStore) Close() error {
	s.Lock()
	defer s.Unlock()
	s.db.Clear(false)
	return nil
}

type KVItem struct {
	Key, Value []byte
}

func (p KVItem) Less(b btree.Item) bool {
	return bytes.Compare(p.Key, b.(KVItem).Key) < 0
}

type BPlusKVPairReader struct {
	prefix  byte
	store   *BPlusTreeStore
	lastKey []byte
}

func NewBPlusKVPairReader(prefix byte, store *BPlusTreeStore) *BPlusKVPairReader {
	return &BPlusKVPairReader{
		prefix:  prefix,
		store:   store,
		lastKey: []byte{prefix},
	}
}

func (r *BPlusKVPairReader) Read(buffer []*storage.KVPair) (n int, err error) {
	if r.store == nil {
		return 0, nil
	}
	r.store.RLock()
	defer r.store.RUnlock()

	r.store.db.AscendGreaterOrEqual(KVItem{r.lastKey, nil}, func(i btree.Item) bool {
		if n >= len(buffer) {
			return false
		}
		item := i.(KVItem)
		if item.Key[0] != r.prefix {
			return false
		}
		if !bytes.Equal(item.Key, r.lastKey) {
			buffer[n] = &storage.KVPair{Key: item.Key[1:], Value: item.Value}
			n++
		}
		r.lastKey = item.Key
		return true
	})
	return n, nil
}

func (r *BPlusKVPairReader) Close() {
	r.store = nil
}
