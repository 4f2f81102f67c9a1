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

// Package storage defines the key/value contract the tree registry is
// persisted through. Keys are namespaced by a single prefix byte.
package storage

import (
	"errors"
)

const (
	TreePrefix = byte(0x0)
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

type Store interface {
	Mutate(mutations []*Mutation) error
	Get(prefix byte, key []byte) (*KVPair, error)
	GetAll(prefix byte) KVPairReader
	Delete(prefix byte, key []byte) error
	Close() error
}

type Mutation struct {
	Prefix     byte
	Key, Value []byte
}

func NewMutation(prefix byte, key, value []byte) *Mutation {
	return &Mutation{prefix, key, value}
}

type KVPair struct {
	Key, Value []byte
}

func NewKVPair(key, value []byte) KVPair {
	return KVPair{Key: key, Value: value}
}

// KVPairReader iterates the pairs of a prefix in key order. Read fills the
// buffer and returns 0 once the prefix is exhausted.
type KVPairReader interface {
	Read([]*KVPair) (n int, err error)
	Close()
}

// ReadAll drains a reader in batches of the given size.
func ReadAll(r KVPairReader, batchSize int) ([]*KVPair, error) {
	defer r.Close()
	if batchSize <= 0 {
		batchSize = 64
	}
	result := make([]*KVPair, 0)
	for {
		entries := make([]*KVPair, batchSize)
		n, err := r.Read(entries)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return result, nil
		}
		result = append(result, entries[:n]...)
	}
}
