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
	"github.com/bbva/kvmerkle/log"
)

// Option configures how a tree is built or imported.
type Option func(*options)

type options struct {
	forceHeight int
	forced      bool
	hashLeaves  bool
	maxDepth    int
	nulls       *NullTable
	hasher      hashing.Hasher
	logger      log.Logger
}

func newOptions(hashLeaves bool, opts []Option) *options {
	o := &options{
		hashLeaves: hashLeaves,
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.hasher == nil && o.nulls != nil {
		o.hasher = o.nulls.Hasher()
	}
	if o.logger == nil {
		o.logger = log.L().Named("kvtree")
	}
	return o
}

// WithForceHeight pads the leaves up to 2^height slots instead of the next
// power of two.
func WithForceHeight(height int) Option {
	return func(o *options) {
		o.forceHeight = height
		o.forced = true
	}
}

// WithHashLeaves chooses between hashing each leaf and storing it raw.
func WithHashLeaves(hash bool) Option {
	return func(o *options) {
		o.hashLeaves = hash
	}
}

// WithMaxDepth sets the depth of the null subtree table computed for the
// tree. It is ignored when WithNullTable is given.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithNullTable shares a precomputed table. It must have been computed with
// the same hasher the tree uses. Without WithHasher the table hasher is used.
func WithNullTable(t *NullTable) Option {
	return func(o *options) {
		o.nulls = t
	}
}

// WithHasher attaches a hasher to imported trees so they can verify paths
// and be exported in optimized format.
func WithHasher(h hashing.Hasher) Option {
	return func(o *options) {
		o.hasher = h
	}
}

func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// nullTable returns the configured table, computing one from the hasher
// when none was shared.
func (o *options) nullTable() (*NullTable, error) {
	if o.nulls != nil {
		return o.nulls, nil
	}
	if o.hasher == nil {
		return nil, ErrMissingHashFunction
	}
	return NewNullTable(o.hasher, o.maxDepth)
}
