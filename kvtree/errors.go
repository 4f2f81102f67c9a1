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

import "github.com/pkg/errors"

var (
	ErrMissingHashFunction = errors.New("must define a hash function")
	ErrKeyNotFound         = errors.New("key not found in the merkle tree")
	ErrLeafNotFound        = errors.New("leaf not found in the merkle tree")
	ErrNoPointerData       = errors.New("tree generated from leaves, no key/value data available")
	ErrUninitialized       = errors.New("the merkle tree is not yet initialized")
	ErrDepthExceeded       = errors.New("depth exceeds the null subtree table")
	ErrInvalidForcedHeight = errors.New("forced height is too small for the number of leaves")

	ErrNoLeaves             = errors.New("no leaves to build the merkle tree from")
	ErrDuplicateKey         = errors.New("duplicated key in merkle tree data")
	ErrInvalidElement       = errors.New("value is not a field element")
	ErrInvalidPath          = errors.New("malformed merkle path")
	ErrCorruptTree          = errors.New("inconsistent node links in the merkle tree")
	ErrNonCanonicalTree     = errors.New("tree cannot be represented in optimized format")
	ErrInvalidCompactFormat = errors.New("invalid optimized tree format")
	ErrMissingPointer       = errors.New("leaf without pointer in a key/value tree")
)
