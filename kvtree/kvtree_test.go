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
	"testing"

	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/bbva/kvmerkle/log"
	"github.com/stretchr/testify/require"
)

var accounts = []string{
	"0xa76f290c490c70f2d816d286efe47fd64a35800b",
	"0x0085560b24769dac4ed057f1b2ae40746aa9aab6",
	"0x0294350d7cf2c145446358b6461c1610927b3a87",
	"0x4f9c798553d207536b79e886b54f169264a7a155",
	"0xa1b04c9cbb449d13c4fc29c7e6be1f810e6f35e9",
	"0xad9fbd38281f615e7df3def2aad18935a9e0ffee",
	"0x0783094aadfb8ae9915fd712d28664c8d7d26afa",
	"0xe860947813c207abf9bf6722c49cda515d24971a",
	"0x8bffc896d42f07776561a5814d6e4240950d6d3a",
	"0x4a9a2f31e2009045950df5aab36950609de93c78",
	"0x8ab1760889f26cbbf33a75fd2cf1696bfccdc9e6",
	"0xf61cabba1e6fc166a66bca0fcaa83762edb6d4bd",
	"0x97d0bc262dfc2fbe2e6c62883a669e765fe3d83e",
	"0x74184bff3cf29e82e4d8cb3b7f1d5a89fdd0eb15",
	"0x26bbec292e5080ecfd36f38ff1619ff35826b113",
	"0x8867c12738f4ca3b530afe7efc7ac4ee1d286cbc",
}

var numericLeaves = []string{"123", "457", "124", "458", "125", "0x075bcd15", "126", "456"}

func accountEntries(value string) []Entry {
	entries := make([]Entry, len(accounts))
	for i, a := range accounts {
		entries[i] = Entry{Key: a, Value: value}
	}
	return entries
}

func quiet() Option {
	return WithLogger(log.New(&log.LoggerOptions{Name: "kvtree", Level: log.Off}))
}

func fakeLeaves(t *testing.T, leaves []string, opts ...Option) *Tree {
	tree, err := FromLeaves(leaves, hashing.NewFakeHasher(), append(opts, quiet())...)
	require.NoError(t, err)
	return tree
}

func mustHash(t *testing.T, hasher hashing.Hasher, inputs ...Hash) Hash {
	h, err := hashAll(hasher, inputs...)
	require.NoError(t, err)
	return h
}

func hexElements(path MerklePath) []string {
	out := make([]string, len(path))
	for i, step := range path {
		out[i] = hashing.ToHex(step.Sibling)
	}
	return out
}
