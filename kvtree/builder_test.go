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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLeavesStructure(t *testing.T) {
	fake := hashing.NewFakeHasher()
	tree := fakeLeaves(t, []string{"1", "2", "3"})

	p12 := mustHash(t, fake, "1", "2")
	p30 := mustHash(t, fake, "3", ZeroLeaf)
	root := mustHash(t, fake, p12, p30)

	got, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, root, got)
	assert.Equal(t, 2, tree.Height())
	assert.False(t, tree.HashLeaves())
	assert.Equal(t, 7, tree.Nodes().Len())

	expected := map[Hash]Node{
		"1":      {Parent: Some(p12)},
		"2":      {Parent: Some(p12)},
		"3":      {Parent: Some(p30)},
		ZeroLeaf: {Parent: Some(p30)},
		p12:      {Parent: Some(root), Left: Some("1"), Right: Some("2")},
		p30:      {Parent: Some(root), Left: Some("3"), Right: Some(ZeroLeaf)},
		root:     {Left: Some(p12), Right: Some(p30)},
	}
	assert.Equal(t, expected, tree.Nodes().export())
}

func TestFromLeavesForcedHeight(t *testing.T) {
	fake := hashing.NewFakeHasher()
	tree := fakeLeaves(t, []string{"1", "2", "3"}, WithForceHeight(3))

	nulls, err := NewNullTable(fake, 3)
	require.NoError(t, err)
	null1, null2 := nulls.levels[1], nulls.levels[2]

	p12 := mustHash(t, fake, "1", "2")
	p30 := mustHash(t, fake, "3", ZeroLeaf)
	q := mustHash(t, fake, p12, p30)
	root := mustHash(t, fake, q, null2)

	got, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, root, got)
	assert.Equal(t, 3, tree.Height())

	expected := map[Hash]Node{
		"1":      {Parent: Some(p12)},
		"2":      {Parent: Some(p12)},
		"3":      {Parent: Some(p30)},
		ZeroLeaf: {Parent: Some(null1)},
		p12:      {Parent: Some(q), Left: Some("1"), Right: Some("2")},
		p30:      {Parent: Some(q), Left: Some("3"), Right: Some(ZeroLeaf)},
		null1:    {Parent: Some(null2), Left: Some(ZeroLeaf), Right: Some(ZeroLeaf)},
		q:        {Parent: Some(root), Left: Some(p12), Right: Some(p30)},
		null2:    {Parent: Some(root), Left: Some(null1), Right: Some(null1)},
		root:     {Left: Some(q), Right: Some(null2)},
	}
	assert.Equal(t, expected, tree.Nodes().export())
}

func TestFromLeavesHeights(t *testing.T) {
	testCases := []struct {
		leaves int
		height int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{16, 4},
		{17, 5},
	}

	for _, c := range testCases {
		leaves := make([]string, c.leaves)
		for i := range leaves {
			leaves[i] = hashing.ToHex(hashing.FromBytes([]byte{byte(i + 1)}))
		}
		tree := fakeLeaves(t, leaves)
		assert.Equalf(t, c.height, tree.Height(), "wrong height for %d leaves", c.leaves)

		for _, leaf := range leaves {
			path, err := tree.PathFromLeaf(Hash(leaf))
			require.NoError(t, err)
			require.Len(t, path, c.height)
			ok, err := tree.Verify(path, Hash(leaf))
			require.NoError(t, err)
			assert.Truef(t, ok, "leaf %s of %d should verify", leaf, c.leaves)
		}
	}
}

func TestSingleLeaf(t *testing.T) {
	tree := fakeLeaves(t, []string{"0x2a"})

	root, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, Hash("0x2a"), root)
	assert.Equal(t, 0, tree.Height())

	node, ok := tree.Nodes().Get("0x2a")
	require.True(t, ok)
	assert.True(t, node.IsLeaf())
	assert.False(t, node.Parent.Valid)

	path, err := tree.PathFromLeaf("0x2a")
	require.NoError(t, err)
	assert.Empty(t, path)

	valid, err := tree.Verify(path, "0x2a")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestBuildErrors(t *testing.T) {
	fake := hashing.NewFakeHasher()

	testCases := []struct {
		name   string
		build  func() (*Tree, error)
		target error
	}{
		{"no leaves", func() (*Tree, error) { return FromLeaves(nil, fake) }, ErrNoLeaves},
		{"no data", func() (*Tree, error) { return FromData(nil, fake) }, ErrNoLeaves},
		{"only zero entries", func() (*Tree, error) {
			return FromData([]Entry{{Key: "0x00", Value: "0"}}, fake)
		}, ErrNoLeaves},
		{"no hasher for leaves", func() (*Tree, error) { return FromLeaves([]string{"1"}, nil) }, ErrMissingHashFunction},
		{"no hasher for data", func() (*Tree, error) { return FromData(accountEntries("1"), nil) }, ErrMissingHashFunction},
		{"invalid leaf", func() (*Tree, error) { return FromLeaves([]string{"1", "xyz"}, fake) }, ErrInvalidElement},
		{"negative leaf", func() (*Tree, error) { return FromLeaves([]string{"-1"}, fake) }, ErrInvalidElement},
		{"invalid key", func() (*Tree, error) {
			return FromData([]Entry{{Key: "0xzz", Value: "1"}}, fake)
		}, ErrInvalidElement},
		{"invalid value", func() (*Tree, error) {
			return FromData([]Entry{{Key: "0x01", Value: ""}}, fake)
		}, ErrInvalidElement},
		{"duplicate key", func() (*Tree, error) {
			return FromData([]Entry{{Key: "0xAB", Value: "1"}, {Key: "0xab", Value: "2"}}, fake)
		}, ErrDuplicateKey},
		{"forced height too small", func() (*Tree, error) {
			return FromLeaves([]string{"1", "2", "3"}, fake, WithForceHeight(1))
		}, ErrInvalidForcedHeight},
		{"negative forced height", func() (*Tree, error) {
			return FromLeaves([]string{"1"}, fake, WithForceHeight(-1))
		}, ErrInvalidForcedHeight},
		{"forced height over the null table", func() (*Tree, error) {
			return FromLeaves([]string{"1"}, fake, WithForceHeight(DefaultMaxDepth+1))
		}, ErrDepthExceeded},
		{"forced height over the supported depth", func() (*Tree, error) {
			return FromLeaves([]string{"1"}, fake, WithForceHeight(MaxSupportedDepth+1))
		}, ErrDepthExceeded},
		{"too many leaves for the null table", func() (*Tree, error) {
			return FromLeaves([]string{"1", "2", "3", "4", "5"}, fake, WithMaxDepth(2))
		}, ErrDepthExceeded},
	}

	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			tree, err := c.build()
			require.ErrorIs(t, err, c.target)
			assert.Nil(t, tree)
		})
	}
}

func TestForcedHeightWithDeeperTable(t *testing.T) {
	tree := fakeLeaves(t, []string{"1", "2"}, WithMaxDepth(40), WithForceHeight(40))
	assert.Equal(t, 40, tree.Height())

	path, err := tree.PathFromLeaf("2")
	require.NoError(t, err)
	require.Len(t, path, 40)
	ok, err := tree.Verify(path, "2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSharedNullTable(t *testing.T) {
	fake := hashing.NewFakeHasher()
	nulls, err := NewNullTable(fake, 8)
	require.NoError(t, err)

	shared := fakeLeaves(t, []string{"1", "2", "3"}, WithNullTable(nulls))
	own := fakeLeaves(t, []string{"1", "2", "3"})

	a, _ := shared.Root()
	b, _ := own.Root()
	assert.Equal(t, b, a)
}

func TestFromData(t *testing.T) {
	fake := hashing.NewFakeHasher()
	entries := []Entry{
		{Key: "0xAB", Value: "1"},
		{Key: "0x00", Value: "0"},
		{Key: "0xcd", Value: "0x10"},
		{Key: "0x00", Value: "7"},
	}

	tree, err := FromData(entries, fake, quiet())
	require.NoError(t, err)
	assert.True(t, tree.HashLeaves())
	assert.Equal(t, 3, tree.Pointers().Len())
	assert.Equal(t, 2, tree.Height())

	testCases := []struct {
		key   string
		value string
		leaf  Hash
	}{
		{"0xab", "0x01", mustHash(t, fake, "0xab", "0x01")},
		{"0xAB", "0x01", mustHash(t, fake, "0xab", "0x01")},
		{"0xcd", "0x10", mustHash(t, fake, "0xcd", "0x10")},
		{"0x00", "0x07", mustHash(t, fake, "0x00", "0x07")},
	}

	for i, c := range testCases {
		value, err := tree.Value(c.key)
		require.NoErrorf(t, err, "value error in test case %d", i)
		assert.Equalf(t, c.value, value, "wrong value in test case %d", i)

		leaf, err := tree.Leaf(c.key)
		require.NoErrorf(t, err, "leaf error in test case %d", i)
		assert.Equalf(t, c.leaf, leaf, "wrong leaf in test case %d", i)
	}

	_, err = tree.Value("0xef")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFromDataUnhashed(t *testing.T) {
	tree, err := FromData(accountEntries("1"), hashing.NewPoseidonHasher(), WithHashLeaves(false), quiet())
	require.NoError(t, err)
	assert.False(t, tree.HashLeaves())

	leaf, err := tree.Leaf("0xf61cabba1e6fc166a66bca0fcaa83762edb6d4bd")
	require.NoError(t, err)
	assert.Equal(t, Hash("0xf61cabba1e6fc166a66bca0fcaa83762edb6d4bd1"), leaf)
}

func TestLeavesTreeHasNoPointers(t *testing.T) {
	tree := fakeLeaves(t, numericLeaves)

	_, err := tree.Value("123")
	require.ErrorIs(t, err, ErrNoPointerData)
	_, err = tree.Leaf("123")
	require.ErrorIs(t, err, ErrNoPointerData)
	_, err = tree.PathFromKey("123")
	require.ErrorIs(t, err, ErrNoPointerData)
}

func TestFromLeavesHashed(t *testing.T) {
	fake := hashing.NewFakeHasher()
	tree := fakeLeaves(t, []string{"1", "2"}, WithHashLeaves(true))
	assert.True(t, tree.HashLeaves())

	h1 := mustHash(t, fake, "1")
	h2 := mustHash(t, fake, "2")
	root, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, mustHash(t, fake, h1, h2), root)
}
