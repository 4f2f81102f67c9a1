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
	"encoding/json"
	"testing"

	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	tree := accountsTree(t)

	snapshot, err := tree.ToSnapshot()
	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.Height)
	assert.Len(t, snapshot.Pointers, len(accounts))

	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, snapshot, &decoded)

	imported, err := FromSnapshot(&decoded, WithHasher(hashing.NewPoseidonHasher()), quiet())
	require.NoError(t, err)

	root, err := imported.Root()
	require.NoError(t, err)
	assert.Equal(t, snapshot.Root, root)
	assert.Equal(t, tree.Nodes().export(), imported.Nodes().export())

	account := "0x74184bff3cf29e82e4d8cb3b7f1d5a89fdd0eb15"
	path, err := imported.PathFromKey(account)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0x1bc32bca26008b23a2aa1b5f1072c4b81f78f4e0a742609b659d3a164eb79432",
		"0x08556ba52d6895a9d7093a63cde646727f561c117a59d4e6513e17554fb18e44",
		"0x0abf6ae745d8c81b52764118d086a94f33df20477133890e2a016fec4cd61de5",
		"0x276b4af9833d7147146fb55cf3f472e1b341c54f5ed998b1a5bf74e4268cd189",
	}, hexElements(path))

	leaf, err := imported.Leaf(account)
	require.NoError(t, err)
	valid, err := imported.Verify(path, leaf)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestFromSnapshotHasherFromNullTable(t *testing.T) {
	tree := accountsTree(t)
	snapshot, err := tree.ToSnapshot()
	require.NoError(t, err)

	nulls, err := NewNullTable(hashing.NewPoseidonHasher(), 4)
	require.NoError(t, err)
	imported, err := FromSnapshot(snapshot, WithNullTable(nulls), quiet())
	require.NoError(t, err)

	account := accounts[5]
	path, err := imported.PathFromKey(account)
	require.NoError(t, err)
	leaf, err := imported.Leaf(account)
	require.NoError(t, err)
	valid, err := imported.Verify(path, leaf)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestSnapshotIsACopy(t *testing.T) {
	tree := fakeLeaves(t, []string{"1", "2"})
	snapshot, err := tree.ToSnapshot()
	require.NoError(t, err)

	delete(snapshot.Tree, "1")
	_, ok := tree.Nodes().Get("1")
	assert.True(t, ok)
	assert.Nil(t, snapshot.Pointers)

	imported, err := FromSnapshot(snapshot)
	require.NoError(t, err)
	snapshot.Tree["0x99"] = Node{}
	_, ok = imported.Nodes().Get("0x99")
	assert.False(t, ok)
}

func TestSnapshotNodeJSON(t *testing.T) {
	node := Node{Parent: Some("0x01"), Left: Some("0x02")}
	raw, err := json.Marshal(node)
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"0x01","l":"0x02"}`, string(raw))

	raw, err = json.Marshal(Node{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	var decoded Node
	require.NoError(t, json.Unmarshal([]byte(`{"r":"0x03"}`), &decoded))
	assert.Equal(t, Node{Right: Some("0x03")}, decoded)
}

func TestFromSnapshotErrors(t *testing.T) {
	_, err := FromSnapshot(nil)
	require.ErrorIs(t, err, ErrUninitialized)

	_, err = FromSnapshot(&Snapshot{})
	require.ErrorIs(t, err, ErrUninitialized)

	_, err = FromSnapshot(&Snapshot{Root: "0x01", Tree: map[Hash]Node{"0x02": {}}})
	require.ErrorIs(t, err, ErrCorruptTree)

	_, err = FromSnapshot(&Snapshot{Root: "0x01", Height: -1, Tree: map[Hash]Node{"0x01": {}}})
	require.ErrorIs(t, err, ErrCorruptTree)
}

func TestVerifyWithoutHasher(t *testing.T) {
	tree := fakeLeaves(t, []string{"1", "2"})
	snapshot, err := tree.ToSnapshot()
	require.NoError(t, err)

	imported, err := FromSnapshot(snapshot)
	require.NoError(t, err)

	path, err := imported.PathFromLeaf("1")
	require.NoError(t, err)
	_, err = imported.Verify(path, "1")
	require.ErrorIs(t, err, ErrMissingHashFunction)

	// compact export needs the null table
	_, err = imported.ToCompactV1()
	require.ErrorIs(t, err, ErrMissingHashFunction)
}
