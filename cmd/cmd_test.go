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

package cmd

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbva/kvmerkle/api/apihttp"
	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/bbva/kvmerkle/kvtree"
)

// execute runs a fresh command tree with an empty config file, so the one
// in the user home is never read.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	config := filepath.Join(dir, "kvmerkle.yaml")
	if _, err := os.Stat(config); os.IsNotExist(err) {
		writeTempFile(t, dir, "kvmerkle.yaml", "log: silent\n")
	}

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOutput(&out)
	root.SetArgs(append([]string{"--config", config}, args...))
	err := root.Execute()
	return out.String(), err
}

func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "kvmerkle-cmd")
	require.NoError(t, err)
	return dir, func() { os.RemoveAll(dir) }
}

const testData = `{
	"0xa76f290c490c70f2d816d286efe47fd64a35800b": "0x01",
	"0x0085560b24769dac4ed057f1b2ae40746aa9aab6": "0x02",
	"0x0294350d7cf2c145446358b6461c1610927b3a87": "0x03"
}`

func expectedDataTree(t *testing.T) *kvtree.Tree {
	tree, err := kvtree.FromData([]kvtree.Entry{
		{Key: "0xa76f290c490c70f2d816d286efe47fd64a35800b", Value: "0x01"},
		{Key: "0x0085560b24769dac4ed057f1b2ae40746aa9aab6", Value: "0x02"},
		{Key: "0x0294350d7cf2c145446358b6461c1610927b3a87", Value: "0x03"},
	}, hashing.NewPoseidonHasher())
	require.NoError(t, err)
	return tree
}

func TestBuildCommand(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	data := writeTempFile(t, dir, "data.json", testData)

	expected := expectedDataTree(t)
	expectedLevels, err := expected.ToCompactV1()
	require.NoError(t, err)

	out, err := execute(t, dir, "build", "--data", data, "--format", "compact")
	require.NoError(t, err)

	var levels kvtree.CompactV1
	require.NoError(t, json.Unmarshal([]byte(out), &levels))
	assert.Equal(t, expectedLevels, levels)
}

func TestBuildCommandToFile(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	leaves := writeTempFile(t, dir, "leaves.json", `["0x01", "0x02", "0x03"]`)
	treeFile := filepath.Join(dir, "tree.bin")

	_, err := execute(t, dir, "build", "--leaves", leaves, "--force-height", "4", "--format", "compressed", "--out", treeFile)
	require.NoError(t, err)

	raw, err := ioutil.ReadFile(treeFile)
	require.NoError(t, err)
	tree, err := kvtree.FromCompressedV1(raw, kvtree.WithHasher(hashing.NewPoseidonHasher()))
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Height())
	assert.Equal(t, 0, tree.Pointers().Len())
}

func TestBuildCommandErrors(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	data := writeTempFile(t, dir, "data.json", testData)
	leaves := writeTempFile(t, dir, "leaves.json", `["0x01", "0x02", "0x03"]`)

	testCases := []struct {
		name string
		args []string
	}{
		{"no input", []string{"build"}},
		{"both inputs", []string{"build", "--data", data, "--leaves", leaves}},
		{"missing file", []string{"build", "--data", filepath.Join(dir, "missing.json")}},
		{"unknown format", []string{"build", "--data", data, "--format", "xml"}},
		{"forced height too small", []string{"build", "--leaves", leaves, "--force-height", "1"}},
		{"unknown hasher", []string{"--hash", "sha1", "build", "--data", data}},
	}

	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			_, err := execute(t, dir, c.args...)
			require.Error(t, err)
		})
	}
}

func TestPathAndVerifyCommands(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	data := writeTempFile(t, dir, "data.json", testData)
	treeFile := filepath.Join(dir, "tree.json")
	proofFile := filepath.Join(dir, "proof.json")

	_, err := execute(t, dir, "build", "--data", data, "--format", "snapshot", "--out", treeFile)
	require.NoError(t, err)

	key := "0x0294350d7cf2c145446358b6461c1610927b3a87"
	_, err = execute(t, dir, "path", "--tree", treeFile, "--key", key, "--out", proofFile)
	require.NoError(t, err)

	raw, err := ioutil.ReadFile(proofFile)
	require.NoError(t, err)
	var proof apihttp.PathResponse
	require.NoError(t, json.Unmarshal(raw, &proof))

	expected := expectedDataTree(t)
	root, err := expected.Root()
	require.NoError(t, err)
	leaf, err := expected.Leaf(key)
	require.NoError(t, err)
	path, err := expected.PathFromKey(key)
	require.NoError(t, err)

	assert.Equal(t, string(root), proof.Root)
	assert.Equal(t, key, proof.Key)
	assert.Equal(t, string(leaf), proof.Leaf)
	assert.Equal(t, path, proof.Path)

	for _, args := range [][]string{
		{"verify", "--proof", proofFile},
		{"verify", "--proof", proofFile, "--tree", treeFile},
		{"verify", "--proof", proofFile, "--root", string(root)},
	} {
		out, err := execute(t, dir, args...)
		require.NoError(t, err, "args %v", args)

		var response apihttp.VerifyResponse
		require.NoError(t, json.Unmarshal([]byte(out), &response))
		assert.True(t, response.Valid)
		assert.Equal(t, string(root), response.Root)
	}

	out, err := execute(t, dir, "verify", "--proof", proofFile, "--root", "0x01")
	require.Equal(t, errInvalidProof, err)
	assert.Contains(t, out, `"valid": false`)
}

func TestPositionCommand(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	data := writeTempFile(t, dir, "data.json", testData)
	treeFile := filepath.Join(dir, "tree.json")

	_, err := execute(t, dir, "build", "--data", data, "--out", treeFile)
	require.NoError(t, err)

	out, err := execute(t, dir, "position", "--tree", treeFile, "--key", "0x0294350d7cf2c145446358b6461c1610927b3a87")
	require.NoError(t, err)

	var response apihttp.PositionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, uint64(2), response.Position)

	_, err = execute(t, dir, "position", "--tree", treeFile, "--key", "0x01")
	require.Error(t, err)
}

func TestConvertCommand(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	data := writeTempFile(t, dir, "data.json", testData)
	compactFile := filepath.Join(dir, "tree.json")
	compressedFile := filepath.Join(dir, "tree.bin")

	_, err := execute(t, dir, "build", "--data", data, "--format", "compact", "--out", compactFile)
	require.NoError(t, err)
	_, err = execute(t, dir, "convert", "--tree", compactFile, "--format", "compressed", "--out", compressedFile)
	require.NoError(t, err)

	out, err := execute(t, dir, "convert", "--tree", compressedFile, "--format", "compact")
	require.NoError(t, err)

	original, err := ioutil.ReadFile(compactFile)
	require.NoError(t, err)
	assert.Equal(t, string(original)+"\n", out)
}

func TestStoreCommands(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	data := writeTempFile(t, dir, "data.json", testData)
	treeFile := filepath.Join(dir, "tree.json")
	store := []string{"--store-engine", "badger", "--store-path", filepath.Join(dir, "db")}

	_, err := execute(t, dir, "build", "--data", data, "--out", treeFile)
	require.NoError(t, err)

	expected := expectedDataTree(t)
	root, err := expected.Root()
	require.NoError(t, err)

	out, err := execute(t, dir, append(store, "store", "add", "--tree", treeFile)...)
	require.NoError(t, err)
	var added []*apihttp.TreeInfo
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	require.Len(t, added, 1)
	assert.Equal(t, string(root), added[0].Root)
	assert.Equal(t, hashing.PoseidonName, added[0].Hasher)
	assert.Equal(t, 3, added[0].Pointers)

	out, err = execute(t, dir, append(store, "store", "list")...)
	require.NoError(t, err)
	var listed []*apihttp.TreeInfo
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Equal(t, added, listed)

	out, err = execute(t, dir, append(store, "store", "get", string(root), "--format", "compact")...)
	require.NoError(t, err)
	original, err := ioutil.ReadFile(treeFile)
	require.NoError(t, err)
	assert.Equal(t, string(original)+"\n", out)

	_, err = execute(t, dir, append(store, "store", "delete", string(root))...)
	require.NoError(t, err)

	_, err = execute(t, dir, append(store, "store", "get", string(root))...)
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	out, err := execute(t, dir, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kvmerkle ")

	out, err = execute(t, dir, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"compactFormat": 1`)
}
