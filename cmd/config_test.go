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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	dir, err := ioutil.TempDir("", "kvmerkle-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	// An empty config file avoids picking the one in the user home.
	file := writeTempFile(t, dir, "empty.yaml", "")

	conf, err := loadConfig(newViper(), file)
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Log, conf.Log)
	assert.Equal(t, defaults.Hash, conf.Hash)
	assert.Equal(t, defaults.MaxDepth, conf.MaxDepth)
	assert.Equal(t, defaults.Store.Engine, conf.Store.Engine)
	assert.Equal(t, defaults.API.Addr, conf.API.Addr)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "kvmerkle-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := writeTempFile(t, dir, "config.yaml", `
log: debug
hash: keccak256
max_depth: 40
store:
  engine: Badger
  path: /var/lib/kvmerkle
api:
  addr: 0.0.0.0:9000
`)

	conf, err := loadConfig(newViper(), file)
	require.NoError(t, err)

	assert.Equal(t, "debug", conf.Log)
	assert.Equal(t, "keccak256", conf.Hash)
	assert.Equal(t, 40, conf.MaxDepth)
	assert.Equal(t, badgerEngine, conf.Store.Engine)
	assert.Equal(t, "/var/lib/kvmerkle", conf.Store.Path)
	assert.Equal(t, "0.0.0.0:9000", conf.API.Addr)
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir, err := ioutil.TempDir("", "kvmerkle-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	file := writeTempFile(t, dir, "config.yaml", "hash: poseidon\n")

	os.Setenv("KVMERKLE_HASH", "keccak256")
	os.Setenv("KVMERKLE_API_ADDR", "127.0.0.1:9999")
	defer os.Unsetenv("KVMERKLE_HASH")
	defer os.Unsetenv("KVMERKLE_API_ADDR")

	conf, err := loadConfig(newViper(), file)
	require.NoError(t, err)
	assert.Equal(t, "keccak256", conf.Hash)
	assert.Equal(t, "127.0.0.1:9999", conf.API.Addr)
}

func TestLoadConfigErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "kvmerkle-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	testCases := []struct {
		name    string
		content string
	}{
		{"negative max depth", "max_depth: -1\n"},
		{"max depth above the supported one", "max_depth: 63\n"},
		{"unknown engine", "store:\n  engine: rocksdb\n"},
	}

	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			file := writeTempFile(t, dir, "config.yaml", c.content)
			_, err := loadConfig(newViper(), file)
			require.Error(t, err)
		})
	}

	_, err = loadConfig(newViper(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
