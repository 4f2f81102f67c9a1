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
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	v "github.com/spf13/viper"

	"github.com/bbva/kvmerkle/kvtree"
)

const (
	envPrefix         = "KVMERKLE"
	defaultConfigName = ".kvmerkle.yaml"

	memoryEngine = "memory"
	badgerEngine = "badger"
)

type StoreConfig struct {
	// Storage engine: memory or badger.
	Engine string

	// Path to the storage directory, for on-disk engines.
	Path string
}

type APIConfig struct {
	// HTTP API bind address/port.
	Addr string

	// TLS server certificate and key. TLS is enabled when both are set.
	TLSCertPath string
	TLSKeyPath  string
}

type Config struct {
	// Log level
	Log string

	// Name of the hash function linking the tree nodes.
	Hash string

	// Depth of the precomputed null subtree table.
	MaxDepth int

	Store StoreConfig

	API APIConfig
}

func DefaultConfig() *Config {
	return &Config{
		Log:      "error",
		Hash:     "poseidon",
		MaxDepth: kvtree.DefaultMaxDepth,
		Store: StoreConfig{
			Engine: memoryEngine,
			Path:   filepath.Join(os.TempDir(), "kvmerkle", "db"),
		},
		API: APIConfig{
			Addr: "127.0.0.1:8800",
		},
	}
}

func newViper() *v.Viper {
	conf := DefaultConfig()
	vp := v.New()
	vp.SetDefault("log", conf.Log)
	vp.SetDefault("hash", conf.Hash)
	vp.SetDefault("max_depth", conf.MaxDepth)
	vp.SetDefault("store.engine", conf.Store.Engine)
	vp.SetDefault("store.path", conf.Store.Path)
	vp.SetDefault("api.addr", conf.API.Addr)
	vp.SetDefault("api.tls_cert", conf.API.TLSCertPath)
	vp.SetDefault("api.tls_key", conf.API.TLSKeyPath)

	vp.SetEnvPrefix(envPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	return vp
}

// loadConfig reads the given config file, or the default one in the user
// home when it exists, and resolves every key.
func loadConfig(vp *v.Viper, file string) (*Config, error) {
	if file == "" {
		home, err := homedir.Dir()
		if err == nil {
			candidate := filepath.Join(home, defaultConfigName)
			if _, err := os.Stat(candidate); err == nil {
				file = candidate
			}
		}
	}
	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving config file %s", file)
		}
		vp.SetConfigFile(path)
		if err := vp.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	conf := &Config{
		Log:      vp.GetString("log"),
		Hash:     vp.GetString("hash"),
		MaxDepth: vp.GetInt("max_depth"),
		Store: StoreConfig{
			Engine: strings.ToLower(vp.GetString("store.engine")),
			Path:   vp.GetString("store.path"),
		},
		API: APIConfig{
			Addr:        vp.GetString("api.addr"),
			TLSCertPath: vp.GetString("api.tls_cert"),
			TLSKeyPath:  vp.GetString("api.tls_key"),
		},
	}

	if conf.MaxDepth < 0 || conf.MaxDepth > kvtree.MaxSupportedDepth {
		return nil, errors.Errorf("max_depth must be between 0 and %d", kvtree.MaxSupportedDepth)
	}
	switch conf.Store.Engine {
	case memoryEngine, badgerEngine:
	default:
		return nil, errors.Errorf("unknown store engine %q", conf.Store.Engine)
	}
	if path, err := homedir.Expand(conf.Store.Path); err == nil {
		conf.Store.Path = path
	}
	return conf, nil
}
