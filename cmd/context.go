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

	"github.com/pkg/errors"
	v "github.com/spf13/viper"

	"github.com/bbva/kvmerkle/crypto/hashing"
	"github.com/bbva/kvmerkle/kvtree"
	"github.com/bbva/kvmerkle/log"
	"github.com/bbva/kvmerkle/registry"
	"github.com/bbva/kvmerkle/storage"
	"github.com/bbva/kvmerkle/storage/badger"
	"github.com/bbva/kvmerkle/storage/bplus"
)

type cmdContext struct {
	v          *v.Viper
	configFile string

	config *Config
	hasher hashing.Hasher
	nulls  *kvtree.NullTable
	log    log.Logger
}

// setup resolves the configuration and builds the shared collaborators.
func (c *cmdContext) setup() error {
	conf, err := loadConfig(c.v, c.configFile)
	if err != nil {
		return err
	}
	c.config = conf

	level := log.LevelFromString(conf.Log)
	if level == log.NotSet {
		return errors.Errorf("unknown log level %q", conf.Log)
	}
	c.log = log.New(&log.LoggerOptions{
		Name:  "kvmerkle",
		Level: level,
	})
	log.SetDefault(c.log)

	c.hasher, err = hashing.New(conf.Hash)
	if err != nil {
		return err
	}
	c.nulls, err = kvtree.NewNullTable(c.hasher, conf.MaxDepth)
	if err != nil {
		return err
	}

	c.log.Debugf("Using %s hasher with a null table of depth %d", c.hasher.Name(), c.nulls.MaxDepth())
	return nil
}

// treeOptions returns the options every tree of this context is built or
// decoded with.
func (c *cmdContext) treeOptions() []kvtree.Option {
	return []kvtree.Option{
		kvtree.WithHasher(c.hasher),
		kvtree.WithNullTable(c.nulls),
		kvtree.WithLogger(c.log.Named("kvtree")),
	}
}

func (c *cmdContext) openStore() (storage.Store, error) {
	switch c.config.Store.Engine {
	case badgerEngine:
		c.log.Debugf("Ensuring directory at %s exists", c.config.Store.Path)
		if err := os.MkdirAll(c.config.Store.Path, 0755); err != nil {
			return nil, err
		}
		store, err := badger.NewBadgerStoreOpts(&badger.Options{
			Path:       c.config.Store.Path,
			ValueLogGC: true,
			Logger:     c.log.Named("badger"),
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return bplus.NewBPlusTreeStore(), nil
	}
}

func (c *cmdContext) openRegistry() (*registry.Registry, func(), error) {
	store, err := c.openStore()
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening store")
	}
	closeF := func() {
		if err := store.Close(); err != nil {
			c.log.Errorf("Unable to close store: %v", err)
		}
	}
	return registry.New(store, c.nulls, c.hasher), closeF, nil
}
