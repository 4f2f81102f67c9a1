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

package badger

import (
	"time"

	b "github.com/dgraph-io/badger"
	bo "github.com/dgraph-io/badger/options"

	"github.com/bbva/kvmerkle/log"
	"github.com/bbva/kvmerkle/storage"
)

type BadgerStore struct {
	db         *b.DB
	vlogTicker *time.Ticker // checks the vlog size and runs GC conditionally.
	done       chan struct{}
	log        log.Logger
}

// Options contains all the configuration used to open the Badger db
type Options struct {
	// Path is the directory path to the Badger db to use.
	Path string

	// BadgerOptions contains any specific Badger options you might
	// want to specify.
	BadgerOptions *b.Options

	// SyncWrites forces an fsync after each write.
	SyncWrites bool

	// ValueLogGC enables a periodic goroutine that does a garbage
	// collection of the value log while the underlying Badger is online.
	ValueLogGC bool

	// GCInterval is the interval between runs of the garbage collection
	// process. By default, runs every 1m.
	GCInterval time.Duration

	// GCThreshold sets threshold in bytes for the vlog size to be included in the
	// garbage collection cycle. By default, 1GB.
	GCThreshold int64

	Logger log.Logger
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	return NewBadgerStoreOpts(&Options{Path: path})
}

func NewBadgerStoreOpts(opts *Options) (*BadgerStore, error) {

	var bOpts b.Options
	if bOpts = b.DefaultOptions; opts.BadgerOptions != nil {
		bOpts = *opts.BadgerOptions
	}

	bOpts.TableLoadingMode = bo.MemoryMap
	bOpts.ValueLogLoadingMode = bo.FileIO
	bOpts.Dir = opts.Path
	bOpts.ValueDir = opts.Path
	bOpts.SyncWrites = opts.SyncWrites

	db, err := b.Open(bOpts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.L().Named("badger")
	}
	store := &BadgerStore{db: db, log: logger}

	if opts.ValueLogGC {
		var gcInterval time.Duration
		var threshold int64
		if gcInterval = 1 * time.Minute; opts.GCInterval != 0 {
			gcInterval = opts.GCInterval
		}
		if threshold = int64(1 << 30); opts.GCThreshold != 0 {
			threshold = opts.GCThreshold
		}
		store.vlogTicker = time.NewTicker(gcInterval)
		store.done = make(chan struct{})
		go store.runVlogGC(threshold)
	}

	return store, nil
}

func (s *BadgerStore) Mutate(mutations []*storage.Mutation) error {
	return s.db.Update(func(txn *b.Txn) error {
		for _, m := range mutations {
			key := append([]byte{m.Prefix}, m.Key...)
			err := txn.Set(key, m.Value)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) Get(prefix byte, key []byte) (*storage.KVPair, error) {
	result := new(storage.KVPair)
	result.Key = key
	err := s.db.View(func(txn *b.Txn) error {
		k := append([]byte{prefix}, key...)
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		result.Value = value
		return nil
	})
	switch err {
	case nil:
		return result, nil
	case b.ErrKeyNotFound:
		return nil, storage.ErrKeyNotFound
	default:
		return nil, err
	}
}

type BadgerKVPairReader struct {
	prefix byte
	txn    *b.Txn
	it     *b.Iterator
}

func NewBadgerKVPairReader(prefix byte, txn *b.Txn) *BadgerKVPairReader {
	opts := b.DefaultIteratorOptions
	opts.PrefetchSize = 10
	it := txn.NewIterator(opts)
	it.Seek([]byte{prefix})
	return &BadgerKVPairReader{prefix, txn, it}
}

func (r *BadgerKVPairReader) Read(buffer []*storage.KVPair) (n int, err error) {
	for n = 0; r.it.ValidForPrefix([]byte{r.prefix}) && n < len(buffer); r.it.Next() {
		item := r.it.Item()
		key := item.KeyCopy(nil)
		value, err := item.ValueCopy(nil)
		if err != nil {
			return n, err
		}
		buffer[n] = &storage.KVPair{Key: key[1:], Value: value}
		n++
	}
	return n, nil
}

func (r *BadgerKVPairReader) Close() {
	r.it.Close()
	r.txn.Discard()
}

func (s *BadgerStore) GetAll(prefix byte) storage.KVPairReader {
	return NewBadgerKVPairReader(prefix, s.db.NewTransaction(false))
}

func (s *BadgerStore) Delete(prefix byte, key []byte) error {
	return s.db.Update(func(txn *b.Txn) error {
		k := append([]byte{prefix}, key...)
		return txn.Delete(k)
	})
}

func (s *BadgerStore) Close() error {
	if s.vlogTicker != nil {
		s.vlogTicker.Stop()
		close(s.done)
	}
	return s.db.Close()
}

func (s *BadgerStore) runVlogGC(threshold int64) {
	// Get initial size on start.
	_, lastVlogSize := s.db.Size()

	for {
		select {
		case <-s.done:
			return
		case <-s.vlogTicker.C:
			_, currentVlogSize := s.db.Size()
			if currentVlogSize < lastVlogSize+threshold {
				continue
			}
			var err error
			for err == nil {
				// If a GC is successful, immediately run it again.
				s.log.Debug("VlogGC task: running...")
				err = s.db.RunValueLogGC(0.7)
			}
			s.log.Debug("VlogGC task: done.")
			_, lastVlogSize = s.db.Size()
		}
	}
}
