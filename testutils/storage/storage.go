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

package storage

import (
	"fmt"
	"io/ioutil"
	"os"

	bd "github.com/bbva/kvmerkle/storage/badger"
	"github.com/bbva/kvmerkle/storage/bplus"
)

func OpenBPlusTreeStore() (*bplus.BPlusTreeStore, func()) {
	store := bplus.NewBPlusTreeStore()
	return store, func() {
		store.Close()
	}
}

func OpenBadgerStore(path string) (*bd.BadgerStore, func()) {
	store, err := bd.NewBadgerStore(path)
	if err != nil {
		panic(fmt.Sprintf("unable to open badger store at %s: %v", path, err))
	}
	return store, func() {
		store.Close()
		deleteFile(path)
	}
}

// OpenTempBadgerStore opens a badger store under a fresh temporary dir.
func OpenTempBadgerStore(name string) (*bd.BadgerStore, func()) {
	path, err := ioutil.TempDir("", name)
	if err != nil {
		panic(err)
	}
	return OpenBadgerStore(path)
}

func deleteFile(path string) {
	err := os.RemoveAll(path)
	if err != nil {
		fmt.Printf("Unable to remove db file %s", err)
	}
}
