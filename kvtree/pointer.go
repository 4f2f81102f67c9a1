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

import "strings"

// Pointer maps an application key to the leaf it produced and the value it
// was built from.
type Pointer struct {
	Leaf  Hash   `json:"leaf"`
	Value string `json:"value"`
}

// PointerStore indexes pointers by lower-cased key.
type PointerStore struct {
	pointers map[string]Pointer
}

func newPointerStore() *PointerStore {
	return &PointerStore{pointers: make(map[string]Pointer)}
}

func (s *PointerStore) Get(key string) (Pointer, bool) {
	p, ok := s.pointers[strings.ToLower(key)]
	return p, ok
}

func (s *PointerStore) Len() int {
	return len(s.pointers)
}

func (s *PointerStore) Empty() bool {
	return len(s.pointers) == 0
}

func (s *PointerStore) put(key string, p Pointer) {
	s.pointers[strings.ToLower(key)] = p
}

// byLeaf returns the reverse index, leaf hash to key.
func (s *PointerStore) byLeaf() map[Hash]string {
	out := make(map[Hash]string, len(s.pointers))
	for key, p := range s.pointers {
		out[p.Leaf] = key
	}
	return out
}

func (s *PointerStore) export() map[string]Pointer {
	if s.Empty() {
		return nil
	}
	out := make(map[string]Pointer, len(s.pointers))
	for k, p := range s.pointers {
		out[k] = p
	}
	return out
}
