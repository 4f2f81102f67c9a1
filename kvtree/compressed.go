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

	"github.com/bbva/kvmerkle/compress"
	"github.com/pkg/errors"
)

// ToCompressedV1 deflates the JSON encoding of the compact export.
func (t *Tree) ToCompressedV1() ([]byte, error) {
	levels, err := t.ToCompactV1()
	if err != nil {
		return nil, err
	}
	return CompressCompactV1(levels)
}

func FromCompressedV1(data []byte, opts ...Option) (*Tree, error) {
	levels, err := DecompressCompactV1(data)
	if err != nil {
		return nil, err
	}
	return FromCompactV1(levels, opts...)
}

func CompressCompactV1(levels CompactV1) ([]byte, error) {
	for i := range levels {
		if levels[i] == nil {
			levels[i] = []string{}
		}
	}
	raw, err := json.Marshal(levels)
	if err != nil {
		return nil, err
	}
	return compress.Deflate(raw)
}

func DecompressCompactV1(data []byte) (CompactV1, error) {
	raw, err := compress.Inflate(data)
	if err != nil {
		return nil, err
	}
	var levels CompactV1
	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, errors.Wrap(ErrInvalidCompactFormat, err.Error())
	}
	return levels, nil
}
