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

package hashing

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"
)

const wordSize = 32

// Keccak256Hasher hashes its inputs packed as consecutive uint256 words,
// the way solidity's abi.encodePacked does for uint256 arguments.
type Keccak256Hasher struct{}

func NewKeccak256Hasher() Hasher {
	return new(Keccak256Hasher)
}

func (k Keccak256Hasher) Hash(inputs ...*big.Int) (*big.Int, error) {
	h := sha3.NewLegacyKeccak256()
	for i, in := range inputs {
		if in.Sign() < 0 || in.BitLen() > wordSize*8 {
			return nil, fmt.Errorf("input %d does not fit in a uint256 word", i)
		}
		word := make([]byte, wordSize)
		in.FillBytes(word)
		_, _ = h.Write(word)
	}
	return new(big.Int).SetBytes(h.Sum(nil)), nil
}

func (k Keccak256Hasher) Name() string { return Keccak256Name }
