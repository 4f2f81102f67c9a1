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
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"
)

// PoseidonHasher computes the circom compatible Poseidon hash over the BN254
// scalar field. Inputs must already be reduced into the field.
type PoseidonHasher struct{}

func NewPoseidonHasher() Hasher {
	return new(PoseidonHasher)
}

func (p PoseidonHasher) Hash(inputs ...*big.Int) (*big.Int, error) {
	return poseidon.Hash(inputs)
}

func (p PoseidonHasher) Name() string { return PoseidonName }
