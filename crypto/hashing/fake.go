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
)

// fakeModulus is the Mersenne prime 2^61-1.
var fakeModulus = new(big.Int).SetUint64(1<<61 - 1)

// FakeHasher implements the Hasher interface with a cheap, order sensitive
// polynomial over a small prime field. Handy for testing tree
// implementations; it offers no security at all.
type FakeHasher struct{}

func NewFakeHasher() Hasher {
	return new(FakeHasher)
}

func (f FakeHasher) Hash(inputs ...*big.Int) (*big.Int, error) {
	acc := big.NewInt(int64(len(inputs)) + 11)
	weight := big.NewInt(31)
	for _, in := range inputs {
		term := new(big.Int).Add(in, big.NewInt(1))
		term.Mul(term, weight)
		acc.Mul(acc, big.NewInt(131))
		acc.Add(acc, term)
		acc.Mod(acc, fakeModulus)
		weight.Add(weight, big.NewInt(2))
	}
	return acc, nil
}

func (f FakeHasher) Name() string { return FakeName }
