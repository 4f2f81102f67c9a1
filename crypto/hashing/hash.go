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

// Package hashing implements the field-element hashers used to link tree
// nodes. Every hasher maps an ordered sequence of field elements to a single
// field element.
package hashing

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	PoseidonName  = "poseidon"
	Keccak256Name = "keccak256"
	FakeName      = "fake"
)

// Hasher is the contract a tree relies on. Implementations must be
// deterministic and collision resistant with respect to the field modulus.
type Hasher interface {
	Hash(inputs ...*big.Int) (*big.Int, error)
	Name() string
}

// New returns the hasher registered under the given name.
func New(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PoseidonName:
		return NewPoseidonHasher(), nil
	case Keccak256Name:
		return NewKeccak256Hasher(), nil
	case FakeName:
		return NewFakeHasher(), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}
