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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseElement(t *testing.T) {
	testCases := []struct {
		input    string
		expected *big.Int
		fails    bool
	}{
		{"0x00", big.NewInt(0), false},
		{"0x7d", big.NewInt(125), false},
		{"0X7D", big.NewInt(125), false},
		{"125", big.NewInt(125), false},
		{"0x075bcd15", big.NewInt(123456789), false},
		{"0x8ab1760889f26cbbf33a75fd2cf1696bfccdc9e61", func() *big.Int {
			n, _ := new(big.Int).SetString("8ab1760889f26cbbf33a75fd2cf1696bfccdc9e61", 16)
			return n
		}(), false},
		{"", nil, true},
		{"0x", nil, true},
		{"abc", nil, true},
		{"-1", nil, true},
		{"0xzz", nil, true},
	}

	for _, c := range testCases {
		n, err := ParseElement(c.input)
		if c.fails {
			require.Errorf(t, err, "Parsing %q should fail", c.input)
			continue
		}
		require.NoErrorf(t, err, "Parsing %q should not fail", c.input)
		assert.Equalf(t, 0, c.expected.Cmp(n), "Wrong element for %q", c.input)
	}
}

func TestToHex(t *testing.T) {
	testCases := []struct {
		input    *big.Int
		expected string
	}{
		{big.NewInt(0), "0x00"},
		{big.NewInt(1), "0x01"},
		{big.NewInt(125), "0x7d"},
		{big.NewInt(256), "0x0100"},
		{big.NewInt(123456789), "0x075bcd15"},
	}

	for _, c := range testCases {
		assert.Equal(t, c.expected, ToHex(c.input))
	}
}

func TestPoseidon(t *testing.T) {
	h := NewPoseidonHasher()

	digest, err := h.Hash(big.NewInt(1), big.NewInt(2), big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, "0x0e7732d89e6939c0ff03d5e58dab6302f3230e269dc5b968f725df34ab36d732", ToHex(digest))

	digest, err = h.Hash(big.NewInt(0), big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, "0x2098f5fb9e239eab3ceac3f27b81e481dc3124d55ffed523a839ee8446b64864", ToHex(digest))
}

func TestKeccak256(t *testing.T) {
	h := NewKeccak256Hasher()

	digest, err := h.Hash(big.NewInt(0), big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, "0xad3228b676f7d3cd4284a5443f17f1962b36e491b30a40b2405849e597ba5fb5", ToHex(digest))

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = h.Hash(tooBig, big.NewInt(0))
	require.Error(t, err)
}

func TestFakeHasherIsOrderSensitive(t *testing.T) {
	h := NewFakeHasher()

	ab, err := h.Hash(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	ba, err := h.Hash(big.NewInt(2), big.NewInt(1))
	require.NoError(t, err)
	again, err := h.Hash(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)

	require.NotEqual(t, 0, ab.Cmp(ba))
	require.Equal(t, 0, ab.Cmp(again))
}

func TestNew(t *testing.T) {
	for _, name := range []string{"poseidon", "Keccak256", "fake"} {
		h, err := New(name)
		require.NoErrorf(t, err, "Hasher %s should exist", name)
		require.NotNil(t, h)
	}
	_, err := New("md5")
	require.Error(t, err)
}
