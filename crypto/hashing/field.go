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
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrEmptyElement    = errors.New("empty field element")
	ErrNegativeElement = errors.New("negative field element")
)

// ParseElement reads a field element from its textual form: a 0x-prefixed
// hexadecimal string or a decimal string.
func ParseElement(s string) (*big.Int, error) {
	if s == "" {
		return nil, ErrEmptyElement
	}
	var (
		n  = new(big.Int)
		ok bool
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if digits == "" {
			return nil, fmt.Errorf("invalid hex field element %q", s)
		}
		_, ok = n.SetString(digits, 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid field element %q", s)
	}
	if n.Sign() < 0 {
		return nil, ErrNegativeElement
	}
	return n, nil
}

// ToHex renders a field element as 0x followed by the minimal even number of
// lowercase hex digits. Zero is rendered as 0x00.
func ToHex(n *big.Int) string {
	digits := n.Text(16)
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	return "0x" + digits
}

// FromBytes interprets a big-endian byte buffer as a field element.
func FromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
