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

package registry

import (
	"bytes"

	"github.com/hashicorp/go-msgpack/codec"
	"github.com/pkg/errors"
)

// RecordVersion prefixes every encoded record.
type RecordVersion uint8

const (
	RecordV1 RecordVersion = iota + 1
)

// Record is the stored form of a tree. Compressed holds the compressed
// compact export, the rest is metadata readable without decoding it.
type Record struct {
	Root       string
	Height     int
	Leaves     int
	Pointers   int
	HashLeaves bool
	Hasher     string
	Compressed []byte
}

// msgpackHandle is a shared handle for encoding/decoding of records
var msgpackHandle = &codec.MsgpackHandle{}

func encodeRecord(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(uint8(RecordV1))
	err := codec.NewEncoder(&buf, msgpackHandle).Encode(r)
	return buf.Bytes(), err
}

func decodeRecord(buf []byte) (*Record, error) {
	if len(buf) == 0 {
		return nil, errors.Wrap(ErrCorruptRecord, "empty record")
	}
	if v := RecordVersion(buf[0]); v != RecordV1 {
		return nil, errors.Wrapf(ErrCorruptRecord, "unknown record version %d", v)
	}
	var r Record
	if err := codec.NewDecoder(bytes.NewReader(buf[1:]), msgpackHandle).Decode(&r); err != nil {
		return nil, errors.Wrap(ErrCorruptRecord, err.Error())
	}
	return &r, nil
}
