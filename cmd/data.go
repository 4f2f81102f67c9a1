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

package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/bbva/kvmerkle/kvtree"
)

// readEntries decodes a JSON object of key/value pairs keeping the order of
// the document, which fixes the leaf positions. Values may be JSON strings
// or numbers.
func readEntries(r io.Reader) ([]kvtree.Entry, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	entries := make([]kvtree.Entry, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("unexpected token %v, expecting a key", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, errors.Wrapf(err, "reading value of key %s", key)
		}
		var value string
		switch t := tok.(type) {
		case string:
			value = t
		case json.Number:
			value = t.String()
		default:
			return nil, errors.Errorf("value of key %s must be a string or a number, got %v", key, tok)
		}
		entries = append(entries, kvtree.Entry{Key: key, Value: value})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return entries, nil
}

// readLeaves decodes a JSON array of leaves.
func readLeaves(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding leaves")
	}
	leaves := make([]string, 0, len(raw))
	for i, l := range raw {
		switch t := l.(type) {
		case string:
			leaves = append(leaves, t)
		case json.Number:
			leaves = append(leaves, t.String())
		default:
			return nil, errors.Errorf("leaf %d must be a string or a number, got %v", i, l)
		}
	}
	return leaves, nil
}

func expectDelim(dec *json.Decoder, delim json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrapf(err, "expecting %v", delim)
	}
	if d, ok := tok.(json.Delim); !ok || d != delim {
		return errors.Errorf("unexpected token %v, expecting %v", tok, delim)
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return f, nil
}

func readDataFile(path string) ([]kvtree.Entry, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readEntries(f)
}

func readLeavesFile(path string) ([]string, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLeaves(f)
}
