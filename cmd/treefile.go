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
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/bbva/kvmerkle/kvtree"
)

const (
	snapshotFormat   = "snapshot"
	compactFormat    = "compact"
	compressedFormat = "compressed"
)

// zlibMagic is the first byte of a zlib stream with the default window.
const zlibMagic = 0x78

// detectFormat guesses the export format of a tree file from its first
// significant byte.
func detectFormat(data []byte) (string, error) {
	if len(data) > 0 && data[0] == zlibMagic {
		return compressedFormat, nil
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return "", errors.New("empty tree file")
	}
	switch trimmed[0] {
	case '{':
		return snapshotFormat, nil
	case '[':
		return compactFormat, nil
	}
	return "", errors.Errorf("unknown tree file format starting with %#x", trimmed[0])
}

func decodeTree(data []byte, opts ...kvtree.Option) (*kvtree.Tree, error) {
	format, err := detectFormat(data)
	if err != nil {
		return nil, err
	}
	switch format {
	case compressedFormat:
		return kvtree.FromCompressedV1(data, opts...)
	case compactFormat:
		var levels kvtree.CompactV1
		if err := json.Unmarshal(data, &levels); err != nil {
			return nil, errors.Wrap(kvtree.ErrInvalidCompactFormat, err.Error())
		}
		return kvtree.FromCompactV1(levels, opts...)
	default:
		var snapshot kvtree.Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decoding snapshot")
		}
		return kvtree.FromSnapshot(&snapshot, opts...)
	}
}

func encodeTree(tree *kvtree.Tree, format string) ([]byte, error) {
	switch format {
	case snapshotFormat:
		snapshot, err := tree.ToSnapshot()
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(snapshot, "", "  ")
	case compactFormat:
		levels, err := tree.ToCompactV1()
		if err != nil {
			return nil, err
		}
		for i := range levels {
			if levels[i] == nil {
				levels[i] = []string{}
			}
		}
		return json.Marshal(levels)
	case compressedFormat:
		return tree.ToCompressedV1()
	}
	return nil, errors.Errorf("unknown format %q, use snapshot, compact or compressed", format)
}

func (c *cmdContext) loadTree(path string) (*kvtree.Tree, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	tree, err := decodeTree(data, c.treeOptions()...)
	if err != nil {
		return nil, errors.Wrapf(err, "loading tree %s", path)
	}
	return tree, nil
}

// writeOutput writes data to the given file, or to out when path is empty
// or "-". Text exports written to out end with a newline.
func writeOutput(out io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := out.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[0] == zlibMagic {
			return nil
		}
		_, err := out.Write([]byte("\n"))
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// printJSON writes v indented to out.
func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
