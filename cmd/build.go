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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bbva/kvmerkle/kvtree"
)

func newBuildCommand(ctx *cmdContext) *cobra.Command {
	var dataFile, leavesFile, format, out string
	var forceHeight int
	var hashLeaves bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a merkle tree from key/value data or raw leaves",
		Long: `Build a merkle tree and export it.

Data files are JSON objects whose keys and values are field elements; the
document order fixes each leaf position. Leaves files are JSON arrays.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (dataFile == "") == (leavesFile == "") {
				return errors.New("exactly one of --data or --leaves is required")
			}

			opts := ctx.treeOptions()
			if cmd.Flags().Changed("force-height") {
				opts = append(opts, kvtree.WithForceHeight(forceHeight))
			}
			if cmd.Flags().Changed("hash-leaves") {
				opts = append(opts, kvtree.WithHashLeaves(hashLeaves))
			}

			tree, err := ctx.build(dataFile, leavesFile, opts)
			if err != nil {
				return err
			}

			data, err := encodeTree(tree, format)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), out, data); err != nil {
				return errors.Wrap(err, "writing tree")
			}

			root, _ := tree.Root()
			ctx.log.Infof("Built tree %s of height %d with %d nodes", root, tree.Height(), tree.Nodes().Len())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dataFile, "data", "", "JSON object with the key/value data")
	f.StringVar(&leavesFile, "leaves", "", "JSON array with the raw leaves")
	f.IntVar(&forceHeight, "force-height", 0, "Build the tree with this height instead of the minimal one")
	f.BoolVar(&hashLeaves, "hash-leaves", false, "Hash each leaf before linking (default true for data, false for leaves)")
	f.StringVarP(&format, "format", "f", compactFormat, "Export format: snapshot, compact or compressed")
	f.StringVarP(&out, "out", "o", "-", "Output file, - for stdout")

	return cmd
}

func (c *cmdContext) build(dataFile, leavesFile string, opts []kvtree.Option) (*kvtree.Tree, error) {
	if dataFile != "" {
		entries, err := readDataFile(dataFile)
		if err != nil {
			return nil, err
		}
		c.log.Debugf("Building data tree with %d entries", len(entries))
		return kvtree.FromData(entries, c.hasher, opts...)
	}

	leaves, err := readLeavesFile(leavesFile)
	if err != nil {
		return nil, err
	}
	c.log.Debugf("Building leaves tree with %d leaves", len(leaves))
	return kvtree.FromLeaves(leaves, c.hasher, opts...)
}
