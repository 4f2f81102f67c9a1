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
)

func newConvertCommand(ctx *cmdContext) *cobra.Command {
	var treeFile, format, out string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a tree file between export formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ctx.loadTree(treeFile)
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
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&treeFile, "tree", "t", "-", "Tree file in any export format, - for stdin")
	f.StringVarP(&format, "format", "f", snapshotFormat, "Export format: snapshot, compact or compressed")
	f.StringVarP(&out, "out", "o", "-", "Output file, - for stdout")

	return cmd
}
