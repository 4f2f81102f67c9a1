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

	"github.com/bbva/kvmerkle/api/apihttp"
	"github.com/bbva/kvmerkle/kvtree"
)

func newStoreCommand(ctx *cmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the trees kept in the configured store",
	}

	cmd.AddCommand(
		newStoreAddCommand(ctx),
		newStoreGetCommand(ctx),
		newStoreListCommand(ctx),
		newStoreDeleteCommand(ctx),
	)
	return cmd
}

func newStoreAddCommand(ctx *cmdContext) *cobra.Command {
	var treeFiles []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store tree files and print their info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(treeFiles) == 0 {
				return errors.New("at least one --tree is required")
			}
			reg, closeF, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer closeF()

			infos := make([]*apihttp.TreeInfo, 0, len(treeFiles))
			for _, file := range treeFiles {
				tree, err := ctx.loadTree(file)
				if err != nil {
					return err
				}
				root, err := reg.Put(tree)
				if err != nil {
					return err
				}
				record, err := reg.Record(root)
				if err != nil {
					return err
				}
				infos = append(infos, apihttp.ToTreeInfo(record))
			}
			return printJSON(cmd.OutOrStdout(), infos)
		},
	}

	cmd.Flags().StringSliceVarP(&treeFiles, "tree", "t", nil, "Tree files in any export format")
	return cmd
}

func newStoreGetCommand(ctx *cmdContext) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "get <root>",
		Short: "Export a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeF, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer closeF()

			tree, err := reg.Get(kvtree.Hash(args[0]))
			if err != nil {
				return err
			}
			data, err := encodeTree(tree, format)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", compactFormat, "Export format: snapshot, compact or compressed")
	f.StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}

func newStoreListCommand(ctx *cmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeF, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer closeF()

			records, err := reg.List()
			if err != nil {
				return err
			}
			infos := make([]*apihttp.TreeInfo, 0, len(records))
			for _, r := range records {
				infos = append(infos, apihttp.ToTreeInfo(r))
			}
			return printJSON(cmd.OutOrStdout(), infos)
		},
	}
}

func newStoreDeleteCommand(ctx *cmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <root>",
		Short: "Delete a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeF, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer closeF()

			if err := reg.Delete(kvtree.Hash(args[0])); err != nil {
				return err
			}
			ctx.log.Infof("Deleted tree %s", args[0])
			return nil
		},
	}
}
