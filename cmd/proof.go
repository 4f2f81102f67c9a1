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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bbva/kvmerkle/api/apihttp"
	"github.com/bbva/kvmerkle/kvtree"
)

var errInvalidProof = errors.New("proof does not verify")

func newPathCommand(ctx *cmdContext) *cobra.Command {
	var treeFile, key, leaf, out string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the merkle path of a key or a leaf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (key == "") == (leaf == "") {
				return errors.New("exactly one of --key or --leaf is required")
			}
			tree, err := ctx.loadTree(treeFile)
			if err != nil {
				return err
			}
			root, err := tree.Root()
			if err != nil {
				return err
			}

			response := apihttp.PathResponse{Root: string(root), Key: key, Leaf: leaf}
			if key != "" {
				h, err := tree.Leaf(key)
				if err != nil {
					return err
				}
				response.Leaf = string(h)
			}
			response.Path, err = tree.PathFromLeaf(kvtree.Hash(response.Leaf))
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(response, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&treeFile, "tree", "t", "", "Tree file in any export format")
	f.StringVarP(&key, "key", "k", "", "Key of a data tree")
	f.StringVar(&leaf, "leaf", "", "Leaf hash")
	f.StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	cmd.MarkFlagRequired("tree")

	return cmd
}

func newPositionCommand(ctx *cmdContext) *cobra.Command {
	var treeFile, key string

	cmd := &cobra.Command{
		Use:   "position",
		Short: "Print the leaf slot of a key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ctx.loadTree(treeFile)
			if err != nil {
				return err
			}
			position, err := tree.Position(key)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), apihttp.PositionResponse{Key: key, Position: position})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&treeFile, "tree", "t", "", "Tree file in any export format")
	f.StringVarP(&key, "key", "k", "", "Key of a data tree")
	cmd.MarkFlagRequired("tree")
	cmd.MarkFlagRequired("key")

	return cmd
}

func newVerifyCommand(ctx *cmdContext) *cobra.Command {
	var proofFile, treeFile, root string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a merkle path",
		Long: `Verify a merkle path as printed by the path command.

With --tree the leaf must also belong to the given tree. Without it the
path is checked against the root of the proof, or --root when set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proof, err := readProof(proofFile)
			if err != nil {
				return err
			}
			if root != "" {
				proof.Root = root
			}

			var valid bool
			if treeFile != "" {
				tree, err := ctx.loadTree(treeFile)
				if err != nil {
					return err
				}
				treeRoot, err := tree.Root()
				if err != nil {
					return err
				}
				proof.Root = string(treeRoot)
				valid, err = tree.Verify(proof.Path, kvtree.Hash(proof.Leaf))
				if err != nil {
					return err
				}
			} else {
				if proof.Root == "" {
					return errors.New("a root is required, pass --root or --tree")
				}
				valid, err = kvtree.VerifyPath(ctx.hasher, kvtree.Hash(proof.Root), kvtree.Hash(proof.Leaf), proof.Path)
				if err != nil {
					return err
				}
			}

			err = printJSON(cmd.OutOrStdout(), apihttp.VerifyResponse{Root: proof.Root, Leaf: proof.Leaf, Valid: valid})
			if err != nil {
				return err
			}
			if !valid {
				return errInvalidProof
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&proofFile, "proof", "p", "-", "Proof file, - for stdin")
	f.StringVarP(&treeFile, "tree", "t", "", "Tree file in any export format")
	f.StringVar(&root, "root", "", "Expected root, overrides the one in the proof")

	return cmd
}

func readProof(path string) (*apihttp.PathResponse, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var proof apihttp.PathResponse
	if err := json.NewDecoder(f).Decode(&proof); err != nil {
		return nil, errors.Wrap(err, "decoding proof")
	}
	if proof.Leaf == "" {
		return nil, errors.New("proof without leaf")
	}
	return &proof, nil
}
