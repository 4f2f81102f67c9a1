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

// Package cmd implements the kvmerkle command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var Root *cobra.Command = NewRootCommand()

// NewRootCommand builds the command tree with a fresh configuration.
func NewRootCommand() *cobra.Command {
	ctx := &cmdContext{v: newViper()}

	cmd := &cobra.Command{
		Use:   "kvmerkle",
		Short: "Merkle trees over key/value data",
		Long: `kvmerkle builds Merkle trees over key/value data or raw leaves, serves and
verifies inclusion proofs, and exports trees in a compact format that prunes
padding subtrees.`,
		// SilenceUsage is set to true -> https://github.com/spf13/cobra/issues/340
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup()
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&ctx.configFile, "config", "c", "", "Config file (default is $HOME/.kvmerkle.yaml)")
	f.StringP("log", "l", "error", "Choose between log levels: silent, error, warn, info, debug, trace")
	f.String("hash", "poseidon", "Hash function: poseidon or keccak256")
	f.Int("max-depth", 32, "Depth of the precomputed null subtree table")
	f.String("store-engine", "memory", "Storage engine: memory or badger")
	f.String("store-path", "", "Path to the storage directory")

	// Lookups
	ctx.v.BindPFlag("log", f.Lookup("log"))
	ctx.v.BindPFlag("hash", f.Lookup("hash"))
	ctx.v.BindPFlag("max_depth", f.Lookup("max-depth"))
	ctx.v.BindPFlag("store.engine", f.Lookup("store-engine"))
	ctx.v.BindPFlag("store.path", f.Lookup("store-path"))

	cmd.AddCommand(
		newBuildCommand(ctx),
		newPathCommand(ctx),
		newPositionCommand(ctx),
		newVerifyCommand(ctx),
		newConvertCommand(ctx),
		newStoreCommand(ctx),
		newServeCommand(ctx),
		newVersionCommand(),
	)

	return cmd
}
