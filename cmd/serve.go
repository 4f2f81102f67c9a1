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
	"github.com/spf13/cobra"

	"github.com/bbva/kvmerkle/server"
	"github.com/bbva/kvmerkle/util"
)

func newServeCommand(ctx *cmdContext) *cobra.Command {
	var treeFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stored trees through the HTTP API",
		Long: `Serve the trees of the configured store through the HTTP API. Tree files
given with --tree are stored before the server starts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeF, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer closeF()

			for _, file := range treeFiles {
				tree, err := ctx.loadTree(file)
				if err != nil {
					return err
				}
				root, err := reg.Put(tree)
				if err != nil {
					return err
				}
				ctx.log.Infof("Preloaded tree %s from %s", root, file)
			}

			conf := server.DefaultConfig()
			conf.HTTPAddr = ctx.config.API.Addr
			conf.TLSCertPath = ctx.config.API.TLSCertPath
			conf.TLSKeyPath = ctx.config.API.TLSKeyPath
			conf.EnableTLS = conf.TLSCertPath != "" && conf.TLSKeyPath != ""

			srv, err := server.NewServer(conf, reg)
			if err != nil {
				return err
			}
			if err := srv.Start(); err != nil {
				return err
			}

			var stopErr error
			util.AwaitTermSignal(func() {
				stopErr = srv.Stop()
			})
			return stopErr
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&treeFiles, "tree", "t", nil, "Tree files to store before serving")
	f.String("addr", "127.0.0.1:8800", "HTTP API bind address/port")
	f.String("tls-cert", "", "TLS server certificate")
	f.String("tls-key", "", "TLS server certificate key")

	// Lookups
	ctx.v.BindPFlag("api.addr", f.Lookup("addr"))
	ctx.v.BindPFlag("api.tls_cert", f.Lookup("tls-cert"))
	ctx.v.BindPFlag("api.tls_key", f.Lookup("tls-key"))

	return cmd
}
