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

// Package server implements the server initialization for the api.apihttp
// handlers against a tree registry.
package server

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bbva/kvmerkle/api/apihttp"
	"github.com/bbva/kvmerkle/kvtree"
	"github.com/bbva/kvmerkle/log"
	"github.com/bbva/kvmerkle/registry"
)

// Server encapsulates the data and logic to start/stop a kvmerkle server.
type Server struct {
	conf     *Config
	registry *registry.Registry
	log      log.Logger

	httpServer         *http.Server
	listener           net.Listener
	prometheusRegistry *prometheus.Registry
	metrics            *serverMetrics
}

// NewServer creates a new Server based on the parameters it receives.
func NewServer(conf *Config, reg *registry.Registry) (*Server, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	if conf.EnableTLS && (conf.TLSCertPath == "" || conf.TLSKeyPath == "") {
		return nil, errors.New("TLS needs a certificate and a key")
	}

	server := &Server{
		conf:               conf,
		registry:           reg,
		log:                log.L().Named("server"),
		prometheusRegistry: prometheus.NewRegistry(),
		metrics:            newServerMetrics(),
	}

	for _, c := range server.metrics.collectors() {
		if err := server.prometheusRegistry.Register(c); err != nil {
			return nil, err
		}
	}
	if err := kvtree.RegisterMetrics(server.prometheusRegistry); err != nil {
		return nil, err
	}
	if err := apihttp.RegisterMetrics(server.prometheusRegistry); err != nil {
		return nil, err
	}

	// Create http endpoints
	httpMux := apihttp.NewApiHttp(reg, server.prometheusRegistry)

	if conf.EnableTLS {
		server.httpServer = newTLSServer(conf.HTTPAddr, httpMux)
	} else {
		server.httpServer = newHTTPServer(conf.HTTPAddr, httpMux)
	}

	return server, nil
}

// Start will start the server in a non-blockable fashion.
func (s *Server) Start() error {
	trees, err := s.registry.List()
	if err != nil {
		return errors.Wrap(err, "listing stored trees")
	}
	s.metrics.Trees.Set(float64(len(trees)))

	ln, err := net.Listen("tcp", s.conf.HTTPAddr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.metrics.Instances.Inc()
	s.log.Infof("Starting kvmerkle server on %s with %d trees", ln.Addr(), len(trees))

	go func() {
		var err error
		if s.conf.EnableTLS {
			s.log.Debugf("	* Starting HTTPS API server in addr: %s", ln.Addr())
			err = s.httpServer.ServeTLS(ln, s.conf.TLSCertPath, s.conf.TLSKeyPath)
		} else {
			s.log.Debugf("	* Starting HTTP API server in addr: %s", ln.Addr())
			err = s.httpServer.Serve(ln)
		}
		if err != http.ErrServerClosed {
			s.log.Errorf("Can't start HTTP API server: %s", err)
		}
	}()

	return nil
}

// Addr returns the address the server listens on once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.conf.HTTPAddr
	}
	return s.listener.Addr().String()
}

// Stop will close all the channels from the mux servers.
func (s *Server) Stop() error {
	s.log.Infof("Shutting down kvmerkle server")

	ctx, cancel := context.WithTimeout(context.Background(), s.conf.ShutdownTimeout)
	defer cancel()

	s.log.Debugf("Stopping HTTP API server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error(err.Error())
		return err
	}
	s.metrics.Instances.Dec()

	s.log.Debugf("Done. Exiting...")
	return nil
}

func newTLSServer(addr string, mux *http.ServeMux) *http.Server {

	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		CurvePreferences: []tls.CurveID{
			tls.CurveP521,
			tls.CurveP384,
			tls.CurveP256,
		},
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
			tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_RSA_WITH_AES_256_CBC_SHA,
		},
	}

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		TLSConfig:    cfg,
		TLSNextProto: make(map[string]func(*http.Server, *tls.Conn, http.Handler), 0),
	}

}

func newHTTPServer(addr string, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}
