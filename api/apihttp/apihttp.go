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

// Package apihttp implements the read-only HTTP API that serves merkle
// proofs over the trees of a registry.
package apihttp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/bbva/kvmerkle/kvtree"
	"github.com/bbva/kvmerkle/log"
	"github.com/bbva/kvmerkle/registry"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const treesPath = "/trees/"

// This handler checks the system status and returns it accordinly.
// The http call it answer is:
//	GET /health-check
//
// If everything is allright, the HTTP status is 200 and the body contains:
//	 {"version": 0, "status":"ok"}
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	HealthCheckRequest.Inc()
	result := HealthCheckResponse{
		Version: 0,
		Status:  "ok",
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		writeError(w, err)
		return
	}

	out := new(bytes.Buffer)
	json.Compact(out, resultJson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())
}

// Trees dispatches every request under /trees/ to its handler:
//	GET  /trees/{root}
//	GET  /trees/{root}/path?key={key}
//	GET  /trees/{root}/path?leaf={leaf}
//	GET  /trees/{root}/position?key={key}
//	POST /trees/{root}/verify
func Trees(reg *registry.Registry) http.HandlerFunc {
	info := TreeInfoHandler(reg)
	path := Path(reg)
	position := Position(reg)
	verify := Verify(reg)

	return func(w http.ResponseWriter, r *http.Request) {
		root, action := splitTreePath(r.URL.Path)
		if root == "" {
			http.NotFound(w, r)
			return
		}
		switch action {
		case "":
			info(w, r)
		case "path":
			path(w, r)
		case "position":
			position(w, r)
		case "verify":
			verify(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

// TreeInfoHandler returns the metadata of a stored tree.
//	GET /trees/{root}
//
//	{"root":"0x0aac...","height":3,"leaves":8,"pointers":0,"hashLeaves":false,"hasher":"poseidon"}
func TreeInfoHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, "GET") {
			return
		}
		TreeInfoRequest.Inc()

		root, _ := splitTreePath(r.URL.Path)
		record, err := reg.Record(kvtree.Hash(root))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToTreeInfo(record))
	}
}

// Path returns the merkle path of a key or a leaf.
//	GET /trees/{root}/path?key=0xf61c...
//
//	{"root":"0x...","key":"0xf61c...","leaf":"0x0b7a...","path":{"elements":[...],"indices":[1,1,0,1]}}
func Path(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, "GET") {
			return
		}
		PathRequest.Inc()

		root, _ := splitTreePath(r.URL.Path)
		key := r.URL.Query().Get("key")
		leaf := r.URL.Query().Get("leaf")
		if (key == "") == (leaf == "") {
			http.Error(w, "Please send either a key or a leaf", http.StatusBadRequest)
			FailedRequests.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
			return
		}

		tree, err := reg.Get(kvtree.Hash(root))
		if err != nil {
			writeError(w, err)
			return
		}

		if key != "" {
			l, err := tree.Leaf(key)
			if err != nil {
				writeError(w, err)
				return
			}
			leaf = string(l)
		}
		path, err := tree.PathFromLeaf(kvtree.Hash(leaf))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, &PathResponse{
			Root: root,
			Key:  key,
			Leaf: leaf,
			Path: path,
		})
	}
}

// Position returns the slot of a key in the padded leaf level.
//	GET /trees/{root}/position?key=0xf61c...
//
//	{"key":"0xf61c...","position":11}
func Position(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, "GET") {
			return
		}
		PositionRequest.Inc()

		root, _ := splitTreePath(r.URL.Path)
		key := r.URL.Query().Get("key")
		if key == "" {
			http.Error(w, "Please send a key", http.StatusBadRequest)
			FailedRequests.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
			return
		}

		tree, err := reg.Get(kvtree.Hash(root))
		if err != nil {
			writeError(w, err)
			return
		}
		position, err := tree.Position(key)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &PositionResponse{Key: key, Position: position})
	}
}

// Verify checks a merkle path against a stored tree.
//	POST /trees/{root}/verify
//	{"leaf":"0x0b7a...","path":{"elements":[...],"indices":[1,1,0,1]}}
//
//	{"root":"0x...","leaf":"0x0b7a...","valid":true}
func Verify(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, "POST") {
			return
		}
		VerifyRequests.Inc()

		if r.Body == nil {
			http.Error(w, "Please send a request body", http.StatusBadRequest)
			FailedRequests.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
			return
		}
		var query VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			FailedRequests.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
			return
		}

		root, _ := splitTreePath(r.URL.Path)
		tree, err := reg.Get(kvtree.Hash(root))
		if err != nil {
			writeError(w, err)
			return
		}
		valid, err := tree.Verify(query.Path, kvtree.Hash(query.Leaf))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &VerifyResponse{Root: root, Leaf: query.Leaf, Valid: valid})
	}
}

// NewApiHttp returns a new *http.ServeMux containing all the API handlers
// already configured. Metrics are gathered from the default registry and
// the given one.
func NewApiHttp(reg *registry.Registry, metrics *prometheus.Registry) *http.ServeMux {
	api := http.NewServeMux()
	api.HandleFunc("/health-check", LogHandler(HealthCheckHandler))
	api.HandleFunc(treesPath, LogHandler(Trees(reg)))

	handler := promhttp.HandlerFor(prometheus.Gatherers{prometheus.DefaultGatherer, metrics}, promhttp.HandlerOpts{})
	api.Handle("/metrics", promhttp.InstrumentMetricHandler(metrics, handler))

	return api
}

// LogHandler logs every request at debug level.
func LogHandler(handler http.HandlerFunc) http.HandlerFunc {
	logger := log.L().Named("apihttp")
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debugf("%s %s", r.Method, r.URL.RequestURI())
		handler(w, r)
	}
}

func splitTreePath(path string) (root, action string) {
	rest := strings.Trim(strings.TrimPrefix(path, treesPath), "/")
	root, action, _ = strings.Cut(rest, "/")
	if strings.Contains(action, "/") {
		return root, "invalid"
	}
	return root, action
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch errors.Cause(err) {
	case registry.ErrTreeNotFound, kvtree.ErrKeyNotFound, kvtree.ErrLeafNotFound:
		return http.StatusNotFound
	case kvtree.ErrNoPointerData, kvtree.ErrInvalidPath, kvtree.ErrInvalidElement:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	FailedRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(out)
}
