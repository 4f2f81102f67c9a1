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

package kvtree

import "github.com/prometheus/client_golang/prometheus"

const namespace = "kvmerkle"
const subSystem = "tree"

var (
	BuildTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "build_total",
			Help:      "Number of trees built from data or leaves.",
		},
	)
	BuildDurationSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "build_duration_seconds",
			Help:      "Duration of the build operation.",
		},
	)
	PathTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "path_total",
			Help:      "Number of merkle paths generated.",
		},
	)
	VerifyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "verify_total",
			Help:      "Number of merkle paths verified.",
		},
	)
	EncodeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "encode_total",
			Help:      "Number of trees exported in optimized format.",
		},
	)
	DecodeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "decode_total",
			Help:      "Number of trees imported from optimized format.",
		},
	)
)

// RegisterMetrics registers every tree collector in the given registry.
func RegisterMetrics(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		BuildTotal,
		BuildDurationSeconds,
		PathTotal,
		VerifyTotal,
		EncodeTotal,
		DecodeTotal,
	} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
