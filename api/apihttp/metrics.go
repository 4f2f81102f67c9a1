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

package apihttp

import (
	"github.com/prometheus/client_golang/prometheus"
)

// namespace is the leading part of all published metrics.
const namespace = "kvmerkle"

// subsystem associated with metrics for API HTTP
const subSystem = "api_http"

var (
	HealthCheckRequest = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "health_check_requests",
			Help:      "Number of HTTP HealthCheck requests.",
		},
	)
	TreeInfoRequest = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "tree_info_requests",
			Help:      "Number of HTTP TreeInfo requests.",
		},
	)
	PathRequest = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "path_requests",
			Help:      "Number of HTTP Path requests.",
		},
	)
	PositionRequest = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "position_requests",
			Help:      "Number of HTTP Position requests.",
		},
	)
	VerifyRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "verify_requests",
			Help:      "Number of HTTP Verify requests.",
		},
	)
	FailedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "failed_requests",
			Help:      "Number of HTTP requests answered with an error, by status code.",
		},
		[]string{"code"},
	)
)

func RegisterMetrics(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		HealthCheckRequest,
		TreeInfoRequest,
		PathRequest,
		PositionRequest,
		VerifyRequests,
		FailedRequests,
	} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
