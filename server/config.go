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

package server

import (
	"time"
)

type Config struct {
	// HTTP API bind address/port.
	HTTPAddr string

	// Enable TLS service
	EnableTLS bool

	// TLS server cerificate
	TLSCertPath string

	// TLS server cerificate key
	TLSKeyPath string

	// Maximum time to wait for in-flight requests on Stop.
	ShutdownTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:        "127.0.0.1:8800",
		EnableTLS:       false,
		TLSCertPath:     "",
		TLSKeyPath:      "",
		ShutdownTimeout: 5 * time.Second,
	}
}
