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

// Package build reports the version of the running binary and the tree
// formats and hashers it understands.
package build

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/bbva/kvmerkle/crypto/hashing"
)

// CompactFormatVersion is the version of the optimized tree format written
// by this binary.
const CompactFormatVersion = 1

// Set with -ldflags "-X github.com/bbva/kvmerkle/build.version=..." on
// release builds. date is RFC 3339.
var (
	version = ""
	commit  = ""
	date    = ""
)

type Info struct {
	Version       string    `json:"version"`
	Commit        string    `json:"commit,omitempty"`
	BuiltAt       time.Time `json:"builtAt"`
	GoVersion     string    `json:"goVersion"`
	Platform      string    `json:"platform"`
	CompactFormat int       `json:"compactFormat"`
	Hashers       []string  `json:"hashers"`
}

// Short returns a one line summary for the version command.
func (i Info) Short() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" {
		commit = "none"
	}
	return fmt.Sprintf("kvmerkle %s (commit %s, %s, %s)", i.Version, commit, i.Platform, i.GoVersion)
}

// GetInfo merges the linker values with the module build information. The
// linker values win.
func GetInfo() Info {
	info := Info{
		Version:       version,
		Commit:        commit,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		CompactFormat: CompactFormatVersion,
		Hashers:       []string{hashing.PoseidonName, hashing.Keccak256Name},
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		info.BuiltAt = t.UTC()
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.BuiltAt.IsZero():
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuiltAt = t.UTC()
				}
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}
