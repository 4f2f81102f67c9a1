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
	"github.com/bbva/kvmerkle/kvtree"
	"github.com/bbva/kvmerkle/registry"
)

// HealthCheckResponse contains the response from HealthCheckHandler.
type HealthCheckResponse struct {
	Version int    `json:"version"`
	Status  string `json:"status"`
}

// TreeInfo is the public struct that the TreeInfo handler returns.
type TreeInfo struct {
	Root       string `json:"root"`
	Height     int    `json:"height"`
	Leaves     int    `json:"leaves"`
	Pointers   int    `json:"pointers"`
	HashLeaves bool   `json:"hashLeaves"`
	Hasher     string `json:"hasher"`
}

func ToTreeInfo(r *registry.Record) *TreeInfo {
	return &TreeInfo{
		Root:       r.Root,
		Height:     r.Height,
		Leaves:     r.Leaves,
		Pointers:   r.Pointers,
		HashLeaves: r.HashLeaves,
		Hasher:     r.Hasher,
	}
}

// PathResponse carries a merkle path along with the leaf it proves.
type PathResponse struct {
	Root string            `json:"root"`
	Key  string            `json:"key,omitempty"`
	Leaf string            `json:"leaf"`
	Path kvtree.MerklePath `json:"path"`
}

type PositionResponse struct {
	Key      string `json:"key"`
	Position uint64 `json:"position"`
}

// VerifyRequest is the body the Verify handler expects.
type VerifyRequest struct {
	Leaf string            `json:"leaf"`
	Path kvtree.MerklePath `json:"path"`
}

type VerifyResponse struct {
	Root  string `json:"root"`
	Leaf  string `json:"leaf"`
	Valid bool   `json:"valid"`
}
