/*
 * Copyright 2024-2025 Raamsri Kumar <raam@tinkershack.in>
 * Copyright 2024-2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pool

import (
	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stratastor/warren/pkg/zfs/common"
)

// Pool is one row of `zpool list`.
type Pool struct {
	Name   string      `json:"name"`
	Size   string      `json:"size"`
	Alloc  string      `json:"alloc"`
	Free   string      `json:"free"`
	Health string      `json:"health"`
	Fields parsers.Row `json:"fields"`
}

// CreateConfig describes a new pool. Devices are the data members; Spares
// are hot spares appended after the `spare` keyword.
type CreateConfig struct {
	Name       string            `json:"name" binding:"required"`
	Redundancy common.Redundancy `json:"redundancy"`
	Devices    []string          `json:"devices" binding:"required"`
	Spares     []string          `json:"spares,omitempty"`
}
