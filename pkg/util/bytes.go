/*
Copyright 2024 The Rook Authors. All rights reserved.

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

package util

import (
	"fmt"
)

const (
	KiB int64 = 1024
	MiB int64 = KiB * 1024
	GiB int64 = MiB * 1024
	TiB int64 = GiB * 1024
	PiB int64 = TiB * 1024
	EiB int64 = PiB * 1024
)

var byteUnits = []struct {
	size  int64
	label string
}{
	{EiB, "EiB"},
	{PiB, "PiB"},
	{TiB, "TiB"},
	{GiB, "GiB"},
	{MiB, "MiB"},
	{KiB, "KiB"},
}

// FormatBytes renders a disk size the way it is shown in log messages, e.g. "838.19 GiB".
// Negative sizes are rendered in bytes.
func FormatBytes(b int64) string {
	for _, unit := range byteUnits {
		if b >= unit.size {
			return fmt.Sprintf("%.2f %s", float64(b)/float64(unit.size), unit.label)
		}
	}
	return fmt.Sprintf("%d B", b)
}
