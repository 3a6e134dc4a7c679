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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "1000 B", FormatBytes(1000))
	assert.Equal(t, "1.00 KiB", FormatBytes(1024))
	assert.Equal(t, "1.50 MiB", FormatBytes(1572864))
	assert.Equal(t, "838.19 GiB", FormatBytes(900000000000))
	assert.Equal(t, "931.32 GiB", FormatBytes(1000000000000))
	assert.Equal(t, "1.82 TiB", FormatBytes(2000000000000))
	assert.Equal(t, "5.55 PiB", FormatBytes(6248744482976563))

	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "-5 B", FormatBytes(-5))
	assert.Equal(t, "8.00 EiB", FormatBytes(math.MaxInt64))
}
