// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sequencenumber

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expectedSNLength = 32

func TestGenerateWith(t *testing.T) {
	sng := NewGeneratorWith(func(_ time.Time) int64 { return 1234554320123 }, func() string { return "nUfojcH2M5j2j3Tk5A1mf2" })

	testCases := []struct {
		name     string
		input    int64
		expected string
	}{
		{
			name:     "最小ID",
			input:    1,
			expected: "0001",
		},
		{
			name:     "取ID后四位",
			input:    123456789,
			expected: "6789",
		},
		{
			name:     "四位上限",
			input:    9999,
			expected: "9999",
		},
		{
			name:     "后四位为零",
			input:    123450000,
			expected: "0000",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			sn, err := sng.Generate(tc.input)

			require.NoError(t, err)
			assert.Contains(t, sn, tc.expected)
			assert.Len(t, sn, expectedSNLength)
		})
	}
}

func TestGenerate(t *testing.T) {
	sn, err := NewGenerator().Generate(123456789)
	require.NoError(t, err)
	assert.Contains(t, sn, "6789")
	assert.Len(t, sn, expectedSNLength)
}

func TestGenerateIsUnique(t *testing.T) {
	sng := NewGenerator()
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		sn, err := sng.Generate(int64(i))
		require.NoError(t, err)
		_, ok := seen[sn]
		require.False(t, ok)
		seen[sn] = struct{}{}
	}
}
