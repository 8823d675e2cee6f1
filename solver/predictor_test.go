// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package solver

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtaci/pcgxsh/pcg"
	"github.com/xtaci/pcgxsh/table"
)

// buildFullTable constructs the real 2^27-entry table in memory. It is slow
// (tens of seconds, and 1 GiB of memory) but deterministic, and is the only way to exercise
// NewPredictor/SubmitNextOutput/Recovered against a real generator instead
// of a mocked table, the same way the original pcg-breaker's integration
// path is only ever tested end-to-end against gen-table's output.
func buildFullTable(t *testing.T) *table.LookupTable {
	t.Helper()
	entries := rawEntries()
	sort.Slice(entries, func(i, j int) bool { return entries[i] < entries[j] })
	return table.NewFromEntries(entries)
}

// rawEntries reproduces table.Build(1) without depending on its unexported
// entryFor, so this test stays self-contained if that internal ever moves.
func rawEntries() []uint64 {
	const n = pcg.EpsilonSpan
	entries := make([]uint64, n)
	for zeta := uint64(0); zeta < n; zeta++ {
		p := zeta * pcg.A
		entries[zeta] = (p >> pcg.EpsilonBits << pcg.EpsilonBits) | zeta
	}
	return entries
}

func TestFullRecoveryAgainstKnownGenerator(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the real 2^27-entry table; skipped under -short")
	}

	tbl := buildFullTable(t)

	g := pcg.New(pcg.DefaultState, pcg.DefaultIncrement)
	outputs := g.NextN(40)

	p, err := NewPredictor(tbl, [4]uint32{outputs[0], outputs[1], outputs[2], outputs[3]})
	require.NoError(t, err)

	for i := 4; i < len(outputs); i++ {
		require.NoError(t, p.SubmitNextOutput(outputs[i]))
		if _, _, ok := p.Recovered(); ok {
			break
		}
	}

	state, increment, ok := p.Recovered()
	require.True(t, ok, "predictor should converge to a unique candidate within 40 outputs")
	require.Equal(t, pcg.DefaultIncrement|1, increment)
	require.Equal(t, pcg.DefaultState, state)
}

func TestNotPCGOutputSequenceIsRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the real 2^27-entry table; skipped under -short")
	}

	tbl := buildFullTable(t)

	// Four outputs with no shared generator behind them at all.
	_, err := NewPredictor(tbl, [4]uint32{0xdeadbeef, 0x12345678, 0x0badc0de, 0xfeedface})
	require.ErrorIs(t, err, ErrNotPCG)
}
