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

package table

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtaci/pcgxsh/pcg"
)

// miniBuild reproduces Build over a small synthetic zeta domain, using
// entryFor for each word, so tests don't need to allocate the real 1 GiB table.
func miniBuild(zetas []uint64) []uint64 {
	entries := make([]uint64, len(zetas))
	for i, zeta := range zetas {
		entries[i] = entryFor(zeta)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i] < entries[j] })
	return entries
}

func TestEntryForMatchesPackedLayout(t *testing.T) {
	zeta := uint64(12345)
	word := entryFor(zeta)

	p := zeta * pcg.A
	require.Equal(t, p>>pcg.EpsilonBits, word>>pcg.EpsilonBits)
	require.Equal(t, zeta, word&pcg.EpsilonMask,
		"the low 27 bits of a packed entry must be zeta itself, not a residue of zeta*A")
}

func TestBuildSingleThreadedSortsAscending(t *testing.T) {
	zetas := make([]uint64, 0, 4096)
	for z := uint64(0); z < 4096; z++ {
		zetas = append(zetas, z)
	}

	entries := miniBuild(zetas)
	for i := 1; i < len(entries); i++ {
		require.LessOrEqual(t, entries[i-1], entries[i])
	}
}

func TestQueryFindsDirectMatch(t *testing.T) {
	zetas := make([]uint64, 0, 1<<14)
	for z := uint64(0); z < 1<<14; z++ {
		zetas = append(zetas, z)
	}
	entries := miniBuild(zetas)
	tbl := &LookupTable{entries: entries}

	zeta := uint64(777)
	p := zeta * pcg.A
	n := p >> pcg.EpsilonBits

	beta, ok := tbl.Query(n)
	require.True(t, ok)
	require.Equal(t, zeta, beta)
}

func TestQueryMissReturnsFalse(t *testing.T) {
	entries := miniBuild([]uint64{1, 2, 3})
	tbl := &LookupTable{entries: entries}

	// A key with no pre-image under any of the four symmetries in this tiny
	// synthetic table.
	_, ok := tbl.Query(0x1234567)
	require.False(t, ok)
}

func TestQueryZeroKeyFindsZetaZero(t *testing.T) {
	entries := miniBuild([]uint64{0, 1, 2, 3})
	tbl := &LookupTable{entries: entries}

	beta, ok := tbl.Query(0)
	require.True(t, ok)
	require.Equal(t, uint64(0), beta)
}

// TestQueryAtPlusOneDegeneratesCases3And4 guards the N=1 edge case spec.md
// §4.4 calls out: the reference implementation returns no match at N=1
// without ever attempting the off-by-one-high or off-by-one-combined
// symmetries, even when one of them would otherwise spuriously match (here,
// case 4 reduces to scan(0), which *is* present in the table below as
// zeta=0 and would wrongly report a match if case 4 were evaluated).
func TestQueryAtPlusOneDegeneratesCases3And4(t *testing.T) {
	entries := miniBuild([]uint64{0, 2, 3, 4})
	tbl := &LookupTable{entries: entries}

	_, ok := tbl.Query(1)
	require.False(t, ok)
}

// TestQueryAtMinusOneDegeneratesCase4 guards the symmetric N=-1 (mod 2^37)
// edge case: case 4 (off-by-one-combined) must never be attempted there.
func TestQueryAtMinusOneDegeneratesCase4(t *testing.T) {
	entries := miniBuild([]uint64{2, 3, 4, 5})
	tbl := &LookupTable{entries: entries}

	_, ok := tbl.Query(negOne())
	require.False(t, ok)
}

func TestReleaseClearsBackingSlice(t *testing.T) {
	tbl := &LookupTable{entries: []uint64{1, 2, 3}}
	tbl.Release()
	require.Nil(t, tbl.entries)
}
