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
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/xtaci/pcgxsh/pcg"
)

// ErrTableLoadFailed is returned when a table file cannot be opened or read,
// or is not exactly FileSize bytes long (spec.md §7).
var ErrTableLoadFailed = errors.New("table: load failed")

// LookupTable is the 2^27-entry sorted table held in memory, owned
// exclusively by whichever solver.Predictor loaded it (spec.md §5).
type LookupTable struct {
	entries []uint64
}

// NewFromEntries wraps an already-built, already-sorted entry slice as a
// LookupTable without a round trip through disk. Build returns entries in
// this exact form, so callers who build and query in the same process can
// skip WriteFile/Open entirely.
func NewFromEntries(entries []uint64) *LookupTable {
	return &LookupTable{entries: entries}
}

// Open reads an entire table file into memory. The file must be exactly
// FileSize bytes; anything else is ErrTableLoadFailed.
func Open(path string) (*LookupTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrTableLoadFailed, "os.Open(): %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(ErrTableLoadFailed, "f.Stat(): %v", err)
	}
	if info.Size() != FileSize {
		return nil, errors.Wrapf(ErrTableLoadFailed, "table file is %d bytes, want %d", info.Size(), FileSize)
	}

	raw := make([]byte, FileSize)
	if _, err := io.ReadFull(f, raw); err != nil {
		return nil, errors.Wrapf(ErrTableLoadFailed, "io.ReadFull(): %v", err)
	}

	entries := make([]uint64, EntryCount)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}

	return &LookupTable{entries: entries}, nil
}

// Release drops the table's backing buffer. Per spec.md §5 the table may be
// freed as soon as the streaming pruner switches to exhaustive candidate
// enumeration, since that phase never queries it again.
func (t *LookupTable) Release() {
	t.entries = nil
}

// scan performs a binary search for an entry whose high 37 bits equal n,
// exploiting the fact that the packed word order equals the N order (beta
// occupies only the low 27 bits).
func (t *LookupTable) scan(n uint64) (beta uint64, ok bool) {
	n &= pcg.KeyMask
	entries := t.entries
	idx := sort.Search(len(entries), func(i int) bool {
		return (entries[i] >> pcg.EpsilonBits) >= n
	})
	if idx < len(entries) && (entries[idx]>>pcg.EpsilonBits) == n {
		return entries[idx] & pcg.EpsilonMask, true
	}
	return 0, false
}

// Query answers query(N) from spec.md §4.4, trying all four symmetry cases
// in turn: direct, negated, off-by-one high, and off-by-one combined. It
// returns the zeta whose N(zeta) matches under one of the four symmetric
// forms of N, or ok=false if N has no pre-image under any of them. Callers
// (solver.Predictor) use this returned value as "beta": the epsilon delta
// between two witness states, which is exactly what zeta represents by
// construction (spec.md §4.3).
//
// The symmetries exist because the bootstrap's algebraic key N (spec.md
// §4.5) is only defined up to a sign convention; an implementation that
// picks one convention must check all four, or it will silently fail to
// recover on legitimate inputs (spec.md §9, Open question).
func (t *LookupTable) Query(n uint64) (beta uint64, ok bool) {
	n &= pcg.KeyMask

	if beta, ok := t.scan(n); ok {
		return beta, true
	}

	negN := (-n) & pcg.KeyMask
	if beta, ok := t.scan(negN); ok {
		return negWrap(beta), true
	}

	// n == 1 degenerates case 3 (n+1 would collide with the direct case's
	// own symmetry point); the reference returns early here, skipping case
	// 4 as well, not just case 3.
	if n == 1 {
		return 0, false
	}

	if beta, ok := t.scan((n + 1) & pcg.KeyMask); ok {
		return beta - pcg.EpsilonSpan, true
	}

	// n == -1 (mod 2^37) degenerates case 4 the same way; the reference
	// returns early here too.
	if n == negOne() {
		return 0, false
	}

	oneMinusN := (1 - n) & pcg.KeyMask
	if beta, ok := t.scan(oneMinusN); ok {
		return pcg.EpsilonSpan - beta, true
	}

	return 0, false
}

// negWrap negates a value as the spec's wrapping two's-complement
// arithmetic requires: -x mod 2^64.
func negWrap(x uint64) uint64 {
	return -x
}

// negOne is (-1 mod 2^37), the degenerate case the off-by-one-combined
// symmetry must not be evaluated at (spec.md §4.4 edge case note).
func negOne() uint64 {
	return negWrap(1) & pcg.KeyMask
}
