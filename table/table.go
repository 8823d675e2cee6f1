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

// Package table builds and serves the 1 GiB precomputed lookup table that
// the online solver queries to invert the non-linear relation between
// consecutive PCG state high-bits.
package table

import (
	"encoding/binary"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/xtaci/pcgxsh/pcg"
)

// EntryCount is the number of packed words in the table: one per possible
// zeta in [0, 2^27).
const EntryCount = pcg.EpsilonSpan

// FileSize is the exact on-disk size of a table file: 2^27 entries * 8
// bytes/entry = 1 GiB.
const FileSize = EntryCount * 8

// pack encodes a (N, zeta) pair the way the table stores it: N in the high
// 37 bits, zeta itself in the low 27 — zeta is already < 2^27, so this is a
// lossless encoding, not a residue.
func pack(n, zeta uint64) uint64 {
	return (n << pcg.EpsilonBits) | (zeta & pcg.EpsilonMask)
}

// entryFor computes the packed word for a single zeta, per spec.md §4.3:
// N(zeta) = (zeta*A (mod 2^64)) >> 27. The table's whole purpose is to let
// Query invert that one-way relation — given a target N, recover the zeta
// that produced it — so the low 27 bits of each entry must be zeta itself,
// not any function of the product, or Query would return the wrong value
// entirely.
func entryFor(zeta uint64) uint64 {
	p := zeta * pcg.A
	return pack(p>>pcg.EpsilonBits, zeta)
}

// Build computes the full, sorted set of 2^27 packed table words. workers
// controls how many goroutines share the enumeration; workers<=1 reproduces
// the original single-threaded gen-table.rs bit-for-bit (the enumeration
// order doesn't affect the final sorted table, only how fast it's built).
func Build(workers int) []uint64 {
	entries := make([]uint64, EntryCount)

	if workers <= 1 {
		for zeta := uint64(0); zeta < EntryCount; zeta++ {
			entries[zeta] = entryFor(zeta)
		}
	} else {
		if workers > runtime.NumCPU()*4 {
			workers = runtime.NumCPU() * 4
		}
		var wg sync.WaitGroup
		shard := EntryCount / uint64(workers)
		for w := 0; w < workers; w++ {
			lo := uint64(w) * shard
			hi := lo + shard
			if w == workers-1 {
				hi = EntryCount
			}
			wg.Add(1)
			go func(lo, hi uint64) {
				defer wg.Done()
				for zeta := lo; zeta < hi; zeta++ {
					entries[zeta] = entryFor(zeta)
				}
			}(lo, hi)
		}
		wg.Wait()
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i] < entries[j] })
	return entries
}

// WriteFile persists a built table as raw little-endian uint64 words, with
// no header or trailer, per spec.md §6.
func WriteFile(path string, entries []uint64) error {
	if len(entries) != EntryCount {
		return errors.Errorf("table.WriteFile: expected %d entries, got %d", EntryCount, len(entries))
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "os.Create()")
	}
	defer f.Close()

	buf := make([]byte, 1<<20) // 1 MiB write buffer, 128K entries at a time
	chunk := len(buf) / 8

	for i := 0; i < len(entries); i += chunk {
		end := i + chunk
		if end > len(entries) {
			end = len(entries)
		}
		n := end - i
		for j := 0; j < n; j++ {
			binary.LittleEndian.PutUint64(buf[j*8:], entries[i+j])
		}
		if _, err := f.Write(buf[:n*8]); err != nil {
			return errors.Wrap(err, "f.Write()")
		}
	}

	return f.Sync()
}
