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

package pcg

// This file gives the attack's wrapping-arithmetic assumption (spec.md §4.1
// / §9) explicit names instead of leaving it implicit in bare Go operators.
// Go's uint64/uint32 already add, subtract, and multiply modulo 2^64/2^32
// with silent wraparound and no panic on overflow — the named wrappers
// below exist so every call site that depends on that wraparound reads as
// intentional, not as an unchecked overflow bug.

// Add64 computes a+b mod 2^64.
func Add64(a, b uint64) uint64 { return a + b }

// Sub64 computes a-b mod 2^64.
func Sub64(a, b uint64) uint64 { return a - b }

// Mul64 computes a*b mod 2^64.
func Mul64(a, b uint64) uint64 { return a * b }

// Neg64 computes (2^64 - x) mod 2^64, i.e. two's-complement negation.
func Neg64(x uint64) uint64 { return -x }

// SignExtend32 reinterprets the low 32 bits of x as a two's-complement
// signed quantity sign-extended into an int64. beta is computed unsigned
// (spec.md §4.3) but the query symmetries (spec.md §4.4) can wrap it
// through a subtraction from 2^64; this recovers the small signed delta
// that wrap was really encoding, so the streaming pruner's epsilon
// arithmetic (spec.md §9) sees the intended negative value instead of a
// huge unsigned one.
func SignExtend32(x uint64) int64 {
	return int64(int32(uint32(x)))
}
