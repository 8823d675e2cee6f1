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

// Package pcg implements the arithmetic of the PCG-XSH-RR generator family:
// the wrapping 64-bit state transition, the XSH-RR output permutation, and
// its partial inverse. Everything here is pure and allocation-free so it can
// be called from the hot loop of bootstrap and streaming recovery alike.
package pcg

const (
	// A is the PCG multiplicative constant (Schrage/Knuth's well-known
	// 64-bit LCG multiplier reused by the XSH-RR generator family).
	A uint64 = 6364136223846793005

	// AInv is the multiplicative inverse of A modulo 2^64: A*AInv == 1
	// (mod 2^64). Used to rewind a recovered state back to output #0.
	AInv uint64 = 13877824140714322085

	// StarBits is the width of the high, "known up to rotation" part of a
	// 64-bit PCG state (s*); EpsilonBits is the width of the low, initially
	// unknown part (epsilon).
	StarBits    = 37
	EpsilonBits = 27

	// EpsilonSpan is 2^EpsilonBits, the number of possible epsilon values
	// and the size (in 64-bit words) of the lookup table.
	EpsilonSpan = 1 << EpsilonBits

	// KeyMask masks a value down to the 37-bit key space the table is
	// indexed by.
	KeyMask uint64 = (1 << StarBits) - 1

	// EpsilonMask masks a value down to the 27-bit epsilon space.
	EpsilonMask uint64 = EpsilonSpan - 1
)

// Default is the canonical PCG32 seed used throughout the reference
// implementation's test vectors (state=0x853c49e6748fea9b,
// inc=0xda3e39cb94b95bdb).
const (
	DefaultState     uint64 = 0x853c49e6748fea9b
	DefaultIncrement uint64 = 0xda3e39cb94b95bdb
)
