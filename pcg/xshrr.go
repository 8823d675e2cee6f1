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

import "math/bits"

// XSHRR applies PCG's output permutation to a 64-bit state: xor-shift the
// top bits down, then rotate right by an amount taken from the state's own
// top 5 bits. All arithmetic is plain uint64/uint32, which wrap silently on
// overflow in Go exactly as the two's-complement semantics this algorithm
// depends on require.
func XSHRR(state uint64) uint32 {
	xorshifted := uint32(((state >> 18) ^ state) >> 27)
	rotation := uint32(state >> 59)
	return bits.RotateLeft32(xorshifted, -int(rotation))
}

// InvertXSHRR reconstructs the 37 high bits of a state (s*, i.e. the state
// with its low EpsilonBits cleared) given a guessed rotation amount and an
// observed output. It is a partial inverse: for the rotation that actually
// produced the output it recovers s* exactly; for any other guess it
// produces a state whose own XSH-RR output will, with overwhelming
// probability, disagree with the observed output, which is what lets the
// bootstrap and streaming verifiers discard wrong guesses.
//
// The low EpsilonBits bits of the result are always zero: they are the part
// the output function's 27-bit information loss cannot determine.
func InvertXSHRR(rotation uint32, output uint32) uint64 {
	state := uint64(rotation) << 59

	recovered := uint64(bits.RotateLeft32(output, int(rotation)))

	state |= (recovered >> 19) << 46
	state |= (((recovered >> 1) ^ (state >> 46)) & 0x3ffff) << 28
	state |= ((recovered ^ (state >> 45)) & 1) << 27

	return state
}

// Step advances a PCG state by one generator step: s <- s*A + c.
func Step(state, increment uint64) uint64 {
	return state*A + increment
}

// Retreat reverses one generator step given the state *after* that step:
// s <- AInv * (s - c).
func Retreat(state, increment uint64) uint64 {
	return AInv * (state - increment)
}

// StarOf returns the 37 high bits of a state, right-justified (s >> 27).
func StarOf(state uint64) uint64 {
	return state >> EpsilonBits
}

// EpsilonOf returns the 27 low bits of a state.
func EpsilonOf(state uint64) uint64 {
	return state & EpsilonMask
}

// Compose rebuilds a full 64-bit state from its high and low parts.
func Compose(star, epsilon uint64) uint64 {
	return star<<EpsilonBits + epsilon
}
