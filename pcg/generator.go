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

// Generator is a plain PCG-XSH-RR instance: a 64-bit state and an odd
// 64-bit increment. It is not part of the attack itself, but every test in
// this module needs a known-good oracle to generate output sequences
// against, the same role notJoon/pcg's PCG32 plays for the upstream
// algorithm.
type Generator struct {
	State     uint64
	Increment uint64
}

// New constructs a generator directly from state and increment, forcing the
// increment odd as the PCG-XSH-RR contract requires (c|1).
func New(state, increment uint64) *Generator {
	return &Generator{State: state, Increment: increment | 1}
}

// Next advances the generator by one step and returns the XSH-RR output of
// the *old* state, matching the PCG convention that output(n) is derived
// from the state that output(n) is "at", before the step that produces
// state(n+1).
func (g *Generator) Next() uint32 {
	out := XSHRR(g.State)
	g.State = Step(g.State, g.Increment)
	return out
}

// NextN returns the next n outputs in order.
func (g *Generator) NextN(n int) []uint32 {
	outputs := make([]uint32, n)
	for i := range outputs {
		outputs[i] = g.Next()
	}
	return outputs
}
