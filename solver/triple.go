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

import "github.com/xtaci/pcgxsh/pcg"

// triple is the surviving state record (s_j*, s_k*, beta, [epsilon_min,
// epsilon_max)) from spec.md §3/§4.5/§4.6. epsilon_min/epsilon_max are kept
// as signed 32-bit quantities clamped to [0, 2^27] per spec.md §9's note on
// beta's signedness, even though beta itself is an unsigned 27-bit residue.
type triple struct {
	sjStar, skStar uint64
	beta           uint64
	epsilonMin     int32
	epsilonMax     int32
}

// width reports the number of surviving epsilon values, i.e. the candidate
// count before explicit materialization.
func (t triple) width() int64 {
	return int64(t.epsilonMax) - int64(t.epsilonMin)
}

// fullState is a concrete, fully-determined PCG-XSH-RR instance: one point
// in a triple's surviving interval, expanded to an actual (state,
// increment) pair.
type fullState struct {
	state     uint64
	increment uint64
}

// stateAt builds the witness implied by a triple at a specific epsilon_k
// value, following spec.md §4.7's witness construction: epsilon_j =
// epsilon_k - beta (mod 2^64), s_j = (s_j* << 27) + epsilon_j,
// s_k = (s_k* << 27) + epsilon_k, increment = (s_k - A*s_j) | 1. It returns
// the state one step after s_k together with that increment.
func (t triple) stateAt(epsilonK int64) fullState {
	epsilonJ := uint64(epsilonK) - t.beta
	sj := pcg.Compose(t.sjStar, epsilonJ)
	sk := pcg.Compose(t.skStar, uint64(epsilonK))

	increment := (sk - pcg.A*sj) | 1
	state := pcg.Step(sk, increment)

	return fullState{state: state, increment: increment}
}

// materialize expands every surviving epsilon value in [epsilonMin,
// epsilonMax) into a concrete fullState. SubmitNextOutput calls it once the
// interval has shrunk to at most the streaming threshold (spec.md §4.6);
// RemainingCandidates calls it at whatever width the interval has.
func (t triple) materialize() []fullState {
	states := make([]fullState, 0, t.width())
	for e := int64(t.epsilonMin); e < int64(t.epsilonMax); e++ {
		states = append(states, t.stateAt(e))
	}
	return states
}
