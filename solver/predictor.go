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

// Package solver implements the online half of the attack: bootstrapping a
// partial state from four outputs, streaming pruning of the surviving
// candidate set as further outputs arrive, output prediction, and rewind to
// full (state, increment) recovery.
package solver

import (
	"math/rand"

	"github.com/xtaci/pcgxsh/pcg"
	"github.com/xtaci/pcgxsh/table"
)

// Threshold is the candidate-count ceiling below which the predictor
// abandons interval arithmetic and switches to explicit enumeration
// (spec.md §4.6).
const Threshold = 1000

// rotations is the number of rotation guesses XSH-RR's 5-bit selector
// admits.
const rotations = 32

// Predictor consumes a stream of PCG-XSH-RR outputs and narrows the set of
// (state, increment) pairs consistent with them, per spec.md §4.5/§4.6. It
// owns the LookupTable it was constructed with and releases it once
// candidate enumeration begins (spec.md §5).
type Predictor struct {
	tbl        *table.LookupTable
	lastOutput uint32
	cur        triple
	candidates []fullState // nil until the interval has shrunk to <= Threshold
	outputs    int         // total outputs consumed so far, including bootstrap
}

// NewPredictor bootstraps a predictor from the first four outputs of an
// unknown generator, per spec.md §4.5. It enumerates all 32^3 rotation
// triples, and for each one forms the 37-bit key N and queries tbl; the
// first candidate that survives verification against the fourth output (via
// escalateVerify) becomes the starting triple. Returns ErrNotPCG if no
// rotation triple verifies.
func NewPredictor(tbl *table.LookupTable, outputs [4]uint32) (*Predictor, error) {
	for r0 := uint32(0); r0 < rotations; r0++ {
		s0Star := pcg.StarOf(pcg.InvertXSHRR(r0, outputs[0]))
		for r1 := uint32(0); r1 < rotations; r1++ {
			s1Star := pcg.StarOf(pcg.InvertXSHRR(r1, outputs[1]))
			for r2 := uint32(0); r2 < rotations; r2++ {
				s2Star := pcg.StarOf(pcg.InvertXSHRR(r2, outputs[2]))

				n := (pcg.A*pcg.Sub64(s1Star, s0Star) + pcg.Sub64(s1Star, s2Star)) & pcg.KeyMask

				beta, ok := tbl.Query(n)
				if !ok {
					continue
				}

				epsilonMin := clampMin(beta)
				epsilonMax := clampMax(beta)

				t := triple{
					sjStar:     s1Star,
					skStar:     s2Star,
					beta:       beta,
					epsilonMin: epsilonMin,
					epsilonMax: epsilonMax,
				}

				if escalateVerify(t, outputs[3]) {
					return &Predictor{
						tbl:        tbl,
						lastOutput: outputs[3],
						cur:        t,
						outputs:    4,
					}, nil
				}
			}
		}
	}

	return nil, ErrNotPCG
}

// SubmitNextOutput advances the predictor by one observed output, per
// spec.md §4.6. While the candidate interval is still wide it re-derives a
// rotation for the pending output, re-queries the table, and intersects the
// epsilon interval; once the interval has shrunk to at most Threshold
// candidates it switches (and stays switched) to explicit state-by-state
// enumeration. Returns ErrNotPCG if the observed output is inconsistent
// with every surviving candidate.
func (p *Predictor) SubmitNextOutput(output uint32) error {
	p.outputs++

	if p.candidates == nil {
		if err := p.pruneInterval(output); err != nil {
			return err
		}
		if p.cur.width() <= Threshold {
			p.candidates = p.cur.materialize()
			p.tbl.Release()
			p.tbl = nil
		}
		return nil
	}

	return p.advanceCandidates(output)
}

// pruneInterval performs one round of interval narrowing: it re-derives
// s_k* from the pending (not-yet-incorporated) output under each of the 32
// rotation guesses, forms the relabeled key N', and accepts the first
// rotation whose query result yields a non-empty, output-consistent
// interval.
func (p *Predictor) pruneInterval(output uint32) error {
	siStar := p.cur.sjStar
	sjStar := p.cur.skStar

	for rot := uint32(0); rot < rotations; rot++ {
		skStar := pcg.StarOf(pcg.InvertXSHRR(rot, p.lastOutput))

		n := (pcg.A*pcg.Sub64(sjStar, siStar) + pcg.Sub64(sjStar, skStar)) & pcg.KeyMask

		beta, ok := p.tbl.Query(n)
		if !ok {
			continue
		}

		delta := pcg.SignExtend32(beta)
		epsilonMin := clampLow(int64(p.cur.epsilonMin) + delta)
		epsilonMax := clampHigh(int64(p.cur.epsilonMax) + delta)

		next := triple{
			sjStar:     sjStar,
			skStar:     skStar,
			beta:       beta,
			epsilonMin: epsilonMin,
			epsilonMax: epsilonMax,
		}

		if next.width() > 0 && verifyEndpoints(next, output) {
			p.cur = next
			p.lastOutput = output
			return nil
		}
	}

	return ErrNotPCG
}

// advanceCandidates implements the threshold-triggered exhaustive phase: it
// steps every surviving full state forward once and keeps only the ones
// whose XSH-RR output matches the observed output.
func (p *Predictor) advanceCandidates(output uint32) error {
	for i := range p.candidates {
		p.candidates[i].state = pcg.Step(p.candidates[i].state, p.candidates[i].increment)
	}

	kept := p.candidates[:0]
	for _, c := range p.candidates {
		if pcg.XSHRR(c.state) == output {
			kept = append(kept, c)
		}
	}
	p.candidates = kept

	if len(p.candidates) == 0 {
		return ErrNotPCG
	}
	return nil
}

// RemainingCandidateCount reports how many (state, increment) pairs remain
// consistent with the outputs seen so far.
func (p *Predictor) RemainingCandidateCount() int64 {
	if p.candidates != nil {
		return int64(len(p.candidates))
	}
	return p.cur.width()
}

// RemainingCandidates materializes every surviving candidate. Valid at any
// point, but only cheap once the interval has already shrunk — calling it
// early explicitly enumerates up to 2^27 states.
func (p *Predictor) RemainingCandidates() []fullState {
	if p.candidates != nil {
		out := make([]fullState, len(p.candidates))
		copy(out, p.candidates)
		return out
	}
	return p.cur.materialize()
}

// Recovered returns the unique surviving (state, increment) pair rewound to
// the generator's state at output #0, and true, once exactly one candidate
// remains. It applies the inverse PCG step exactly outputs-1 times (spec.md
// §9: the final candidate's state is the one that produced the most recent
// output, which is outputs-1 steps after the state that produced output #0).
func (p *Predictor) Recovered() (state, increment uint64, ok bool) {
	if len(p.candidates) != 1 {
		return 0, 0, false
	}

	s := p.candidates[0].state
	inc := p.candidates[0].increment
	for i := 0; i < p.outputs-1; i++ {
		s = pcg.Retreat(s, inc)
	}
	return s, inc, true
}

// PredictFutureOutput returns the one or two outputs that could follow,
// per spec.md §4.7. While the interval phase is active it reconstructs the
// witnesses at both ends of the surviving interval and advances each two
// PCG steps ahead of the current s_k; if both endpoints agree the
// prediction is exact. Once exhaustive enumeration has begun, it instead
// steps every surviving candidate one further and reports the smallest and
// largest resulting output, collapsing to a single value exactly when
// every candidate still agrees.
func (p *Predictor) PredictFutureOutput() [2]uint32 {
	if p.candidates != nil {
		lo, hi := candidateOutputBounds(p.candidates)
		return [2]uint32{lo, hi}
	}

	low := p.cur.stateAt(int64(p.cur.epsilonMin))
	high := p.cur.stateAt(int64(p.cur.epsilonMax) - 1)

	return [2]uint32{
		pcg.XSHRR(pcg.Step(low.state, low.increment)),
		pcg.XSHRR(pcg.Step(high.state, high.increment)),
	}
}

// candidateOutputBounds steps a copy of every surviving candidate one
// further step and returns the min/max resulting output, without mutating
// the candidates themselves (prediction must not consume a step that
// SubmitNextOutput hasn't actually observed yet).
func candidateOutputBounds(candidates []fullState) (lo, hi uint32) {
	lo, hi = ^uint32(0), 0
	for _, c := range candidates {
		out := pcg.XSHRR(pcg.Step(c.state, c.increment))
		if out < lo {
			lo = out
		}
		if out > hi {
			hi = out
		}
	}
	return lo, hi
}

// verifyEndpoints is the single-point-sample verifier test_state from
// spec.md §4.5: it reconstructs the witness states at both ends of the
// candidate interval and accepts if either one's predicted output matches.
func verifyEndpoints(t triple, output uint32) bool {
	low := t.stateAt(int64(t.epsilonMin))
	if pcg.XSHRR(low.state) == output {
		return true
	}
	high := t.stateAt(int64(t.epsilonMax) - 1)
	return pcg.XSHRR(high.state) == output
}

// escalateVerify is the bootstrap verifier's escalation ladder (spec.md
// §4.5/§9): the endpoints are checked first (cheap and usually sufficient),
// then 16 random interior points, then 256, and finally every point in the
// interval. The exhaustive tier guarantees zero false negatives; the
// earlier tiers are a performance heuristic that the vast majority of
// legitimate candidates satisfy immediately.
func escalateVerify(t triple, output uint32) bool {
	if verifyEndpoints(t, output) {
		return true
	}

	width := t.width()
	if width <= 2 {
		return false
	}

	for _, sample := range []int64{16, 256} {
		if sample > width-2 {
			continue
		}
		for i := int64(0); i < sample; i++ {
			e := int64(t.epsilonMin) + 1 + rand.Int63n(width-2)
			if pcg.XSHRR(t.stateAt(e).state) == output {
				return true
			}
		}
	}

	for e := int64(t.epsilonMin) + 1; e < int64(t.epsilonMax)-1; e++ {
		if pcg.XSHRR(t.stateAt(e).state) == output {
			return true
		}
	}

	return false
}

// clampMin computes epsilon_min = max(beta, 0) from a beta that is really a
// signed 32-bit quantity smuggled through an unsigned 64-bit wire (spec.md
// §9: beta is stored unsigned 27-bit, but the pruner treats the
// accumulated interval as signed 32-bit, clamped to [0, 2^27]).
func clampMin(beta uint64) int32 {
	b := pcg.SignExtend32(beta)
	if b < 0 {
		return 0
	}
	return int32(b)
}

// clampMax computes epsilon_max = min(beta + 2^27, 2^27).
func clampMax(beta uint64) int32 {
	b := pcg.SignExtend32(beta) + pcg.EpsilonSpan
	if b > pcg.EpsilonSpan {
		return pcg.EpsilonSpan
	}
	return int32(b)
}

// clampLow applies epsilon_min's one-sided clamp: max(v, 0).
func clampLow(v int64) int32 {
	if v < 0 {
		return 0
	}
	return int32(v)
}

// clampHigh applies epsilon_max's one-sided clamp: min(v, 2^27).
func clampHigh(v int64) int32 {
	if v > pcg.EpsilonSpan {
		return pcg.EpsilonSpan
	}
	return int32(v)
}
