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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtaci/pcgxsh/pcg"
)

// buildTriple constructs the triple a correct bootstrap would have produced
// for a known (sjStar, skStar, epsilonJ, epsilonK): beta is exactly
// epsilonK - epsilonJ, so stateAt(epsilonK) must reconstruct the same
// witness that pcg.Compose would have given directly.
func buildTriple(sjStar, skStar uint64, epsilonJ, epsilonK int64) triple {
	beta := uint64(epsilonK) - uint64(epsilonJ)
	return triple{
		sjStar:     sjStar,
		skStar:     skStar,
		beta:       beta,
		epsilonMin: int32(epsilonK),
		epsilonMax: int32(epsilonK) + 1,
	}
}

func TestStateAtReconstructsWitness(t *testing.T) {
	sjStar := uint64(0x1_2345_6789)
	skStar := uint64(0x9_8765_4321)
	epsilonJ := int64(1000)
	epsilonK := int64(2000)

	tr := buildTriple(sjStar, skStar, epsilonJ, epsilonK)
	fs := tr.stateAt(epsilonK)

	sj := pcg.Compose(sjStar, uint64(epsilonJ))
	sk := pcg.Compose(skStar, uint64(epsilonK))
	wantIncrement := (sk - pcg.A*sj) | 1
	wantState := pcg.Step(sk, wantIncrement)

	require.Equal(t, wantIncrement, fs.increment)
	require.Equal(t, wantState, fs.state)
}

func TestWidthMatchesEpsilonRange(t *testing.T) {
	tr := triple{epsilonMin: 10, epsilonMax: 25}
	require.Equal(t, int64(15), tr.width())
}

func TestMaterializeProducesWidthManyStates(t *testing.T) {
	tr := buildTriple(1, 2, 0, 0)
	tr.epsilonMin = 100
	tr.epsilonMax = 110

	states := tr.materialize()
	require.Len(t, states, 10)
}
