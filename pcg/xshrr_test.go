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

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestXSHRRKnownVector(t *testing.T) {
	g := New(DefaultState, DefaultIncrement)
	out := g.Next()

	require.Equal(t, XSHRR(DefaultState), out,
		"Next() must return the output for the state *before* stepping")
	require.Equal(t, Step(DefaultState, DefaultIncrement|1), g.State)
}

func TestInvertXSHRRRecoversStar(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state := rapid.Uint64().Draw(t, "state")
		rotation := uint32(state >> 59)

		output := XSHRR(state)
		recovered := InvertXSHRR(rotation, output)

		require.Equal(t, StarOf(state), StarOf(recovered),
			"InvertXSHRR with the true rotation must recover s* exactly")
		require.Equal(t, uint64(0), EpsilonOf(recovered),
			"InvertXSHRR must never guess at epsilon")
	})
}

func TestStepRetreatRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state := rapid.Uint64().Draw(t, "state")
		increment := rapid.Uint64().Draw(t, "increment") | 1

		next := Step(state, increment)
		require.Equal(t, state, Retreat(next, increment))
	})
}

func TestComposeStarOfEpsilonOfRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state := rapid.Uint64().Draw(t, "state")
		require.Equal(t, state, Compose(StarOf(state), EpsilonOf(state)))
	})
}

func TestAInvIsMultiplicativeInverseOfA(t *testing.T) {
	require.Equal(t, uint64(1), A*AInv)
}
