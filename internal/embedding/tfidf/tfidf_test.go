package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"organic waste is collected on monday",
	"inorganic waste is collected on thursday",
	"recycle plastic paper and glass at the depot",
}

func TestPrepareAndEmbed(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare(corpus))
	require.Positive(t, e.Dimension())

	v, err := e.Embed("when is organic waste collected")
	require.NoError(t, err)
	assert.Len(t, v, e.Dimension())

	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestEmbedUnpreparedFails(t *testing.T) {
	_, err := New().Embed("anything")
	assert.Error(t, err)
}

func TestEmbedUnknownVocabularyIsZero(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare(corpus))

	v, err := e.Embed("quantum chromodynamics")
	require.NoError(t, err)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestDeterministicAcrossRebuilds(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, a.Prepare(corpus))
	require.NoError(t, b.Prepare(corpus))

	va, err := a.Embed("recycle plastic")
	require.NoError(t, err)
	vb, err := b.Embed("recycle plastic")
	require.NoError(t, err)
	assert.Equal(t, va, vb)
}

func TestStateRoundTrip(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare(corpus))

	restored := FromState(e.State())
	assert.Equal(t, e.Dimension(), restored.Dimension())

	orig, err := e.Embed("organic waste monday")
	require.NoError(t, err)
	back, err := restored.Embed("organic waste monday")
	require.NoError(t, err)
	assert.Equal(t, orig, back)
}

func TestSimilarTextScoresHigher(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare(corpus))

	q, err := e.Embed("organic waste collection day")
	require.NoError(t, err)
	organic, err := e.Embed(corpus[0])
	require.NoError(t, err)
	recycling, err := e.Embed(corpus[2])
	require.NoError(t, err)

	assert.Greater(t, dot(q, organic), dot(q, recycling))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func TestPrepareEmptyCorpusFails(t *testing.T) {
	assert.Error(t, New().Prepare(nil))
}

func TestIDFSmoothing(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare(corpus))
	st := e.State()
	// A term in every document still gets a positive weight.
	for i, term := range st.Terms {
		if term == "collected" {
			assert.Greater(t, st.IDF[i], 0.0)
		}
	}
	// Rarer terms weigh more than common ones.
	idf := func(term string) float64 {
		for i, tm := range st.Terms {
			if tm == term {
				return st.IDF[i]
			}
		}
		t.Fatalf("term %q not in vocabulary", term)
		return math.NaN()
	}
	assert.Greater(t, idf("plastic"), idf("waste"))
}
