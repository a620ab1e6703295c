package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFromModel(t *testing.T) {
	llm := &stubCompleter{replies: []string{
		"How can I compost at home?\nWhich bins take glass bottles?\nCan I reuse plastic containers?",
	}}
	searcher := &stubSearcher{results: chunkResults("Composting guidance for households.")}
	g := NewSuggestionGenerator(llm, searcher, 3, nil)

	got := g.Generate(context.Background(), "how do I recycle", "Take items to the depot.")

	require.Len(t, got, 3)
	assert.Equal(t, "How can I compost at home?", got[0])
	assert.Equal(t, "Which bins take glass bottles?", got[1])
	assert.Equal(t, "Can I reuse plastic containers?", got[2])
	assert.Len(t, searcher.queries, 3, "one search per 3R theme")
}

func TestGenerateFiltersAndPads(t *testing.T) {
	llm := &stubCompleter{replies: []string{
		// An aside, an off-vocabulary line, an overlong line, one keeper.
		"Here are some questions:\nWhat is the capital of France?\nCould you possibly explain in great detail how the municipal recycling sorting facility actually works?\nHow do I compost food scraps?",
	}}
	searcher := &stubSearcher{results: chunkResults("Composting guidance.")}
	g := NewSuggestionGenerator(llm, searcher, 3, nil)

	got := g.Generate(context.Background(), "how do I recycle", "Take items to the depot.")

	require.Len(t, got, 3)
	assert.Equal(t, "How do I compost food scraps?", got[0])
	// Padded from the fixed defaults, in order.
	assert.Equal(t, defaultSuggestions[0], got[1])
	assert.Equal(t, defaultSuggestions[1], got[2])
}

func TestGenerateAppendsQuestionMark(t *testing.T) {
	llm := &stubCompleter{replies: []string{"1. How can I reduce plastic use"}}
	searcher := &stubSearcher{results: chunkResults("Plastic reduction tips.")}
	g := NewSuggestionGenerator(llm, searcher, 3, nil)

	got := g.Generate(context.Background(), "how do I recycle", "Take items to the depot.")
	require.NotEmpty(t, got)
	assert.Equal(t, "How can I reduce plastic use?", got[0])
}

func TestGenerateGatewayDown(t *testing.T) {
	llm := &stubCompleter{err: errStub}
	searcher := &stubSearcher{results: chunkResults("Anything.")}
	g := NewSuggestionGenerator(llm, searcher, 3, nil)

	assert.Equal(t, defaultSuggestions[:3], g.Generate(context.Background(), "how do I recycle", "Take items to the depot."))
}

func TestGenerateSearchFailure(t *testing.T) {
	llm := &stubCompleter{}
	searcher := &stubSearcher{err: errStub}
	g := NewSuggestionGenerator(llm, searcher, 3, nil)

	got := g.Generate(context.Background(), "how do I recycle", "Take items to the depot.")

	assert.Equal(t, defaultSuggestions[:3], got)
	assert.Zero(t, llm.calls)
}

func TestGenerateCapsAtMax(t *testing.T) {
	llm := &stubCompleter{replies: []string{
		"How can I reduce waste?\nCan I reuse jars?\nWhere do I recycle glass?\nHow do I compost leaves?",
	}}
	searcher := &stubSearcher{results: chunkResults("Guidance.")}
	g := NewSuggestionGenerator(llm, searcher, 2, nil)

	got := g.Generate(context.Background(), "how do I recycle", "Take items to the depot.")
	assert.Len(t, got, 2)
}
