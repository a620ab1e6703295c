package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanResponseStripsQuotesAndPrefix(t *testing.T) {
	got := CleanResponse(`"Based on the information, bins are collected Monday"`)
	assert.Equal(t, "Bins are collected Monday", got)
}

func TestCleanResponseMarkup(t *testing.T) {
	got := CleanResponse("**Organic waste** is collected on _Monday_ mornings.")
	assert.Equal(t, "Organic waste is collected on Monday mornings.", got)
}

func TestCleanResponseListMarkers(t *testing.T) {
	got := CleanResponse("1. rinse bottles\n2. remove caps\n- flatten boxes")
	assert.Equal(t, "Rinse bottles remove caps flatten boxes", got)
}

func TestCleanResponseWhitespace(t *testing.T) {
	got := CleanResponse("  too   many\n\n   spaces here.  ")
	assert.Equal(t, "Too many spaces here.", got)
}

func TestCleanResponseEmpty(t *testing.T) {
	assert.Equal(t, "", CleanResponse(""))
	assert.Equal(t, "", CleanResponse("   \n  "))
	assert.Equal(t, "", CleanResponse(`""`))
}

func TestCleanResponseCapitalizes(t *testing.T) {
	assert.Equal(t, "Recycling helps.", CleanResponse("recycling helps."))
}

func TestEnsureCompleteAlreadyComplete(t *testing.T) {
	stub := &stubCompleter{}
	p := NewPipeline(stub, &stubSearcher{}, nil, nil)

	got := p.ensureComplete(context.Background(), "All done here.")
	assert.Equal(t, "All done here.", got)
	assert.Zero(t, stub.calls)
}

func TestEnsureCompleteJoinsPunctuationFlush(t *testing.T) {
	stub := &stubCompleter{replies: []string{"."}}
	p := NewPipeline(stub, &stubSearcher{}, nil, nil)

	cleaned := CleanResponse(`"Based on the information, bins are collected Monday"`)
	got := p.ensureComplete(context.Background(), cleaned)
	assert.Equal(t, "Bins are collected Monday.", got)
}

func TestEnsureCompleteJoinsWordsWithSpace(t *testing.T) {
	stub := &stubCompleter{replies: []string{"every week."}}
	p := NewPipeline(stub, &stubSearcher{}, nil, nil)

	got := p.ensureComplete(context.Background(), "Bins are collected")
	assert.Equal(t, "Bins are collected every week.", got)
}

func TestEnsureCompleteGatewayFailure(t *testing.T) {
	stub := &stubCompleter{err: errStub}
	p := NewPipeline(stub, &stubSearcher{}, nil, nil)

	got := p.ensureComplete(context.Background(), "Bins are collected")
	assert.Equal(t, "Bins are collected", got)
}

func TestEnsureCompleteEmptyContinuation(t *testing.T) {
	stub := &stubCompleter{replies: []string{""}}
	p := NewPipeline(stub, &stubSearcher{}, nil, nil)

	got := p.ensureComplete(context.Background(), "Bins are collected")
	assert.Equal(t, "Bins are collected.", got)
}
