package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastebot/internal/domain"
)

func TestSplitShortDocument(t *testing.T) {
	c := New(500, 100)
	doc := domain.Document{Source: "short.txt", Content: "Bins go out Monday morning."}

	chunks := c.Split(doc)

	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Content, chunks[0].Text)
	assert.Equal(t, "short.txt", chunks[0].Source)
	assert.Equal(t, 0, chunks[0].Ordinal)
}

func TestSplitEmptyDocument(t *testing.T) {
	c := New(500, 100)
	assert.Nil(t, c.Split(domain.Document{Source: "empty.txt"}))
}

func TestSplitOverlap(t *testing.T) {
	c := New(10, 4)
	doc := domain.Document{Source: "a.txt", Content: "abcdefghijklmnopqrstuvwxyz"}

	chunks := c.Split(doc)
	require.True(t, len(chunks) > 1)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)
		if len(cur) >= 4 {
			assert.Equal(t, string(prev[len(prev)-4:]), string(cur[:4]),
				"chunk %d should start with the last 4 runes of chunk %d", i, i-1)
		}
		assert.Equal(t, i, chunks[i].Ordinal)
	}
}

func TestSplitCoversWholeDocument(t *testing.T) {
	c := New(10, 4)
	content := strings.Repeat("waste collection schedule ", 5)
	chunks := c.Split(domain.Document{Source: "kb.txt", Content: content})
	require.NotEmpty(t, chunks)

	// Strip the overlap from every chunk after the first and the
	// original text comes back.
	var b strings.Builder
	b.WriteString(chunks[0].Text)
	for _, ch := range chunks[1:] {
		runes := []rune(ch.Text)
		if len(runes) > 4 {
			b.WriteString(string(runes[4:]))
		}
	}
	assert.Equal(t, content, b.String())
}

func TestSplitMultibyte(t *testing.T) {
	c := New(5, 2)
	content := "日本語のごみ収集スケジュール"
	chunks := c.Split(domain.Document{Source: "jp.txt", Content: content})
	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Text)), 5)
	}
}

func TestNewClampsOverlap(t *testing.T) {
	c := New(10, 10)
	assert.Equal(t, 9, c.Overlap())

	c = New(0, -1)
	assert.Equal(t, 500, c.Size())
	assert.Equal(t, 0, c.Overlap())
}
