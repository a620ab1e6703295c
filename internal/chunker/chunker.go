package chunker

import "wastebot/internal/domain"

// Chunker splits documents into fixed-size rune windows with a fixed
// overlap so context survives chunk boundaries.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. Size and overlap are measured in runes; an
// overlap at or above size is clamped so the window always advances.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split cuts a document into chunks. Documents shorter than the target
// size produce exactly one chunk equal to the document; consecutive
// chunks of longer documents overlap by exactly the configured amount.
func (c *Chunker) Split(doc domain.Document) []domain.Chunk {
	runes := []rune(doc.Content)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.size {
		return []domain.Chunk{{Source: doc.Source, Ordinal: 0, Text: doc.Content}}
	}

	step := c.size - c.overlap
	var chunks []domain.Chunk
	for start, ord := 0, 0; start < len(runes); start, ord = start+step, ord+1 {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Source:  doc.Source,
			Ordinal: ord,
			Text:    string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// Size returns the chunk target size in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }
