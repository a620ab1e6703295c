package domain

// Document represents a single knowledge base text file.
type Document struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Chunk is a bounded-length slice of a document, the unit of retrieval.
type Chunk struct {
	Source  string `json:"source"`
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
}

// SearchResult pairs a chunk with its similarity score, nearest first.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
