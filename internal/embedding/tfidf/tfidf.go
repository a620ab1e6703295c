package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Embedder is a TF-IDF vectorizer. It builds a vocabulary over the corpus
// at index build time and produces L2-normalized vectors, so cosine
// similarity reduces to a dot product. Being fully local it keeps query
// embedding deterministic across rebuilds of an unchanged corpus.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
	tokenRe    *regexp.Regexp
	stopwords  map[string]struct{}
}

// State is the serializable form of a prepared embedder, persisted with
// the vector artifact so query-time embedding matches build time.
type State struct {
	Terms []string
	IDF   []float64
}

// New creates an unprepared TF-IDF embedder.
func New() *Embedder {
	return &Embedder{
		vocabulary: make(map[string]int),
		tokenRe:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:  stopwords(),
	}
}

// FromState reconstructs a prepared embedder from persisted state.
func FromState(st State) *Embedder {
	e := New()
	e.vocabulary = make(map[string]int, len(st.Terms))
	for i, term := range st.Terms {
		e.vocabulary[term] = i
	}
	e.idf = st.IDF
	e.dimension = len(st.Terms)
	e.prepared = true
	return e
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the corpus.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	// Stable vocabulary ordering keeps rebuilds reproducible.
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the dimensionality of produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the L2-normalized TF-IDF vector for the given text.
// Text sharing no vocabulary with the corpus yields a zero vector.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// State exports the prepared vocabulary for persistence.
func (e *Embedder) State() State {
	terms := make([]string, e.dimension)
	for term, i := range e.vocabulary {
		terms[i] = term
	}
	return State{Terms: terms, IDF: e.idf}
}

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokenRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := e.stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func stopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of",
		"in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been",
		"being", "it", "this", "that", "these", "those", "from", "up", "down", "over",
		"under", "again", "further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out", "off", "own",
		"same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
