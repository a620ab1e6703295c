package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// defaultSuggestions cover the 3R themes when generation is unavailable
// or yields too few usable questions.
var defaultSuggestions = []string{
	"How can I reduce food waste at home?",
	"Which plastics can I recycle locally?",
	"Can I reuse glass jars for storage?",
	"Any tips for composting kitchen scraps?",
	"How do I cut daily plastic use?",
}

var suggestionThemes = []string{
	"reduce waste tips advice",
	"reuse items tips advice",
	"recycling tips advice",
}

var threeRVocabulary = []string{
	"reduce", "reuse", "recycle", "waste", "trash", "garbage", "compost",
	"environment", "sustainable", "eco", "green", "plastic", "paper",
	"glass", "metal", "organic",
}

var suggestionCleaner = strings.NewReplacer(
	"*", "", "_", "", "`", "", `"`, "", "'", "",
	"1.", "", "2.", "", "3.", "", "-", "",
)

// SuggestionGenerator produces short follow-up questions themed around
// reduce, reuse and recycle, grounded in the indexed knowledge base.
type SuggestionGenerator struct {
	llm      Completer
	searcher Searcher
	max      int
	logger   *zap.Logger
}

// NewSuggestionGenerator creates a generator emitting up to max
// suggestions per call.
func NewSuggestionGenerator(llm Completer, searcher Searcher, max int, logger *zap.Logger) *SuggestionGenerator {
	if max <= 0 {
		max = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionGenerator{llm: llm, searcher: searcher, max: max, logger: logger}
}

// Generate returns suggestion questions for the chat footer, themed to
// the exchange just answered. Any failure along the way degrades to the
// fixed defaults so the widget always has something to show.
func (g *SuggestionGenerator) Generate(ctx context.Context, userMessage, botResponse string) []string {
	var context3R []string
	for _, theme := range suggestionThemes {
		results, err := g.searcher.Search(theme, 3)
		if err != nil {
			g.logger.Warn("suggestion context search failed", zap.String("theme", theme), zap.Error(err))
			return g.defaults()
		}
		for _, r := range results {
			context3R = append(context3R, r.Chunk.Text)
		}
	}

	exchange := ""
	if userMessage != "" {
		exchange = fmt.Sprintf("\nThe resident just asked: %q\nThe assistant answered: %q\n", userMessage, botResponse)
	}
	prompt := fmt.Sprintf(`Using the waste management information below, write exactly %d short questions a resident might ask next.
Each question must be under 10 words, themed around reducing, reusing or recycling waste.
Write one question per line with no numbering.
%s
Information:
%s`, g.max, exchange, strings.Join(context3R, "\n"))

	reply, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		g.logger.Warn("suggestion generation failed", zap.Error(err))
		return g.defaults()
	}

	var out []string
	for _, line := range strings.Split(reply, "\n") {
		s := cleanSuggestion(line)
		if s == "" || !validSuggestion(s) {
			continue
		}
		out = append(out, s)
		if len(out) == g.max {
			break
		}
	}
	for _, d := range defaultSuggestions {
		if len(out) >= g.max {
			break
		}
		if !contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}

func (g *SuggestionGenerator) defaults() []string {
	n := g.max
	if n > len(defaultSuggestions) {
		n = len(defaultSuggestions)
	}
	out := make([]string, n)
	copy(out, defaultSuggestions[:n])
	return out
}

func cleanSuggestion(line string) string {
	s := strings.TrimSpace(suggestionCleaner.Replace(line))
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, "?") {
		s += "?"
	}
	return s
}

// validSuggestion keeps only short questions that actually touch the 3R
// vocabulary, dropping model asides like "Here are your questions:".
func validSuggestion(s string) bool {
	if !strings.Contains(s, "?") {
		return false
	}
	if len(strings.Fields(s)) > 12 {
		return false
	}
	lower := strings.ToLower(s)
	for _, w := range threeRVocabulary {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
