package chat

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

var (
	markupRe     = regexp.MustCompile(`(\*{1,2}|_{1,2}|-{3,}|#{1,6}\s)`)
	listMarkerRe = regexp.MustCompile(`^(\d+\.\s*|•\s*|-\s*)`)
)

var boilerplatePrefixes = []string{
	"Answer: ",
	"Response: ",
	"Based on the information,",
	"According to the information,",
}

// CleanResponse normalizes raw model output into plain conversational
// prose: wrapping quotes, markdown markup, list markers and stock
// prefixes are stripped, whitespace is collapsed and the first letter
// capitalized.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
			break
		}
	}

	s = markupRe.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = listMarkerRe.ReplaceAllString(line, "")
		line = strings.Trim(line, `"'`)
		lines[i] = line
	}
	s = strings.Join(lines, " ")

	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func endsComplete(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// ensureComplete finishes a response that was cut off mid-sentence by
// asking the model to continue it once. Continuations opening with
// terminal punctuation are joined flush so "…Monday" + "." reads
// "…Monday.". On gateway failure the text is returned as-is.
func (p *Pipeline) ensureComplete(ctx context.Context, text string) string {
	if text == "" || endsComplete(text) {
		return text
	}

	prompt := "Complete this sentence naturally in a few words, continuing from where it stops:\n" + text
	continuation, err := p.llm.Complete(ctx, prompt, "\n")
	if err != nil {
		return text
	}
	continuation = strings.TrimSpace(continuation)
	if continuation == "" {
		return text + "."
	}

	var joined string
	if strings.IndexAny(continuation[:1], ".!?,") == 0 {
		joined = text + continuation
	} else {
		joined = text + " " + continuation
	}
	cleaned := CleanResponse(joined)
	if cleaned == "" {
		return text
	}
	if !endsComplete(cleaned) {
		cleaned += "."
	}
	return cleaned
}
