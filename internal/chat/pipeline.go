package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wastebot/internal/domain"
	"wastebot/internal/intent"
	"wastebot/internal/llm"
)

// Completer is the completion capability the pipeline needs from the
// model gateway.
type Completer interface {
	Complete(ctx context.Context, prompt string, stop ...string) (string, error)
}

// Searcher retrieves the k nearest knowledge base chunks for a query.
type Searcher interface {
	Search(query string, k int) ([]domain.SearchResult, error)
}

// Classifier resolves a message to an intent with a confidence.
type Classifier interface {
	Classify(ctx context.Context, message string) intent.Result
}

// Canned replies and fixed fallbacks.
const (
	greetingReply = "Hello! How can I help with waste management today?"
	thanksReply   = "Thank you! Any other waste management questions?"
	feedbackReply = "Thank you for your feedback! Any other waste management questions?"

	complaintFallback = "I'm sorry to hear about the issue. Your complaint has been noted and a member of the municipal team will follow up with you."

	offTopicReply = "I can only help with waste management topics like collection schedules, recycling and waste disposal. What would you like to know?"

	panicReply = "I encountered an error. Please try again with your waste management question."
)

// route is one step of the ordered decision list. run returns the reply
// and whether this route handled the message; an unhandled message
// falls through to the next route.
type route struct {
	name string
	run  func(ctx context.Context, msg, lower string, res intent.Result) (string, bool)
}

// Pipeline turns a user message into a reply by walking an ordered
// route list: fixed-format intents first, then retrieval-backed
// handlers, ending in the general retrieval-augmented answer.
type Pipeline struct {
	llm        Completer
	searcher   Searcher
	classifier Classifier
	logger     *zap.Logger
	routes     []route
}

// NewPipeline wires the chat pipeline.
func NewPipeline(completer Completer, searcher Searcher, classifier Classifier, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		llm:        completer,
		searcher:   searcher,
		classifier: classifier,
		logger:     logger,
	}
	p.routes = []route{
		{name: "contact", run: p.routeContact},
		{name: "greeting", run: p.routeGreeting},
		{name: "thanks", run: p.routeThanks},
		{name: "feedback", run: p.routeFeedback},
		{name: "complaint", run: p.routeComplaint},
		{name: "offtopic", run: p.routeOffTopic},
		{name: "schedule", run: p.routeSchedule},
	}
	return p
}

// Process answers a user message. Panics anywhere in the pipeline are
// recovered into a generic retryable reply so one bad message cannot
// take the handler down.
func (p *Pipeline) Process(ctx context.Context, message string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panic", zap.Any("panic", r), zap.String("message", message))
			reply = panicReply
		}
	}()

	msg := strings.TrimSpace(message)
	lower := strings.ToLower(msg)

	// One classification up front feeds every route decision below.
	res := intent.Result{Intent: domain.IntentUnknown}
	if p.classifier != nil {
		res = p.classifier.Classify(ctx, msg)
	}

	for _, rt := range p.routes {
		if text, handled := rt.run(ctx, msg, lower, res); handled {
			p.logger.Debug("route handled message",
				zap.String("route", rt.name),
				zap.String("intent", string(res.Intent)),
			)
			return text
		}
	}
	return p.answerFromKnowledge(ctx, msg, res)
}

// routeContact answers requests for municipal contact details from the
// knowledge base only, so the model cannot invent phone numbers. It
// falls through when retrieval finds nothing contact-shaped.
func (p *Pipeline) routeContact(ctx context.Context, msg, lower string, _ intent.Result) (string, bool) {
	if !intent.IsContactRequest(lower) {
		return "", false
	}
	results, err := p.searcher.Search(msg, 5)
	if err != nil || len(results) == 0 {
		return "", false
	}
	var relevant []string
	for _, r := range results {
		t := strings.ToLower(r.Chunk.Text)
		if strings.Contains(t, "contact") || strings.Contains(t, "phone") ||
			strings.Contains(t, "email") || strings.Contains(t, "address") {
			relevant = append(relevant, r.Chunk.Text)
		}
	}
	if len(relevant) == 0 {
		return "", false
	}

	prompt := fmt.Sprintf(`Answer using ONLY the contact information below. Do not invent details and do not format emails as links.

Contact information:
%s

Question: %s

Answer in 1-3 plain sentences:`, strings.Join(relevant, "\n"), msg)

	raw, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		return llm.FailureText(err), true
	}
	return p.finish(ctx, raw), true
}

func (p *Pipeline) routeGreeting(ctx context.Context, msg, lower string, _ intent.Result) (string, bool) {
	if intent.IsGreeting(lower) && len(strings.Fields(lower)) < 5 {
		return greetingReply, true
	}
	return "", false
}

func (p *Pipeline) routeThanks(ctx context.Context, msg, lower string, _ intent.Result) (string, bool) {
	if intent.IsThanks(lower) && len(strings.Fields(lower)) < 7 {
		return thanksReply, true
	}
	return "", false
}

// routeFeedback takes the canned thank-you only when the classifier and
// the vocabulary agree the message is feedback; either signal alone is
// too weak and lets the message reach the retrieval routes instead.
func (p *Pipeline) routeFeedback(ctx context.Context, msg, lower string, res intent.Result) (string, bool) {
	if res.Intent == domain.IntentFeedback && intent.IsFeedback(lower) &&
		!intent.IsComplaint(lower) && !intent.IsScheduleQuery(lower) {
		return feedbackReply, true
	}
	return "", false
}

// routeComplaint handles service complaints, entered when either the
// classifier or the complaint vocabulary flags the message. Missed
// collection reports get a direct apology without touching the
// knowledge base; other complaints get a retrieval-backed resolution,
// degrading to a fixed human-follow-up reply.
func (p *Pipeline) routeComplaint(ctx context.Context, msg, lower string, res intent.Result) (string, bool) {
	if res.Intent != domain.IntentComplaints && !intent.IsComplaint(lower) {
		return "", false
	}

	if intent.MentionsMissedCollection(lower) {
		prompt := fmt.Sprintf(`A resident reports a missed waste collection: %q
Write an apology of 20 to 60 words. Acknowledge the missed pickup, say it has been reported, and that collection will be arranged. Do not cite any documents.`, msg)
		raw, err := p.llm.Complete(ctx, prompt)
		if err != nil {
			return llm.FailureText(err), true
		}
		return p.finish(ctx, raw), true
	}

	results, err := p.searcher.Search(msg, 5)
	if err == nil && len(results) > 0 {
		var relevant []string
		for _, r := range results {
			t := strings.ToLower(r.Chunk.Text)
			if strings.Contains(t, "solution") || strings.Contains(t, "resolve") ||
				strings.Contains(t, "fix") || strings.Contains(t, "address") {
				relevant = append(relevant, r.Chunk.Text)
			}
		}
		if len(relevant) > 0 {
			prompt := fmt.Sprintf(`A resident has a waste service complaint: %q

Relevant guidance:
%s

Write an empathetic reply of 20 to 60 words that acknowledges the problem and offers the resolution from the guidance.`, msg, strings.Join(relevant, "\n"))
			raw, cerr := p.llm.Complete(ctx, prompt)
			if cerr != nil {
				return llm.FailureText(cerr), true
			}
			return p.finish(ctx, raw), true
		}
	}
	return complaintFallback, true
}

// routeOffTopic redirects clearly unrelated questions. Quick lexical
// checks run first; borderline messages go to a YES/NO model check that
// fails open, letting the retrieval route answer when in doubt.
func (p *Pipeline) routeOffTopic(ctx context.Context, msg, lower string, _ intent.Result) (string, bool) {
	wasteWords := []string{
		"waste", "trash", "garbage", "recycle", "recycling", "collection",
		"pickup", "compost", "bin", "litter", "disposal", "landfill",
		"schedule", "organic", "plastic",
	}
	for _, w := range wasteWords {
		if strings.Contains(lower, w) {
			return "", false
		}
	}
	if len(strings.Fields(lower)) < 3 {
		return "", false
	}

	prompt := fmt.Sprintf(`Is this message about waste management, recycling, garbage collection or a related municipal service? Answer YES or NO only.
Message: %q`, msg)
	reply, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		return "", false
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(reply)), "NO") {
		return offTopicReply, true
	}
	return "", false
}

// routeSchedule answers collection timing questions, entered when the
// classifier or the schedule vocabulary flags the message. It answers
// from chunks where schedule and collection wording co-occur, falling
// through to general retrieval when none match.
func (p *Pipeline) routeSchedule(ctx context.Context, msg, lower string, res intent.Result) (string, bool) {
	if res.Intent != domain.IntentSchedules && !intent.IsScheduleQuery(lower) {
		return "", false
	}

	wasteType := ""
	switch {
	case strings.Contains(lower, "organic") && !strings.Contains(lower, "inorganic"):
		wasteType = "organic"
	case strings.Contains(lower, "inorganic"):
		wasteType = "inorganic"
	case strings.Contains(lower, "e-waste") || strings.Contains(lower, "electronic"):
		wasteType = "e-waste"
	}

	query := msg
	if wasteType != "" {
		query = wasteType + " waste collection schedule"
	}
	results, err := p.searcher.Search(query, 5)
	if err != nil || len(results) == 0 {
		return "", false
	}
	var relevant []string
	for _, r := range results {
		t := strings.ToLower(r.Chunk.Text)
		if strings.Contains(t, "collection") && strings.Contains(t, "schedule") {
			relevant = append(relevant, r.Chunk.Text)
		}
	}
	if len(relevant) == 0 {
		return "", false
	}

	prompt := fmt.Sprintf(`Answer the schedule question using only the information below.

Schedule information:
%s

Question: %s

Answer in 1-3 sentences with the specific days or times:`, strings.Join(relevant, "\n"), msg)
	raw, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		return llm.FailureText(err), true
	}
	return p.finish(ctx, raw), true
}

// answerFromKnowledge is the terminal route: a retrieval-augmented
// answer over the top chunks, with one refinement pass when the model
// comes back too terse to be useful. The answer prompt is themed to
// the intent resolved at the top of Process.
func (p *Pipeline) answerFromKnowledge(ctx context.Context, msg string, res intent.Result) string {
	var contextText string
	results, err := p.searcher.Search(msg, 3)
	if err == nil && len(results) > 0 {
		parts := make([]string, len(results))
		for i, r := range results {
			parts[i] = r.Chunk.Text
		}
		contextText = strings.Join(parts, "\n")
	}

	theme := "Answer the resident's question"
	switch res.Intent {
	case domain.IntentThreeRTips:
		theme = "Give practical reduce, reuse or recycle tips for the resident's question"
	case domain.IntentAwareness:
		theme = "Explain the environmental impact relevant to the resident's question"
	}

	prompt := fmt.Sprintf(`You are a municipal waste management assistant. %s in 20 to 70 words using the information below. If the information does not cover the question, say what you do know and suggest contacting the municipal office.

Information:
%s

Question: %s

Answer:`, theme, contextText, msg)

	raw, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		return llm.FailureText(err)
	}
	answer := p.finish(ctx, raw)

	if len(strings.Fields(answer)) < 10 {
		refine := fmt.Sprintf(`Expand this answer to 20 to 70 words, staying factual to the information given.

Information:
%s

Question: %s
Short answer: %s

Expanded answer:`, contextText, msg, answer)
		if better, rerr := p.llm.Complete(ctx, refine); rerr == nil {
			if cleaned := p.finish(ctx, better); len(strings.Fields(cleaned)) >= len(strings.Fields(answer)) {
				answer = cleaned
			}
		}
	}
	return answer
}

// finish applies the standard post-processing to raw model output.
func (p *Pipeline) finish(ctx context.Context, raw string) string {
	return p.ensureComplete(ctx, CleanResponse(raw))
}
