package intent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"wastebot/internal/domain"
)

// Completer is the completion capability the classifier needs from the
// model gateway.
type Completer interface {
	Complete(ctx context.Context, prompt string, stop ...string) (string, error)
}

// Result is a classified intent with the classifier's confidence.
type Result struct {
	Intent     domain.Intent
	Confidence float64
}

// Classifier resolves the user's intent in two tiers: cheap keyword
// heuristics first, then a constrained model call for everything the
// heuristics cannot place.
type Classifier struct {
	llm    Completer
	logger *zap.Logger
}

// NewClassifier creates an intent classifier.
func NewClassifier(llm Completer, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{llm: llm, logger: logger}
}

var (
	intentRe     = regexp.MustCompile(`"intent"\s*:\s*"([^"]+)"`)
	confidenceRe = regexp.MustCompile(`"confidence"\s*:\s*([0-9]*\.?[0-9]+)`)
)

var knownIntents = map[string]domain.Intent{
	string(domain.IntentComplaints): domain.IntentComplaints,
	string(domain.IntentFeedback):   domain.IntentFeedback,
	string(domain.IntentThreeRTips): domain.IntentThreeRTips,
	string(domain.IntentAwareness):  domain.IntentAwareness,
	string(domain.IntentSchedules):  domain.IntentSchedules,
	string(domain.IntentGreetings):  domain.IntentGreetings,
	string(domain.IntentUnknown):    domain.IntentUnknown,
}

// Classify returns the intent of a user message. Heuristic matches carry
// fixed confidences; the model tier parses a JSON-shaped reply
// leniently, degrading to Unknown when the reply is malformed (0.6) or
// the gateway fails outright (0.5).
func (c *Classifier) Classify(ctx context.Context, message string) Result {
	lower := strings.ToLower(strings.TrimSpace(message))
	words := len(strings.Fields(lower))

	switch {
	case IsGreeting(lower) && words < 5:
		return Result{Intent: domain.IntentGreetings, Confidence: 0.9}
	case IsThanks(lower) && words < 7:
		return Result{Intent: domain.IntentFeedback, Confidence: 0.8}
	case IsComplaint(lower):
		return Result{Intent: domain.IntentComplaints, Confidence: 0.8}
	case IsScheduleQuery(lower):
		return Result{Intent: domain.IntentSchedules, Confidence: 0.8}
	}

	prompt := fmt.Sprintf(`Classify the intent of this waste management chatbot message.
Message: %q
Possible intents: Complaints, Feedback, 3R Tips, Public Awareness Tips, Waste Collection Schedules, Greetings, Unknown.
Reply with JSON only: {"intent": "<intent>", "confidence": <0..1>}`, message)

	reply, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("intent classification call failed", zap.Error(err))
		return Result{Intent: domain.IntentUnknown, Confidence: 0.5}
	}

	m := intentRe.FindStringSubmatch(reply)
	if m == nil {
		c.logger.Warn("unparseable intent reply", zap.String("reply", reply))
		return Result{Intent: domain.IntentUnknown, Confidence: 0.6}
	}
	intent, ok := knownIntents[strings.TrimSpace(m[1])]
	if !ok {
		return Result{Intent: domain.IntentUnknown, Confidence: 0.6}
	}

	confidence := 0.6
	if cm := confidenceRe.FindStringSubmatch(reply); cm != nil {
		if v, perr := strconv.ParseFloat(cm[1], 64); perr == nil && v >= 0 && v <= 1 {
			confidence = v
		}
	}
	return Result{Intent: intent, Confidence: confidence}
}
