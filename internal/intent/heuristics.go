package intent

import "strings"

// Keyword heuristics over lowercased messages. Callers lowercase once;
// each predicate is a plain substring scan so the fast tier stays fast.

var greetingWords = []string{
	"hello", "hi", "hey", "greetings", "howdy",
	"good morning", "good afternoon", "good evening",
}

var thanksWords = []string{
	"thanks", "thank you", "appreciated", "grateful", "appreciate", "valuable",
}

var feedbackWords = []string{
	"feedback", "suggestion", "improve", "better", "thanks", "thank you",
	"grateful", "appreciate", "good job", "well done", "helpful",
	"service", "experience",
}

var complaintWords = []string{
	"complaint", "issue", "problem", "not working", "broken", "failed",
	"poor", "missed", "miss", "disappointed", "unhappy", "dissatisfied",
	"bad", "terrible", "horrible", "didn't collect", "didn't pick up",
	"skipped", "forgot",
}

var scheduleWords = []string{
	"schedule", "collection", "pickup", "pick up", "collect",
	"garbage day", "trash day", "when", "what day", "what time",
	"organic waste", "inorganic waste", "e-waste",
}

var contactWords = []string{
	"contact", "details", "phone", "number", "email", "address", "website", "office",
}

var municipalWords = []string{
	"municipal", "council", "office", "city", "town", "local",
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// IsGreeting reports whether the message opens with a salutation.
func IsGreeting(lower string) bool { return containsAny(lower, greetingWords) }

// IsThanks reports whether the message expresses gratitude.
func IsThanks(lower string) bool { return containsAny(lower, thanksWords) }

// IsFeedback reports whether the message reads as service feedback.
func IsFeedback(lower string) bool { return containsAny(lower, feedbackWords) }

// IsComplaint reports whether the message reads as a service complaint.
func IsComplaint(lower string) bool { return containsAny(lower, complaintWords) }

// IsScheduleQuery reports whether the message asks about collection
// timing.
func IsScheduleQuery(lower string) bool { return containsAny(lower, scheduleWords) }

// IsContactRequest reports whether the message asks for municipal
// contact details. It requires both a contact word and a municipal
// word so "email me tips" does not trip it.
func IsContactRequest(lower string) bool {
	return containsAny(lower, contactWords) && containsAny(lower, municipalWords)
}

// MentionsMissedCollection reports whether a complaint is specifically
// about a missed pickup.
func MentionsMissedCollection(lower string) bool {
	return containsAny(lower, []string{"miss", "missed", "didn't collect", "skipped", "forgot"})
}
