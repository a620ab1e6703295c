package domain

// Quick-action identifiers accepted in place of a free-text message.
const (
	ActionSchedule     = "schedule"
	ActionRecycleGuide = "recycle-guide"
	ActionReportIssue  = "report-issue"
	ActionTips         = "tips"
)

// ChatRequest is the inbound chat payload. Exactly one of Message or
// Action must be set.
type ChatRequest struct {
	Message   string `json:"message,omitempty"`
	Action    string `json:"action,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the outbound chat payload.
type ChatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	SessionID   string   `json:"session_id"`
}
