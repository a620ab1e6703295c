package domain

// Intent is the classified purpose category of an inbound message.
type Intent string

const (
	IntentComplaints Intent = "Complaints"
	IntentFeedback   Intent = "Feedback"
	IntentThreeRTips Intent = "3R Tips"
	IntentAwareness  Intent = "Public Awareness Tips"
	IntentSchedules  Intent = "Waste Collection Schedules"
	IntentGreetings  Intent = "Greetings"
	IntentUnknown    Intent = "Unknown"
)
