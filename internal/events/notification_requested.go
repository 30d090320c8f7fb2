package events

import "time"

const NotificationTopic = "perf.review.notifications.v1"

// Template kinds understood by the notification consumer.
const (
	KindReviewNotification = "review_notification"
	KindMeetingInvitation  = "meeting_invitation"
	KindAppealNotification = "appeal_notification"
)

// NotificationRequested is written to the outbox in the same transaction as
// the state change that triggered it. Delivery is best effort: a failed
// email never rolls back the review transition.
type NotificationRequested struct {
	EventType  string            `json:"event_type"`
	RequestID  string            `json:"request_id,omitempty"`
	Kind       string            `json:"kind"`
	Recipient  string            `json:"recipient"`
	Context    map[string]string `json:"context"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewNotificationRequested(requestID, kind, recipient string, context map[string]string) NotificationRequested {
	return NotificationRequested{
		EventType:  "notification_requested",
		RequestID:  requestID,
		Kind:       kind,
		Recipient:  recipient,
		Context:    context,
		OccurredAt: time.Now().UTC(),
	}
}
