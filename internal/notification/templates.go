package notification

import (
	"fmt"

	"go-perf/internal/events"
)

const fromAddress = "hr@company.com"

// Render builds the subject and HTML body for a notification kind. The
// context keys mirror what the workflow services put on the event.
func Render(kind string, context map[string]string) (subject, html string, err error) {
	switch kind {
	case events.KindReviewNotification:
		return renderReviewNotification(context), reviewNotificationHTML(context), nil
	case events.KindMeetingInvitation:
		return fmt.Sprintf("1:1 Performance Review Meeting - %s", context["employee_name"]),
			meetingInvitationHTML(context), nil
	case events.KindAppealNotification:
		return fmt.Sprintf("Appeal Request - %s", context["employee_name"]),
			appealNotificationHTML(context), nil
	default:
		return "", "", fmt.Errorf("unknown notification kind: %s", kind)
	}
}

func renderReviewNotification(context map[string]string) string {
	return fmt.Sprintf("Performance Review: %s", context["action"])
}

func reviewNotificationHTML(context map[string]string) string {
	deadline := ""
	if d := context["deadline"]; d != "" {
		deadline = fmt.Sprintf("<p><strong>Deadline:</strong> %s</p>", d)
	}
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #3B82F6;">Performance Review Notification</h2>
      <p>Hello,</p>
      <p>This is a notification regarding the performance review for <strong>%s</strong>.</p>
      <p><strong>Action Required:</strong> %s</p>
      %s
      <p>Please log in to the system to take the required action.</p>
      <br>
      <p>Best regards,<br>HR Team</p>
    </div>
  `, context["employee_name"], context["action"], deadline)
}

func meetingInvitationHTML(context map[string]string) string {
	link := ""
	if l := context["meeting_link"]; l != "" {
		link = fmt.Sprintf(`<p><strong>Meeting Link:</strong> <a href="%s">%s</a></p>`, l, l)
	}
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #3B82F6;">1:1 Performance Review Meeting</h2>
      <p>Hello,</p>
      <p>You have a scheduled 1:1 performance review meeting.</p>
      <p><strong>Employee:</strong> %s</p>
      <p><strong>Manager:</strong> %s</p>
      <p><strong>Date &amp; Time:</strong> %s</p>
      %s
      <p>Please ensure you are prepared for the meeting and have reviewed all relevant materials.</p>
      <br>
      <p>Best regards,<br>HR Team</p>
    </div>
  `, context["employee_name"], context["manager_name"], context["scheduled_at"], link)
}

func appealNotificationHTML(context map[string]string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #F59E0B;">Appeal Request Submitted</h2>
      <p>Hello %s,</p>
      <p>An appeal request has been submitted by <strong>%s</strong>.</p>
      <p><strong>Reason:</strong></p>
      <p style="background-color: #F3F4F6; padding: 15px; border-radius: 5px;">%s</p>
      <p>Please review this appeal and take appropriate action in the system.</p>
      <br>
      <p>Best regards,<br>HR Team</p>
    </div>
  `, context["manager_name"], context["employee_name"], context["reason"])
}
