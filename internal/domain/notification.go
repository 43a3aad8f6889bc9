package domain

import "time"

// Per-stop send statuses reported in a NotificationResult.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// NoPhonePlaceholder is shown in previews for stops without a contact phone.
const NoPhonePlaceholder = "No phone"

// MaskPhone redacts a phone number to its last 4 digits for display and
// logging. Numbers shorter than 4 characters are fully masked.
func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return "***"
	}
	return "***" + phone[len(phone)-4:]
}

// SendOutcome is the per-stop result of one notification attempt.
// Phone is masked, or NoPhonePlaceholder when the stop has no number;
// MessageSID is set on success, Error on failure.
type SendOutcome struct {
	StopID       string
	CustomerName string
	Status       string
	Phone        string
	MessageSID   string
	Error        string
}

// NotificationResult aggregates the outcomes of one notification batch.
// It is returned to the caller and never persisted; the invariant
// MessagesSent + Failures == len(Details) holds for every batch.
type NotificationResult struct {
	RouteID         string
	RouteName       string
	TotalStops      int
	IncompleteStops int
	MessagesSent    int
	Failures        int
	Details         []SendOutcome
	Timestamp       time.Time
}

// PreviewStop describes one incomplete stop in a dry-run projection.
type PreviewStop struct {
	StopID         string
	CustomerName   string
	Phone          string
	HasPhone       bool
	DeliveryStatus string
	Address        string
}

// RoutePreview is a read-only projection of what a send would do:
// which stops would be messaged and which lack a phone number.
type RoutePreview struct {
	Summary           RouteSummary
	IncompleteStops   []PreviewStop
	TotalIncomplete   int
	ValidPhoneNumbers int
	WillReceiveSMS    int
}
