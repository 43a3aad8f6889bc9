package ports

import "context"

// Failure kinds tagged on a SendResult so callers can branch on the value
// without inspecting error strings.
const (
	FailureValidation = "validation"
	FailureProvider   = "provider"
	FailureInternal   = "internal"
)

// SendResult is the outcome of one message send attempt. Sends never
// surface as errors: validation failures, provider rejections, and
// unexpected faults all come back as a tagged result value.
type SendResult struct {
	Success bool

	// Set on success.
	MessageSID string
	Status     string
	From       string
	Body       string

	// Normalized destination on success; the raw input when normalization
	// itself failed.
	To string

	// Set on failure.
	Kind      string
	Error     string
	ErrorCode int
}

// Contract for dispatching a single text message to a phone number.
type MessageSender interface {
	// Normalize the destination, validate the body, and submit the message,
	// reporting every failure mode through the returned value.
	SendMessage(ctx context.Context, to, body string) SendResult
}
