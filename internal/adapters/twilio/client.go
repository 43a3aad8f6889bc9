package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"route-notify-service/internal/domain"
	"route-notify-service/internal/platform/obs"
	"route-notify-service/internal/ports"
)

const (
	defaultBaseURL = "https://api.twilio.com/2010-04-01"

	// Single-segment SMS limit; overridable via configuration.
	DefaultMaxMessageLength = 160
)

// Client talks to the Twilio REST API.
//
// Every failure mode of a send (validation, provider rejection, transport
// fault) is reported through a tagged result value rather than an error
// return, so batch callers branch on values uniformly.
type Client struct {
	session    *http.Client
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	maxLength  int
}

func NewClient(accountSID, authToken, fromNumber string, maxMessageLength int) (*Client, error) {
	if strings.TrimSpace(accountSID) == "" ||
		strings.TrimSpace(authToken) == "" ||
		strings.TrimSpace(fromNumber) == "" {
		return nil, errors.New("twilio credentials not configured")
	}

	if maxMessageLength <= 0 {
		maxMessageLength = DefaultMaxMessageLength
	}

	return &Client{
		session:    &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		maxLength:  maxMessageLength,
	}, nil
}

// ValidateMessageBody trims the body and checks it against the configured
// maximum length.
func (c *Client) ValidateMessageBody(text string) (string, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return "", &ValidationError{Reason: "message content is required"}
	}
	if len(body) > c.maxLength {
		return "", &ValidationError{Reason: fmt.Sprintf("message too long (max %d characters)", c.maxLength)}
	}
	return body, nil
}

// Provider wire shapes. Twilio reports message-level errors inline and
// request-level errors as {code, message, status}.
type messageJSON struct {
	Sid          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	DateSent     string `json:"date_sent"`
	DateUpdated  string `json:"date_updated"`
}

type providerErrorJSON struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// SendMessage normalizes the destination, validates the body, and submits
// the message. It never returns an error: inspect the result value.
func (c *Client) SendMessage(ctx context.Context, to, body string) ports.SendResult {
	formatted, err := NormalizePhone(to)
	if err != nil {
		return ports.SendResult{
			Kind:  ports.FailureValidation,
			Error: "validation error: " + err.Error(),
			To:    to,
		}
	}

	validated, err := c.ValidateMessageBody(body)
	if err != nil {
		return ports.SendResult{
			Kind:  ports.FailureValidation,
			Error: "validation error: " + err.Error(),
			To:    formatted,
		}
	}

	form := url.Values{}
	form.Set("To", formatted)
	form.Set("From", c.fromNumber)
	form.Set("Body", validated)

	var decoded messageJSON
	if perr, err := c.postForm(ctx, "/Accounts/"+c.accountSID+"/Messages.json", form, &decoded); err != nil {
		return ports.SendResult{
			Kind:  ports.FailureInternal,
			Error: "unexpected error: " + err.Error(),
			To:    formatted,
		}
	} else if perr != nil {
		return ports.SendResult{
			Kind:      ports.FailureProvider,
			Error:     "twilio error: " + perr.Message,
			ErrorCode: perr.Code,
			To:        formatted,
		}
	}

	log.Printf("req_id=%s sms sent to=%s sid=%s", obs.RequestID(ctx), domain.MaskPhone(formatted), decoded.Sid)

	return ports.SendResult{
		Success:    true,
		MessageSID: decoded.Sid,
		Status:     decoded.Status,
		To:         formatted,
		From:       c.fromNumber,
		Body:       validated,
	}
}

// StatusResult is the current provider status of a previously sent message.
type StatusResult struct {
	Success      bool
	MessageSID   string
	Status       string
	ErrorCode    *int
	ErrorMessage string
	DateSent     string
	DateUpdated  string
	Error        string
}

// GetMessageStatus fetches the provider's current view of a sent message.
func (c *Client) GetMessageStatus(ctx context.Context, messageSID string) StatusResult {
	var decoded messageJSON
	if perr, err := c.get(ctx, "/Accounts/"+c.accountSID+"/Messages/"+messageSID+".json", &decoded); err != nil {
		return StatusResult{Error: "failed to get message status: " + err.Error()}
	} else if perr != nil {
		return StatusResult{Error: "failed to get message status: " + perr.Message}
	}

	return StatusResult{
		Success:      true,
		MessageSID:   decoded.Sid,
		Status:       decoded.Status,
		ErrorCode:    decoded.ErrorCode,
		ErrorMessage: decoded.ErrorMessage,
		DateSent:     decoded.DateSent,
		DateUpdated:  decoded.DateUpdated,
	}
}

// PhoneCheck is the outcome of a pure phone validation.
type PhoneCheck struct {
	Valid     bool
	Formatted string
	Original  string
	Error     string
}

// ValidatePhoneNumber checks a phone number without sending anything.
func (c *Client) ValidatePhoneNumber(raw string) PhoneCheck {
	formatted, err := NormalizePhone(raw)
	if err != nil {
		return PhoneCheck{Original: raw, Error: err.Error()}
	}
	return PhoneCheck{Valid: true, Formatted: formatted, Original: raw}
}

// AccountInfo is the provider account metadata.
type AccountInfo struct {
	Success      bool
	AccountSID   string
	FriendlyName string
	Status       string
	Type         string
	Error        string
}

type accountJSON struct {
	Sid          string `json:"sid"`
	FriendlyName string `json:"friendly_name"`
	Status       string `json:"status"`
	Type         string `json:"type"`
}

// GetAccountInfo fetches the Twilio account metadata.
func (c *Client) GetAccountInfo(ctx context.Context) AccountInfo {
	var decoded accountJSON
	if perr, err := c.get(ctx, "/Accounts/"+c.accountSID+".json", &decoded); err != nil {
		return AccountInfo{Error: "failed to get account info: " + err.Error()}
	} else if perr != nil {
		return AccountInfo{Error: "failed to get account info: " + perr.Message}
	}

	return AccountInfo{
		Success:      true,
		AccountSID:   decoded.Sid,
		FriendlyName: decoded.FriendlyName,
		Status:       decoded.Status,
		Type:         decoded.Type,
	}
}

// postForm submits a form-encoded request with basic auth. A provider
// rejection decodes into the returned providerErrorJSON; transport and
// decode faults come back as the error.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) (_ *providerErrorJSON, err error) {
	defer obs.Time(ctx, "twilio.post "+path)(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) (_ *providerErrorJSON, err error) {
	defer obs.Time(ctx, "twilio.get "+path)(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (*providerErrorJSON, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)

		var perr providerErrorJSON
		if err := json.Unmarshal(b, &perr); err != nil || perr.Message == "" {
			perr = providerErrorJSON{
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
			}
		}
		return &perr, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return nil, nil
}
