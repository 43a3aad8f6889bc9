package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"route-notify-service/internal/domain"
	"route-notify-service/internal/ports"
)

// ErrRouteNotFound reports that the requested route number matched nothing
// in the route service listing.
var ErrRouteNotFound = errors.New("route not found")

// InputError reports a caller mistake in the request payload. Handlers map
// it to a 400 response with the reason verbatim.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// Notifier drives one notification request end to end: resolve the route,
// filter undelivered stops, send one message per stop, aggregate outcomes.
// It is stateless across requests; callers construct one per request with
// fresh adapter instances.
type Notifier struct {
	Routes           ports.RouteProvider
	Messages         ports.MessageSender
	MaxMessageLength int

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (n *Notifier) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n *Notifier) maxLength() int {
	if n.MaxMessageLength > 0 {
		return n.MaxMessageLength
	}
	return 160
}

// SendToRoute messages every incomplete stop on the named route.
//
// A per-stop send failure never aborts the batch: it accumulates in the
// result. Only input validation and route resolution are terminal errors.
// The aggregate satisfies MessagesSent + Failures == len(Details).
func (n *Notifier) SendToRoute(ctx context.Context, routeNumber, message string) (*domain.NotificationResult, error) {
	routeNumber = strings.TrimSpace(routeNumber)
	message = strings.TrimSpace(message)

	if routeNumber == "" {
		return nil, &InputError{Reason: "route number is required"}
	}
	if message == "" {
		return nil, &InputError{Reason: "message is required"}
	}
	if len(message) > n.maxLength() {
		return nil, &InputError{Reason: fmt.Sprintf("message too long (max %d characters)", n.maxLength())}
	}

	route, err := n.Routes.GetRouteByNumber(ctx, routeNumber)
	if err != nil {
		return nil, fmt.Errorf("retrieve route data: %w", err)
	}
	if route == nil {
		return nil, fmt.Errorf("route %q: %w", routeNumber, ErrRouteNotFound)
	}

	stops, err := n.Routes.GetIncompleteStops(ctx, route.ID)
	if err != nil {
		return nil, fmt.Errorf("retrieve route data: %w", err)
	}

	result := &domain.NotificationResult{
		RouteID:         route.ID,
		RouteName:       routeName(route, routeNumber),
		TotalStops:      len(route.Stops),
		IncompleteStops: len(stops),
		Details:         make([]domain.SendOutcome, 0, len(stops)),
		Timestamp:       n.now(),
	}

	for _, stop := range stops {
		result.Details = append(result.Details, n.dispatch(ctx, stop, message))
	}

	for _, d := range result.Details {
		if d.Status == domain.OutcomeSent {
			result.MessagesSent++
		} else {
			result.Failures++
		}
	}

	return result, nil
}

// dispatch sends one message to one stop and maps the outcome. Stops with
// no phone number fail without touching the messaging adapter.
func (n *Notifier) dispatch(ctx context.Context, stop domain.Stop, message string) domain.SendOutcome {
	outcome := domain.SendOutcome{
		StopID:       stop.ID,
		CustomerName: customerName(stop),
	}

	phone := strings.TrimSpace(stop.Contact.Phone)
	if phone == "" {
		outcome.Status = domain.OutcomeFailed
		outcome.Phone = domain.NoPhonePlaceholder
		outcome.Error = "no phone number provided"
		return outcome
	}

	outcome.Phone = domain.MaskPhone(phone)

	res := n.Messages.SendMessage(ctx, phone, message)
	if res.Success {
		outcome.Status = domain.OutcomeSent
		outcome.MessageSID = res.MessageSID
		return outcome
	}

	outcome.Status = domain.OutcomeFailed
	outcome.Error = res.Error
	return outcome
}

// Preview projects what SendToRoute would do for the named route without
// sending anything: which stops would be messaged, which lack a phone,
// and the route's status summary.
func (n *Notifier) Preview(ctx context.Context, routeNumber string) (*domain.RoutePreview, error) {
	routeNumber = strings.TrimSpace(routeNumber)
	if routeNumber == "" {
		return nil, &InputError{Reason: "route number is required"}
	}

	route, err := n.Routes.GetRouteByNumber(ctx, routeNumber)
	if err != nil {
		return nil, fmt.Errorf("retrieve route data: %w", err)
	}
	if route == nil {
		return nil, fmt.Errorf("route %q: %w", routeNumber, ErrRouteNotFound)
	}

	stops, err := n.Routes.GetIncompleteStops(ctx, route.ID)
	if err != nil {
		return nil, fmt.Errorf("retrieve route data: %w", err)
	}

	summary, err := n.Routes.GetRouteSummary(ctx, route.ID)
	if err != nil {
		return nil, fmt.Errorf("retrieve route data: %w", err)
	}

	preview := &domain.RoutePreview{
		Summary:         summary,
		IncompleteStops: make([]domain.PreviewStop, 0, len(stops)),
		TotalIncomplete: len(stops),
	}

	for _, stop := range stops {
		phone := strings.TrimSpace(stop.Contact.Phone)

		masked := domain.NoPhonePlaceholder
		if phone != "" {
			masked = domain.MaskPhone(phone)
			preview.ValidPhoneNumbers++
		}

		address := stop.Address.Formatted
		if address == "" {
			address = "No address"
		}

		preview.IncompleteStops = append(preview.IncompleteStops, domain.PreviewStop{
			StopID:         stop.ID,
			CustomerName:   customerName(stop),
			Phone:          masked,
			HasPhone:       phone != "",
			DeliveryStatus: stop.DeliveryStatus,
			Address:        address,
		})
	}

	preview.WillReceiveSMS = preview.ValidPhoneNumbers

	return preview, nil
}

// SendTest sends a single diagnostic message outside any route context.
func (n *Notifier) SendTest(ctx context.Context, phoneNumber, message string) (ports.SendResult, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	message = strings.TrimSpace(message)

	if phoneNumber == "" || message == "" {
		return ports.SendResult{}, &InputError{Reason: "phone number and message are required"}
	}

	return n.Messages.SendMessage(ctx, phoneNumber, message), nil
}

func customerName(stop domain.Stop) string {
	if name := strings.TrimSpace(stop.Contact.Name); name != "" {
		return name
	}
	return "Customer"
}

func routeName(route *domain.Route, fallback string) string {
	if route.Name != "" {
		return route.Name
	}
	return fallback
}
