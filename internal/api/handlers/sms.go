package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"route-notify-service/internal/adapters/easyroutes"
	"route-notify-service/internal/adapters/twilio"
	"route-notify-service/internal/api/dto"
	"route-notify-service/internal/config"
	"route-notify-service/internal/domain"
	"route-notify-service/internal/ports"
	"route-notify-service/internal/services"
)

// SMSHandler exposes the notification endpoints. Adapter clients are
// constructed per request so route-service tokens never outlive the
// request that acquired them.
type SMSHandler struct {
	Cfg *config.Service

	// NewNotifier overrides per-request adapter construction in tests.
	NewNotifier func() (*services.Notifier, error)
}

func (h *SMSHandler) notifier() (*services.Notifier, error) {
	if h.NewNotifier != nil {
		return h.NewNotifier()
	}

	routes, err := easyroutes.NewClient(h.Cfg.RouteServiceClientID, h.Cfg.RouteServiceClientSecret)
	if err != nil {
		return nil, err
	}

	messages, err := twilio.NewClient(
		h.Cfg.TwilioAccountSID,
		h.Cfg.TwilioAuthToken,
		h.Cfg.TwilioFromNumber,
		h.Cfg.MaxMessageLength,
	)
	if err != nil {
		return nil, err
	}

	return &services.Notifier{
		Routes:           routes,
		Messages:         messages,
		MaxMessageLength: h.Cfg.MaxMessageLength,
	}, nil
}

// testNotifier builds a messaging-only notifier: the diagnostic endpoint
// must work even when route-service credentials are absent.
func (h *SMSHandler) testNotifier() (*services.Notifier, error) {
	if h.NewNotifier != nil {
		return h.NewNotifier()
	}

	messages, err := twilio.NewClient(
		h.Cfg.TwilioAccountSID,
		h.Cfg.TwilioAuthToken,
		h.Cfg.TwilioFromNumber,
		h.Cfg.MaxMessageLength,
	)
	if err != nil {
		return nil, err
	}

	return &services.Notifier{Messages: messages, MaxMessageLength: h.Cfg.MaxMessageLength}, nil
}

// Send messages every incomplete stop on the requested route.
func (h *SMSHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.SendSMSRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := h.notifier()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "configuration error: "+err.Error())
		return
	}

	result, err := n.SendToRoute(r.Context(), req.RouteNumber, req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Printf(
		"sms batch completed route=%s sent=%d failed=%d",
		result.RouteID, result.MessagesSent, result.Failures,
	)

	res := dto.SendSMSResponse{Success: true, Results: toResultsResponse(result)}
	if result.IncompleteStops == 0 {
		res.Message = "no incomplete stops found for this route"
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Preview reports which stops would receive a message without sending.
func (h *SMSHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := h.notifier()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "configuration error: "+err.Error())
		return
	}

	preview, err := n.Preview(r.Context(), req.RouteNumber)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PreviewResponse{
		Success: true,
		Preview: toPreviewBody(preview),
	})
}

// Test sends one message to one number for diagnostics.
func (h *SMSHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req dto.TestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := h.testNotifier()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "configuration error: "+err.Error())
		return
	}

	result, err := n.SendTest(r.Context(), req.PhoneNumber, req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TestResponse{
		Success: result.Success,
		Result:  toSendResultResponse(result),
	})
}

// decodeBody enforces POST and strict single-object JSON, replying itself
// on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	return true
}

// writeServiceError maps orchestrator errors onto the HTTP taxonomy:
// caller mistakes are 400, unknown routes 404, everything else 500 with
// the original message preserved for diagnostics.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ie *services.InputError
	if errors.As(err, &ie) {
		writeError(w, r, http.StatusBadRequest, ie.Reason)
		return
	}

	if errors.Is(err, services.ErrRouteNotFound) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	writeError(w, r, http.StatusInternalServerError, "failed to "+err.Error())
}

func toResultsResponse(result *domain.NotificationResult) dto.ResultsResponse {
	details := make([]dto.OutcomeResponse, 0, len(result.Details))
	for _, d := range result.Details {
		details = append(details, dto.OutcomeResponse{
			StopID:       d.StopID,
			CustomerName: d.CustomerName,
			Status:       d.Status,
			Phone:        d.Phone,
			MessageSID:   d.MessageSID,
			Error:        d.Error,
		})
	}

	return dto.ResultsResponse{
		RouteID:         result.RouteID,
		RouteName:       result.RouteName,
		TotalStops:      result.TotalStops,
		IncompleteStops: result.IncompleteStops,
		MessagesSent:    result.MessagesSent,
		Failures:        result.Failures,
		Details:         details,
		Timestamp:       result.Timestamp.UTC(),
	}
}

func toPreviewBody(preview *domain.RoutePreview) dto.PreviewBody {
	stops := make([]dto.PreviewStopResponse, 0, len(preview.IncompleteStops))
	for _, s := range preview.IncompleteStops {
		stops = append(stops, dto.PreviewStopResponse{
			StopID:         s.StopID,
			CustomerName:   s.CustomerName,
			Phone:          s.Phone,
			HasPhone:       s.HasPhone,
			DeliveryStatus: s.DeliveryStatus,
			Address:        s.Address,
		})
	}

	return dto.PreviewBody{
		RouteSummary: dto.RouteSummaryResponse{
			RouteID:         preview.Summary.RouteID,
			RouteName:       preview.Summary.RouteName,
			TotalStops:      preview.Summary.TotalStops,
			IncompleteStops: preview.Summary.IncompleteStops,
			DeliveredStops:  preview.Summary.DeliveredStops,
			StatusBreakdown: preview.Summary.StatusBreakdown,
			Driver: dto.DriverResponse{
				ID:   preview.Summary.Driver.ID,
				Name: preview.Summary.Driver.Name,
			},
			ScheduledFor: preview.Summary.ScheduledFor,
		},
		IncompleteStops:   stops,
		TotalIncomplete:   preview.TotalIncomplete,
		ValidPhoneNumbers: preview.ValidPhoneNumbers,
		WillReceiveSMS:    preview.WillReceiveSMS,
	}
}

func toSendResultResponse(result ports.SendResult) dto.SendResultResponse {
	return dto.SendResultResponse{
		Success:    result.Success,
		MessageSID: result.MessageSID,
		Status:     result.Status,
		To:         result.To,
		From:       result.From,
		Body:       result.Body,
		Error:      result.Error,
		ErrorCode:  result.ErrorCode,
	}
}
