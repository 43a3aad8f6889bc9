package dto

import "time"

type SendSMSRequest struct {
	RouteNumber string `json:"route_number"`
	Message     string `json:"message"`
}

type PreviewRequest struct {
	RouteNumber string `json:"route_number"`
}

type TestRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

type OutcomeResponse struct {
	StopID       string `json:"stop_id"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
	Phone        string `json:"phone"`
	MessageSID   string `json:"message_sid,omitempty"`
	Error        string `json:"error,omitempty"`
}

type ResultsResponse struct {
	RouteID         string            `json:"route_id"`
	RouteName       string            `json:"route_name"`
	TotalStops      int               `json:"total_stops"`
	IncompleteStops int               `json:"incomplete_stops"`
	MessagesSent    int               `json:"messages_sent"`
	Failures        int               `json:"failures"`
	Details         []OutcomeResponse `json:"details"`
	Timestamp       time.Time         `json:"timestamp"`
}

type SendSMSResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Results ResultsResponse `json:"results"`
}

type DriverResponse struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type RouteSummaryResponse struct {
	RouteID         string         `json:"route_id"`
	RouteName       string         `json:"route_name"`
	TotalStops      int            `json:"total_stops"`
	IncompleteStops int            `json:"incomplete_stops"`
	DeliveredStops  int            `json:"delivered_stops"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
	Driver          DriverResponse `json:"driver"`
	ScheduledFor    string         `json:"scheduled_for"`
}

type PreviewStopResponse struct {
	StopID         string `json:"stop_id"`
	CustomerName   string `json:"customer_name"`
	Phone          string `json:"phone"`
	HasPhone       bool   `json:"has_phone"`
	DeliveryStatus string `json:"delivery_status"`
	Address        string `json:"address"`
}

type PreviewBody struct {
	RouteSummary      RouteSummaryResponse  `json:"route_summary"`
	IncompleteStops   []PreviewStopResponse `json:"incomplete_stops"`
	TotalIncomplete   int                   `json:"total_incomplete"`
	ValidPhoneNumbers int                   `json:"valid_phone_numbers"`
	WillReceiveSMS    int                   `json:"will_receive_sms"`
}

type PreviewResponse struct {
	Success bool        `json:"success"`
	Preview PreviewBody `json:"preview"`
}

type SendResultResponse struct {
	Success    bool   `json:"success"`
	MessageSID string `json:"message_sid,omitempty"`
	Status     string `json:"status,omitempty"`
	To         string `json:"to,omitempty"`
	From       string `json:"from,omitempty"`
	Body       string `json:"body,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorCode  int    `json:"error_code,omitempty"`
}

type TestResponse struct {
	Success bool               `json:"success"`
	Result  SendResultResponse `json:"result"`
}
