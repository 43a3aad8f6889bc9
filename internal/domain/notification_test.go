package domain

import "testing"

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5551234567", "***4567"},
		{"+15551234567", "***4567"},
		{"123", "***"},
		{"", "***"},
		{"4567", "***4567"},
	}

	for _, tc := range cases {
		if got := MaskPhone(tc.in); got != tc.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRouteIncompleteStops(t *testing.T) {
	route := &Route{
		ID: "rt_1",
		Stops: []Stop{
			{ID: "a", DeliveryStatus: StatusDelivered},
			{ID: "b", DeliveryStatus: "PENDING"},
			{ID: "c", DeliveryStatus: "FAILED"},
			{ID: "d", DeliveryStatus: "UNKNOWN"},
		},
	}

	stops := route.IncompleteStops()
	if len(stops) != 3 {
		t.Fatalf("incomplete = %d, want 3 (any status but DELIVERED)", len(stops))
	}
	if stops[0].ID != "b" || stops[1].ID != "c" || stops[2].ID != "d" {
		t.Errorf("order not preserved: %v", stops)
	}
}

func TestRouteSummary(t *testing.T) {
	route := &Route{
		ID:           "rt_1",
		Name:         "R100",
		ScheduledFor: "2026-08-28T08:00:00Z",
		Driver:       Driver{Name: "Dana"},
		Stops: []Stop{
			{DeliveryStatus: StatusDelivered},
			{DeliveryStatus: StatusDelivered},
			{DeliveryStatus: "PENDING"},
		},
	}

	s := route.Summary()
	if s.TotalStops != 3 || s.DeliveredStops != 2 || s.IncompleteStops != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.StatusBreakdown[StatusDelivered] != 2 || s.StatusBreakdown["PENDING"] != 1 {
		t.Errorf("breakdown = %+v", s.StatusBreakdown)
	}
	if s.RouteID != "rt_1" || s.RouteName != "R100" || s.Driver.Name != "Dana" {
		t.Errorf("metadata = %+v", s)
	}
}
