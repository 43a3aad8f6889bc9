package easyroutes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := NewClient("client-id", "client-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.baseURL = baseURL

	return c
}

// authStub serves /authenticate with sequential tokens and counts calls.
type authStub struct {
	calls     int
	expiresIn int
}

func (a *authStub) handle(w http.ResponseWriter, r *http.Request) {
	a.calls++

	var creds map[string]string
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil ||
		creds["clientId"] == "" || creds["clientSecret"] == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	expires := a.expiresIn
	if expires == 0 {
		expires = 3600
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"accessToken": "token-%d", "expiresInSeconds": %d}`, a.calls, expires)
}

func TestAuthenticateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("bad credentials"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *AuthError", err)
	}
	if ae.Status != http.StatusForbidden || ae.Body != "bad credentials" {
		t.Errorf("AuthError = %+v", ae)
	}
}

func TestTokenReusedUntilBufferedExpiry(t *testing.T) {
	auth := &authStub{expiresIn: 3600}

	mux := http.NewServeMux()
	mux.HandleFunc("/authenticate", auth.handle)
	mux.HandleFunc("/routes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"routes": []}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	now := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	c := newTestClient(t, srv.URL)
	c.now = func() time.Time { return now }

	if _, err := c.GetRoutes(context.Background(), false, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.GetRoutes(context.Background(), false, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth.calls != 1 {
		t.Fatalf("auth calls = %d, want 1 (token should be reused)", auth.calls)
	}

	// 3600s lifetime minus the 60s buffer: expired at +3540s.
	now = now.Add(3540 * time.Second)
	if _, err := c.GetRoutes(context.Background(), false, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth.calls != 2 {
		t.Fatalf("auth calls = %d, want 2 (token past buffered expiry)", auth.calls)
	}
}

func TestRequestReauthenticatesOnceOn401(t *testing.T) {
	auth := &authStub{}
	routeCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/authenticate", auth.handle)
	mux.HandleFunc("/routes", func(w http.ResponseWriter, r *http.Request) {
		routeCalls++
		// First token is stale; only the re-issued one passes.
		if r.Header.Get("Authorization") != "Bearer token-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"routes": [{"id": "rt_1", "name": "R100"}]}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	routes, err := c.GetRoutes(context.Background(), false, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(routes) != 1 || routes[0].ID != "rt_1" {
		t.Errorf("routes = %+v", routes)
	}
	if auth.calls != 2 {
		t.Errorf("auth calls = %d, want 2", auth.calls)
	}
	if routeCalls != 2 {
		t.Errorf("route calls = %d, want 2 (original + one retry)", routeCalls)
	}
}

func TestRequestRetryFailureSurfacesAPIError(t *testing.T) {
	auth := &authStub{}
	routeCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/authenticate", auth.handle)
	mux.HandleFunc("/routes", func(w http.ResponseWriter, r *http.Request) {
		routeCalls++
		if routeCalls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetRoutes(context.Background(), false, 100)
	if err == nil {
		t.Fatal("expected error")
	}

	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if ae.Status != http.StatusBadGateway || ae.Body != "upstream down" {
		t.Errorf("APIError = %+v, want retry's status and body", ae)
	}
	if routeCalls != 2 {
		t.Errorf("route calls = %d, want exactly 2 (no further retries)", routeCalls)
	}
}

const routeDetail = `{
	"id": "rt_1",
	"name": "R100",
	"scheduledFor": "2026-08-28T08:00:00Z",
	"driver": {"id": "drv_1", "name": "Dana"},
	"stops": [
		{"id": "stop_1", "deliveryStatus": "DELIVERED",
		 "contact": {"name": "Ann", "phone": "5550000001"},
		 "address": {"formatted": "1 First St"}},
		{"id": "stop_2", "deliveryStatus": "PENDING",
		 "contact": {"name": "Ben", "phone": "5550000002"},
		 "address": {"formatted": "2 Second St"}},
		{"id": "stop_3", "deliveryStatus": "OUT_FOR_DELIVERY",
		 "contact": {"name": "", "phone": ""},
		 "address": {"formatted": "3 Third St"}}
	]
}`

func newRouteServer(t *testing.T) *httptest.Server {
	t.Helper()

	auth := &authStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/authenticate", auth.handle)
	mux.HandleFunc("/routes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query.limit") == "" {
			t.Error("missing query.limit parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"routes": [
			{"id": "rt_0", "name": "R099"},
			{"id": "rt_1", "name": "R100"}
		]}`))
	})
	mux.HandleFunc("/routes/rt_1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(routeDetail))
	})
	mux.HandleFunc("/routes/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("route not found"))
	})

	return httptest.NewServer(mux)
}

func TestGetRouteByIDNotFoundIsValue(t *testing.T) {
	srv := newRouteServer(t)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	route, err := c.GetRouteByID(context.Background(), "rt_missing")
	if err != nil {
		t.Fatalf("404 should not be an error, got: %v", err)
	}
	if route != nil {
		t.Fatalf("route = %+v, want nil", route)
	}
}

func TestGetRouteByNumber(t *testing.T) {
	srv := newRouteServer(t)
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	// Case-insensitive match on name.
	route, err := c.GetRouteByNumber(context.Background(), "r100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route == nil || route.ID != "rt_1" {
		t.Fatalf("route = %+v, want rt_1", route)
	}
	if len(route.Stops) != 3 {
		t.Errorf("stops = %d, want full detail with 3", len(route.Stops))
	}

	// Match on id works too.
	route, err = c.GetRouteByNumber(context.Background(), "RT_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route == nil || route.ID != "rt_1" {
		t.Fatalf("route = %+v, want rt_1", route)
	}

	// Unknown number is an absent value.
	route, err = c.GetRouteByNumber(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route != nil {
		t.Fatalf("route = %+v, want nil", route)
	}
}

func TestGetIncompleteStops(t *testing.T) {
	srv := newRouteServer(t)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	stops, err := c.GetIncompleteStops(context.Background(), "rt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stops) != 2 {
		t.Fatalf("incomplete stops = %d, want 2", len(stops))
	}
	// Route order preserved.
	if stops[0].ID != "stop_2" || stops[1].ID != "stop_3" {
		t.Errorf("stop order = %s, %s", stops[0].ID, stops[1].ID)
	}

	stops, err = c.GetIncompleteStops(context.Background(), "rt_missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stops) != 0 {
		t.Errorf("absent route should yield empty slice, got %d stops", len(stops))
	}
}

func TestGetRouteSummary(t *testing.T) {
	srv := newRouteServer(t)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	summary, err := c.GetRouteSummary(context.Background(), "rt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalStops != 3 || summary.IncompleteStops != 2 || summary.DeliveredStops != 1 {
		t.Errorf("summary counts = %+v", summary)
	}
	if summary.StatusBreakdown["PENDING"] != 1 || summary.StatusBreakdown["DELIVERED"] != 1 {
		t.Errorf("breakdown = %+v", summary.StatusBreakdown)
	}
	if summary.Driver.Name != "Dana" || summary.ScheduledFor != "2026-08-28T08:00:00Z" {
		t.Errorf("summary metadata = %+v", summary)
	}

	summary, err = c.GetRouteSummary(context.Background(), "rt_missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalStops != 0 || summary.RouteID != "" {
		t.Errorf("absent route should yield zero summary, got %+v", summary)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "secret"); err == nil {
		t.Error("expected error for missing client id")
	}
	if _, err := NewClient("id", "  "); err == nil {
		t.Error("expected error for blank secret")
	}
}
