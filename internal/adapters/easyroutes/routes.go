package easyroutes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"route-notify-service/internal/domain"
	"route-notify-service/internal/platform/obs"
)

type routesResponse struct {
	Routes []routeJSON `json:"routes"`
}

type routeJSON struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	ScheduledFor string     `json:"scheduledFor"`
	Driver       driverJSON `json:"driver"`
	Stops        []stopJSON `json:"stops"`
}

type driverJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type stopJSON struct {
	ID             string      `json:"id"`
	DeliveryStatus string      `json:"deliveryStatus"`
	Contact        contactJSON `json:"contact"`
	Address        addressJSON `json:"address"`
}

type contactJSON struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type addressJSON struct {
	Formatted string `json:"formatted"`
}

func (r routeJSON) toDomain() *domain.Route {
	route := &domain.Route{
		ID:           r.ID,
		Name:         r.Name,
		ScheduledFor: r.ScheduledFor,
		Driver:       domain.Driver{ID: r.Driver.ID, Name: r.Driver.Name},
		Stops:        make([]domain.Stop, 0, len(r.Stops)),
	}

	for _, s := range r.Stops {
		status := s.DeliveryStatus
		if status == "" {
			status = "UNKNOWN"
		}

		route.Stops = append(route.Stops, domain.Stop{
			ID:             s.ID,
			DeliveryStatus: status,
			Contact:        domain.Contact{Name: s.Contact.Name, Phone: s.Contact.Phone},
			Address:        domain.Address{Formatted: s.Address.Formatted},
		})
	}

	return route
}

// GetRoutes lists a single page of routes. No automatic pagination: the
// caller gets exactly the page it asked for.
func (c *Client) GetRoutes(ctx context.Context, includeArchived bool, limit int) (_ []*domain.Route, err error) {
	defer obs.Time(ctx, "easyroutes.GetRoutes")(&err)

	query := url.Values{}
	query.Set("query.limit", strconv.Itoa(limit))
	query.Set("query.includeArchived", strconv.FormatBool(includeArchived))

	var decoded routesResponse
	if err := c.request(ctx, http.MethodGet, "/routes", query, &decoded); err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	out := make([]*domain.Route, 0, len(decoded.Routes))
	for _, r := range decoded.Routes {
		out = append(out, r.toDomain())
	}

	return out, nil
}

// GetRouteByID fetches one route with its full stop list. A 404-class
// failure is an absent route, not an error.
func (c *Client) GetRouteByID(ctx context.Context, id string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "easyroutes.GetRouteByID")(&err)

	var decoded routeJSON
	if err := c.request(ctx, http.MethodGet, "/routes/"+id, nil, &decoded); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route %q: %w", id, err)
	}

	return decoded.toDomain(), nil
}

// GetRouteByNumber resolves a human-facing route number against the route
// listing: case-insensitive exact match on route name or id, first match
// in listing order wins. The matched route's full detail is returned;
// no match yields (nil, nil).
func (c *Client) GetRouteByNumber(ctx context.Context, number string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "easyroutes.GetRouteByNumber")(&err)

	routes, err := c.GetRoutes(ctx, false, 100)
	if err != nil {
		return nil, fmt.Errorf("search route %q: %w", number, err)
	}

	for _, r := range routes {
		if strings.EqualFold(r.Name, number) || strings.EqualFold(r.ID, number) {
			route, err := c.GetRouteByID(ctx, r.ID)
			if err != nil {
				return nil, fmt.Errorf("search route %q: %w", number, err)
			}
			return route, nil
		}
	}

	return nil, nil
}

// GetIncompleteStops returns the route's stops whose delivery status is
// not DELIVERED, in route order. An absent route yields an empty slice.
func (c *Client) GetIncompleteStops(ctx context.Context, routeID string) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "easyroutes.GetIncompleteStops")(&err)

	route, err := c.GetRouteByID(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("get incomplete stops for route %q: %w", routeID, err)
	}
	if route == nil {
		return []domain.Stop{}, nil
	}

	return route.IncompleteStops(), nil
}

// GetRouteSummary returns the route's status breakdown. An absent route
// yields a zero-value summary.
func (c *Client) GetRouteSummary(ctx context.Context, routeID string) (_ domain.RouteSummary, err error) {
	defer obs.Time(ctx, "easyroutes.GetRouteSummary")(&err)

	route, err := c.GetRouteByID(ctx, routeID)
	if err != nil {
		return domain.RouteSummary{}, fmt.Errorf("get route summary for %q: %w", routeID, err)
	}
	if route == nil {
		return domain.RouteSummary{}, nil
	}

	return route.Summary(), nil
}
