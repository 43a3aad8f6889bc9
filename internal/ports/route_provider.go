package ports

import (
	"context"

	"route-notify-service/internal/domain"
)

// Port: a boundary for resolving routes and their delivery progress from
// the external route-planning service.
//
// Lookups return (nil, nil) when the route does not exist; absence is a
// value here, never an error.
type RouteProvider interface {
	// Resolve a route by its human-facing number or identifier
	// (case-insensitive exact match) and return its full detail.
	GetRouteByNumber(ctx context.Context, number string) (*domain.Route, error)

	// Return the route's stops not yet delivered, in route order.
	// An absent route yields an empty slice.
	GetIncompleteStops(ctx context.Context, routeID string) ([]domain.Stop, error)

	// Return a status-count breakdown for the route.
	// An absent route yields a zero-value summary.
	GetRouteSummary(ctx context.Context, routeID string) (domain.RouteSummary, error)
}
