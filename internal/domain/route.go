package domain

// StatusDelivered is the terminal delivery status reported by the route
// service. Every other status counts as incomplete.
const StatusDelivered = "DELIVERED"

// Contact holds the customer details attached to a stop.
// Phone may be blank when the route was imported without one.
type Contact struct {
	Name  string
	Phone string
}

// Address is the formatted delivery address of a stop.
type Address struct {
	Formatted string
}

// Driver identifies the driver assigned to a route.
type Driver struct {
	ID   string
	Name string
}

// Represents a single delivery location within a route.
// A Stop carries its own delivery status and customer contact; it has no
// lifecycle independent of the route that owns it.
type Stop struct {
	ID             string
	DeliveryStatus string
	Contact        Contact
	Address        Address
}

// Delivered reports whether the stop has reached its terminal status.
func (s Stop) Delivered() bool {
	return s.DeliveryStatus == StatusDelivered
}

// Represents a planned sequence of delivery stops for a given day/driver.
// A Route is an immutable snapshot fetched from the route service per
// request; it is never cached across requests.
type Route struct {
	ID           string
	Name         string
	ScheduledFor string
	Driver       Driver
	Stops        []Stop
}

// IncompleteStops returns the stops not yet delivered, preserving the
// route's stop order.
func (r *Route) IncompleteStops() []Stop {
	out := make([]Stop, 0, len(r.Stops))
	for _, s := range r.Stops {
		if !s.Delivered() {
			out = append(out, s)
		}
	}
	return out
}

// RouteSummary is a status-count breakdown of a route's stops.
type RouteSummary struct {
	RouteID         string
	RouteName       string
	TotalStops      int
	IncompleteStops int
	DeliveredStops  int
	StatusBreakdown map[string]int
	Driver          Driver
	ScheduledFor    string
}

// Summary computes the per-status breakdown for the route.
func (r *Route) Summary() RouteSummary {
	counts := make(map[string]int, 4)
	incomplete := 0
	for _, s := range r.Stops {
		counts[s.DeliveryStatus]++
		if !s.Delivered() {
			incomplete++
		}
	}

	return RouteSummary{
		RouteID:         r.ID,
		RouteName:       r.Name,
		TotalStops:      len(r.Stops),
		IncompleteStops: incomplete,
		DeliveredStops:  counts[StatusDelivered],
		StatusBreakdown: counts,
		Driver:          r.Driver,
		ScheduledFor:    r.ScheduledFor,
	}
}
