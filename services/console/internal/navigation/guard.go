package navigation

import "net/url"

// Decision is the outcome of a guard check. An empty Redirect means the navigation proceeds.
type Decision struct {
	Redirect string
}

// Allowed reports whether the navigation proceeds unchanged.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Evaluate runs before every navigation. Anonymous visitors of protected routes are sent
// to Login with the intended destination in ?redirect=; signed-in visitors of guest-only
// routes are sent to Dashboard.
func Evaluate(meta Meta, authenticated bool, fullPath string) Decision {
	switch {
	case meta.RequiresAuth && !authenticated:
		q := url.Values{"redirect": {fullPath}}
		return Decision{Redirect: MustLookup(RouteLogin).Path(nil) + "?" + q.Encode()}
	case meta.GuestOnly && authenticated:
		return Decision{Redirect: MustLookup(RouteDashboard).Path(nil)}
	default:
		return Decision{}
	}
}
