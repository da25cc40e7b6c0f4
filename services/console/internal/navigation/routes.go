// Package navigation holds the console route table and the pre-navigation guard.
package navigation

import (
	"net/url"
	"strings"
)

// Route names.
const (
	RouteHome        = "Home"
	RouteLogin       = "Login"
	RouteRegister    = "Register"
	RouteDashboard   = "Dashboard"
	RouteStations    = "Stations"
	RouteNewStation  = "NewStation"
	RouteEditStation = "EditStation"
	RouteMap         = "Map"
	RouteNotFound    = "NotFound"
)

// Meta carries the access flags of a route.
type Meta struct {
	RequiresAuth bool `json:"requiresAuth"`
	GuestOnly    bool `json:"guestOnly"`
}

// Route is one navigable view. Pattern uses chi syntax.
type Route struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Meta    Meta   `json:"meta"`
}

// Routes is the console route table. NotFound has no pattern; it is the router's fallback.
var Routes = []Route{
	{Name: RouteHome, Pattern: "/"},
	{Name: RouteLogin, Pattern: "/login", Meta: Meta{GuestOnly: true}},
	{Name: RouteRegister, Pattern: "/register", Meta: Meta{GuestOnly: true}},
	{Name: RouteDashboard, Pattern: "/dashboard", Meta: Meta{RequiresAuth: true}},
	{Name: RouteStations, Pattern: "/stations", Meta: Meta{RequiresAuth: true}},
	{Name: RouteNewStation, Pattern: "/stations/new", Meta: Meta{RequiresAuth: true}},
	{Name: RouteEditStation, Pattern: "/stations/{id}/edit", Meta: Meta{RequiresAuth: true}},
	{Name: RouteMap, Pattern: "/map/{stationId}", Meta: Meta{RequiresAuth: true}},
	{Name: RouteNotFound},
}

// Lookup finds a route by name.
func Lookup(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Route {
	r, ok := Lookup(name)
	if !ok {
		panic("navigation: unknown route " + name)
	}
	return r
}

// Path fills {param} placeholders. Missing optional trailing params are dropped,
// so Map without stationId resolves to /map.
func (r Route) Path(params map[string]string) string {
	segments := strings.Split(r.Pattern, "/")
	out := segments[:0]
	for _, seg := range segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			v := params[strings.Trim(seg, "{}")]
			if v == "" {
				continue
			}
			seg = url.PathEscape(v)
		}
		out = append(out, seg)
	}
	path := strings.Join(out, "/")
	if path == "" {
		return "/"
	}
	return path
}

// SafeRedirect returns target when it is a local absolute path, otherwise fallback.
func SafeRedirect(target, fallback string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
