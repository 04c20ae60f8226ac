package services

import "strings"

const RouteLogin = "/login"

var publicRoutes = map[string]bool{
	"/":        true,
	"/rooms":   true,
	"/contact": true,
	"/login":   true,
	"/signup":  true,
}

// ResolveRoute returns where a client asking for path should land.
// /admin and everything under it requires authentication; unknown paths go
// home.
func ResolveRoute(path string, authenticated bool) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	p := "/" + strings.Trim(path, "/")

	if p == "/admin" || strings.HasPrefix(p, "/admin/") {
		if authenticated {
			return p
		}
		return RouteLogin
	}
	if publicRoutes[p] {
		return p
	}
	if rest, ok := strings.CutPrefix(p, "/rooms/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return p
	}
	return RedirectPublic
}
