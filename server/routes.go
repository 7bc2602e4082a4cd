package server

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/discovery/component"
)

// systemPaths are the probes added by RegisterDefaultEndpoints. They are
// listed after the API routes in the startup summary.
var systemPaths = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/ready":   true,
	"/info":    true,
	"/metrics": true,
}

var methodRank = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

func rankMethod(m string) int {
	if i := slices.Index(methodRank, m); i >= 0 {
		return i
	}
	return len(methodRank)
}

// summarizeRoutes orders routes as API paths, then system paths, each by
// path and then method, and gives handlers short names.
func summarizeRoutes(infos gin.RoutesInfo) []component.Route {
	infos = slices.Clone(infos)
	slices.SortFunc(infos, func(a, b gin.RouteInfo) int {
		if sa, sb := systemPaths[a.Path], systemPaths[b.Path]; sa != sb {
			if sa {
				return 1
			}
			return -1
		}
		return cmp.Or(
			strings.Compare(a.Path, b.Path),
			cmp.Compare(rankMethod(a.Method), rankMethod(b.Method)),
		)
	})

	out := make([]component.Route, len(infos))
	for i, r := range infos {
		name := formatHandlerName(r.Handler)
		if systemPaths[r.Path] {
			name += " (system)"
		}
		out[i] = component.Route{Method: r.Method, Path: r.Path, Handler: name}
	}
	return out
}

// formatHandlerName turns Gin's reflected handler names into something
// readable:
//
//	github.com/kbukum/discovery/api.(*Handler).GetService-fm -> Handler.GetService
//	github.com/kbukum/discovery/server/endpoint.Health.func1 -> health
func formatHandlerName(full string) string {
	name := full[strings.LastIndex(full, "/")+1:]
	name = strings.TrimSuffix(name, "-fm")
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	if strings.HasPrefix(parts[len(parts)-1], "func") {
		// closure: name it after the enclosing constructor
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}
	if len(parts) > 1 && parts[0] == strings.ToLower(parts[0]) {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}
