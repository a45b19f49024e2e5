package app

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/delish/app/routes"
	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/pkg/metrics"
	"github.com/shashiranjanraj/delish/pkg/middleware"
	"github.com/shashiranjanraj/delish/pkg/reqid"
	"github.com/shashiranjanraj/delish/pkg/response"
	"github.com/shashiranjanraj/delish/pkg/router"
)

// Handler builds the HTTP handler.
func (a *Application) Handler() http.Handler {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics  outermost for accurate total latency
	//  2. Recovery            catches panics before they kill the goroutine
	//  3. Request ID          inject unique ID before anything logs
	//  4. Logger              logs request_id from context
	//  5. CORS                set CORS headers
	//  6. Rate limiter        reject abusers early
	//  7. User cookie         assign the anonymous customer id
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(a.Limiter.Middleware)
	r.Use(middleware.UserCookie)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Prometheus /metrics endpoint.
	r.Get("/metrics", "metrics", metrics.Handler())

	// Uploaded payment proofs and menu images on the local disk, when they
	// are served by this process rather than a CDN.
	prefix := strings.TrimRight(config.StorageURL(), "/")
	if local, ok := a.Disks.Local(); ok && strings.HasPrefix(prefix, "/") {
		r.Handle(prefix+"/*", "uploads",
			http.StripPrefix(prefix, http.FileServer(http.Dir(local.Root()))))
	}

	routes.Register(r, a.Controllers())
	return r.Handler()
}
