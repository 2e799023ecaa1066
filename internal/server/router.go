package server

import (
	"net/http"
	"slices"

	"github.com/charmbracelet/log"
)

// BasicRouter mounts handlers on an [http.ServeMux] behind a shared middleware chain.
//
// Patterns use ServeMux method syntax ("GET /data"), so a known path hit with the wrong method gets a 405.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	patterns    []string
}

// NewBasicRouter returns an empty router with no middleware.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware. It only wraps handlers registered after the call.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle mounts handler at "METHOD path".
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mount(method+" "+path, r.Apply(handler))
}

// Handler mounts handler at each of its [Handler.Routes], wrapping it once.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)
	for _, pattern := range handler.Routes() {
		r.mount(pattern, wrapped)
	}
}

func (r *BasicRouter) mount(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
	r.patterns = append(r.patterns, pattern)
}

// Patterns lists every mounted pattern in registration order.
func (r *BasicRouter) Patterns() []string {
	return slices.Clone(r.patterns)
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler in the middleware chain. The first middleware added runs first.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.middlewares) {
		handler = mw(handler)
	}
	return handler
}

// NewRouter builds the API router with request logging and panic recovery around every handler.
func NewRouter(logger *log.Logger, handlers ...Handler) *BasicRouter {
	r := NewBasicRouter()
	r.Use(Logging(logger), Recover(logger))
	for _, h := range handlers {
		r.Handler(h)
	}
	return r
}
