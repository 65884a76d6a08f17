package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Route maps a path and a method to a handler
type Route struct {
	Pattern string
	Method  string
	Handler http.HandlerFunc
}

// Routes of the image store API, in registration order
func (s *Server) Routes() []Route {
	return []Route{
		{Pattern: "/imgStore/list", Method: http.MethodGet, Handler: s.HandleList()},
		{Pattern: "/imgStore/read", Method: http.MethodGet, Handler: s.HandleRead()},
		{Pattern: "/imgStore/delete", Method: http.MethodGet, Handler: s.HandleDelete()},
		{Pattern: "/imgStore/insert", Method: http.MethodPost, Handler: s.HandleInsert()},
	}
}

// InitRouter builds the handler serving srv.
//
// Requests matching no route, including API paths called with another
// method, are served from the web root.
func InitRouter(srv *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(srv.l))
	r.Use(middleware.Recoverer)

	if srv.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(srv.gatherer, promhttp.HandlerOpts{}))
	}
	for _, route := range srv.Routes() {
		r.Method(route.Method, route.Pattern, route.Handler)
	}

	r.NotFound(srv.static.ServeHTTP)
	r.MethodNotAllowed(srv.static.ServeHTTP)
	return r
}

func requestLogger(zlg *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				zlg.Info("request",
					zap.String("method", r.Method),
					zap.String("uri", r.RequestURI),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
