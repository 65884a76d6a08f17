// Package web serves an image store over HTTP.
//
// The API lives under /imgStore: list, read, delete and a two-phase insert.
// Every other request is answered with static files from the web root.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Defaults for the server configuration
const (
	DefaultListenAddress = "localhost:8000"
	DefaultWebRoot       = "."
	DefaultUploadDir     = "/tmp"
)

// Config of the web server
type Config struct {
	// ListenAddress is the host:port to listen on. It is also the host
	// clients are redirected to after a change.
	ListenAddress string `json:"listen" yaml:"listen"`

	// WebRoot is the directory static files are served from
	WebRoot string `json:"webRoot" yaml:"webRoot"`

	// UploadDir is where uploaded chunks are staged before insertion
	UploadDir string `json:"uploadDir" yaml:"uploadDir"`
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() Config {
	return Config{
		ListenAddress: DefaultListenAddress,
		WebRoot:       DefaultWebRoot,
		UploadDir:     DefaultUploadDir,
	}
}

// Server exposes a single open store.
//
// Handlers run one at a time: the store is not safe for concurrent use.
type Server struct {
	mu     sync.Mutex
	store  *imgstore.Store
	cfg    Config
	static http.Handler
	options
}

// NewServer builds a server for an open store
func NewServer(store *imgstore.Store, cfg Config, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, status.ErrInvalidArgument.Wrapf("web server requires an open store")
	}
	defaults := DefaultConfig()
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = defaults.ListenAddress
	}
	if cfg.WebRoot == "" {
		cfg.WebRoot = defaults.WebRoot
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = defaults.UploadDir
	}

	o := defaultOptions(opts)
	return &Server{
		store:   store,
		cfg:     cfg,
		static:  http.FileServer(afero.NewHttpFs(o.fs).Dir(cfg.WebRoot)),
		options: o,
	}, nil
}

// Config returns the effective configuration of the server
func (s *Server) Config() Config {
	return s.cfg
}

// ListenAndServe serves requests until ctx is done, then shuts the server
// down, leaving in-flight requests some time to complete.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hsrv := &http.Server{
		Addr:         s.cfg.ListenAddress,
		Handler:      InitRouter(s),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.l.Info("serving image store",
			zap.String("address", "http://"+s.cfg.ListenAddress),
			zap.String("store", s.store.Path()),
			zap.String("web_root", s.cfg.WebRoot),
		)
		errc <- hsrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", s.cfg.ListenAddress, err)
	case <-ctx.Done():
	}

	s.l.Info("shutting down server", zap.Duration("grace_period", s.shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return hsrv.Shutdown(shutdownCtx)
}

// replyReload redirects the client to the index page
func (s *Server) replyReload(w http.ResponseWriter) {
	w.Header().Set("Location", "http://"+s.cfg.ListenAddress+"/index.html")
	w.WriteHeader(http.StatusFound)
}

// replyError answers with the fixed message of the kind of err
func (s *Server) replyError(w http.ResponseWriter, r *http.Request, err error) {
	s.l.Debug("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintf(w, "Error: %s\r\n", status.Message(err))
}
