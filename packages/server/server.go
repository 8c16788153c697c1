package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"codesensei/packages/config"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type Server struct {
	httpServer *http.Server
	certFile   string
	keyFile    string
}

// New wraps handler for cleartext HTTP/2 and, when cfg.UseTLS reports both
// certificate files present, prepares to terminate TLS itself.
func New(cfg *config.Config, handler http.Handler) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           h2c.NewHandler(handler, &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	if cfg.UseTLS() {
		s.certFile = cfg.Server.TLSCertFile
		s.keyFile = cfg.Server.TLSKeyFile
	}
	return s
}

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// TLS reports whether Start serves HTTPS.
func (s *Server) TLS() bool { return s.certFile != "" }

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	var err error
	if s.TLS() {
		slog.Info("Starting API server with HTTPS", "addr", ln.Addr().String(), "cert", s.certFile)
		err = s.httpServer.ServeTLS(ln, s.certFile, s.keyFile)
	} else {
		slog.Info("Starting API server with HTTP", "addr", ln.Addr().String())
		err = s.httpServer.Serve(ln)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
