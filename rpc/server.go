package rpc

import (
	"context"
	"crypto/subtle"
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is a JSON-RPC 2.0 HTTP server. It also serves Prometheus metrics
// on /metrics when given a gatherer.
type Server struct {
	handler   *Handler
	addr      string
	authToken string // empty → no auth required
	tlsCfg    *tls.Config
	srv       *http.Server
	logger    *zap.Logger
	ln        net.Listener
}

// ServerOptions carries the optional parts of a Server.
type ServerOptions struct {
	AuthToken string
	TLS       *tls.Config
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

// NewServer creates a Server on addr. If opts.AuthToken is non-empty, every
// RPC request must carry a matching "Authorization: Bearer <token>" header.
func NewServer(addr string, handler *Handler, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{handler: handler, addr: addr, authToken: opts.AuthToken, tlsCfg: opts.TLS, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHTTP)
	if opts.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		TLSConfig:         opts.TLS,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start binds the port synchronously (so callers know immediately if binding
// fails) then serves requests in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	if s.tlsCfg != nil {
		ln = tls.NewListener(ln, s.tlsCfg)
	}
	s.ln = ln
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("rpc server error", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts down the HTTP server, waiting up to 5 seconds for
// in-flight requests to complete.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "only POST allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.authToken != "" && !s.authorized(r) {
		s.logger.Warn("rpc unauthorized", zap.String("remote", r.RemoteAddr))
		writeJSON(w, errResponse(nil, CodeUnauthorized, "unauthorized"))
		return
	}

	// Instances are small; 1 MB is far above any real payload.
	r.Body = http.MaxBytesReader(w, r.Body, 1*1024*1024)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, errResponse(nil, CodeParseError, err.Error()))
		return
	}
	if req.JSONRPC != "2.0" {
		writeJSON(w, errResponse(req.ID, CodeInvalidRequest, "jsonrpc must be '2.0'"))
		return
	}

	start := time.Now()
	resp := s.handler.Dispatch(req)
	fields := []zap.Field{zap.String("method", req.Method), zap.Duration("elapsed", time.Since(start))}
	if resp.Error != nil {
		fields = append(fields, zap.Int("code", resp.Error.Code), zap.String("message", resp.Error.Message))
	}
	s.logger.Debug("rpc call", fields...)
	writeJSON(w, resp)
}

func (s *Server) authorized(r *http.Request) bool {
	got := []byte(r.Header.Get("Authorization"))
	want := []byte("Bearer " + s.authToken)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
