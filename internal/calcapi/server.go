// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package calcapi serves expression evaluation and simplification over HTTP
// and websocket.
package calcapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	calc "github.com/probechain/probe-calc"
	"github.com/probechain/probe-calc/log"
)

const (
	requestIDHeader = "X-Request-Id"
	shutdownTimeout = 5 * time.Second
)

// Server answers API requests with a shared Engine.
type Server struct {
	engine   *calc.Engine
	config   Config
	log      log.Logger
	handler  http.Handler
	upgrader websocket.Upgrader
}

// NewServer creates the API server and its routes. Nothing is bound until
// ListenAndServe or Serve is called.
func NewServer(engine *calc.Engine, config Config) *Server {
	s := &Server{
		engine: engine,
		config: config,
		log:    log.New("module", "api"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     wsOriginChecker(config.CorsOrigins),
		},
	}
	router := httprouter.New()
	router.POST("/v1/evaluate", s.handleEvaluate)
	router.POST("/v1/simplify", s.handleSimplify)
	router.POST("/v1/batch", s.handleBatch)
	router.GET("/v1/ws", s.handleWebsocket)
	router.GET("/v1/health", s.handleHealth)

	s.handler = s.withRequestID(withRateLimit(newCorsHandler(router, config.CorsOrigins), config.RateLimit, config.RateBurst))
	return s
}

// Handler returns the root HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe binds the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done, then shuts the
// server down gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.log.Info("HTTP API started", "endpoint", listener.Addr(), "cors", s.config.CorsOrigins)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(listener) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if serveErr := <-errc; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}
	s.log.Info("HTTP API stopped", "endpoint", listener.Addr())
	return err
}

type loggerKey struct{}

// withRequestID tags every request with an id, echoed in the response
// headers and attached to the request logger.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		logger := s.log.New("reqid", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey{}, logger)))
		logger.Debug("Served request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

// requestLogger returns the logger attached by withRequestID.
func (s *Server) requestLogger(r *http.Request) log.Logger {
	if l, ok := r.Context().Value(loggerKey{}).(log.Logger); ok {
		return l
	}
	return s.log
}

// withRateLimit rejects requests above limit per second with 429. A zero
// limit disables it.
func withRateLimit(next http.Handler, limit float64, burst int) http.Handler {
	if limit <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded", Kind: kindRequest})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	// disable CORS support if user has not specified a custom CORS configuration
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

// wsOriginChecker accepts websocket handshakes from the allowed origins.
// Without a list, the upgrader's same-origin check applies.
func wsOriginChecker(allowedOrigins []string) func(*http.Request) bool {
	if len(allowedOrigins) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}
