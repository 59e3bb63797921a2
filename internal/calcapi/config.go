// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package calcapi

import "time"

// Config holds the HTTP API settings.
type Config struct {
	// ListenAddr is the host:port the server binds to.
	ListenAddr string

	// CorsOrigins lists the origins allowed to make cross-origin requests and
	// to open websocket connections. "*" allows any origin. When empty no
	// CORS headers are sent and websockets require a same-origin request.
	CorsOrigins []string `toml:",omitempty"`

	// BatchLimit caps the number of expressions in a single batch request.
	BatchLimit int

	// BatchWorkers is the number of expressions of a batch evaluated at once.
	BatchWorkers int

	// MaxBodySize caps the size of a request body, in bytes.
	MaxBodySize int64

	// RateLimit is the number of requests per second the server accepts,
	// with bursts of up to RateBurst. Zero disables rate limiting.
	RateLimit float64
	RateBurst int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig contains the default API settings.
var DefaultConfig = Config{
	ListenAddr:   "127.0.0.1:8645",
	BatchLimit:   1024,
	BatchWorkers: 8,
	MaxBodySize:  1 << 20,
	RateBurst:    64,
	ReadTimeout:  30 * time.Second,
	WriteTimeout: 30 * time.Second,
	IdleTimeout:  120 * time.Second,
}
