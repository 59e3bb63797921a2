// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package calcapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	calc "github.com/probechain/probe-calc"
	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/lang/symbolic"
)

// kindRequest marks errors in the request itself rather than in an expression.
const kindRequest = "request"

type expressionRequest struct {
	Expression string    `json:"expression"`
	Mode       calc.Mode `json:"mode,omitempty"`
}

type evaluateResponse struct {
	Result int64 `json:"result"`
}

type simplifyResponse struct {
	Expression   string           `json:"expression"`
	Constant     int64            `json:"constant"`
	Coefficients map[string]int64 `json:"coefficients"`
}

type batchRequest struct {
	Expressions []string `json:"expressions"`
}

type batchItem struct {
	Expression string `json:"expression"`
	Result     *int64 `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

type batchResponse struct {
	Results []batchItem `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req expressionRequest
	if !s.decode(w, r, &req) {
		return
	}
	v, err := s.engine.Evaluate(req.Expression)
	if err != nil {
		s.requestLogger(r).Debug("Evaluation failed", "expr", req.Expression, "err", err)
		writeExpressionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{Result: v})
}

func (s *Server) handleSimplify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req expressionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Mode.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindRequest})
		return
	}
	terms, err := s.engine.Reduce(req.Expression, req.Mode)
	if err != nil {
		s.requestLogger(r).Debug("Simplification failed", "expr", req.Expression, "err", err)
		writeExpressionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSimplifyResponse(terms))
}

func newSimplifyResponse(terms symbolic.Terms) simplifyResponse {
	resp := simplifyResponse{
		Expression:   symbolic.Rebuild(terms).String(),
		Constant:     terms.Constant(),
		Coefficients: make(map[string]int64),
	}
	for _, name := range terms.Variables() {
		resp.Coefficients[name] = terms[name]
	}
	return resp
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if limit := s.config.BatchLimit; limit > 0 && len(req.Expressions) > limit {
		err := fmt.Errorf("batch of %d expressions exceeds the limit of %d", len(req.Expressions), limit)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindRequest})
		return
	}
	results := make([]batchItem, len(req.Expressions))
	g, ctx := errgroup.WithContext(r.Context())
	if s.config.BatchWorkers > 0 {
		g.SetLimit(s.config.BatchWorkers)
	}
	for i, src := range req.Expressions {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.evaluateItem(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.requestLogger(r).Debug("Batch abandoned", "size", len(req.Expressions), "err", err)
		return
	}
	s.requestLogger(r).Debug("Evaluated batch", "size", len(req.Expressions))
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func (s *Server) evaluateItem(src string) batchItem {
	item := batchItem{Expression: src}
	v, err := s.engine.Evaluate(src)
	if err != nil {
		item.Error, item.Kind = err.Error(), calcerr.Kind(err)
		return item
	}
	item.Result = &v
	return item
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"cached": s.engine.CacheLen(),
	})
}

// decode reads a JSON request body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := r.Body
	if s.config.MaxBodySize > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.requestLogger(r).Warn("Malformed request", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request: " + err.Error(), Kind: kindRequest})
		return false
	}
	return true
}

// writeExpressionError answers 400 for expression errors, 500 otherwise.
func writeExpressionError(w http.ResponseWriter, err error) {
	status, kind := http.StatusBadRequest, calcerr.Kind(err)
	if kind == "internal" {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
