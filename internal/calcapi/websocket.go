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
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	calc "github.com/probechain/probe-calc"
	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/log"
)

// Websocket operations.
const (
	opEvaluate = "evaluate"
	opSimplify = "simplify"
)

// wsRequest is one text frame sent by a websocket client. Op defaults to
// evaluate.
type wsRequest struct {
	ID         string    `json:"id,omitempty"`
	Op         string    `json:"op,omitempty"`
	Expression string    `json:"expression"`
	Mode       calc.Mode `json:"mode,omitempty"`
}

// wsReply answers exactly one wsRequest, in order.
type wsReply struct {
	ID         string `json:"id,omitempty"`
	Result     *int64 `json:"result,omitempty"`
	Expression string `json:"expression,omitempty"`
	Error      string `json:"error,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := s.requestLogger(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("Websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	if s.config.MaxBodySize > 0 {
		conn.SetReadLimit(s.config.MaxBodySize)
	}
	logger.Debug("Websocket connection established", "remote", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Websocket read error", "err", err)
			}
			return
		}
		reply := s.handleFrame(data, logger)
		if err := conn.WriteJSON(reply); err != nil {
			logger.Debug("Websocket write error", "err", err)
			return
		}
	}
}

func (s *Server) handleFrame(data []byte, logger log.Logger) wsReply {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Warn("Invalid websocket message", "err", err)
		return wsReply{Error: "malformed message: " + err.Error(), Kind: kindRequest}
	}
	reply := wsReply{ID: req.ID}
	switch req.Op {
	case opEvaluate, "":
		v, err := s.engine.Evaluate(req.Expression)
		if err != nil {
			reply.Error, reply.Kind = err.Error(), calcerr.Kind(err)
			break
		}
		reply.Result = &v
	case opSimplify:
		if err := req.Mode.Validate(); err != nil {
			reply.Error, reply.Kind = err.Error(), kindRequest
			break
		}
		e, err := s.engine.SimplifyWith(req.Expression, req.Mode)
		if err != nil {
			reply.Error, reply.Kind = err.Error(), calcerr.Kind(err)
			break
		}
		reply.Expression = e.String()
	default:
		reply.Error, reply.Kind = "unknown op: "+req.Op, kindRequest
	}
	return reply
}
