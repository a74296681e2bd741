// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package answers

import "github.com/daleel-ai/daleel/services/answers/engine"

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	// Question is the raw user question. Required.
	Question string `json:"question" binding:"required"`

	// SessionID continues an existing conversation. Empty starts a new one.
	SessionID string `json:"session_id,omitempty"`

	// Context optionally overrides the session's pending context, for
	// stateless callers that thread it themselves.
	Context *engine.ResolutionContext `json:"context,omitempty"`
}

// AskResponse is the body of a successful resolution.
type AskResponse struct {
	// SessionID identifies the conversation; pass it back on the next turn.
	SessionID string `json:"session_id"`

	// RequestID echoes the per-request correlation ID.
	RequestID string `json:"request_id"`

	// Kind is the outcome label ("answer", "definitions", "split",
	// "clarify:intent", ...).
	Kind string `json:"kind"`

	// Result is the outcome payload; its shape follows Kind.
	Result engine.Result `json:"result"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the body of GET /v1/health and /v1/ready.
type HealthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records,omitempty"`
}
