// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package answers

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxQuestionRunes bounds a single question.
const MaxQuestionRunes = 1000

// Handlers carries the service into gin handler methods.
type Handlers struct {
	svc *Service
}

// NewHandlers builds the handler set.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// getOrCreateRequestID returns the inbound X-Request-ID or mints one, and
// stores it on the gin context for downstream middleware.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		c.Set("request_id", id)
		return id
	}
	id := uuid.NewString()
	c.Set("request_id", id)
	return id
}

// HandleAsk handles POST /v1/ask.
//
// Description:
//
//	Resolves one question within a conversation. The response always
//	carries the session ID to pass back on the next turn; clarification
//	outcomes additionally carry the pending context so stateless callers
//	can thread it explicitly instead.
//
// Response:
//
//	200 OK: AskResponse
//	400 Bad Request: Missing or oversized question
//
// Thread Safety: Safe for concurrent use.
func (h *Handlers) HandleAsk(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleAsk")

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "question is required",
			Code:  "MISSING_QUESTION",
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "question is required",
			Code:  "MISSING_QUESTION",
		})
		return
	}
	if utf8.RuneCountInString(req.Question) > MaxQuestionRunes {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "question exceeds maximum length",
			Code:  "QUESTION_TOO_LONG",
		})
		return
	}

	result, sessionID := h.svc.Ask(c.Request.Context(), req.Question, req.SessionID, req.Context)
	logger.Info("question resolved",
		slog.String("session_id", sessionID),
		slog.String("kind", result.Kind()),
	)

	c.JSON(http.StatusOK, AskResponse{
		SessionID: sessionID,
		RequestID: requestID,
		Kind:      result.Kind(),
		Result:    result,
	})
}

// HandleHealth handles GET /v1/health. Liveness only.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleReady handles GET /v1/ready. Ready means the corpus is serving.
func (h *Handlers) HandleReady(c *gin.Context) {
	if !h.svc.Ready() {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Records: h.svc.CorpusSize()})
}
