// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package answers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := NewService(context.Background(), ServiceConfig{
		SessionTTL: time.Minute,
		// SelectorSeed zero keeps answer selection deterministic.
	})
	require.NoError(t, err, "service must load from embedded defaults")

	router := gin.New()
	v1 := router.Group("/v1")
	RegisterRoutes(v1, NewHandlers(svc))
	return router
}

func postAsk(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAsk_DirectAnswer(t *testing.T) {
	router := newTestRouter(t)

	w := postAsk(t, router, AskRequest{Question: "ما حكم الصلاة"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID string `json:"session_id"`
		RequestID string `json:"request_id"`
		Kind      string `json:"kind"`
		Result    struct {
			Intent  string `json:"intent"`
			Keyword string `json:"keyword"`
			Answer  string `json:"answer"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "answer", resp.Kind)
	require.Equal(t, "حكم", resp.Result.Intent)
	require.Equal(t, "الصلاة", resp.Result.Keyword)
	require.NotEmpty(t, resp.Result.Answer)
	require.NotEmpty(t, resp.SessionID)
	require.NotEmpty(t, resp.RequestID)
}

func TestHandleAsk_SessionThreadsContext(t *testing.T) {
	router := newTestRouter(t)

	// Keyword only: the service asks for the intent and keeps the context.
	w := postAsk(t, router, AskRequest{Question: "الصلاة"})
	require.Equal(t, http.StatusOK, w.Code)

	var first struct {
		SessionID string `json:"session_id"`
		Kind      string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Equal(t, "clarify:intent", first.Kind)
	require.NotEmpty(t, first.SessionID)

	// Intent-only follow-up on the same session resolves.
	w = postAsk(t, router, AskRequest{Question: "حكم", SessionID: first.SessionID})
	require.Equal(t, http.StatusOK, w.Code)

	var second struct {
		SessionID string `json:"session_id"`
		Kind      string `json:"kind"`
		Result    struct {
			Keyword string `json:"keyword"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Equal(t, "answer", second.Kind)
	require.Equal(t, "الصلاة", second.Result.Keyword)
	require.Equal(t, first.SessionID, second.SessionID)
}

func TestHandleAsk_ExplicitContextWins(t *testing.T) {
	router := newTestRouter(t)

	body := map[string]any{
		"question": "حكم",
		"context":  map[string]any{"keyword": "الصيام"},
	}
	w := postAsk(t, router, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Kind   string `json:"kind"`
		Result struct {
			Keyword string `json:"keyword"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "answer", resp.Kind)
	require.Equal(t, "الصيام", resp.Result.Keyword)
}

func TestHandleAsk_MissingQuestion(t *testing.T) {
	router := newTestRouter(t)

	w := postAsk(t, router, map[string]any{"question": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "MISSING_QUESTION", resp.Code)
}

func TestHandleAsk_QuestionTooLong(t *testing.T) {
	router := newTestRouter(t)

	long := make([]rune, MaxQuestionRunes+1)
	for i := range long {
		long[i] = 'س'
	}
	w := postAsk(t, router, AskRequest{Question: string(long)})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "QUESTION_TOO_LONG", resp.Code)
}

func TestHandleAsk_RequestIDEchoed(t *testing.T) {
	router := newTestRouter(t)

	data, _ := json.Marshal(AskRequest{Question: "ما حكم الصلاة"})
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "req-123", resp.RequestID)
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Greater(t, resp.Records, 0)
}

func TestRateLimiter_Rejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimiter(1, 1))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}
