// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package answers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all answers routes with the router group.
//
// Description:
//
//	Registers the /v1 endpoints. The group should already carry any shared
//	middleware (tracing, rate limiting, metrics).
//
// Endpoints:
//
//	POST /v1/ask - Resolve one question within a conversation
//	GET  /v1/health - Liveness check
//	GET  /v1/ready - Readiness check (corpus loaded)
//
// Example:
//
//	svc, _ := answers.NewService(ctx, answers.DefaultServiceConfig())
//	handlers := answers.NewHandlers(svc)
//
//	v1 := router.Group("/v1")
//	answers.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	rg.POST("/ask", handlers.HandleAsk)
	rg.GET("/health", handlers.HandleHealth)
	rg.GET("/ready", handlers.HandleReady)
}
