package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the handlers wired in main and consumed by the
// routes package.
type HandlerBundle struct {
	AssistantQueryHandler gin.HandlerFunc
}
