package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Infoya/FourSeasonsPOC/models"
	"github.com/Infoya/FourSeasonsPOC/services/assistant"
	"github.com/Infoya/FourSeasonsPOC/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler exposes the orchestrated turn over HTTP.
type AssistantHandler struct {
	Service assistant.AssistantService
}

func NewAssistantHandler(svc assistant.AssistantService) *AssistantHandler {
	return &AssistantHandler{Service: svc}
}

// HandleQuery runs one conversational turn. The conversation handle is
// carried in the X-Conversation-Id header and echoed back in the body so
// the frontend can resume on the next turn.
func (h *AssistantHandler) HandleQuery(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "input must not be empty")
		return
	}

	conversationID := c.GetHeader("X-Conversation-Id")

	result, err := h.Service.HandleTurn(c.Request.Context(), req.Input, conversationID)
	if err != nil {
		var runErr *assistant.RunFailedError
		switch {
		case errors.Is(err, assistant.ErrRunTimedOut):
			utils.JSONError(c, http.StatusGatewayTimeout, "Assistant timed out", err.Error())
		case errors.As(err, &runErr):
			utils.JSONError(c, http.StatusBadGateway, "Assistant run failed", runErr.Status)
		default:
			logger.Error("Turn failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Assistant error", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
