package handler

import (
	"context"
	"log/slog"
	"net/http"

	"finchat/internal/chat"

	"github.com/gin-gonic/gin"
)

type ChatService interface {
	Process(ctx context.Context, text string) (chat.Result, error)
}

type ChatHandler struct {
	service ChatService
}

func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	res, err := h.service.Process(c.Request.Context(), req.Text)
	if err != nil {
		slog.Error("chat request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Response: res.Response, Backend: res.Backend})
}

func (h *ChatHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
