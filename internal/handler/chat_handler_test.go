package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finchat/internal/chat"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeChatService struct {
	result chat.Result
	err    error
	texts  []string
}

func (f *fakeChatService) Process(_ context.Context, text string) (chat.Result, error) {
	f.texts = append(f.texts, text)
	return f.result, f.err
}

func newTestChatRouter(service ChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(service)
	r.POST("/api/chat", h.Chat)
	r.GET("/health", h.GetHealth)
	return r
}

func TestChat_OK(t *testing.T) {
	service := &fakeChatService{result: chat.Result{Response: "TSLA analysis", Backend: "anthropic"}}
	r := newTestChatRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"text": "Analyze Tesla (TSLA)"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ChatResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, "TSLA analysis", res.Response)
	assert.Equal(t, "anthropic", res.Backend)
	assert.Equal(t, 1, len(service.texts))
	assert.Equal(t, "Analyze Tesla (TSLA)", service.texts[0])
}

func TestChat_MissingText(t *testing.T) {
	service := &fakeChatService{}
	r := newTestChatRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, len(service.texts))
}

func TestChat_MalformedBody(t *testing.T) {
	service := &fakeChatService{}
	r := newTestChatRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"text": `))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_ServiceError(t *testing.T) {
	service := &fakeChatService{err: errors.New("boom")}
	r := newTestChatRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"text": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHealth(t *testing.T) {
	r := newTestChatRouter(&fakeChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
