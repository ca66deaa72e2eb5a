package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"finchat/internal/chat"
	"finchat/internal/handler"
	"finchat/pkg/llm"
	"finchat/pkg/marketdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	llmClient, err := newLLMClient()
	if err != nil {
		log.Fatalf("completion backend: %v", err)
	}
	slog.Info("completion backend configured", "backend", llmClient.Backend())

	source, err := newMarketData()
	if err != nil {
		log.Fatalf("market data: %v", err)
	}
	slog.Info("market data configured", "provider", source.Name())

	service := chat.NewService(llmClient, source)
	chatHandler := handler.NewChatHandler(service)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/api/chat", chatHandler.Chat)
	r.GET("/health", chatHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func newLLMClient() (llm.Client, error) {
	switch backend := os.Getenv("CHAT_MODEL_BACKEND"); backend {
	case "", "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, errors.New("ANTHROPIC_API_KEY environment variable is not set")
		}
		return llm.NewAnthropicClient(key), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, errors.New("OPENAI_API_KEY environment variable is not set")
		}
		return llm.NewOpenAIClient(key), nil
	default:
		return nil, fmt.Errorf("unknown CHAT_MODEL_BACKEND %q", backend)
	}
}

func newMarketData() (marketdata.Client, error) {
	var source marketdata.Client

	switch provider := os.Getenv("MARKET_DATA_PROVIDER"); provider {
	case "", "alphavantage":
		key := os.Getenv("ALPHA_VANTAGE_API_KEY")
		if key == "" {
			return nil, errors.New("ALPHA_VANTAGE_API_KEY environment variable is not set")
		}
		source = marketdata.NewAlphaVantageClient(key)
	case "finnhub":
		key := os.Getenv("FINNHUB_API_KEY")
		if key == "" {
			return nil, errors.New("FINNHUB_API_KEY environment variable is not set")
		}
		source = marketdata.NewFinnhubClient(key)
	default:
		return nil, fmt.Errorf("unknown MARKET_DATA_PROVIDER %q", provider)
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cached, err := marketdata.NewCache(source, redisURL, 5*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		slog.Info("market data cache enabled")
		return cached, nil
	}

	return source, nil
}
