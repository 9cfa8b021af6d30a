package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signcraft-http-service/config"
)

func geminiConfig(baseURL string) *config.Config {
	return &config.Config{
		GeminiAPIKey:     "test-key",
		GeminiAPIBaseURL: baseURL,
		GeminiFlashModel: "gemini-2.0-flash-exp",
		GeminiProModel:   "gemini-1.5-pro",
	}
}

func TestGenerateTextParsesResponse(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Grand "}, {"text": "Opening!"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 8, "totalTokenCount": 20}
		}`))
	}))
	defer server.Close()

	service := NewGeminiService(geminiConfig(server.URL))
	result, err := service.GenerateText(context.Background(), "写一条开业标语", GenerateOptions{
		SystemInstruction: "你是数字标牌文案助手",
	})
	require.NoError(t, err)

	// 多段 parts 要拼接，token 数取 totalTokenCount
	assert.Equal(t, "Grand Opening!", result.Text)
	assert.Equal(t, "gemini-2.0-flash-exp", result.ModelUsed)
	assert.Equal(t, 20, result.TokensUsed)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash-exp:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "写一条开业标语", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.SystemInstruction)
	require.NotNil(t, gotBody.GenerationConfig)
	assert.Equal(t, 0.7, gotBody.GenerationConfig.Temperature)
	assert.Equal(t, 2048, gotBody.GenerationConfig.MaxOutputTokens)
}

func TestGenerateTextModelAlias(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}}]}`))
	}))
	defer server.Close()

	service := NewGeminiService(geminiConfig(server.URL))

	result, err := service.GenerateText(context.Background(), "p", GenerateOptions{Model: "pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", result.ModelUsed)
	assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", gotPath)

	// 未知别名按完整模型名透传
	result, err = service.GenerateText(context.Background(), "p", GenerateOptions{Model: "gemini-exp-1206"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-exp-1206", result.ModelUsed)
}

func TestGenerateTextUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	service := NewGeminiService(geminiConfig(server.URL))
	_, err := service.GenerateText(context.Background(), "p", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resource has been exhausted")
}

func TestGenerateTextNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	service := NewGeminiService(geminiConfig(server.URL))
	_, err := service.GenerateText(context.Background(), "p", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGenerateTextRequiresAPIKey(t *testing.T) {
	service := NewGeminiService(&config.Config{})
	_, err := service.GenerateText(context.Background(), "p", GenerateOptions{})
	require.Error(t, err)
}
