package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"signcraft-http-service/config"
	"time"
)

// GenerateOptions 文本生成的可选参数
type GenerateOptions struct {
	Model             string  // "flash"（默认）或 "pro"
	SystemInstruction string
	Temperature       float64
	MaxTokens         int
}

// GenerateResult 文本生成的结果
type GenerateResult struct {
	Text       string
	ModelUsed  string
	TokensUsed int
}

// InterfaceGeminiService defines the Gemini client interface
type InterfaceGeminiService interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error)
}

// GeminiService 封装 Google Gemini generateContent REST API
type GeminiService struct {
	Config     *config.Config
	httpClient *http.Client
}

// NewGeminiService 创建一个新的 Gemini 服务
func NewGeminiService(cfg *config.Config) InterfaceGeminiService {
	return &GeminiService{
		Config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// geminiRequest 是 generateContent 的请求体
type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// geminiResponse 是 generateContent 的响应体
type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateText 调用 Gemini 生成文本
func (s *GeminiService) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error) {
	if s.Config.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY 未配置")
	}

	model := s.resolveModel(opts.Model)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if opts.SystemInstruction != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: opts.SystemInstruction}}}
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}
	reqBody.GenerationConfig = &generationConfig{
		Temperature:     temperature,
		MaxOutputTokens: maxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		s.Config.GeminiAPIBaseURL, model, s.Config.GeminiAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("error decoding gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("gemini API error (%d): %s", parsed.Error.Code, parsed.Error.Message)
		}
		return nil, fmt.Errorf("gemini API returned status %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini API returned no candidates")
	}

	text := ""
	for _, part := range parsed.Candidates[0].Content.Parts {
		text += part.Text
	}

	return &GenerateResult{
		Text:       text,
		ModelUsed:  model,
		TokensUsed: parsed.UsageMetadata.TotalTokenCount,
	}, nil
}

// resolveModel 把简称映射为具体模型名
func (s *GeminiService) resolveModel(alias string) string {
	switch alias {
	case "pro":
		return s.Config.GeminiProModel
	case "", "flash":
		return s.Config.GeminiFlashModel
	default:
		return alias
	}
}
