package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"signcraft-http-service/config"

	"gorm.io/datatypes"
)

// ErrLimitExceeded 租户的月度 AI 限额已用完
var ErrLimitExceeded = errors.New("AI 限额已用完")

// IsLimitExceeded 判断错误是否为限额超出，控制器据此返回 429
func IsLimitExceeded(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}

// AIResult AI 助手调用的统一返回
type AIResult struct {
	Text       string `json:"text"`
	ModelUsed  string `json:"model_used"`
	TokensUsed int    `json:"tokens_used"`
}

// InterfaceAIService defines the AI assistant interface.
// 这些方法只是围绕 Gemini 的提示词包装，不包含业务逻辑。
type InterfaceAIService interface {
	GenerateDesign(ctx context.Context, tenantID, userID uint, prompt, style string, width, height int) (*AIResult, error)
	OptimizeDesign(ctx context.Context, tenantID, userID uint, designJSON, goal string) (*AIResult, error)
	GenerateHeadline(ctx context.Context, tenantID, userID uint, topic, tone string, maxWords int) (*AIResult, error)
	GenerateCTA(ctx context.Context, tenantID, userID uint, product, audience string) (*AIResult, error)
	RewriteCopy(ctx context.Context, tenantID, userID uint, text, tone string) (*AIResult, error)
	TranslateCopy(ctx context.Context, tenantID, userID uint, text, targetLanguage string) (*AIResult, error)
	OptimizePlaylist(ctx context.Context, tenantID, userID uint, playlistJSON, goal string) (*AIResult, error)
	RecommendSchedule(ctx context.Context, tenantID, userID uint, screenContext string) (*AIResult, error)
	AnalyzeScreen(ctx context.Context, tenantID, userID uint, screenContext string) (*AIResult, error)
	InterpretAnalytics(ctx context.Context, tenantID, userID uint, dataJSON, question string) (*AIResult, error)
}

// AIService 把各个 AI 助手功能映射为 Gemini 提示词
type AIService struct {
	Config *config.Config
	Gemini InterfaceGeminiService
	Usage  InterfaceAIUsageService
}

// NewAIService 创建一个新的 AI 助手服务
func NewAIService(cfg *config.Config, gemini InterfaceGeminiService, usage InterfaceAIUsageService) InterfaceAIService {
	return &AIService{
		Config: cfg,
		Gemini: gemini,
		Usage:  usage,
	}
}

// run 统一执行：限额检查 → 记录请求 → 调用 Gemini → 回写用量
func (s *AIService) run(ctx context.Context, tenantID, userID uint, feature, action, prompt string, opts GenerateOptions) (*AIResult, error) {
	check, err := s.Usage.CheckLimits(tenantID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrLimitExceeded, check.Reason)
	}

	logID, err := s.Usage.LogRequest(tenantID, userID, feature, action, prompt, opts.Model)
	if err != nil {
		return nil, err
	}

	result, err := s.Gemini.GenerateText(ctx, prompt, opts)
	if err != nil {
		// 失败也要记录，便于排查
		_ = s.Usage.FailRequest(logID, err.Error())
		return nil, err
	}

	responseData, _ := json.Marshal(map[string]string{"text": result.Text})
	if err := s.Usage.CompleteRequest(logID, result.TokensUsed, datatypes.JSON(responseData)); err != nil {
		// 用量回写失败不影响返回结果
		config.Warning("AI用量回写失败: %v", err)
	}

	return &AIResult{
		Text:       result.Text,
		ModelUsed:  result.ModelUsed,
		TokensUsed: result.TokensUsed,
	}, nil
}

// GenerateDesign 生成版面设计建议（JSON 布局描述）
func (s *AIService) GenerateDesign(ctx context.Context, tenantID, userID uint, prompt, style string, width, height int) (*AIResult, error) {
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}
	full := fmt.Sprintf(
		"Create a digital signage design layout for a %dx%d screen.\nStyle: %s\nBrief: %s\nRespond with a JSON object describing background, text blocks (content, position, font size, color) and image placeholders.",
		width, height, style, prompt)

	return s.run(ctx, tenantID, userID, "design", "generate_design", full, GenerateOptions{
		SystemInstruction: "You are a professional digital signage designer. Always respond with valid JSON only.",
		Temperature:       0.8,
	})
}

// OptimizeDesign 优化既有设计
func (s *AIService) OptimizeDesign(ctx context.Context, tenantID, userID uint, designJSON, goal string) (*AIResult, error) {
	full := fmt.Sprintf(
		"Improve the following digital signage design for this goal: %s\nCurrent design JSON:\n%s\nRespond with the improved design as JSON.",
		goal, designJSON)

	return s.run(ctx, tenantID, userID, "design", "optimize_design", full, GenerateOptions{
		SystemInstruction: "You are a professional digital signage designer. Always respond with valid JSON only.",
		Temperature:       0.5,
	})
}

// GenerateHeadline 生成广告标题
func (s *AIService) GenerateHeadline(ctx context.Context, tenantID, userID uint, topic, tone string, maxWords int) (*AIResult, error) {
	if maxWords <= 0 {
		maxWords = 8
	}
	full := fmt.Sprintf(
		"Write 5 attention-grabbing digital signage headlines about: %s\nTone: %s\nEach headline must be at most %d words. Return one headline per line.",
		topic, tone, maxWords)

	return s.run(ctx, tenantID, userID, "copywriting", "generate_headline", full, GenerateOptions{Temperature: 0.9})
}

// GenerateCTA 生成行动号召文案
func (s *AIService) GenerateCTA(ctx context.Context, tenantID, userID uint, product, audience string) (*AIResult, error) {
	full := fmt.Sprintf(
		"Write 5 short call-to-action phrases for digital signage.\nProduct or service: %s\nTarget audience: %s\nEach must be under 6 words. Return one per line.",
		product, audience)

	return s.run(ctx, tenantID, userID, "copywriting", "generate_cta", full, GenerateOptions{Temperature: 0.9})
}

// RewriteCopy 按语气改写文案
func (s *AIService) RewriteCopy(ctx context.Context, tenantID, userID uint, text, tone string) (*AIResult, error) {
	full := fmt.Sprintf("Rewrite the following signage copy in a %s tone, keeping roughly the same length:\n%s", tone, text)

	return s.run(ctx, tenantID, userID, "copywriting", "rewrite", full, GenerateOptions{Temperature: 0.7})
}

// TranslateCopy 翻译文案
func (s *AIService) TranslateCopy(ctx context.Context, tenantID, userID uint, text, targetLanguage string) (*AIResult, error) {
	full := fmt.Sprintf("Translate the following digital signage copy into %s. Keep it concise and natural for display on a screen:\n%s", targetLanguage, text)

	return s.run(ctx, tenantID, userID, "copywriting", "translate", full, GenerateOptions{Temperature: 0.3})
}

// OptimizePlaylist 优化播放列表编排
func (s *AIService) OptimizePlaylist(ctx context.Context, tenantID, userID uint, playlistJSON, goal string) (*AIResult, error) {
	full := fmt.Sprintf(
		"Given this digital signage playlist as JSON:\n%s\nSuggest an improved ordering and per-item durations for this goal: %s\nRespond with JSON: {\"items\":[{\"media_id\":..,\"duration_seconds\":..}],\"rationale\":\"...\"}.",
		playlistJSON, goal)

	return s.run(ctx, tenantID, userID, "playlist", "optimize", full, GenerateOptions{
		SystemInstruction: "You are a digital signage content strategist. Always respond with valid JSON only.",
		Temperature:       0.4,
	})
}

// RecommendSchedule 推荐排期
func (s *AIService) RecommendSchedule(ctx context.Context, tenantID, userID uint, screenContext string) (*AIResult, error) {
	full := fmt.Sprintf(
		"Based on this screen context (location, audience, opening hours):\n%s\nRecommend a weekly schedule of playlists with day-of-week and time windows. Respond with JSON: {\"schedules\":[{\"name\":..,\"days_of_week\":[..],\"start_time\":\"HH:MM\",\"end_time\":\"HH:MM\"}]}.",
		screenContext)

	return s.run(ctx, tenantID, userID, "playlist", "recommend_schedule", full, GenerateOptions{
		SystemInstruction: "You are a digital signage content strategist. Always respond with valid JSON only.",
		Temperature:       0.4,
	})
}

// AnalyzeScreen 诊断屏幕连接问题
func (s *AIService) AnalyzeScreen(ctx context.Context, tenantID, userID uint, screenContext string) (*AIResult, error) {
	full := fmt.Sprintf(
		"A digital signage screen is having problems. Context (status history, heartbeats, recent logs):\n%s\nDiagnose the most likely causes and suggest concrete next steps, ordered by likelihood.",
		screenContext)

	return s.run(ctx, tenantID, userID, "diagnostics", "analyze_screen", full, GenerateOptions{Temperature: 0.3})
}

// InterpretAnalytics 解读投放数据
func (s *AIService) InterpretAnalytics(ctx context.Context, tenantID, userID uint, dataJSON, question string) (*AIResult, error) {
	full := fmt.Sprintf(
		"Here is digital signage analytics data as JSON:\n%s\nQuestion: %s\nAnswer concisely in plain language a non-technical operator can understand.",
		dataJSON, question)

	return s.run(ctx, tenantID, userID, "analytics", "interpret", full, GenerateOptions{Temperature: 0.3})
}
