package controllers

import (
	"net/http"

	"signcraft-http-service/services"
	"signcraft-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceAIController 定义AI助手控制器接口
type InterfaceAIController interface {
	GenerateDesign()
	OptimizeDesign()
	GenerateHeadline()
	GenerateCTA()
	RewriteCopy()
	TranslateCopy()
	OptimizePlaylist()
	RecommendSchedule()
	AnalyzeScreen()
	InterpretAnalytics()
	GetUsageStats()
}

// AIController 处理AI助手相关的请求
type AIController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAIController 创建一个新的AI助手控制器
func NewAIController(ctx *gin.Context, container *container.ServiceContainer) *AIController {
	return &AIController{
		Ctx:       ctx,
		Container: container,
	}
}

// DesignRequest 生成设计稿请求
type DesignRequest struct {
	Prompt string `json:"prompt" binding:"required" example:"夏季冷饮促销，清爽蓝色调"`
	Style  string `json:"style" example:"modern"`
	Width  int    `json:"width" example:"1920"`
	Height int    `json:"height" example:"1080"`
}

// OptimizeDesignRequest 优化设计稿请求
type OptimizeDesignRequest struct {
	Design string `json:"design" binding:"required"` // 画布JSON
	Goal   string `json:"goal" example:"提高可读性"`
}

// HeadlineRequest 生成标题请求
type HeadlineRequest struct {
	Topic    string `json:"topic" binding:"required" example:"新品咖啡上市"`
	Tone     string `json:"tone" example:"energetic"`
	MaxWords int    `json:"max_words" example:"8"`
}

// CTARequest 生成行动号召请求
type CTARequest struct {
	Product  string `json:"product" binding:"required" example:"会员订阅"`
	Audience string `json:"audience" example:"到店顾客"`
}

// RewriteRequest 改写文案请求
type RewriteRequest struct {
	Text string `json:"text" binding:"required"`
	Tone string `json:"tone" example:"professional"`
}

// TranslateRequest 翻译文案请求
type TranslateRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required" example:"ja"`
}

// OptimizePlaylistRequest 优化播放列表请求
type OptimizePlaylistRequest struct {
	Playlist string `json:"playlist" binding:"required"` // 播放列表JSON
	Goal     string `json:"goal" example:"提升停留时长"`
}

// ScreenContextRequest 基于屏幕上下文的请求
type ScreenContextRequest struct {
	Context string `json:"context" binding:"required"` // 屏幕位置、历史排期等描述
}

// AnalyticsRequest 解读分析数据请求
type AnalyticsRequest struct {
	Data     string `json:"data" binding:"required"` // 数据JSON
	Question string `json:"question" example:"哪个时段表现最好"`
}

// HandleAIFunc 返回一个处理AI助手请求的Gin处理函数
func HandleAIFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAIController(ctx, container)

		switch method {
		case "generateDesign":
			controller.GenerateDesign()
		case "optimizeDesign":
			controller.OptimizeDesign()
		case "generateHeadline":
			controller.GenerateHeadline()
		case "generateCTA":
			controller.GenerateCTA()
		case "rewriteCopy":
			controller.RewriteCopy()
		case "translateCopy":
			controller.TranslateCopy()
		case "optimizePlaylist":
			controller.OptimizePlaylist()
		case "recommendSchedule":
			controller.RecommendSchedule()
		case "analyzeScreen":
			controller.AnalyzeScreen()
		case "interpretAnalytics":
			controller.InterpretAnalytics()
		case "getUsageStats":
			controller.GetUsageStats()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// identity 读取当前请求的租户与用户，失败时已写入响应
func (c *AIController) identity() (tenantID, userID uint, ok bool) {
	tenantID, ok = currentTenantID(c.Ctx)
	if !ok {
		return 0, 0, false
	}
	return tenantID, currentUserID(c.Ctx), true
}

// respond 统一处理AI服务的结果。限额超出返回429，其余错误返回502
func (c *AIController) respond(result *services.AIResult, err error) {
	if err != nil {
		if services.IsLimitExceeded(err) {
			c.Ctx.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": err.Error(),
				"data":    nil,
			})
			return
		}
		c.Ctx.JSON(http.StatusBadGateway, gin.H{
			"code":    502,
			"message": "AI 服务调用失败: " + err.Error(),
			"data":    nil,
		})
		return
	}
	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    result,
	})
}

func (c *AIController) aiService() services.InterfaceAIService {
	return c.Container.GetService("ai").(services.InterfaceAIService)
}

// 1. GenerateDesign 生成设计稿
// @Summary      AI生成设计稿
// @Description  根据文字描述生成画布设计，使用 Gemini Pro 模型
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DesignRequest true "设计描述"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse "租户月度AI限额已用完"
// @Failure      502  {object}  ErrorResponse
// @Router       /ai/generate-design [post]
func (c *AIController) GenerateDesign() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req DesignRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().GenerateDesign(c.Ctx.Request.Context(), tenantID, userID, req.Prompt, req.Style, req.Width, req.Height)
	c.respond(result, err)
}

// 2. OptimizeDesign 优化设计稿
// @Summary      AI优化设计稿
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body OptimizeDesignRequest true "画布JSON与优化目标"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/optimize-design [post]
func (c *AIController) OptimizeDesign() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req OptimizeDesignRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().OptimizeDesign(c.Ctx.Request.Context(), tenantID, userID, req.Design, req.Goal)
	c.respond(result, err)
}

// 3. GenerateHeadline 生成标题
// @Summary      AI生成标题
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body HeadlineRequest true "主题与语气"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/generate-headline [post]
func (c *AIController) GenerateHeadline() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req HeadlineRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().GenerateHeadline(c.Ctx.Request.Context(), tenantID, userID, req.Topic, req.Tone, req.MaxWords)
	c.respond(result, err)
}

// 4. GenerateCTA 生成行动号召
// @Summary      AI生成行动号召
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CTARequest true "产品与受众"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/generate-cta [post]
func (c *AIController) GenerateCTA() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req CTARequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().GenerateCTA(c.Ctx.Request.Context(), tenantID, userID, req.Product, req.Audience)
	c.respond(result, err)
}

// 5. RewriteCopy 改写文案
// @Summary      AI改写文案
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RewriteRequest true "原文与目标语气"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/rewrite-copy [post]
func (c *AIController) RewriteCopy() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req RewriteRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().RewriteCopy(c.Ctx.Request.Context(), tenantID, userID, req.Text, req.Tone)
	c.respond(result, err)
}

// 6. TranslateCopy 翻译文案
// @Summary      AI翻译文案
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TranslateRequest true "原文与目标语言"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/translate [post]
func (c *AIController) TranslateCopy() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req TranslateRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().TranslateCopy(c.Ctx.Request.Context(), tenantID, userID, req.Text, req.TargetLanguage)
	c.respond(result, err)
}

// 7. OptimizePlaylist 优化播放列表
// @Summary      AI优化播放列表
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body OptimizePlaylistRequest true "播放列表JSON与优化目标"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/optimize-playlist [post]
func (c *AIController) OptimizePlaylist() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req OptimizePlaylistRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().OptimizePlaylist(c.Ctx.Request.Context(), tenantID, userID, req.Playlist, req.Goal)
	c.respond(result, err)
}

// 8. RecommendSchedule 推荐排期
// @Summary      AI推荐排期
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ScreenContextRequest true "屏幕上下文描述"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/recommend-schedule [post]
func (c *AIController) RecommendSchedule() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req ScreenContextRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().RecommendSchedule(c.Ctx.Request.Context(), tenantID, userID, req.Context)
	c.respond(result, err)
}

// 9. AnalyzeScreen 分析屏幕表现
// @Summary      AI分析屏幕
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ScreenContextRequest true "屏幕上下文描述"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/analyze-screen [post]
func (c *AIController) AnalyzeScreen() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req ScreenContextRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().AnalyzeScreen(c.Ctx.Request.Context(), tenantID, userID, req.Context)
	c.respond(result, err)
}

// 10. InterpretAnalytics 解读分析数据
// @Summary      AI解读分析数据
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AnalyticsRequest true "数据JSON与问题"
// @Success      200  {object}  services.AIResult
// @Failure      429  {object}  ErrorResponse
// @Router       /ai/interpret-analytics [post]
func (c *AIController) InterpretAnalytics() {
	tenantID, userID, ok := c.identity()
	if !ok {
		return
	}
	var req AnalyticsRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的请求参数: " + err.Error(), "data": nil})
		return
	}
	result, err := c.aiService().InterpretAnalytics(c.Ctx.Request.Context(), tenantID, userID, req.Data, req.Question)
	c.respond(result, err)
}

// 11. GetUsageStats 获取AI用量统计
// @Summary      获取AI用量统计
// @Description  返回当前租户的月度限额、已用量和近期请求记录
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.UsageStats
// @Router       /ai/usage [get]
func (c *AIController) GetUsageStats() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	usageService := c.Container.GetService("ai_usage").(services.InterfaceAIUsageService)
	stats, err := usageService.GetStats(tenantID)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取用量统计失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    stats,
	})
}
