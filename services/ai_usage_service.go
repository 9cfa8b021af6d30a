package services

import (
	"errors"
	"fmt"
	"signcraft-http-service/config"
	"signcraft-http-service/models"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 每千 token 的估算成本（美元），用于月度成本限额
const costPerThousandTokens = 0.00015

// LimitCheck 限额检查的结果
type LimitCheck struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// UsageStats 租户当月用量统计
type UsageStats struct {
	Limit         models.AIUsageLimit `json:"limit"`
	RecentLogs    []models.AIUsageLog `json:"recent_logs"`
	RequestsToday int64               `json:"requests_today"`
}

// InterfaceAIUsageService defines the AI usage tracking interface
type InterfaceAIUsageService interface {
	CheckLimits(tenantID uint) (*LimitCheck, error)
	LogRequest(tenantID, userID uint, featureType, action, prompt, model string) (uint, error)
	CompleteRequest(logID uint, tokensUsed int, responseData datatypes.JSON) error
	FailRequest(logID uint, reason string) error
	GetStats(tenantID uint) (*UsageStats, error)
}

// AIUsageService 跟踪租户的 AI 用量并执行月度限额
type AIUsageService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // 可选，用于缓存限额检查结果
}

// NewAIUsageService 创建一个新的 AI 用量服务
func NewAIUsageService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceAIUsageService {
	return &AIUsageService{
		DB:     db,
		Config: cfg,
		Redis:  redis,
	}
}

// 1 CheckLimits 检查租户是否允许发起新的 AI 请求
func (s *AIUsageService) CheckLimits(tenantID uint) (*LimitCheck, error) {
	limits, err := s.getOrCreateLimits(tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.resetIfNewMonth(limits); err != nil {
		return nil, err
	}

	if !limits.IsEnabled {
		return &LimitCheck{Allowed: false, Reason: "该组织的 AI 功能已被禁用"}, nil
	}
	if limits.CurrentMonthRequests >= limits.MonthlyRequestLimit {
		return &LimitCheck{Allowed: false, Reason: "已超出本月请求次数限额"}, nil
	}
	if limits.CurrentMonthTokens >= limits.MonthlyTokenLimit {
		return &LimitCheck{Allowed: false, Reason: "已超出本月 token 限额"}, nil
	}
	if limits.CurrentMonthCostUSD >= limits.MonthlyCostLimitUSD {
		return &LimitCheck{Allowed: false, Reason: "已超出本月成本限额"}, nil
	}

	return &LimitCheck{Allowed: true}, nil
}

// 2 LogRequest 记录一次待处理的 AI 请求，返回日志ID
func (s *AIUsageService) LogRequest(tenantID, userID uint, featureType, action, prompt, model string) (uint, error) {
	log := models.AIUsageLog{
		TenantID:    tenantID,
		UserID:      userID,
		FeatureType: featureType,
		Action:      action,
		Prompt:      prompt,
		ModelUsed:   model,
		Status:      "pending",
	}
	if err := s.DB.Create(&log).Error; err != nil {
		return 0, err
	}
	return log.ID, nil
}

// 3 CompleteRequest 标记请求完成并累计用量
func (s *AIUsageService) CompleteRequest(logID uint, tokensUsed int, responseData datatypes.JSON) error {
	var log models.AIUsageLog
	if err := s.DB.First(&log, logID).Error; err != nil {
		return err
	}

	cost := float64(tokensUsed) / 1000.0 * costPerThousandTokens

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      "completed",
			"tokens_used": tokensUsed,
			"cost_usd":    cost,
		}
		if len(responseData) > 0 {
			updates["response_data"] = responseData
		}
		if err := tx.Model(&log).Updates(updates).Error; err != nil {
			return err
		}

		// 累计月度计数器
		return tx.Model(&models.AIUsageLimit{}).Where("tenant_id = ?", log.TenantID).
			Updates(map[string]interface{}{
				"current_month_requests": gorm.Expr("current_month_requests + 1"),
				"current_month_tokens":   gorm.Expr("current_month_tokens + ?", tokensUsed),
				"current_month_cost_usd": gorm.Expr("current_month_cost_usd + ?", cost),
			}).Error
	})
	if err != nil {
		return err
	}

	// 缓存失效，下次统计走数据库
	if s.Redis != nil {
		_ = s.Redis.Delete(fmt.Sprintf("ai_usage:%d", log.TenantID))
	}
	return nil
}

// 4 FailRequest 标记请求失败
func (s *AIUsageService) FailRequest(logID uint, reason string) error {
	return s.DB.Model(&models.AIUsageLog{}).Where("id = ?", logID).
		Updates(map[string]interface{}{
			"status":   "failed",
			"metadata": datatypes.JSON([]byte(fmt.Sprintf(`{"error":%q}`, reason))),
		}).Error
}

// 5 GetStats 获取租户当月的用量统计
func (s *AIUsageService) GetStats(tenantID uint) (*UsageStats, error) {
	limits, err := s.getOrCreateLimits(tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.resetIfNewMonth(limits); err != nil {
		return nil, err
	}

	var recent []models.AIUsageLog
	if err := s.DB.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Limit(20).Find(&recent).Error; err != nil {
		return nil, err
	}

	dayStart := time.Now().Truncate(24 * time.Hour)
	var today int64
	if err := s.DB.Model(&models.AIUsageLog{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, dayStart).
		Count(&today).Error; err != nil {
		return nil, err
	}

	return &UsageStats{
		Limit:         *limits,
		RecentLogs:    recent,
		RequestsToday: today,
	}, nil
}

// getOrCreateLimits 获取租户限额记录，没有则按默认值创建
func (s *AIUsageService) getOrCreateLimits(tenantID uint) (*models.AIUsageLimit, error) {
	var limits models.AIUsageLimit
	err := s.DB.Where("tenant_id = ?", tenantID).First(&limits).Error
	if err == nil {
		return &limits, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	limits = models.AIUsageLimit{
		TenantID:            tenantID,
		MonthlyRequestLimit: 1000,
		MonthlyTokenLimit:   1000000,
		MonthlyCostLimitUSD: 50.00,
		LastResetAt:         time.Now(),
		IsEnabled:           true,
	}
	if err := s.DB.Create(&limits).Error; err != nil {
		return nil, err
	}
	return &limits, nil
}

// resetIfNewMonth 跨月时清零月度计数器
func (s *AIUsageService) resetIfNewMonth(limits *models.AIUsageLimit) error {
	now := time.Now()
	if limits.LastResetAt.Year() == now.Year() && limits.LastResetAt.Month() == now.Month() {
		return nil
	}

	limits.CurrentMonthRequests = 0
	limits.CurrentMonthTokens = 0
	limits.CurrentMonthCostUSD = 0
	limits.LastResetAt = now

	return s.DB.Model(limits).Updates(map[string]interface{}{
		"current_month_requests": 0,
		"current_month_tokens":   0,
		"current_month_cost_usd": 0,
		"last_reset_at":          now,
	}).Error
}
