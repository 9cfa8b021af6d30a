package models

import (
	"time"

	"gorm.io/datatypes"
)

// AIUsageLog records a single generative AI request made on behalf of a tenant
type AIUsageLog struct {
	BaseModel
	TenantID     uint           `gorm:"index;not null" json:"tenant_id"`
	UserID       uint           `gorm:"index" json:"user_id"`
	FeatureType  string         `gorm:"type:varchar(50)" json:"feature_type"` // design, copywriting, playlist, analytics, diagnostics
	Action       string         `gorm:"type:varchar(100)" json:"action"`
	Prompt       string         `gorm:"type:text" json:"prompt"`
	ModelUsed    string         `gorm:"type:varchar(100)" json:"model_used"`
	TokensUsed   int            `json:"tokens_used"`
	CostUSD      float64        `gorm:"type:decimal(10,6)" json:"cost_usd"`
	Status       string         `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, completed, failed
	ResponseData datatypes.JSON `json:"response_data"`
	Metadata     datatypes.JSON `json:"metadata"`
}

// AIUsageLimit 租户级别的 AI 用量限额，按月滚动
type AIUsageLimit struct {
	BaseModel
	TenantID             uint      `gorm:"uniqueIndex;not null" json:"tenant_id"`
	MonthlyRequestLimit  int       `gorm:"default:1000" json:"monthly_request_limit"`
	MonthlyTokenLimit    int       `gorm:"default:1000000" json:"monthly_token_limit"`
	MonthlyCostLimitUSD  float64   `gorm:"type:decimal(10,2);default:50.00" json:"monthly_cost_limit_usd"`
	CurrentMonthRequests int       `gorm:"default:0" json:"current_month_requests"`
	CurrentMonthTokens   int       `gorm:"default:0" json:"current_month_tokens"`
	CurrentMonthCostUSD  float64   `gorm:"type:decimal(10,2);default:0" json:"current_month_cost_usd"`
	LastResetAt          time.Time `json:"last_reset_at"`
	IsEnabled            bool      `gorm:"default:true" json:"is_enabled"`
	RequireApproval      bool      `gorm:"default:false" json:"require_approval"`
}
