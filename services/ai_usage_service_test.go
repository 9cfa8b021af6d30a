package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"signcraft-http-service/models"
)

func newUsageService(t *testing.T) (InterfaceAIUsageService, *gorm.DB, *models.Tenant) {
	t.Helper()
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	return NewAIUsageService(db, testConfig(), nil), db, tenant
}

func TestCheckLimitsCreatesDefaults(t *testing.T) {
	service, db, tenant := newUsageService(t)

	check, err := service.CheckLimits(tenant.ID)
	require.NoError(t, err)
	assert.True(t, check.Allowed)

	var limits models.AIUsageLimit
	require.NoError(t, db.Where("tenant_id = ?", tenant.ID).First(&limits).Error)
	assert.Equal(t, 1000, limits.MonthlyRequestLimit)
	assert.Equal(t, 1000000, limits.MonthlyTokenLimit)
	assert.True(t, limits.IsEnabled)
}

func TestCheckLimitsBlocksWhenExhausted(t *testing.T) {
	service, db, tenant := newUsageService(t)

	_, err := service.CheckLimits(tenant.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.AIUsageLimit{}).Where("tenant_id = ?", tenant.ID).
		Update("current_month_requests", 1000).Error)

	check, err := service.CheckLimits(tenant.ID)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Contains(t, check.Reason, "请求次数")
}

func TestCheckLimitsBlocksWhenDisabled(t *testing.T) {
	service, db, tenant := newUsageService(t)

	_, err := service.CheckLimits(tenant.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.AIUsageLimit{}).Where("tenant_id = ?", tenant.ID).
		Update("is_enabled", false).Error)

	check, err := service.CheckLimits(tenant.ID)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
}

func TestCheckLimitsResetsOnNewMonth(t *testing.T) {
	service, db, tenant := newUsageService(t)

	_, err := service.CheckLimits(tenant.ID)
	require.NoError(t, err)
	// 模拟上个月已把额度用光
	lastMonth := time.Now().AddDate(0, -1, 0)
	require.NoError(t, db.Model(&models.AIUsageLimit{}).Where("tenant_id = ?", tenant.ID).
		Updates(map[string]interface{}{
			"current_month_requests": 1000,
			"current_month_tokens":   1000000,
			"last_reset_at":          lastMonth,
		}).Error)

	check, err := service.CheckLimits(tenant.ID)
	require.NoError(t, err)
	assert.True(t, check.Allowed, "跨月后计数器应清零")

	var limits models.AIUsageLimit
	require.NoError(t, db.Where("tenant_id = ?", tenant.ID).First(&limits).Error)
	assert.Zero(t, limits.CurrentMonthRequests)
	assert.Zero(t, limits.CurrentMonthTokens)
}

func TestRequestLifecycleAccumulatesUsage(t *testing.T) {
	service, db, tenant := newUsageService(t)

	_, err := service.CheckLimits(tenant.ID)
	require.NoError(t, err)

	logID, err := service.LogRequest(tenant.ID, 1, "copywriting", "generate_headline", "写一条标语", "gemini-2.0-flash-exp")
	require.NoError(t, err)
	require.NotZero(t, logID)

	require.NoError(t, service.CompleteRequest(logID, 500, datatypes.JSON(`{"text":"开业大吉"}`)))

	var log models.AIUsageLog
	require.NoError(t, db.First(&log, logID).Error)
	assert.Equal(t, "completed", log.Status)
	assert.Equal(t, 500, log.TokensUsed)

	var limits models.AIUsageLimit
	require.NoError(t, db.Where("tenant_id = ?", tenant.ID).First(&limits).Error)
	assert.Equal(t, 1, limits.CurrentMonthRequests)
	assert.Equal(t, 500, limits.CurrentMonthTokens)
	assert.InDelta(t, 0.5*costPerThousandTokens, limits.CurrentMonthCostUSD, 1e-9)
}

func TestFailRequestRecordsReason(t *testing.T) {
	service, db, tenant := newUsageService(t)

	logID, err := service.LogRequest(tenant.ID, 1, "copywriting", "generate_headline", "写一条标语", "gemini-2.0-flash-exp")
	require.NoError(t, err)
	require.NoError(t, service.FailRequest(logID, "upstream timeout"))

	var log models.AIUsageLog
	require.NoError(t, db.First(&log, logID).Error)
	assert.Equal(t, "failed", log.Status)
	assert.Contains(t, string(log.Metadata), "upstream timeout")

	// 失败请求不计入月度额度
	var limits models.AIUsageLimit
	require.NoError(t, db.Where("tenant_id = ?", tenant.ID).First(&limits).Error)
	assert.Zero(t, limits.CurrentMonthRequests)
}

func TestGetStats(t *testing.T) {
	service, _, tenant := newUsageService(t)

	logID, err := service.LogRequest(tenant.ID, 1, "copywriting", "generate_headline", "写一条标语", "gemini-2.0-flash-exp")
	require.NoError(t, err)
	require.NoError(t, service.CompleteRequest(logID, 100, nil))

	stats, err := service.GetStats(tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, stats.Limit.TenantID)
	require.Len(t, stats.RecentLogs, 1)
	assert.Equal(t, int64(1), stats.RequestsToday)
	assert.Equal(t, 1, stats.Limit.CurrentMonthRequests)
}
