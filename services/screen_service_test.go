package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"signcraft-http-service/models"
)

func newScreenService(t *testing.T) (InterfaceScreenService, *models.Tenant) {
	t.Helper()
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	return NewScreenService(db, testConfig()), tenant
}

func TestCreateScreenGeneratesConnectionToken(t *testing.T) {
	service, tenant := newScreenService(t)

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(screen))

	assert.NotEmpty(t, screen.ConnectionToken)
	assert.Equal(t, models.ScreenStatusOffline, screen.Status)
}

func TestCreateScreenRejectsDuplicateDeviceID(t *testing.T) {
	service, tenant := newScreenService(t)

	first := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(first))

	dup := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "另一块屏"}
	err := service.CreateScreen(dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已被注册")
}

func TestGetScreenByIDScopedToTenant(t *testing.T) {
	service, tenant := newScreenService(t)

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(screen))

	got, err := service.GetScreenByID(tenant.ID, screen.ID)
	require.NoError(t, err)
	assert.Equal(t, screen.DeviceID, got.DeviceID)

	// 其他租户看不到这块屏幕
	_, err = service.GetScreenByID(tenant.ID+1, screen.ID)
	require.Error(t, err)
}

func TestGetScreensFilters(t *testing.T) {
	service, tenant := newScreenService(t)

	online := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(online))
	require.NoError(t, service.MarkOnline(online.ID))

	offline := &models.Screen{TenantID: tenant.ID, DeviceID: "cafe-01", Name: "咖啡厅屏", LocationName: "Cafe"}
	require.NoError(t, service.CreateScreen(offline))

	screens, err := service.GetScreens(tenant.ID, ScreenFilter{Status: "online"})
	require.NoError(t, err)
	require.Len(t, screens, 1)
	assert.Equal(t, "lobby-01", screens[0].DeviceID)

	screens, err = service.GetScreens(tenant.ID, ScreenFilter{Search: "cafe"})
	require.NoError(t, err)
	require.Len(t, screens, 1)
	assert.Equal(t, "cafe-01", screens[0].DeviceID)

	screens, err = service.GetScreens(tenant.ID, ScreenFilter{})
	require.NoError(t, err)
	assert.Len(t, screens, 2)
}

func TestUpdateScreenStripsProtectedFields(t *testing.T) {
	service, tenant := newScreenService(t)

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(screen))
	original := screen.ConnectionToken

	updated, err := service.UpdateScreen(tenant.ID, screen.ID, map[string]interface{}{
		"name":             "前台屏",
		"connection_token": "forged-token",
	})
	require.NoError(t, err)
	assert.Equal(t, "前台屏", updated.Name)
	assert.Equal(t, original, updated.ConnectionToken, "通用更新不能改连接凭证")
}

func TestRotateConnectionToken(t *testing.T) {
	service, tenant := newScreenService(t)

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(screen))
	original := screen.ConnectionToken

	rotated, err := service.RotateConnectionToken(tenant.ID, screen.ID)
	require.NoError(t, err)
	assert.NotEqual(t, original, rotated.ConnectionToken)

	// 旧凭证失效，新凭证可用
	_, err = service.FindByConnectionToken(original)
	require.Error(t, err)
	found, err := service.FindByConnectionToken(rotated.ConnectionToken)
	require.NoError(t, err)
	assert.Equal(t, screen.ID, found.ID)
}

func TestFindByConnectionToken(t *testing.T) {
	service, tenant := newScreenService(t)

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(screen))

	found, err := service.FindByConnectionToken(screen.ConnectionToken)
	require.NoError(t, err)
	assert.Equal(t, screen.ID, found.ID)

	_, err = service.FindByConnectionToken("")
	require.Error(t, err)
	_, err = service.FindByConnectionToken("no-such-token")
	require.Error(t, err)
}

func TestMarkOnlineOfflineAndHeartbeat(t *testing.T) {
	service, tenant := newScreenService(t)

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(screen))

	require.NoError(t, service.MarkOnline(screen.ID))
	got, err := service.GetScreenByID(tenant.ID, screen.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScreenStatusOnline, got.Status)
	require.NotNil(t, got.LastHeartbeat)

	require.NoError(t, service.MarkOffline(screen.ID))
	got, err = service.GetScreenByID(tenant.ID, screen.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScreenStatusOffline, got.Status)

	// 心跳把屏幕拉回在线，并记录播放器版本和设备信息
	info := datatypes.JSON(`{"os":"android","memory":"2GB"}`)
	require.NoError(t, service.RecordHeartbeat(screen.ID, "1.4.2", info))
	got, err = service.GetScreenByID(tenant.ID, screen.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScreenStatusOnline, got.Status)
	assert.Equal(t, "1.4.2", got.PlayerVersion)
	assert.JSONEq(t, string(info), string(got.DeviceInfo))
}

func TestListSummariesByTenant(t *testing.T) {
	service, tenant := newScreenService(t)

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏", LocationLat: 31.2, LocationLng: 121.5}
	require.NoError(t, service.CreateScreen(screen))

	other := &models.Screen{TenantID: tenant.ID + 1, DeviceID: "other-01", Name: "别家屏"}
	require.NoError(t, service.CreateScreen(other))

	summaries, err := service.ListSummariesByTenant(tenant.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "大堂屏", summaries[0].Name)
	assert.Equal(t, 31.2, summaries[0].LocationLat)
}

func TestSweepStaleTransitionsOnlyStaleOnlineScreens(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	service := NewScreenService(db, testConfig())

	stale := &models.Screen{TenantID: tenant.ID, DeviceID: "stale-01", Name: "超时屏"}
	require.NoError(t, service.CreateScreen(stale))
	fresh := &models.Screen{TenantID: tenant.ID, DeviceID: "fresh-01", Name: "正常屏"}
	require.NoError(t, service.CreateScreen(fresh))
	idle := &models.Screen{TenantID: tenant.ID, DeviceID: "idle-01", Name: "离线屏"}
	require.NoError(t, service.CreateScreen(idle))

	past := time.Now().Add(-10 * time.Minute)
	require.NoError(t, db.Model(&models.Screen{}).Where("id = ?", stale.ID).Updates(map[string]interface{}{
		"status": models.ScreenStatusOnline, "last_heartbeat": past,
	}).Error)
	require.NoError(t, service.MarkOnline(fresh.ID))
	// idle 一直是 offline，心跳也很旧，不应出现在结果里
	require.NoError(t, db.Model(&models.Screen{}).Where("id = ?", idle.ID).
		Update("last_heartbeat", past).Error)

	transitioned, err := service.SweepStale(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, transitioned, 1)
	assert.Equal(t, stale.ID, transitioned[0].ID)
	assert.Equal(t, models.ScreenStatusOffline, transitioned[0].Status)

	// 再扫一轮不会重复转换
	transitioned, err = service.SweepStale(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, transitioned)
}

func TestDeleteScreenCascades(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	service := NewScreenService(db, testConfig())

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, service.CreateScreen(screen))

	playlist := &models.Playlist{TenantID: tenant.ID, Name: "默认列表"}
	require.NoError(t, db.Create(playlist).Error)
	require.NoError(t, db.Create(&models.Schedule{
		TenantID: tenant.ID, ScreenID: screen.ID, PlaylistID: playlist.ID, Name: "早间排期",
	}).Error)
	require.NoError(t, db.Create(&models.ScreenLog{
		TenantID: tenant.ID, ScreenID: screen.ID, Level: models.LogLevelInfo, Message: "boot",
	}).Error)

	require.NoError(t, service.DeleteScreen(tenant.ID, screen.ID))

	var schedules, logs int64
	require.NoError(t, db.Model(&models.Schedule{}).Where("screen_id = ?", screen.ID).Count(&schedules).Error)
	require.NoError(t, db.Model(&models.ScreenLog{}).Where("screen_id = ?", screen.ID).Count(&logs).Error)
	assert.Zero(t, schedules)
	assert.Zero(t, logs)

	_, err := service.GetScreenByID(tenant.ID, screen.ID)
	require.Error(t, err)
}
