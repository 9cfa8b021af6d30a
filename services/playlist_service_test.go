package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"signcraft-http-service/models"
)

func seedMedia(t *testing.T, db *gorm.DB, tenantID uint, name string) *models.Media {
	t.Helper()
	media := &models.Media{TenantID: tenantID, Name: name, Type: models.MediaTypeImage, URL: "https://cdn.test/" + name}
	require.NoError(t, db.Create(media).Error)
	return media
}

func TestReplaceItemsOrdersAndSumsDuration(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	service := NewPlaylistService(db, testConfig())

	promo := seedMedia(t, db, tenant.ID, "promo.jpg")
	menu := seedMedia(t, db, tenant.ID, "menu.jpg")

	playlist := &models.Playlist{TenantID: tenant.ID, Name: "早间轮播"}
	require.NoError(t, service.CreatePlaylist(playlist))

	updated, err := service.ReplaceItems(tenant.ID, playlist.ID, []PlaylistItemInput{
		{MediaID: promo.ID, DurationSeconds: 15},
		{MediaID: menu.ID}, // 未填时长走默认10秒
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.Equal(t, promo.ID, updated.Items[0].MediaID)
	assert.Equal(t, 0, updated.Items[0].Position)
	assert.Equal(t, menu.ID, updated.Items[1].MediaID)
	assert.Equal(t, 10, updated.Items[1].DurationSeconds)
	assert.Equal(t, 25, updated.TotalDuration)
}

func TestReplaceItemsOverwritesPrevious(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	service := NewPlaylistService(db, testConfig())

	promo := seedMedia(t, db, tenant.ID, "promo.jpg")
	menu := seedMedia(t, db, tenant.ID, "menu.jpg")

	playlist := &models.Playlist{TenantID: tenant.ID, Name: "早间轮播"}
	require.NoError(t, service.CreatePlaylist(playlist))

	_, err := service.ReplaceItems(tenant.ID, playlist.ID, []PlaylistItemInput{
		{MediaID: promo.ID, DurationSeconds: 15},
		{MediaID: menu.ID, DurationSeconds: 20},
	})
	require.NoError(t, err)

	updated, err := service.ReplaceItems(tenant.ID, playlist.ID, []PlaylistItemInput{
		{MediaID: menu.ID, DurationSeconds: 30},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 30, updated.TotalDuration)

	var count int64
	require.NoError(t, db.Model(&models.PlaylistItem{}).Where("playlist_id = ?", playlist.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReplaceItemsRejectsForeignMedia(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	other := seedTenant(t, db, "beta")
	service := NewPlaylistService(db, testConfig())

	foreign := seedMedia(t, db, other.ID, "foreign.jpg")

	playlist := &models.Playlist{TenantID: tenant.ID, Name: "早间轮播"}
	require.NoError(t, service.CreatePlaylist(playlist))

	_, err := service.ReplaceItems(tenant.ID, playlist.ID, []PlaylistItemInput{
		{MediaID: foreign.ID},
	})
	require.Error(t, err)
}

func TestDeletePlaylistCleansUpItemsAndSchedules(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	service := NewPlaylistService(db, testConfig())

	promo := seedMedia(t, db, tenant.ID, "promo.jpg")
	playlist := &models.Playlist{TenantID: tenant.ID, Name: "早间轮播"}
	require.NoError(t, service.CreatePlaylist(playlist))
	_, err := service.ReplaceItems(tenant.ID, playlist.ID, []PlaylistItemInput{{MediaID: promo.ID}})
	require.NoError(t, err)

	screen := &models.Screen{TenantID: tenant.ID, DeviceID: "lobby-01", Name: "大堂屏"}
	require.NoError(t, db.Create(screen).Error)
	require.NoError(t, db.Create(&models.Schedule{
		TenantID: tenant.ID, ScreenID: screen.ID, PlaylistID: playlist.ID, Name: "早间排期",
	}).Error)

	require.NoError(t, service.DeletePlaylist(tenant.ID, playlist.ID))

	var items, schedules int64
	require.NoError(t, db.Model(&models.PlaylistItem{}).Where("playlist_id = ?", playlist.ID).Count(&items).Error)
	require.NoError(t, db.Model(&models.Schedule{}).Where("playlist_id = ?", playlist.ID).Count(&schedules).Error)
	assert.Zero(t, items)
	assert.Zero(t, schedules)
}

func TestGetPlaylistByIDScopedToTenant(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, "acme")
	service := NewPlaylistService(db, testConfig())

	playlist := &models.Playlist{TenantID: tenant.ID, Name: "早间轮播"}
	require.NoError(t, service.CreatePlaylist(playlist))

	_, err := service.GetPlaylistByID(tenant.ID, playlist.ID)
	require.NoError(t, err)
	_, err = service.GetPlaylistByID(tenant.ID+1, playlist.ID)
	require.Error(t, err)
}
