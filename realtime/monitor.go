package realtime

import (
	"context"
	"sync"
	"time"

	"signcraft-http-service/config"
	"signcraft-http-service/models"
)

// StaleSweeper 把心跳过期的在线屏幕批量置为离线，
// 由 services.ScreenService 实现
type StaleSweeper interface {
	SweepStale(olderThan time.Time) ([]models.Screen, error)
}

// StatusBroadcaster 广播状态事件，由 Hub 实现
type StatusBroadcaster interface {
	BroadcastStatus(tenantID uint, event StatusEvent)
}

// Monitor 心跳巡检：周期性把心跳超时的屏幕标记为离线并广播状态事件
type Monitor struct {
	sweeper     StaleSweeper
	broadcaster StatusBroadcaster
	timeout     time.Duration
	period      time.Duration

	// 串行化巡检，上一轮未结束时新一轮直接跳过
	mu sync.Mutex
}

func NewMonitor(sweeper StaleSweeper, broadcaster StatusBroadcaster, timeout, period time.Duration) *Monitor {
	return &Monitor{
		sweeper:     sweeper,
		broadcaster: broadcaster,
		timeout:     timeout,
		period:      period,
	}
}

// Start 启动巡检循环，ctx 取消后退出
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.period)
		defer ticker.Stop()
		config.Info("心跳巡检已启动: timeout=%s period=%s", m.timeout, m.period)
		for {
			select {
			case <-ctx.Done():
				config.Info("心跳巡检已停止")
				return
			case <-ticker.C:
				if err := m.RunOnce(ctx); err != nil {
					config.Error("心跳巡检失败: %v", err)
				}
			}
		}
	}()
}

// RunOnce 执行一轮巡检。置离线与事件广播只作用于本轮真正发生状态
// 转换的屏幕，数据库侧的条件更新保证了重复执行不会重复发事件。
func (m *Monitor) RunOnce(ctx context.Context) error {
	if !m.mu.TryLock() {
		return nil
	}
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	cutoff := time.Now().Add(-m.timeout)
	transitioned, err := m.sweeper.SweepStale(cutoff)
	if err != nil {
		return err
	}
	for _, screen := range transitioned {
		config.Warning("屏幕心跳超时: tenant=%d screen=%d device=%s", screen.TenantID, screen.ID, screen.DeviceID)
		m.broadcaster.BroadcastStatus(screen.TenantID, StatusEvent{
			ScreenID:  screen.ID,
			Status:    string(models.ScreenStatusOffline),
			Reason:    ReasonHeartbeatTimeout,
			Timestamp: time.Now().UTC(),
		})
	}
	return nil
}
