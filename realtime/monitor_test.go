package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signcraft-http-service/models"
)

// fakeSweeper 按预设批次返回状态发生转换的屏幕
type fakeSweeper struct {
	mu      sync.Mutex
	batches [][]models.Screen
	calls   int
	err     error
	cutoffs []time.Time
}

func (f *fakeSweeper) SweepStale(olderThan time.Time) ([]models.Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, olderThan)
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.batches) {
		f.calls++
		return nil, nil
	}
	batch := f.batches[f.calls]
	f.calls++
	return batch, nil
}

// fakeBroadcaster 记录收到的状态事件
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []StatusEvent
	byTent []uint
}

func (f *fakeBroadcaster) BroadcastStatus(tenantID uint, event StatusEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byTent = append(f.byTent, tenantID)
	f.events = append(f.events, event)
}

func makeScreen(id, tenantID uint) models.Screen {
	screen := models.Screen{TenantID: tenantID, DeviceID: "dev"}
	screen.ID = id
	return screen
}

func TestMonitorRunOnceBroadcastsTimeouts(t *testing.T) {
	sweeper := &fakeSweeper{batches: [][]models.Screen{
		{makeScreen(1, 10), makeScreen(2, 20)},
	}}
	broadcaster := &fakeBroadcaster{}
	monitor := NewMonitor(sweeper, broadcaster, time.Minute, 30*time.Second)

	require.NoError(t, monitor.RunOnce(context.Background()))

	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	require.Len(t, broadcaster.events, 2)
	assert.Equal(t, []uint{10, 20}, broadcaster.byTent)
	for _, event := range broadcaster.events {
		assert.Equal(t, "offline", event.Status)
		assert.Equal(t, ReasonHeartbeatTimeout, event.Reason)
	}
}

func TestMonitorRunOnceIdempotent(t *testing.T) {
	// 第一轮有屏幕超时，第二轮数据库已无可转换的行
	sweeper := &fakeSweeper{batches: [][]models.Screen{
		{makeScreen(1, 10)},
	}}
	broadcaster := &fakeBroadcaster{}
	monitor := NewMonitor(sweeper, broadcaster, time.Minute, 30*time.Second)

	require.NoError(t, monitor.RunOnce(context.Background()))
	require.NoError(t, monitor.RunOnce(context.Background()))

	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	assert.Len(t, broadcaster.events, 1, "重复巡检不应重复发事件")
}

func TestMonitorCutoffUsesTimeout(t *testing.T) {
	sweeper := &fakeSweeper{}
	monitor := NewMonitor(sweeper, &fakeBroadcaster{}, 90*time.Second, time.Second)

	before := time.Now()
	require.NoError(t, monitor.RunOnce(context.Background()))

	sweeper.mu.Lock()
	defer sweeper.mu.Unlock()
	require.Len(t, sweeper.cutoffs, 1)
	expected := before.Add(-90 * time.Second)
	assert.WithinDuration(t, expected, sweeper.cutoffs[0], 2*time.Second)
}

func TestMonitorRunOncePropagatesError(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	monitor := NewMonitor(sweeper, &fakeBroadcaster{}, time.Minute, time.Second)

	err := monitor.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestMonitorRespectsCancelledContext(t *testing.T) {
	sweeper := &fakeSweeper{batches: [][]models.Screen{{makeScreen(1, 1)}}}
	broadcaster := &fakeBroadcaster{}
	monitor := NewMonitor(sweeper, broadcaster, time.Minute, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, monitor.RunOnce(ctx))

	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	assert.Empty(t, broadcaster.events)
}

func TestMonitorStartStopsOnCancel(t *testing.T) {
	sweeper := &fakeSweeper{}
	monitor := NewMonitor(sweeper, &fakeBroadcaster{}, time.Minute, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	monitor.Start(ctx)

	// 等待至少一轮巡检发生
	require.Eventually(t, func() bool {
		sweeper.mu.Lock()
		defer sweeper.mu.Unlock()
		return len(sweeper.cutoffs) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	sweeper.mu.Lock()
	after := len(sweeper.cutoffs)
	sweeper.mu.Unlock()

	time.Sleep(50 * time.Millisecond)
	sweeper.mu.Lock()
	defer sweeper.mu.Unlock()
	assert.Equal(t, after, len(sweeper.cutoffs), "取消后不应再巡检")
}
