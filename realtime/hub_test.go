package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"signcraft-http-service/models"
)

// fakeRegistry 内存实现的屏幕注册表，记录所有状态变更调用
type fakeRegistry struct {
	mu         sync.Mutex
	byToken    map[string]*models.Screen
	online     []uint
	offline    []uint
	heartbeats []uint
	summaries  map[uint][]models.ScreenSummary
	listErr    error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		byToken:   make(map[string]*models.Screen),
		summaries: make(map[uint][]models.ScreenSummary),
	}
}

func (f *fakeRegistry) addScreen(id, tenantID uint, token string) {
	screen := &models.Screen{TenantID: tenantID, DeviceID: fmt.Sprintf("device-%d", id)}
	screen.ID = id
	f.byToken[token] = screen
}

func (f *fakeRegistry) FindByConnectionToken(token string) (*models.Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if screen, ok := f.byToken[token]; ok {
		return screen, nil
	}
	return nil, fmt.Errorf("屏幕不存在")
}

func (f *fakeRegistry) MarkOnline(screenID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = append(f.online, screenID)
	return nil
}

func (f *fakeRegistry) MarkOffline(screenID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = append(f.offline, screenID)
	return nil
}

func (f *fakeRegistry) RecordHeartbeat(screenID uint, playerVersion string, deviceInfo datatypes.JSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartbeats = append(f.heartbeats, screenID)
	return nil
}

func (f *fakeRegistry) ListSummariesByTenant(tenantID uint) ([]models.ScreenSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.summaries[tenantID], nil
}

func (f *fakeRegistry) offlineCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.offline)
}

// fakeVerifier 以 "tenant<N>" 形式的令牌模拟仪表盘JWT校验
type fakeVerifier struct{}

func (fakeVerifier) VerifyDashboardToken(token string) (uint, uint, error) {
	var tenantID uint
	if _, err := fmt.Sscanf(token, "tenant%d", &tenantID); err != nil {
		return 0, 0, fmt.Errorf("无效的访问令牌")
	}
	return tenantID, 1, nil
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// syncDashboard 通过一次列表请求确认仪表盘连接已注册完毕，
// 避免后续事件在注册完成前被广播而丢失
func syncDashboard(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	sendEnvelope(t, conn, MsgRequestList, nil)
	readEnvelope(t, conn, MsgScreenList)
}

// readEnvelope 读取消息直到出现指定类型，超时则测试失败
func readEnvelope(t *testing.T, conn *websocket.Conn, msgType string) Envelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err, "等待 %s 消息失败", msgType)
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		if env.Type == msgType {
			return env
		}
	}
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	msg, err := NewEnvelope(msgType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, msg))
}

func TestHubRejectsMissingToken(t *testing.T) {
	hub := NewHub(newFakeRegistry(), fakeVerifier{})
	server := newTestServer(t, hub)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHubRejectsUnknownDeviceToken(t *testing.T) {
	hub := NewHub(newFakeRegistry(), fakeVerifier{})
	server := newTestServer(t, hub)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?deviceToken=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestScreenConnectBroadcastsOnline(t *testing.T) {
	registry := newFakeRegistry()
	registry.addScreen(7, 1, "tok7")
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	syncDashboard(t, dashboard)
	dial(t, server, "deviceToken=tok7")

	env := readEnvelope(t, dashboard, MsgScreenStatus)
	var event StatusEvent
	require.NoError(t, json.Unmarshal(env.Data, &event))
	assert.Equal(t, uint(7), event.ScreenID)
	assert.Equal(t, "online", event.Status)
	assert.Empty(t, event.Reason)
}

func TestScreenDisconnectBroadcastsOffline(t *testing.T) {
	registry := newFakeRegistry()
	registry.addScreen(7, 1, "tok7")
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	syncDashboard(t, dashboard)
	device := dial(t, server, "deviceToken=tok7")
	readEnvelope(t, dashboard, MsgScreenStatus) // online

	device.Close()

	env := readEnvelope(t, dashboard, MsgScreenStatus)
	var event StatusEvent
	require.NoError(t, json.Unmarshal(env.Data, &event))
	assert.Equal(t, "offline", event.Status)
}

func TestHeartbeatAck(t *testing.T) {
	registry := newFakeRegistry()
	registry.addScreen(3, 1, "tok3")
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	device := dial(t, server, "deviceToken=tok3")
	sendEnvelope(t, device, MsgScreenHeartbeat, HeartbeatPayload{PlayerVersion: "1.2.0"})

	env := readEnvelope(t, device, MsgHeartbeatAck)
	var ack HeartbeatAck
	require.NoError(t, json.Unmarshal(env.Data, &ack))
	assert.WithinDuration(t, time.Now(), ack.Timestamp, 5*time.Second)

	registry.mu.Lock()
	defer registry.mu.Unlock()
	assert.Equal(t, []uint{3}, registry.heartbeats)
}

func TestTenantIsolation(t *testing.T) {
	registry := newFakeRegistry()
	registry.addScreen(7, 1, "tok7")
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	otherDashboard := dial(t, server, "token=tenant2")
	syncDashboard(t, otherDashboard)
	dial(t, server, "deviceToken=tok7")

	// 其他租户的仪表盘不应收到任何状态事件
	require.NoError(t, otherDashboard.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := otherDashboard.ReadMessage()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timeout") || websocket.IsUnexpectedCloseError(err))
}

func TestCommandRouting(t *testing.T) {
	registry := newFakeRegistry()
	registry.addScreen(5, 1, "tok5")
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	syncDashboard(t, dashboard)
	device := dial(t, server, "deviceToken=tok5")
	readEnvelope(t, dashboard, MsgScreenStatus)

	sendEnvelope(t, dashboard, MsgCommandScreen, CommandRequest{ScreenID: 5, Command: "reload"})

	env := readEnvelope(t, device, MsgCommand)
	var cmd CommandEvent
	require.NoError(t, json.Unmarshal(env.Data, &cmd))
	assert.Equal(t, "reload", cmd.Command)

	sent := readEnvelope(t, dashboard, MsgCommandSent)
	var receipt CommandSent
	require.NoError(t, json.Unmarshal(sent.Data, &receipt))
	assert.Equal(t, uint(5), receipt.ScreenID)
	assert.Equal(t, "sent", receipt.Status)
}

func TestCommandToDisconnectedScreen(t *testing.T) {
	registry := newFakeRegistry()
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	sendEnvelope(t, dashboard, MsgCommandScreen, CommandRequest{ScreenID: 99, Command: "reload"})

	env := readEnvelope(t, dashboard, MsgCommandError)
	var cmdErr CommandError
	require.NoError(t, json.Unmarshal(env.Data, &cmdErr))
	assert.Equal(t, uint(99), cmdErr.ScreenID)
	assert.Equal(t, "screen not connected", cmdErr.Error)
}

func TestCommandBlockedAcrossTenants(t *testing.T) {
	registry := newFakeRegistry()
	registry.addScreen(5, 1, "tok5")
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	// 租户2的仪表盘尝试控制租户1的屏幕
	dashboard := dial(t, server, "token=tenant2")
	syncDashboard(t, dashboard)
	dial(t, server, "deviceToken=tok5")

	sendEnvelope(t, dashboard, MsgCommandScreen, CommandRequest{ScreenID: 5, Command: "reboot"})

	env := readEnvelope(t, dashboard, MsgCommandError)
	var cmdErr CommandError
	require.NoError(t, json.Unmarshal(env.Data, &cmdErr))
	assert.Equal(t, "screen not connected", cmdErr.Error)
}

func TestScreenListRequest(t *testing.T) {
	registry := newFakeRegistry()
	registry.summaries[1] = []models.ScreenSummary{
		{ID: 1, Name: "Lobby", Status: models.ScreenStatusOnline},
		{ID: 2, Name: "Entrance", Status: models.ScreenStatusOffline},
	}
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	sendEnvelope(t, dashboard, MsgRequestList, nil)

	env := readEnvelope(t, dashboard, MsgScreenList)
	var summaries []models.ScreenSummary
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "Lobby", summaries[0].Name)
}

func TestDuplicateScreenConnectionReplacesOld(t *testing.T) {
	registry := newFakeRegistry()
	registry.addScreen(7, 1, "tok7")
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	first := dial(t, server, "deviceToken=tok7")
	second := dial(t, server, "deviceToken=tok7")

	// 旧连接被顶替关闭，但屏幕不应因此离线
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}
	assert.Equal(t, 0, registry.offlineCount())

	// 新连接仍然可用
	sendEnvelope(t, second, MsgScreenHeartbeat, HeartbeatPayload{})
	readEnvelope(t, second, MsgHeartbeatAck)
}

func TestScreenLogFanout(t *testing.T) {
	registry := newFakeRegistry()
	registry.addScreen(4, 1, "tok4")
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	syncDashboard(t, dashboard)
	device := dial(t, server, "deviceToken=tok4")
	readEnvelope(t, dashboard, MsgScreenStatus)

	sendEnvelope(t, device, MsgScreenLog, ScreenLogPayload{Message: "playback stalled", Level: "warn"})

	env := readEnvelope(t, dashboard, MsgScreenLog)
	var logEvent ScreenLogEvent
	require.NoError(t, json.Unmarshal(env.Data, &logEvent))
	assert.Equal(t, uint(4), logEvent.ScreenID)
	assert.Equal(t, "playback stalled", logEvent.Message)
	assert.Equal(t, "warn", logEvent.Level)
}

func TestBridgeIgnoresOwnEvents(t *testing.T) {
	registry := newFakeRegistry()
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	syncDashboard(t, dashboard)

	// 来自其他进程的事件应被转发
	remote, err := json.Marshal(bridgeEvent{
		Origin:   "other-instance",
		TenantID: 1,
		Event:    StatusEvent{ScreenID: 9, Status: "offline", Reason: ReasonHeartbeatTimeout, Timestamp: time.Now().UTC()},
	})
	require.NoError(t, err)
	hub.HandleBridgePayload(remote)

	env := readEnvelope(t, dashboard, MsgScreenStatus)
	var event StatusEvent
	require.NoError(t, json.Unmarshal(env.Data, &event))
	assert.Equal(t, uint(9), event.ScreenID)
	assert.Equal(t, ReasonHeartbeatTimeout, event.Reason)

	// 本进程发布的事件回流时应被忽略
	own, err := json.Marshal(bridgeEvent{
		Origin:   hub.instanceID,
		TenantID: 1,
		Event:    StatusEvent{ScreenID: 10, Status: "online"},
	})
	require.NoError(t, err)
	hub.HandleBridgePayload(own)

	require.NoError(t, dashboard.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, readErr := dashboard.ReadMessage()
	require.Error(t, readErr)
}

// 连接关闭后继续投递（状态广播和快照下发都在锁外调用 SafeSend）
// 不能炸掉调用方 goroutine
func TestSafeSendAfterCloseDoesNotPanic(t *testing.T) {
	registry := newFakeRegistry()
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	syncDashboard(t, dashboard)

	clients := hub.sessions.dashboardsFor(1)
	require.Len(t, clients, 1)
	client := clients[0]

	client.Close()
	require.NotPanics(t, func() {
		assert.False(t, client.SafeSend([]byte(`{"type":"screen:status"}`)))
	})

	// 幂等关闭后广播到已断开的租户也不应出事
	require.NotPanics(t, func() {
		client.Close()
		hub.BroadcastStatus(1, StatusEvent{ScreenID: 1, Status: "offline", Timestamp: time.Now().UTC()})
	})
}

func TestScreenListFailureSendsError(t *testing.T) {
	registry := newFakeRegistry()
	hub := NewHub(registry, fakeVerifier{})
	server := newTestServer(t, hub)

	dashboard := dial(t, server, "token=tenant1")
	syncDashboard(t, dashboard)

	registry.mu.Lock()
	registry.listErr = fmt.Errorf("数据库连接中断")
	registry.mu.Unlock()

	sendEnvelope(t, dashboard, MsgRequestList, nil)
	env := readEnvelope(t, dashboard, MsgError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "failed to load screen list", payload.Message)
}
