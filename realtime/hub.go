package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/datatypes"
	"signcraft-http-service/config"
	"signcraft-http-service/models"
)

// ScreenRegistry 网关与心跳巡检需要的屏幕注册表能力，
// 由 services.ScreenService 实现
type ScreenRegistry interface {
	FindByConnectionToken(token string) (*models.Screen, error)
	MarkOnline(screenID uint) error
	MarkOffline(screenID uint) error
	RecordHeartbeat(screenID uint, playerVersion string, deviceInfo datatypes.JSON) error
	ListSummariesByTenant(tenantID uint) ([]models.ScreenSummary, error)
}

// TokenVerifier 校验仪表盘连接携带的 JWT
type TokenVerifier interface {
	VerifyDashboardToken(tokenString string) (tenantID uint, userID uint, err error)
}

// LogSink 持久化设备上报的日志，由 services.ScreenLogService 实现
type LogSink interface {
	Append(tenantID, screenID uint, level, message string, meta datatypes.JSON) error
}

// EventBridge 把状态事件发布到其他进程，由 services.RedisService 实现
type EventBridge interface {
	PublishScreenStatus(event interface{}) error
}

// bridgeEvent Redis 通道上的跨进程状态事件
type bridgeEvent struct {
	Origin   string      `json:"origin"`
	TenantID uint        `json:"tenantId"`
	Event    StatusEvent `json:"event"`
}

// Hub 管理所有 WebSocket 连接：设备准入、心跳、指令路由与租户内状态广播
type Hub struct {
	registry ScreenRegistry
	verifier TokenVerifier
	sessions *sessionRegistry

	logSink LogSink
	bridge  EventBridge

	// 实例标识，用于忽略桥接回来的本进程事件
	instanceID string

	upgrader websocket.Upgrader
}

// NewHub 创建网关。logSink 与 bridge 为可选项，用 SetLogSink / SetEventBridge 注入
func NewHub(registry ScreenRegistry, verifier TokenVerifier) *Hub {
	return &Hub{
		registry:   registry,
		verifier:   verifier,
		sessions:   newSessionRegistry(),
		instanceID: uuid.NewString(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// 播放器多为嵌入式 WebView，来源校验交给令牌
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetLogSink 注入设备日志的持久化实现
func (h *Hub) SetLogSink(sink LogSink) {
	h.logSink = sink
}

// SetEventBridge 注入跨进程事件桥
func (h *Hub) SetEventBridge(bridge EventBridge) {
	h.bridge = bridge
}

// HandleConnection 鉴权并升级一条 WebSocket 连接。
// 设备用 deviceToken（connection_token）准入，仪表盘用 token（JWT）准入，
// 鉴权失败直接以 401 拒绝，不做协议升级。
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	identity, err := h.authenticate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		config.Error("WebSocket 升级失败: %v", err)
		return
	}

	client := newClient(h, conn, identity)
	h.register(client)
	go client.writePump()
	go client.readPump()
}

func (h *Hub) authenticate(r *http.Request) (Identity, error) {
	query := r.URL.Query()
	if deviceToken := query.Get("deviceToken"); deviceToken != "" {
		screen, err := h.registry.FindByConnectionToken(deviceToken)
		if err != nil {
			return Identity{}, fmt.Errorf("无效的设备令牌")
		}
		return Identity{
			Kind:     KindScreen,
			TenantID: screen.TenantID,
			ScreenID: screen.ID,
			DeviceID: screen.DeviceID,
		}, nil
	}
	if token := query.Get("token"); token != "" {
		tenantID, userID, err := h.verifier.VerifyDashboardToken(token)
		if err != nil {
			return Identity{}, fmt.Errorf("无效的访问令牌")
		}
		return Identity{
			Kind:     KindDashboard,
			TenantID: tenantID,
			UserID:   userID,
		}, nil
	}
	return Identity{}, fmt.Errorf("缺少认证令牌")
}

func (h *Hub) register(c *Client) {
	switch c.identity.Kind {
	case KindScreen:
		// 同一块屏幕只保留最新的连接
		if prev := h.sessions.addScreen(c); prev != nil {
			prev.Close()
		}
		if err := h.registry.MarkOnline(c.identity.ScreenID); err != nil {
			config.Error("标记屏幕上线失败: screen=%d err=%v", c.identity.ScreenID, err)
		}
		config.Info("屏幕已连接: tenant=%d screen=%d device=%s", c.identity.TenantID, c.identity.ScreenID, c.identity.DeviceID)
		h.BroadcastStatus(c.identity.TenantID, StatusEvent{
			ScreenID:  c.identity.ScreenID,
			Status:    string(models.ScreenStatusOnline),
			Timestamp: time.Now().UTC(),
		})
	case KindDashboard:
		h.sessions.addDashboard(c)
		config.Info("仪表盘已连接: tenant=%d user=%d", c.identity.TenantID, c.identity.UserID)
	}
}

func (h *Hub) unregister(c *Client) {
	switch c.identity.Kind {
	case KindScreen:
		// 被新连接顶替时注册表已指向新连接，此处不能再标记离线
		if !h.sessions.removeScreen(c) {
			return
		}
		if err := h.registry.MarkOffline(c.identity.ScreenID); err != nil {
			config.Error("标记屏幕离线失败: screen=%d err=%v", c.identity.ScreenID, err)
		}
		config.Info("屏幕已断开: tenant=%d screen=%d", c.identity.TenantID, c.identity.ScreenID)
		h.BroadcastStatus(c.identity.TenantID, StatusEvent{
			ScreenID:  c.identity.ScreenID,
			Status:    string(models.ScreenStatusOffline),
			Timestamp: time.Now().UTC(),
		})
	case KindDashboard:
		h.sessions.removeDashboard(c)
	}
}

// handleMessage 按连接身份分流处理消息。
// 身份之外的消息类型一律忽略，设备消息不会流向指令路由。
func (h *Hub) handleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}
	switch c.identity.Kind {
	case KindScreen:
		h.handleScreenMessage(c, env)
	case KindDashboard:
		h.handleDashboardMessage(c, env)
	}
}

func (h *Hub) handleScreenMessage(c *Client, env Envelope) {
	switch env.Type {
	case MsgScreenHeartbeat:
		var payload HeartbeatPayload
		_ = json.Unmarshal(env.Data, &payload)
		if err := h.registry.RecordHeartbeat(c.identity.ScreenID, payload.PlayerVersion, payload.DeviceInfo); err != nil {
			config.Error("记录心跳失败: screen=%d err=%v", c.identity.ScreenID, err)
		}
		if ack, err := NewEnvelope(MsgHeartbeatAck, HeartbeatAck{Timestamp: time.Now().UTC()}); err == nil {
			c.SafeSend(ack)
		}
	case MsgScreenLog:
		var payload ScreenLogPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		if payload.Level == "" {
			payload.Level = models.LogLevelInfo
		}
		if h.logSink != nil {
			if err := h.logSink.Append(c.identity.TenantID, c.identity.ScreenID, payload.Level, payload.Message, payload.Meta); err != nil {
				config.Warning("持久化屏幕日志失败: screen=%d err=%v", c.identity.ScreenID, err)
			}
		}
		h.fanout(c.identity.TenantID, MsgScreenLog, ScreenLogEvent{
			ScreenID:  c.identity.ScreenID,
			Level:     payload.Level,
			Message:   payload.Message,
			Meta:      payload.Meta,
			Timestamp: time.Now().UTC(),
		})
	case MsgScreenScreenshot:
		var payload ScreenshotPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		h.fanout(c.identity.TenantID, MsgScreenScreenshot, ScreenshotEvent{
			ScreenID:   c.identity.ScreenID,
			Screenshot: payload.Screenshot,
			Timestamp:  time.Now().UTC(),
		})
	}
}

func (h *Hub) handleDashboardMessage(c *Client, env Envelope) {
	switch env.Type {
	case MsgRequestList:
		summaries, err := h.registry.ListSummariesByTenant(c.identity.TenantID)
		if err != nil {
			config.Error("查询屏幕列表失败: tenant=%d err=%v", c.identity.TenantID, err)
			if msg, envErr := NewEnvelope(MsgError, ErrorPayload{Message: "failed to load screen list"}); envErr == nil {
				c.SafeSend(msg)
			}
			return
		}
		if msg, err := NewEnvelope(MsgScreenList, summaries); err == nil {
			c.SafeSend(msg)
		}
	case MsgCommandScreen:
		var req CommandRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return
		}
		h.routeCommand(c, req)
	}
}

// routeCommand 把指令转发给目标屏幕。目标必须在线且与下发方同租户
func (h *Hub) routeCommand(issuer *Client, req CommandRequest) {
	target := h.sessions.screenFor(req.ScreenID)
	if target == nil || target.identity.TenantID != issuer.identity.TenantID {
		if msg, err := NewEnvelope(MsgCommandError, CommandError{
			ScreenID: req.ScreenID,
			Error:    "screen not connected",
		}); err == nil {
			issuer.SafeSend(msg)
		}
		return
	}
	cmd, err := NewEnvelope(MsgCommand, CommandEvent{
		Command:   req.Command,
		Payload:   req.Payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if !target.SafeSend(cmd) {
		if msg, err := NewEnvelope(MsgCommandError, CommandError{
			ScreenID: req.ScreenID,
			Error:    "screen not connected",
		}); err == nil {
			issuer.SafeSend(msg)
		}
		return
	}
	if msg, err := NewEnvelope(MsgCommandSent, CommandSent{
		ScreenID: req.ScreenID,
		Command:  req.Command,
		Status:   "sent",
	}); err == nil {
		issuer.SafeSend(msg)
	}
}

// BroadcastStatus 向租户内所有仪表盘连接广播状态事件，并经事件桥发布给其他进程
func (h *Hub) BroadcastStatus(tenantID uint, event StatusEvent) {
	h.fanout(tenantID, MsgScreenStatus, event)
	if h.bridge != nil {
		payload := bridgeEvent{Origin: h.instanceID, TenantID: tenantID, Event: event}
		if err := h.bridge.PublishScreenStatus(payload); err != nil {
			config.Warning("发布状态事件到事件桥失败: %v", err)
		}
	}
}

// HandleBridgePayload 消费事件桥送来的远端状态事件，只做本地广播不再回发
func (h *Hub) HandleBridgePayload(payload []byte) {
	var ev bridgeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		config.Warning("解析事件桥消息失败: %v", err)
		return
	}
	if ev.Origin == h.instanceID {
		return
	}
	h.fanout(ev.TenantID, MsgScreenStatus, ev.Event)
}

// fanout 向租户内所有仪表盘连接投递一条消息
func (h *Hub) fanout(tenantID uint, msgType string, data interface{}) {
	clients := h.sessions.dashboardsFor(tenantID)
	if len(clients) == 0 {
		return
	}
	msg, err := NewEnvelope(msgType, data)
	if err != nil {
		return
	}
	for _, c := range clients {
		c.SafeSend(msg)
	}
}

// DropScreenConnection 强制断开屏幕的在线连接，令牌轮换后调用
func (h *Hub) DropScreenConnection(screenID uint) {
	if c := h.sessions.screenFor(screenID); c != nil {
		c.Close()
	}
}

// IsScreenConnected 判断屏幕当前是否持有活跃连接
func (h *Hub) IsScreenConnected(screenID uint) bool {
	return h.sessions.screenFor(screenID) != nil
}

// Stats 当前在线连接数，供健康检查使用
func (h *Hub) Stats() (screens, dashboards int) {
	return h.sessions.counts()
}
