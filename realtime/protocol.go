package realtime

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 客户端与服务端之间的消息类型。
// 设备端：screen:heartbeat / screen:log / screen:screenshot，
// 仪表盘端：request:screen_list / command:screen。
const (
	MsgScreenHeartbeat  = "screen:heartbeat"
	MsgHeartbeatAck     = "heartbeat:ack"
	MsgScreenLog        = "screen:log"
	MsgScreenScreenshot = "screen:screenshot"
	MsgScreenStatus     = "screen:status"
	MsgRequestList      = "request:screen_list"
	MsgScreenList       = "screen_list"
	MsgCommandScreen    = "command:screen"
	MsgCommand          = "command"
	MsgCommandSent      = "command:sent"
	MsgCommandError     = "command:error"
	MsgError            = "error"
)

// 状态事件的 reason 取值
const (
	ReasonHeartbeatTimeout = "heartbeat_timeout"
)

// Envelope 是 WebSocket 上传输的统一消息信封
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope 构造一个携带任意负载的消息信封
func NewEnvelope(msgType string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Data: payload})
}

// HeartbeatPayload 设备心跳消息的负载
type HeartbeatPayload struct {
	PlayerVersion string         `json:"playerVersion,omitempty"`
	DeviceInfo    datatypes.JSON `json:"deviceInfo,omitempty"`
}

// HeartbeatAck 心跳确认
type HeartbeatAck struct {
	Timestamp time.Time `json:"timestamp"`
}

// StatusEvent 屏幕状态变化事件，推送给同租户的所有仪表盘连接
type StatusEvent struct {
	ScreenID  uint      `json:"screenId"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ScreenLogPayload 设备上报的日志
type ScreenLogPayload struct {
	Level   string         `json:"level,omitempty"`
	Message string         `json:"message"`
	Meta    datatypes.JSON `json:"meta,omitempty"`
}

// ScreenLogEvent 转发给仪表盘的设备日志
type ScreenLogEvent struct {
	ScreenID  uint           `json:"screenId"`
	Level     string         `json:"level,omitempty"`
	Message   string         `json:"message"`
	Meta      datatypes.JSON `json:"meta,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ScreenshotPayload 设备上报的截图
type ScreenshotPayload struct {
	Screenshot string `json:"screenshot"` // base64
}

// ScreenshotEvent 转发给仪表盘的截图
type ScreenshotEvent struct {
	ScreenID   uint      `json:"screenId"`
	Screenshot string    `json:"screenshot"`
	Timestamp  time.Time `json:"timestamp"`
}

// ErrorPayload 推送给客户端的通用错误消息
type ErrorPayload struct {
	Message string `json:"message"`
}

// CommandRequest 仪表盘下发的设备指令
type CommandRequest struct {
	ScreenID uint            `json:"screenId"`
	Command  string          `json:"command"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// CommandEvent 转发给设备的指令
type CommandEvent struct {
	Command   string          `json:"command"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// CommandSent 指令投递成功的回执
type CommandSent struct {
	ScreenID uint   `json:"screenId"`
	Command  string `json:"command"`
	Status   string `json:"status"`
}

// CommandError 指令投递失败的回执
type CommandError struct {
	ScreenID uint   `json:"screenId"`
	Error    string `json:"error"`
}
