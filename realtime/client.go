package realtime

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"signcraft-http-service/config"
)

const (
	// 向对端写消息的超时
	writeWait = 10 * time.Second

	// 收不到 pong 的最长等待时间，超时读循环退出
	pongWait = 60 * time.Second

	// ping 周期，必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10

	// 单条消息大小上限。截图走 base64，额度放宽一些
	maxMessageSize = 1 << 20

	sendBufferSize = 64
)

// Client 一条 WebSocket 连接，读写各占一个 goroutine
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	identity Identity

	send      chan []byte
	closeOnce sync.Once
	closed    atomic.Bool
}

func newClient(hub *Hub, conn *websocket.Conn, identity Identity) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		identity: identity,
		send:     make(chan []byte, sendBufferSize),
	}
}

// SafeSend 向发送缓冲投递一条消息，连接已关闭时返回 false 而不会 panic。
// 缓冲满说明对端消费过慢，直接断开让其重连。
func (c *Client) SafeSend(message []byte) (sent bool) {
	// closed 检查和实际发送之间 Close 仍可能插入，残余窗口靠 recover 兜底
	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	if c.closed.Load() {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		config.Warning("发送缓冲已满，断开连接: tenant=%d kind=%d", c.identity.TenantID, c.identity.Kind)
		c.Close()
		return false
	}
}

// Close 幂等关闭连接。关闭 send 通道使写循环退出
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.send)
		_ = c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				config.Warning("连接异常关闭: %v", err)
			}
			return
		}
		c.hub.handleMessage(c, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
