package controllers

import (
	"signcraft-http-service/realtime"

	"github.com/gin-gonic/gin"
)

// HandleWebSocketFunc 返回WebSocket接入点的Gin处理函数。
// 鉴权在 Hub 内完成：设备携带 deviceToken，仪表盘携带 token。
//
// @Summary      WebSocket接入
// @Description  设备与仪表盘的实时通道，通过查询参数携带令牌认证
// @Tags         realtime
// @Param        token        query  string  false  "仪表盘JWT令牌"
// @Param        deviceToken  query  string  false  "设备连接令牌"
// @Success      101  "协议升级成功"
// @Failure      401  "认证失败"
// @Router       /ws [get]
func HandleWebSocketFunc(hub *realtime.Hub) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		hub.HandleConnection(ctx.Writer, ctx.Request)
	}
}
