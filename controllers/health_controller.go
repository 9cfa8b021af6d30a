package controllers

import (
	"net/http"

	"signcraft-http-service/realtime"

	"github.com/gin-gonic/gin"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Hub *realtime.Hub
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(hub *realtime.Hub) *HealthCheckController {
	return &HealthCheckController{Hub: hub}
}

// Ping 健康检查端点，附带当前在线连接数
func (h *HealthCheckController) Ping(c *gin.Context) {
	screens, dashboards := 0, 0
	if h.Hub != nil {
		screens, dashboards = h.Hub.Stats()
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"status":  "healthy",
		"connections": gin.H{
			"screens":    screens,
			"dashboards": dashboards,
		},
	})
}
