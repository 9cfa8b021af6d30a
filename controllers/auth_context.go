package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// currentTenantID 从上下文读取 JWT 中间件写入的租户ID。
// 缺失时返回 401 并返回 false，调用方应立即 return。
func currentTenantID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get("tenant_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "未认证的请求",
			"data":    nil,
		})
		return 0, false
	}
	tenantID, ok := value.(uint)
	if !ok || tenantID == 0 {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "未认证的请求",
			"data":    nil,
		})
		return 0, false
	}
	return tenantID, true
}

// currentUserID 从上下文读取 JWT 中间件写入的用户ID
func currentUserID(ctx *gin.Context) uint {
	if value, exists := ctx.Get("user_id"); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}
