package middleware

import (
	"strings"

	"signcraft-http-service/config"
	"signcraft-http-service/internal/error/code"
	"signcraft-http-service/internal/error/response"
	"signcraft-http-service/models"
	"signcraft-http-service/services"

	"github.com/gin-gonic/gin"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// AuthenticateUser 验证仪表盘用户身份，并把租户与用户信息写入上下文。
// 后续处理器通过 tenant_id 做租户隔离，所有查询都必须带上它。
func AuthenticateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.FailWithMessage(c, code.ErrTokenInvalid, "缺少 Authorization 头", nil)
			c.Abort()
			return
		}

		claims, err := jwtService.ExtractClaims(extractToken(authHeader))
		if err != nil {
			response.FailWithMessage(c, code.ErrTokenInvalid, "无效的令牌: "+err.Error(), nil)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireTenantAdmin 要求租户管理员角色，必须在 AuthenticateUser 之后使用
func RequireTenantAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != string(models.UserRoleTenantAdmin) {
			response.Fail(c, code.ErrTenantMismatch, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
