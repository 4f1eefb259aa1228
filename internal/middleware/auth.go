package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"debate_classroom/internal/utils"
)

const (
	RoleAdmin     = "admin"
	RoleSpectator = "spectator"
)

// AuthMiddleware 是一個 Gin 中間件，用於驗證請求的 JWT token
// WebSocket 連線無法帶自訂 header，因此也接受 token 查詢參數
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			token = c.Query("token")
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("classroomID", claims.ClassroomID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// ClassroomScope 確認 token 所屬的課堂與路由參數一致
// 一張憑證只能操作發給它的那個課堂
func ClassroomScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		classroomID := c.GetString("classroomID")
		if paramID := c.Param("id"); paramID != "" && paramID != classroomID {
			c.JSON(http.StatusForbidden, gin.H{"error": "憑證不屬於這個課堂"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin 只放行管理員角色的請求
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "只有管理員可以執行這個操作"})
			c.Abort()
			return
		}
		c.Next()
	}
}
