package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ju4n3s0/GymIcesi-System/internal/api/middleware"
	"github.com/ju4n3s0/GymIcesi-System/pkg/jwt"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

// MustGetUsername 从上下文获取当前用户名（由 JWTAuth 注入）
// 不存在时返回 401 并中止
func MustGetUsername(c *gin.Context) (string, bool) {
	username := c.GetString(middleware.CtxUsername)
	if username == "" {
		response.Unauthorized(c, 10002, "未认证")
		c.Abort()
		return "", false
	}
	return username, true
}

// MustGetRole 从上下文获取当前用户角色
func MustGetRole(c *gin.Context) (string, bool) {
	role := c.GetString(middleware.CtxRole)
	if role == "" {
		response.Unauthorized(c, 10002, "未认证")
		c.Abort()
		return "", false
	}
	return role, true
}

// mustGetViewer 同时获取用户名与角色，供数据范围校验使用
func mustGetViewer(c *gin.Context) (string, string, bool) {
	username, ok := MustGetUsername(c)
	if !ok {
		return "", "", false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return "", "", false
	}
	return username, role, true
}

// MustGetClaims 获取当前 Access Token 的声明
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	claims, ok := v.(*jwt.Claims)
	if !exists || !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		c.Abort()
		return nil, false
	}
	return claims, true
}
