package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/service"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc      service.AuthService
	secureCookie bool
	refreshTTL   int // Cookie Max-Age（秒）
	rememberTTL  int
}

// NewAuthHandler 创建 AuthHandler，cfg 为 nil 时使用默认 Cookie 参数
func NewAuthHandler(authSvc service.AuthService, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{
		authSvc:     authSvc,
		refreshTTL:  24 * 3600,
		rememberTTL: 7 * 24 * 3600,
	}
	if cfg != nil {
		h.secureCookie = strings.HasPrefix(cfg.Server.BaseURL, "https://")
		if ttl := cfg.Auth.RefreshTokenTTLDefault; ttl > 0 {
			h.refreshTTL = int(ttl.Seconds())
		}
		if ttl := cfg.Auth.RefreshTokenTTLRemember; ttl > 0 {
			h.rememberTTL = int(ttl.Seconds())
		}
	}
	return h
}

// Login 机构邮箱登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, 11001, "邮箱或密码错误")
			return
		}
		handleServiceError(c, err)
		return
	}

	maxAge := h.refreshTTL
	if req.RememberMe {
		maxAge = h.rememberTTL
	}
	h.setRefreshCookie(c, result.RefreshToken, maxAge)
	response.OK(c, result)
}

// RefreshToken 刷新 Token，refresh_token 可来自请求体或 Cookie
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token := h.refreshTokenFrom(c)
	if token == "" {
		response.BadRequest(c, codeInvalidParams, "缺少 refresh_token")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			h.setRefreshCookie(c, "", -1)
			response.Unauthorized(c, 11002, "刷新令牌无效或已过期")
			return
		}
		handleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, h.refreshTTL)
	response.OK(c, result)
}

// Logout 注销当前会话
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims, h.refreshTokenFrom(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, "", -1)
	response.OK(c, nil)
}

// GetCurrentUser 当前会话身份
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), username)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, user)
}

func (h *AuthHandler) refreshTokenFrom(c *gin.Context) string {
	var req dto.RefreshTokenRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	token, _ := c.Cookie(refreshCookieName)
	return token
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, value, maxAge, refreshCookiePath, "", h.secureCookie, true)
}
