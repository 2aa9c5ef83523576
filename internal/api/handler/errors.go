package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/ju4n3s0/GymIcesi-System/pkg/errors"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

// 通用业务错误码，模块专属错误码在各 Handler 中定义
const (
	codeInvalidParams = 10001
	codeUnauthorized  = 10002
	codeForbidden     = 10003
	codeNotFound      = 10006
	codeConflict      = 10009
)

// handleServiceError 按错误类别映射 HTTP 状态码
// 非业务错误一律 500，不向客户端暴露内部信息
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrValidation):
		response.BadRequest(c, codeInvalidParams, err.Error())
	case errors.Is(err, pkgerrors.ErrAuthentication):
		response.Unauthorized(c, codeUnauthorized, err.Error())
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, codeForbidden, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, codeNotFound, err.Error())
	case errors.Is(err, pkgerrors.ErrConflict):
		response.Conflict(c, codeConflict, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindError 请求参数绑定失败
func bindError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.BadRequest(c, codeInvalidParams, "请求参数格式错误")
}
