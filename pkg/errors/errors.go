package errors

import "errors"

// ── 错误分类 ──
// 业务层错误均以 fmt.Errorf("%w: ...", 分类) 包装其中之一，
// Handler 层通过 errors.Is 判定分类并映射 HTTP 状态码。

var (
	// ErrAuthentication 认证失败：不区分具体原因，避免账号枚举
	ErrAuthentication = errors.New("认证失败")
	// ErrValidation 输入不合法
	ErrValidation = errors.New("参数不合法")
	// ErrConflict 唯一约束冲突
	ErrConflict = errors.New("数据冲突")
	// ErrNotFound 引用的记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrForbidden 已认证但无权访问他人数据
	ErrForbidden = errors.New("无权访问")
)
