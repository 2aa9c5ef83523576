package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/internal/credential"
	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
	pkgerrors "github.com/ju4n3s0/GymIcesi-System/pkg/errors"
	"github.com/ju4n3s0/GymIcesi-System/pkg/jwt"
)

var (
	// ErrInvalidCredentials 统一的认证失败，不区分具体原因
	ErrInvalidCredentials  = fmt.Errorf("%w: 邮箱或密码错误", pkgerrors.ErrAuthentication)
	ErrInvalidRefreshToken = fmt.Errorf("%w: 刷新令牌无效或已过期", pkgerrors.ErrAuthentication)
	ErrUserNotFound        = fmt.Errorf("%w: 用户不存在", pkgerrors.ErrNotFound)
)

// AuthService 认证业务接口
type AuthService interface {
	// Authenticate 机构账号认证并镜像会话身份，任一关卡失败返回 ErrInvalidCredentials
	Authenticate(ctx context.Context, identifier, password string) (*model.AuthUser, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 吊销当前 Access Token，refreshToken 非空时一并吊销
	Logout(ctx context.Context, claims *jwt.Claims, refreshToken string) error
	GetCurrentUser(ctx context.Context, username string) (*dto.SessionUserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	identity  IdentityService
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	identity IdentityService,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	if cfg.Auth.LegacyPlaintextEnabled {
		logger.Warn("已启用明文机构密码兼容，仅应在测试数据环境中使用")
	}
	return &authService{
		cfg:       cfg,
		repo:      repo,
		identity:  identity,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Authenticate ──────────────────────

func (s *authService) Authenticate(ctx context.Context, identifier, password string) (*model.AuthUser, error) {
	identifier = strings.TrimSpace(identifier)

	// 1. 拒绝空密码
	if password == "" {
		s.logger.Info("认证失败: 密码为空")
		return nil, ErrInvalidCredentials
	}

	// 2. 解析身份
	link, err := s.identity.Resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			s.logger.Info("认证失败: 邮箱未关联学生或员工", zap.String("email", identifier))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 3. 机构账号
	inst, err := s.repo.User.GetByLink(ctx, link)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("认证失败: 机构账号不存在", zap.String("link", link.String()))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询机构账号失败", zap.Error(err))
		return nil, err
	}

	// 4. 停用账号
	if !inst.IsActive {
		s.logger.Info("认证失败: 机构账号已停用", zap.String("username", inst.Username))
		return nil, ErrInvalidCredentials
	}

	// 4b. 角色须与人员链接一致
	if !inst.LinkMatchesRole() {
		s.logger.Warn("认证失败: 机构账号角色与链接不一致",
			zap.String("username", inst.Username), zap.String("role", inst.Role))
		return nil, ErrInvalidCredentials
	}

	// 5. 校验密码
	if inst.PasswordHash.Kind() == credential.KindPlaintext && !s.cfg.Auth.LegacyPlaintextEnabled {
		s.logger.Warn("认证失败: 明文凭据未启用", zap.String("username", inst.Username))
		return nil, ErrInvalidCredentials
	}
	if !inst.PasswordHash.Verify(password) {
		s.logger.Info("认证失败: 密码不匹配", zap.String("username", inst.Username))
		return nil, ErrInvalidCredentials
	}

	// 6. 镜像会话身份
	user, err := s.mirror(ctx, inst, identifier)
	if err != nil {
		return nil, err
	}

	s.logger.Info("认证成功", zap.String("username", user.Username), zap.String("role", user.Role))
	return user, nil
}

// mirror 在单个事务内创建或更新会话身份
func (s *authService) mirror(ctx context.Context, inst *model.InstitutionalUser, email string) (*model.AuthUser, error) {
	src := model.MirrorFrom(inst, email)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	user, err := txRepo.AuthUser.GetByUsernameForUpdate(ctx, inst.Username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.AuthUser{Username: inst.Username}
		user.ApplyMirror(src)
		if err := txRepo.AuthUser.Create(ctx, user); err != nil {
			rollback()
			s.logger.Error("创建会话身份失败", zap.String("username", inst.Username), zap.Error(err))
			return nil, err
		}
	case err != nil:
		rollback()
		s.logger.Error("查询会话身份失败", zap.String("username", inst.Username), zap.Error(err))
		return nil, err
	default:
		if user.ApplyMirror(src) {
			if err := txRepo.AuthUser.Update(ctx, user); err != nil {
				rollback()
				s.logger.Error("更新会话身份失败", zap.String("username", inst.Username), zap.Error(err))
				return nil, err
			}
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return user, nil
}

// ────────────────────── Login / Refresh / Logout ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user, req.RememberMe)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefreshToken
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		} else if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	// 机构账号仍是唯一权威：停用后不再续期
	inst, err := s.repo.User.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("查询机构账号失败", zap.Error(err))
		return nil, err
	}
	if !inst.IsActive || !inst.LinkMatchesRole() {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.AuthUser.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("查询会话身份失败", zap.Error(err))
		return nil, err
	}

	// 轮换：旧 refresh token 作废
	s.revoke(ctx, claims)

	return s.issueTokens(user, claims.RememberMe)
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims, refreshToken string) error {
	if s.blacklist == nil {
		s.logger.Warn("Redis 不可用，注销仅在客户端生效")
		return nil
	}
	if claims != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, remaining(claims)); err != nil {
			s.logger.Error("吊销 Access Token 失败", zap.Error(err))
			return err
		}
	}
	if refreshToken != "" {
		if rc, err := s.jwtMgr.ParseToken(refreshToken); err == nil && rc.TokenType == "refresh" {
			s.revoke(ctx, rc)
		}
	}
	return nil
}

func (s *authService) GetCurrentUser(ctx context.Context, username string) (*dto.SessionUserResponse, error) {
	user, err := s.repo.AuthUser.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询会话身份失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	resp := toSessionUserResponse(user)
	return &resp, nil
}

// ── 内部辅助方法 ──

func (s *authService) issueTokens(user *model.AuthUser, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.Username, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.Username, user.Role, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toSessionUserResponse(user),
	}, nil
}

func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, remaining(claims)); err != nil {
		s.logger.Warn("吊销 Token 失败", zap.Error(err))
	}
}

func remaining(claims *jwt.Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}

func toSessionUserResponse(u *model.AuthUser) dto.SessionUserResponse {
	return dto.SessionUserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		StudentID:   u.StudentID,
		EmployeeID:  u.EmployeeID,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}
