package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ju4n3s0/GymIcesi-System/internal/model"
)

// AuthUserRepository 会话身份数据访问接口
type AuthUserRepository interface {
	// GetByUsernameForUpdate 事务内加行锁读取
	GetByUsernameForUpdate(ctx context.Context, username string) (*model.AuthUser, error)
	GetByUsername(ctx context.Context, username string) (*model.AuthUser, error)
	Create(ctx context.Context, user *model.AuthUser) error
	Update(ctx context.Context, user *model.AuthUser) error
}

type authUserRepo struct {
	db *gorm.DB
}

// NewAuthUserRepo 创建 AuthUserRepository 实例
func NewAuthUserRepo(db *gorm.DB) AuthUserRepository {
	return &authUserRepo{db: db}
}

func (r *authUserRepo) GetByUsernameForUpdate(ctx context.Context, username string) (*model.AuthUser, error) {
	var user model.AuthUser
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *authUserRepo) GetByUsername(ctx context.Context, username string) (*model.AuthUser, error) {
	var user model.AuthUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *authUserRepo) Create(ctx context.Context, user *model.AuthUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *authUserRepo) Update(ctx context.Context, user *model.AuthUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}
