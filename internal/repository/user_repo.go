package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ju4n3s0/GymIcesi-System/internal/model"
)

// InstitutionalUserRepository 机构账号数据访问接口
type InstitutionalUserRepository interface {
	GetByLink(ctx context.Context, link model.PersonLink) (*model.InstitutionalUser, error)
	GetByUsername(ctx context.Context, username string) (*model.InstitutionalUser, error)
	// ListActive 活动账号，role 为空时不过滤角色，按 username 升序
	ListActive(ctx context.Context, role string) ([]model.InstitutionalUser, error)
}

type institutionalUserRepo struct {
	db *gorm.DB
}

// NewInstitutionalUserRepo 创建 InstitutionalUserRepository 实例
func NewInstitutionalUserRepo(db *gorm.DB) InstitutionalUserRepository {
	return &institutionalUserRepo{db: db}
}

func (r *institutionalUserRepo) GetByLink(ctx context.Context, link model.PersonLink) (*model.InstitutionalUser, error) {
	q := r.db.WithContext(ctx)
	switch {
	case link.StudentID != nil:
		q = q.Where("student_id = ?", *link.StudentID)
	case link.EmployeeID != nil:
		q = q.Where("employee_id = ?", *link.EmployeeID)
	default:
		return nil, gorm.ErrRecordNotFound
	}

	var user model.InstitutionalUser
	if err := q.Order("username").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *institutionalUserRepo) GetByUsername(ctx context.Context, username string) (*model.InstitutionalUser, error) {
	var user model.InstitutionalUser
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Employee").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *institutionalUserRepo) ListActive(ctx context.Context, role string) ([]model.InstitutionalUser, error) {
	var users []model.InstitutionalUser
	q := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Employee").
		Where("is_active = ?", true)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Order("username ASC").Find(&users).Error
	return users, err
}
