package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
	pkgerrors "github.com/ju4n3s0/GymIcesi-System/pkg/errors"
)

// ErrIdentityNotFound 邮箱既不属于学生也不属于员工
var ErrIdentityNotFound = fmt.Errorf("%w: 邮箱未关联任何学生或员工", pkgerrors.ErrNotFound)

// IdentityService 身份解析接口
type IdentityService interface {
	// Resolve 按邮箱解析人员：先学生后员工，同一邮箱同时存在时学生优先
	Resolve(ctx context.Context, email string) (model.PersonLink, error)
}

type identityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewIdentityService 创建 IdentityService 实例
func NewIdentityService(repo *repository.Repository, logger *zap.Logger) IdentityService {
	return &identityService{repo: repo, logger: logger}
}

func (s *identityService) Resolve(ctx context.Context, email string) (model.PersonLink, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.PersonLink{}, ErrIdentityNotFound
	}

	student, err := s.repo.Student.GetByEmail(ctx, email)
	if err == nil {
		return model.StudentLink(student.ID), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("按邮箱查询学生失败", zap.Error(err))
		return model.PersonLink{}, err
	}

	employee, err := s.repo.Employee.GetByEmail(ctx, email)
	if err == nil {
		return model.EmployeeLink(employee.ID), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("按邮箱查询员工失败", zap.Error(err))
		return model.PersonLink{}, err
	}

	return model.PersonLink{}, ErrIdentityNotFound
}
