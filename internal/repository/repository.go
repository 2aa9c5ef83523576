package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
// 关系库（机构数据、会话身份）与文档库（分配、目录、进度）各自独立，不存在跨库事务
type Repository struct {
	db *gorm.DB

	// 关系库
	Student  StudentRepository
	Employee EmployeeRepository
	User     InstitutionalUserRepository
	AuthUser AuthUserRepository

	// 文档库
	TrainerAssignment TrainerAssignmentStore
	Exercise          ExerciseStore
	Routine           RoutineStore
	UserRoutine       UserRoutineStore
	Progress          ProgressStore
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB, mdb *mongo.Database) *Repository {
	return &Repository{
		db:                db,
		Student:           NewStudentRepo(db),
		Employee:          NewEmployeeRepo(db),
		User:              NewInstitutionalUserRepo(db),
		AuthUser:          NewAuthUserRepo(db),
		TrainerAssignment: NewTrainerAssignmentStore(mdb),
		Exercise:          NewExerciseStore(mdb),
		Routine:           NewRoutineStore(mdb),
		UserRoutine:       NewUserRoutineStore(mdb),
		Progress:          NewProgressStore(mdb),
	}
}

// BeginTx 开启关系库事务；未配置数据库（单元测试）时返回 nil
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 副本
// 文档库句柄原样共享
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	cp := *r
	cp.db = tx
	cp.Student = NewStudentRepo(tx)
	cp.Employee = NewEmployeeRepo(tx)
	cp.User = NewInstitutionalUserRepo(tx)
	cp.AuthUser = NewAuthUserRepo(tx)
	return &cp
}

// EnsureIndexes 启动时确保文档库索引存在
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	if err := r.TrainerAssignment.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := r.UserRoutine.EnsureIndexes(ctx); err != nil {
		return err
	}
	return r.Progress.EnsureIndexes(ctx)
}
