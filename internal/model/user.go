package model

import (
	"time"

	"github.com/ju4n3s0/GymIcesi-System/internal/credential"
)

// InstitutionalUser 机构账号表，对应 users，唯一的凭据来源
type InstitutionalUser struct {
	Username     string            `gorm:"type:varchar(30);primaryKey"             json:"username"`
	PasswordHash credential.Stored `gorm:"column:password_hash;type:varchar(200)"  json:"-"`
	Role         string            `gorm:"type:varchar(20);not null"               json:"role"`
	StudentID    *string           `gorm:"type:varchar(15)"                        json:"student_id,omitempty"`
	EmployeeID   *string           `gorm:"type:varchar(15)"                        json:"employee_id,omitempty"`
	IsActive     bool              `gorm:"not null;default:true"                   json:"is_active"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"      json:"created_at"`

	// 关联
	Student  *Student  `gorm:"foreignKey:StudentID;references:ID"  json:"student,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID" json:"employee,omitempty"`
}

// TableName 指定表名
func (InstitutionalUser) TableName() string { return "users" }

// LinkMatchesRole 学生账号只链接学生，员工 / 管理员账号只链接员工
func (u *InstitutionalUser) LinkMatchesRole() bool {
	switch u.Role {
	case RoleStudent:
		return u.StudentID != nil && u.EmployeeID == nil
	case RoleEmployee, RoleAdmin:
		return u.EmployeeID != nil && u.StudentID == nil
	default:
		return false
	}
}

// DisplayName 关联人员姓名，未预加载时退回 username
func (u *InstitutionalUser) DisplayName() string {
	switch {
	case u.Student != nil:
		return u.Student.FullName()
	case u.Employee != nil:
		return u.Employee.FullName()
	default:
		return u.Username
	}
}

// Email 关联人员邮箱
func (u *InstitutionalUser) Email() string {
	switch {
	case u.Student != nil:
		return u.Student.Email
	case u.Employee != nil:
		return u.Employee.Email
	default:
		return ""
	}
}

// AuthUser 会话身份表，对应 auth_users
// 完全由机构账号镜像而来，password 永远是不可用标记
type AuthUser struct {
	ID          uint      `gorm:"primaryKey"                           json:"id"`
	Username    string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"type:varchar(254);not null"           json:"email"`
	Password    string    `gorm:"type:varchar(128);not null"           json:"-"`
	Role        string    `gorm:"type:varchar(20);not null"            json:"role"`
	StudentID   *string   `gorm:"type:varchar(15)"                     json:"student_id,omitempty"`
	EmployeeID  *string   `gorm:"type:varchar(15)"                     json:"employee_id,omitempty"`
	IsActive    bool      `gorm:"not null"                             json:"is_active"`
	IsStaff     bool      `gorm:"not null"                             json:"is_staff"`
	IsSuperuser bool      `gorm:"not null"                             json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (AuthUser) TableName() string { return "auth_users" }

// MirrorSource 会话身份的镜像来源
type MirrorSource struct {
	Email      string
	Role       string
	StudentID  *string
	EmployeeID *string
	IsActive   bool
}

// MirrorFrom 由机构账号与登录邮箱构造镜像来源
func MirrorFrom(inst *InstitutionalUser, email string) MirrorSource {
	return MirrorSource{
		Email:      email,
		Role:       inst.Role,
		StudentID:  inst.StudentID,
		EmployeeID: inst.EmployeeID,
		IsActive:   inst.IsActive,
	}
}

// HasUsablePassword 是否持有可用密码
func (u *AuthUser) HasUsablePassword() bool {
	return credential.IsUsable(u.Password)
}

// ApplyMirror 将来源字段写入会话身份并强制不可用密码
// 返回 true 表示有字段发生变化，需要保存
func (u *AuthUser) ApplyMirror(src MirrorSource) bool {
	staff, superuser := RoleFlags(src.Role)
	changed := false

	if u.Email != src.Email {
		u.Email = src.Email
		changed = true
	}
	if u.Role != src.Role {
		u.Role = src.Role
		changed = true
	}
	if !equalStringPtr(u.StudentID, src.StudentID) {
		u.StudentID = src.StudentID
		changed = true
	}
	if !equalStringPtr(u.EmployeeID, src.EmployeeID) {
		u.EmployeeID = src.EmployeeID
		changed = true
	}
	if u.IsActive != src.IsActive {
		u.IsActive = src.IsActive
		changed = true
	}
	if u.IsStaff != staff {
		u.IsStaff = staff
		changed = true
	}
	if u.IsSuperuser != superuser {
		u.IsSuperuser = superuser
		changed = true
	}
	if u.Password == "" || u.HasUsablePassword() {
		u.Password = credential.UnusableMarker()
		changed = true
	}

	return changed
}
