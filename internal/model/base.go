package model

// ── 角色 ──

const (
	RoleStudent  = "STUDENT"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

// IsStaffRole 员工与管理员可管理目录、分配与报表
func IsStaffRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}

// RoleFlags 角色 → 会话身份权限标记的静态映射，未知角色无任何标记
func RoleFlags(role string) (staff, superuser bool) {
	switch role {
	case RoleEmployee:
		return true, false
	case RoleAdmin:
		return true, true
	default:
		return false, false
	}
}

// PersonLink 身份解析结果：StudentID 与 EmployeeID 恰有其一
type PersonLink struct {
	StudentID  *string
	EmployeeID *string
}

// StudentLink 构造学生链接
func StudentLink(id string) PersonLink { return PersonLink{StudentID: &id} }

// EmployeeLink 构造员工链接
func EmployeeLink(id string) PersonLink { return PersonLink{EmployeeID: &id} }

// IsStudent 是否指向学生记录
func (l PersonLink) IsStudent() bool { return l.StudentID != nil }

// String 便于日志输出
func (l PersonLink) String() string {
	if l.StudentID != nil {
		return "student_id=" + *l.StudentID
	}
	if l.EmployeeID != nil {
		return "employee_id=" + *l.EmployeeID
	}
	return "<empty>"
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
