package dto

// ── 计划分配 DTO ──

// AssignRoutineRequest 将训练计划交给某用户
type AssignRoutineRequest struct {
	Username  string `json:"username"   binding:"required,max=30"`
	RoutineID string `json:"routine_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	Notes     string `json:"notes"      binding:"max=500"`
}

// RoutineAssignmentResponse 计划分配记录
type RoutineAssignmentResponse struct {
	ID           string `json:"id"`
	RoutineID    string `json:"routine_id"`
	RoutineName  string `json:"routine_name,omitempty"`
	TargetUserID string `json:"target_user_id"`
	StartDate    string `json:"start_date"`
	Notes        string `json:"notes,omitempty"`
	IsActive     bool   `json:"is_active"`
	AssignedBy   string `json:"assigned_by,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// RoutineUserResponse 活动用户及其计划分配数量
type RoutineUserResponse struct {
	Username          string `json:"username"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	Assignments       int64  `json:"assignments"`
	ActiveAssignments int64  `json:"active_assignments"`
}
