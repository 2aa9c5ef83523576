package dto

// ── 训练分配 DTO ──

// QuickAssignRequest 快速分配教练
type QuickAssignRequest struct {
	UserID    string  `json:"user_id"    binding:"required,max=30"` // 学员 username
	TrainerID string  `json:"trainer_id" binding:"required,max=30"` // 教练 username
	Since     *string `json:"since"`                                // YYYY-MM-DD，空则为当前时间
	Until     *string `json:"until"`                                // YYYY-MM-DD，仅作为上一条分配的结束时间
}

// AssignmentListRequest 分配列表查询参数
type AssignmentListRequest struct {
	UserID    string `form:"user_id"`
	TrainerID string `form:"trainer_id"`
	Status    string `form:"status" binding:"omitempty,oneof=active ended inactive"`
	Limit     int    `form:"limit"  binding:"omitempty,min=1,max=200"`
}

// AssignmentResponse 分配记录
type AssignmentResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	TrainerID string  `json:"trainer_id"`
	Status    string  `json:"status"`
	Since     string  `json:"since"`
	Until     *string `json:"until"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// StudentTrainerResponse 活动学员及其当前教练
type StudentTrainerResponse struct {
	Username string              `json:"username"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Active   *AssignmentResponse `json:"active,omitempty"`
}
