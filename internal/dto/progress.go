package dto

// ── 进度记录 DTO ──

// CreateProgressRequest 记录一次训练
// Username 仅员工 / 管理员可指定，学生总是记录到自己名下
type CreateProgressRequest struct {
	Username   string   `json:"username"    binding:"max=30"`
	ExerciseID string   `json:"exercise_id" binding:"required"`
	Date       string   `json:"date"        binding:"required"` // YYYY-MM-DD
	Reps       *int     `json:"reps"        binding:"omitempty,min=0"`
	Weight     *float64 `json:"weight"      binding:"omitempty,min=0"`
}

// ProgressListRequest 进度列表查询参数
type ProgressListRequest struct {
	Username string `form:"username"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ProgressSetResponse 一组
type ProgressSetResponse struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

// ProgressEntryResponse 一个动作的记录
type ProgressEntryResponse struct {
	ExerciseID   string                `json:"exercise_id"`
	ExerciseName string                `json:"exercise_name"`
	Sets         []ProgressSetResponse `json:"sets"`
}

// ProgressLogResponse 进度记录
type ProgressLogResponse struct {
	ID      string                  `json:"id"`
	UserID  string                  `json:"user_id"`
	Date    string                  `json:"date"`
	Entries []ProgressEntryResponse `json:"entries"`
}
