package dto

// ── 报表 DTO ──

// TopExercisesRequest 热门动作报表参数
type TopExercisesRequest struct {
	ExportRequest
	Type  string `form:"type"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// UserSummaryRow 按用户汇总的计划分配
type UserSummaryRow struct {
	Username         string `json:"username"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Total            int64  `json:"total"`
	Active           int64  `json:"active"`
	Inactive         int64  `json:"inactive"`
	FirstStart       string `json:"first_start"`
	LastStart        string `json:"last_start"`
	DistinctRoutines int64  `json:"distinct_routines"`
}

// UnassignedUserRow 没有任何计划分配的活动用户
type UnassignedUserRow struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// TopExerciseRow 热门动作
type TopExerciseRow struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count int64  `json:"count"`
}
