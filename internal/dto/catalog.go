package dto

// ── 目录 DTO ──

// CreateExerciseRequest 创建动作
type CreateExerciseRequest struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Type        string `json:"type"        binding:"required,oneof=cardio fuerza movilidad"`
	Description string `json:"description" binding:"max=2000"`
	Duration    int    `json:"duration"    binding:"required,min=1"`
	Difficulty  string `json:"difficulty"  binding:"required,oneof=baja media alta"`
	VideoURL    string `json:"video_url"   binding:"omitempty,url"`
}

// ExerciseListRequest 动作列表查询参数
type ExerciseListRequest struct {
	Type string `form:"type" binding:"omitempty,oneof=cardio fuerza movilidad"`
}

// ExerciseResponse 动作
type ExerciseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
	Difficulty  string `json:"difficulty"`
	VideoURL    string `json:"video_url,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// CreateRoutineRequest 创建训练计划，动作顺序即提交顺序
type CreateRoutineRequest struct {
	Name        string   `json:"name"         binding:"required,max=100"`
	Description string   `json:"description"  binding:"max=2000"`
	ExerciseIDs []string `json:"exercise_ids" binding:"required,min=1"`
}

// RoutineItemResponse 计划中的动作快照
type RoutineItemResponse struct {
	ExerciseID string `json:"exercise_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Order      int    `json:"order"`
}

// RoutineResponse 训练计划
type RoutineResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Items       []RoutineItemResponse `json:"items"`
	CreatedBy   string                `json:"created_by,omitempty"`
	CreatedAt   string                `json:"created_at"`
}
