package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ── 训练分配（trainer_assignments） ──

// 分配状态
const (
	AssignmentActive   = "active"
	AssignmentEnded    = "ended"
	AssignmentInactive = "inactive"
)

// IsValidAssignmentStatus 校验状态取值
func IsValidAssignmentStatus(s string) bool {
	return s == AssignmentActive || s == AssignmentEnded || s == AssignmentInactive
}

// TrainerAssignment 学员与教练的分配关系
// 同一 userId 至多一条 status=active，由部分唯一索引保证
type TrainerAssignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId"        json:"userId"`
	TrainerID string             `bson:"trainerId"     json:"trainerId"`
	Status    string             `bson:"status"        json:"status"`
	Since     time.Time          `bson:"since"         json:"since"`
	Until     *time.Time         `bson:"until"         json:"until"` // 活动分配显式存 null
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// ── 计划分配（user_routines） ──

// RoutineAssignment 某日交给某用户的一份训练计划，同一用户可并存多条
type RoutineAssignment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"         json:"id"`
	RoutineID    primitive.ObjectID `bson:"routineId"             json:"routineId"`
	TargetUserID string             `bson:"targetUserId"          json:"targetUserId"`
	StartDate    time.Time          `bson:"startDate"             json:"startDate"`
	Notes        string             `bson:"notes"                 json:"notes"`
	IsActive     bool               `bson:"isActive"              json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt"             json:"createdAt"`
	AssignedBy   string             `bson:"assignedBy,omitempty"  json:"assignedBy,omitempty"`
}

// ── 目录 ──

// 动作类型
const (
	ExerciseCardio   = "cardio"
	ExerciseStrength = "fuerza"
	ExerciseMobility = "movilidad"
	DifficultyLow    = "baja"
	DifficultyMedium = "media"
	DifficultyHigh   = "alta"
)

// IsValidExerciseType 校验动作类型
func IsValidExerciseType(t string) bool {
	return t == ExerciseCardio || t == ExerciseStrength || t == ExerciseMobility
}

// IsValidDifficulty 校验难度
func IsValidDifficulty(d string) bool {
	return d == DifficultyLow || d == DifficultyMedium || d == DifficultyHigh
}

// Exercise 动作
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"          json:"id"`
	Name        string             `bson:"name"                   json:"name"`
	Type        string             `bson:"type"                   json:"type"`
	Description string             `bson:"description,omitempty"  json:"description,omitempty"`
	Duration    int                `bson:"duration"               json:"duration"` // 分钟
	Difficulty  string             `bson:"difficulty"             json:"difficulty"`
	VideoURL    string             `bson:"video_url,omitempty"    json:"video_url,omitempty"`
	CreatedBy   string             `bson:"createdBy,omitempty"    json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"              json:"createdAt"`
}

// RoutineItem 计划中的动作快照
type RoutineItem struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Name       string             `bson:"name"       json:"name"`
	Type       string             `bson:"type"       json:"type"`
	Order      int                `bson:"order"      json:"order"`
}

// Routine 训练计划：有序动作快照列表
type Routine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"         json:"id"`
	Name        string             `bson:"name"                  json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Items       []RoutineItem      `bson:"items"                 json:"items"`
	CreatedBy   string             `bson:"createdBy,omitempty"   json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"             json:"createdAt"`
}

// ── 进度记录（progress_logs） ──

// ProgressSet 一组
type ProgressSet struct {
	Reps   *int     `bson:"reps"   json:"reps"`
	Weight *float64 `bson:"weight" json:"weight"`
}

// ProgressEntry 一个动作的记录
type ProgressEntry struct {
	ExerciseID   primitive.ObjectID `bson:"exerciseId"   json:"exerciseId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	Sets         []ProgressSet      `bson:"sets"         json:"sets"`
}

// ProgressLog 某用户某日的训练记录
type ProgressLog struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  string             `bson:"userId"        json:"userId"`
	Date    time.Time          `bson:"date"          json:"date"`
	Entries []ProgressEntry    `bson:"entries"       json:"entries"`
}
