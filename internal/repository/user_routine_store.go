package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/pkg/mongodb"
)

// UserAssignmentAgg 按目标用户分组的计划分配统计
type UserAssignmentAgg struct {
	UserID           string    `bson:"_id"`
	Total            int64     `bson:"total"`
	Active           int64     `bson:"active"`
	Inactive         int64     `bson:"inactive"`
	FirstStart       time.Time `bson:"firstStart"`
	LastStart        time.Time `bson:"lastStart"`
	DistinctRoutines int64     `bson:"distinctRoutines"`
}

// ExerciseCount 动作出现次数
type ExerciseCount struct {
	Name  string `bson:"name"  json:"name"`
	Type  string `bson:"type"  json:"type"`
	Count int64  `bson:"count" json:"count"`
}

// RoutineHistoryRow 计划分配及其计划名称
type RoutineHistoryRow struct {
	model.RoutineAssignment `bson:",inline"`
	RoutineName             string `bson:"routineName"`
}

// UserRoutineStore 计划分配文档访问接口
type UserRoutineStore interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, assignment *model.RoutineAssignment) error
	// History 某用户的分配历史，按开始日期倒序
	History(ctx context.Context, username string) ([]RoutineHistoryRow, error)
	SummaryByUser(ctx context.Context) ([]UserAssignmentAgg, error)
	DistinctTargetUsers(ctx context.Context) ([]string, error)
	TopExercises(ctx context.Context, typ string, limit int64) ([]ExerciseCount, error)
}

type userRoutineStore struct {
	coll *mongo.Collection
}

// NewUserRoutineStore 创建 UserRoutineStore 实例
func NewUserRoutineStore(db *mongo.Database) UserRoutineStore {
	return &userRoutineStore{coll: db.Collection(mongodb.CollUserRoutines)}
}

func (s *userRoutineStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "targetUserId", Value: 1}, {Key: "startDate", Value: -1}},
		Options: options.Index().SetName("ix_target_start"),
	})
	return err
}

func (s *userRoutineStore) Create(ctx context.Context, assignment *model.RoutineAssignment) error {
	res, err := s.coll.InsertOne(ctx, assignment)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		assignment.ID = oid
	}
	return nil
}

func (s *userRoutineStore) History(ctx context.Context, username string) ([]RoutineHistoryRow, error) {
	var rows []RoutineHistoryRow
	if err := s.aggregate(ctx, historyPipeline(username), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *userRoutineStore) SummaryByUser(ctx context.Context) ([]UserAssignmentAgg, error) {
	var rows []UserAssignmentAgg
	if err := s.aggregate(ctx, summaryPipeline(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *userRoutineStore) DistinctTargetUsers(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "targetUserId", bson.D{})
	if err != nil {
		return nil, err
	}
	users := make([]string, 0, len(values))
	for _, v := range values {
		if u, ok := v.(string); ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *userRoutineStore) TopExercises(ctx context.Context, typ string, limit int64) ([]ExerciseCount, error) {
	var rows []ExerciseCount
	if err := s.aggregate(ctx, topExercisesPipeline(typ, limit), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *userRoutineStore) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// ── 聚合管道 ──

func lookupRoutineStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: mongodb.CollRoutines},
		{Key: "localField", Value: "routineId"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "routine"},
	}}}
}

func historyPipeline(username string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "targetUserId", Value: username}}}},
		{{Key: "$sort", Value: bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}}}},
		lookupRoutineStage(),
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$routine"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$addFields", Value: bson.D{{Key: "routineName", Value: bson.D{
			{Key: "$ifNull", Value: bson.A{"$routine.name", ""}},
		}}}}},
		{{Key: "$project", Value: bson.D{{Key: "routine", Value: 0}}}},
	}
}

// summaryPipeline 按 targetUserId 分组；缺失 isActive 视为非活动
func summaryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$targetUserId"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "active", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$isActive", true}}}, 1, 0}},
			}}}},
			{Key: "inactive", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$isActive", true}}}, 0, 1}},
			}}}},
			{Key: "firstStart", Value: bson.D{{Key: "$min", Value: "$startDate"}}},
			{Key: "lastStart", Value: bson.D{{Key: "$max", Value: "$startDate"}}},
			{Key: "routines", Value: bson.D{{Key: "$addToSet", Value: "$routineId"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "total", Value: 1},
			{Key: "active", Value: 1},
			{Key: "inactive", Value: 1},
			{Key: "firstStart", Value: 1},
			{Key: "lastStart", Value: 1},
			{Key: "distinctRoutines", Value: bson.D{{Key: "$size", Value: "$routines"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// topExercisesPipeline 每个已分配计划中的每次动作出现计一次
// typ 非空时按动作类型做不区分大小写的精确匹配
func topExercisesPipeline(typ string, limit int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		lookupRoutineStage(),
		{{Key: "$unwind", Value: "$routine"}},
		{{Key: "$unwind", Value: "$routine.items"}},
	}
	if typ != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "routine.items.type", Value: primitive.Regex{
				Pattern: "^" + regexp.QuoteMeta(typ) + "$",
				Options: "i",
			}},
		}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$routine.items.name"},
			{Key: "type", Value: bson.D{{Key: "$first", Value: "$routine.items.type"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: "$_id"},
			{Key: "type", Value: 1},
			{Key: "count", Value: 1},
		}}},
	)
	return pipeline
}
