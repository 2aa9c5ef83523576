package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/pkg/mongodb"
)

// ExerciseStore 动作文档访问接口
type ExerciseStore interface {
	Create(ctx context.Context, exercise *model.Exercise) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Exercise, error)
	// List typ 为空时返回全部，按名称升序
	List(ctx context.Context, typ string) ([]model.Exercise, error)
}

type exerciseStore struct {
	coll *mongo.Collection
}

// NewExerciseStore 创建 ExerciseStore 实例
func NewExerciseStore(db *mongo.Database) ExerciseStore {
	return &exerciseStore{coll: db.Collection(mongodb.CollExercises)}
}

func (s *exerciseStore) Create(ctx context.Context, exercise *model.Exercise) error {
	res, err := s.coll.InsertOne(ctx, exercise)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		exercise.ID = oid
	}
	return nil
}

func (s *exerciseStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Exercise, error) {
	var exercise model.Exercise
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (s *exerciseStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, err
	}
	var exercises []model.Exercise
	if err := cur.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (s *exerciseStore) List(ctx context.Context, typ string) ([]model.Exercise, error) {
	q := bson.D{}
	if typ != "" {
		q = append(q, bson.E{Key: "type", Value: typ})
	}
	cur, err := s.coll.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var exercises []model.Exercise
	if err := cur.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// RoutineStore 训练计划文档访问接口
type RoutineStore interface {
	Create(ctx context.Context, routine *model.Routine) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Routine, error)
	List(ctx context.Context) ([]model.Routine, error)
}

type routineStore struct {
	coll *mongo.Collection
}

// NewRoutineStore 创建 RoutineStore 实例
func NewRoutineStore(db *mongo.Database) RoutineStore {
	return &routineStore{coll: db.Collection(mongodb.CollRoutines)}
}

func (s *routineStore) Create(ctx context.Context, routine *model.Routine) error {
	res, err := s.coll.InsertOne(ctx, routine)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		routine.ID = oid
	}
	return nil
}

func (s *routineStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Routine, error) {
	var routine model.Routine
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

func (s *routineStore) List(ctx context.Context) ([]model.Routine, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var routines []model.Routine
	if err := cur.All(ctx, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}
