package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/pkg/mongodb"
)

// 索引名
const (
	IndexUniqueActive = "uq_user_active"
	IndexTrainer      = "ix_trainer"
	IndexStatus       = "ix_status"
)

// AssignmentFilter 分配列表过滤条件，空字段不参与过滤
type AssignmentFilter struct {
	UserID    string
	TrainerID string
	Status    string
}

// TrainerAssignmentStore 训练分配文档访问接口
type TrainerAssignmentStore interface {
	EnsureIndexes(ctx context.Context) error
	// EndActive 将 userID 的活动分配置为 ended，返回受影响条数
	EndActive(ctx context.Context, userID string, until, now time.Time) (int64, error)
	// InsertActive 插入活动分配；违反部分唯一索引时返回重复键错误
	InsertActive(ctx context.Context, doc *model.TrainerAssignment) error
	FindActive(ctx context.Context, userID string) (*model.TrainerAssignment, error)
	FindActiveByUsers(ctx context.Context, userIDs []string) ([]model.TrainerAssignment, error)
	List(ctx context.Context, filter AssignmentFilter, limit int64) ([]model.TrainerAssignment, error)
	// Inactivate 返回匹配条数，0 表示不存在
	Inactivate(ctx context.Context, id primitive.ObjectID, now time.Time) (int64, error)
}

type trainerAssignmentStore struct {
	coll *mongo.Collection
}

// NewTrainerAssignmentStore 创建 TrainerAssignmentStore 实例
func NewTrainerAssignmentStore(db *mongo.Database) TrainerAssignmentStore {
	return &trainerAssignmentStore{coll: db.Collection(mongodb.CollTrainerAssignments)}
}

// activeProjection 读取活动分配的字段，与列表接口返回同一文档形状
var activeProjection = bson.D{
	{Key: "userId", Value: 1},
	{Key: "trainerId", Value: 1},
	{Key: "status", Value: 1},
	{Key: "since", Value: 1},
	{Key: "until", Value: 1},
	{Key: "createdAt", Value: 1},
	{Key: "updatedAt", Value: 1},
}

// trainerAssignmentIndexes 部分唯一索引：只约束 status=active 的文档
func trainerAssignmentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName(IndexUniqueActive).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "status", Value: model.AssignmentActive}}),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index().SetName(IndexTrainer),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName(IndexStatus),
		},
	}
}

func (s *trainerAssignmentStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, trainerAssignmentIndexes())
	return err
}

func (s *trainerAssignmentStore) EndActive(ctx context.Context, userID string, until, now time.Time) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.D{{Key: "userId", Value: userID}, {Key: "status", Value: model.AssignmentActive}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: model.AssignmentEnded},
			{Key: "until", Value: until},
			{Key: "updatedAt", Value: now},
		}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *trainerAssignmentStore) InsertActive(ctx context.Context, doc *model.TrainerAssignment) error {
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return nil
}

func (s *trainerAssignmentStore) FindActive(ctx context.Context, userID string) (*model.TrainerAssignment, error) {
	var doc model.TrainerAssignment
	err := s.coll.FindOne(ctx,
		bson.D{{Key: "userId", Value: userID}, {Key: "status", Value: model.AssignmentActive}},
		options.FindOne().SetProjection(activeProjection),
	).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *trainerAssignmentStore) FindActiveByUsers(ctx context.Context, userIDs []string) ([]model.TrainerAssignment, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	cur, err := s.coll.Find(ctx,
		bson.D{
			{Key: "userId", Value: bson.D{{Key: "$in", Value: userIDs}}},
			{Key: "status", Value: model.AssignmentActive},
		},
		options.Find().SetProjection(activeProjection),
	)
	if err != nil {
		return nil, err
	}
	var docs []model.TrainerAssignment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *trainerAssignmentStore) List(ctx context.Context, filter AssignmentFilter, limit int64) ([]model.TrainerAssignment, error) {
	q := bson.D{}
	if filter.UserID != "" {
		q = append(q, bson.E{Key: "userId", Value: filter.UserID})
	}
	if filter.TrainerID != "" {
		q = append(q, bson.E{Key: "trainerId", Value: filter.TrainerID})
	}
	if filter.Status != "" {
		q = append(q, bson.E{Key: "status", Value: filter.Status})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "status", Value: -1}, {Key: "since", Value: -1}}).
		SetLimit(limit)

	cur, err := s.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	var docs []model.TrainerAssignment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *trainerAssignmentStore) Inactivate(ctx context.Context, id primitive.ObjectID, now time.Time) (int64, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: model.AssignmentInactive},
			{Key: "until", Value: now},
			{Key: "updatedAt", Value: now},
		}}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
