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

// ProgressStore 进度记录文档访问接口
type ProgressStore interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, log *model.ProgressLog) error
	// ListByUser 按日期倒序
	ListByUser(ctx context.Context, userID string, limit int64) ([]model.ProgressLog, error)
}

type progressStore struct {
	coll *mongo.Collection
}

// NewProgressStore 创建 ProgressStore 实例
func NewProgressStore(db *mongo.Database) ProgressStore {
	return &progressStore{coll: db.Collection(mongodb.CollProgressLogs)}
}

func (s *progressStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetName("ix_user")},
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetName("ix_date")},
	})
	return err
}

func (s *progressStore) Create(ctx context.Context, log *model.ProgressLog) error {
	res, err := s.coll.InsertOne(ctx, log)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid
	}
	return nil
}

func (s *progressStore) ListByUser(ctx context.Context, userID string, limit int64) ([]model.ProgressLog, error) {
	cur, err := s.coll.Find(ctx,
		bson.D{{Key: "userId", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	var logs []model.ProgressLog
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
