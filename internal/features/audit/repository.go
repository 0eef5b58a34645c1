package audit

import (
	"context"
	"time"

	"go-hrms/internal/database"

	common_models "go-hrms/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows an audit query; zero values mean "any".
type Filter struct {
	RequestKind string
	RequestID   uint
	ActorID     uint
	Action      common_models.AuditAction
}

type AuditRepository interface {
	Create(ctx context.Context, entry *common_models.AuditLog) error
	List(ctx context.Context, filter Filter, page, limit int64) ([]common_models.AuditLog, int64, error)
	ListForRequest(ctx context.Context, kind string, id uint) ([]common_models.AuditLog, error)
}

type AuditRepositoryImpl struct {
	collection *mongo.Collection
}

func NewAuditRepository(db *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		collection: db.DB.Collection("audit_logs"),
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, entry *common_models.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *AuditRepositoryImpl) List(ctx context.Context, filter Filter, page, limit int64) ([]common_models.AuditLog, int64, error) {
	query := bson.M{}
	if filter.RequestKind != "" {
		query["request_kind"] = filter.RequestKind
	}
	if filter.RequestID != 0 {
		query["request_id"] = filter.RequestID
	}
	if filter.ActorID != 0 {
		query["actor_id"] = filter.ActorID
	}
	if filter.Action != "" {
		query["action"] = filter.Action
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var entries []common_models.AuditLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *AuditRepositoryImpl) ListForRequest(ctx context.Context, kind string, id uint) ([]common_models.AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{
		"request_kind": kind,
		"request_id":   id,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []common_models.AuditLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
