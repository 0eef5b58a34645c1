package automation

import (
	"context"
	"time"

	"go-hrms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ScriptRepository interface {
	Create(ctx context.Context, script *HookScript) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*HookScript, error)
	List(ctx context.Context) ([]HookScript, error)
	ListEnabledByEvent(ctx context.Context, eventType string) ([]HookScript, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ScriptRepositoryImpl struct {
	collection *mongo.Collection
}

func NewScriptRepository(db *database.MongodbDB) ScriptRepository {
	return &ScriptRepositoryImpl{
		collection: db.DB.Collection("hook_scripts"),
	}
}

func (r *ScriptRepositoryImpl) Create(ctx context.Context, script *HookScript) error {
	now := time.Now()
	script.CreatedAt = now
	script.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, script)
	if err != nil {
		return err
	}
	script.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ScriptRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*HookScript, error) {
	var script HookScript
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&script)
	if err != nil {
		return nil, err
	}
	return &script, nil
}

func (r *ScriptRepositoryImpl) List(ctx context.Context) ([]HookScript, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scripts []HookScript
	if err = cursor.All(ctx, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

func (r *ScriptRepositoryImpl) ListEnabledByEvent(ctx context.Context, eventType string) ([]HookScript, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"event_type": eventType,
		"enabled":    true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scripts []HookScript
	if err = cursor.All(ctx, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

func (r *ScriptRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)
	return err
}

func (r *ScriptRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
