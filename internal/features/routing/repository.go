package routing

import (
	"context"
	"time"

	"go-civic/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoutingRuleRepository persists operator-defined routing rules
type RoutingRuleRepository interface {
	Create(ctx context.Context, rule *RoutingRule) error
	FindActive(ctx context.Context) ([]RoutingRule, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoutingRuleRepositoryImpl implements RoutingRuleRepository
type RoutingRuleRepositoryImpl struct {
	collection *mongo.Collection
}

// NewRoutingRuleRepository creates a new routing rule repository
func NewRoutingRuleRepository(db *database.MongodbDB) RoutingRuleRepository {
	return &RoutingRuleRepositoryImpl{
		collection: db.DB.Collection("routing_rules"),
	}
}

func (r *RoutingRuleRepositoryImpl) Create(ctx context.Context, rule *RoutingRule) error {
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, rule)
	if err != nil {
		return err
	}
	rule.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RoutingRuleRepositoryImpl) FindActive(ctx context.Context) ([]RoutingRule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []RoutingRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *RoutingRuleRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
