package notification

import (
	"context"
	"errors"
	"time"

	"go-civic/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	FindByRecipient(ctx context.Context, uid string, limit int64) ([]Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, uid string) error
	Exists(ctx context.Context, reportID string, kind Kind) (bool, error)
}

// NotificationRepositoryImpl implements NotificationRepository
type NotificationRepositoryImpl struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		collection: db.DB.Collection("notifications"),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *Notification) error {
	n.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *NotificationRepositoryImpl) FindByRecipient(ctx context.Context, uid string, limit int64) ([]Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"recipient_uid": uid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id primitive.ObjectID, uid string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "recipient_uid": uid},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (r *NotificationRepositoryImpl) Exists(ctx context.Context, reportID string, kind Kind) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"report_id": reportID, "kind": kind}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
