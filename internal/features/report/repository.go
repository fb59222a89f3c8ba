package report

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

// ErrReportNotFound is returned when a mutation or lookup targets a missing document.
var ErrReportNotFound = errors.New("report not found")

// ReportRepository defines the store operations the console needs. Every
// lifecycle write is a single UpdateOne combining the field $set with a
// history $push so readers never observe the two out of sync and concurrent
// operators never lose history entries to a fetch-then-overwrite.
type ReportRepository interface {
	FindLatest(ctx context.Context, limit int64) ([]Report, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Report, error)
	FindForSupervisor(ctx context.Context, dept Department, uid string) ([]Report, error)
	FindUnresolvedOlderThan(ctx context.Context, cutoff time.Time) ([]Report, error)
	FindResolvedSince(ctx context.Context, since time.Time) ([]Report, error)

	UpdateStatus(ctx context.Context, id primitive.ObjectID, status ReportStatus, entry StatusHistoryEntry) error
	UpdateAssignment(ctx context.Context, id primitive.ObjectID, dept *Department, assignee *string) error
	UpdateClassification(ctx context.Context, id primitive.ObjectID, classification, note string, entry StatusHistoryEntry) error
	AppendNote(ctx context.Context, id primitive.ObjectID, entry StatusHistoryEntry) error

	Watch(ctx context.Context) (*mongo.ChangeStream, error)
}

// ReportRepositoryImpl implements ReportRepository
type ReportRepositoryImpl struct {
	collection *mongo.Collection
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{
		collection: db.DB.Collection("reports"),
	}
}

func (r *ReportRepositoryImpl) findAll(ctx context.Context, filter bson.M, limit int64) ([]Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []Report
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// FindLatest retrieves the newest reports for the admin console
func (r *ReportRepositoryImpl) FindLatest(ctx context.Context, limit int64) ([]Report, error) {
	return r.findAll(ctx, bson.M{}, limit)
}

// FindByID retrieves a report by ID
func (r *ReportRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Report, error) {
	var rep Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rep)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// FindForSupervisor returns the union of reports routed to the supervisor's
// department and reports assigned to them personally. Unbounded but scoped.
func (r *ReportRepositoryImpl) FindForSupervisor(ctx context.Context, dept Department, uid string) ([]Report, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"assigned_dept": dept},
			{"assigned_to": uid},
		},
	}
	return r.findAll(ctx, filter, 0)
}

// instantBound matches a timestamp field stored either as a BSON date or as
// legacy epoch milliseconds. Comparison operators in Mongo never cross BSON
// types, so each branch of the $or only sees documents of its own shape.
func instantBound(field, op string, t time.Time) bson.M {
	return bson.M{
		"$or": []bson.M{
			{field: bson.M{op: t}},
			{field: bson.M{op: t.UnixMilli()}},
		},
	}
}

// FindUnresolvedOlderThan feeds the overdue sweep
func (r *ReportRepositoryImpl) FindUnresolvedOlderThan(ctx context.Context, cutoff time.Time) ([]Report, error) {
	filter := bson.M{
		"status": bson.M{"$ne": StatusResolved},
		"$and":   []bson.M{instantBound("created_at", "$lt", cutoff)},
	}
	return r.findAll(ctx, filter, 0)
}

// FindResolvedSince feeds the warehouse archiver
func (r *ReportRepositoryImpl) FindResolvedSince(ctx context.Context, since time.Time) ([]Report, error) {
	filter := bson.M{
		"status": StatusResolved,
		"$and":   []bson.M{instantBound("updated_at", "$gte", since)},
	}
	return r.findAll(ctx, filter, 0)
}

// UpdateStatus sets the top-level status and appends the history entry in one
// atomic document update.
func (r *ReportRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status ReportStatus, entry StatusHistoryEntry) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":  bson.M{"status": status, "updated_at": time.Now()},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

// UpdateAssignment sets whichever of dept/assignee are provided; nil leaves a
// field untouched. Does not touch the history.
func (r *ReportRepositoryImpl) UpdateAssignment(ctx context.Context, id primitive.ObjectID, dept *Department, assignee *string) error {
	updates := bson.M{"updated_at": time.Now()}
	if dept != nil {
		updates["assigned_dept"] = *dept
	}
	if assignee != nil {
		updates["assigned_to"] = *assignee
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

// UpdateClassification sets the classification fields and appends the entry atomically.
func (r *ReportRepositoryImpl) UpdateClassification(ctx context.Context, id primitive.ObjectID, classification, note string, entry StatusHistoryEntry) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$set": bson.M{
				"classification":      classification,
				"classification_note": note,
				"updated_at":          time.Now(),
			},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

// AppendNote appends a note-kind entry without changing any lifecycle field.
func (r *ReportRepositoryImpl) AppendNote(ctx context.Context, id primitive.ObjectID, entry StatusHistoryEntry) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":  bson.M{"updated_at": time.Now()},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

// Watch opens a change stream over the reports collection with full documents
// attached to update events. Callers own closing the stream.
func (r *ReportRepositoryImpl) Watch(ctx context.Context) (*mongo.ChangeStream, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return r.collection.Watch(ctx, mongo.Pipeline{}, opts)
}
