package moderation

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modgate/internal/constants"
)

// ResultStore is the single authority on whether an event has been
// decided. Save is an upsert keyed on the event ID, so redeliveries
// can never produce a second record.
type ResultStore interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	Save(ctx context.Context, record *ProcessedRecord) error
	FindByID(ctx context.Context, eventID string) (*ProcessedRecord, error)
	ListAll(ctx context.Context, limit int64) ([]ProcessedRecord, error)
	DeleteByID(ctx context.Context, eventID string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByOutcome(ctx context.Context) (map[Outcome]int64, error)
}

type mongoResultStore struct {
	collection *mongo.Collection
}

func NewResultStore(db *mongo.Database) ResultStore {
	return &mongoResultStore{
		collection: db.Collection(constants.ProcessedEventsCollection),
	}
}

// EnsureIndexes creates the secondary and TTL indexes. ExpireAt holds the
// absolute expiry instant, so the TTL index fires at zero seconds past it.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(constants.ProcessedEventsCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "processedAt", Value: -1}}},
		{
			Keys:    bson.D{{Key: "expireAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (s *mongoResultStore) Exists(ctx context.Context, eventID string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"_id": eventID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return count > 0, nil
}

func (s *mongoResultStore) Save(ctx context.Context, record *ProcessedRecord) error {
	filter := bson.M{"_id": record.EventID}
	opts := options.Replace().SetUpsert(true)

	if _, err := s.collection.ReplaceOne(ctx, filter, record, opts); err != nil {
		return fmt.Errorf("failed to save processed record: %w", err)
	}
	return nil
}

func (s *mongoResultStore) FindByID(ctx context.Context, eventID string) (*ProcessedRecord, error) {
	var record ProcessedRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": eventID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find processed record: %w", err)
	}
	return &record, nil
}

func (s *mongoResultStore) ListAll(ctx context.Context, limit int64) ([]ProcessedRecord, error) {
	if limit <= 0 || limit > constants.MaxListLimit {
		limit = constants.DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "processedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []ProcessedRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode processed records: %w", err)
	}
	return records, nil
}

func (s *mongoResultStore) DeleteByID(ctx context.Context, eventID string) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": eventID})
	if err != nil {
		return false, fmt.Errorf("failed to delete processed record: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (s *mongoResultStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed records: %w", err)
	}
	return result.DeletedCount, nil
}

func (s *mongoResultStore) Count(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count processed records: %w", err)
	}
	return count, nil
}

func (s *mongoResultStore) CountByOutcome(ctx context.Context) (map[Outcome]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$outcome",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate outcomes: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Outcome Outcome `bson:"_id"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode outcome counts: %w", err)
	}

	counts := make(map[Outcome]int64, len(rows))
	for _, row := range rows {
		counts[row.Outcome] = row.Count
	}
	return counts, nil
}

// TTLFor computes the absolute expiry for a record processed now.
func TTLFor(recordTTL time.Duration) time.Time {
	if recordTTL <= 0 {
		recordTTL = constants.DefaultRecordTTL
	}
	return time.Now().Add(recordTTL)
}
