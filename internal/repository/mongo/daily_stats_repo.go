package mongo

import (
	"context"
	"errors"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dailyStatsCollectionName = "daily_stats"

// mongoDailyStatsRepository implements repository.DailyStatsRepository.
type mongoDailyStatsRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyStatsRepository creates a new daily stats repository.
func NewMongoDailyStatsRepository(db *mongo.Database) repository.DailyStatsRepository {
	return &mongoDailyStatsRepository{
		collection: db.Collection(dailyStatsCollectionName),
	}
}

// Upsert overwrites the whole record for stats.Date. Callers pass the day's
// cumulative totals, never deltas, so a plain $set is the correct semantics.
func (r *mongoDailyStatsRepository) Upsert(ctx context.Context, stats domain.DailyStats) error {
	if stats.Date == "" {
		return errors.New("daily stats require a date key")
	}
	filter := bson.M{"date": stats.Date}
	update := bson.M{"$set": stats}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByDate retrieves the record for one ISO date.
func (r *mongoDailyStatsRepository) GetByDate(ctx context.Context, date string) (*domain.DailyStats, error) {
	var stats domain.DailyStats
	err := r.collection.FindOne(ctx, bson.M{"date": date}).Decode(&stats)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &stats, nil
}

// GetRange retrieves records with from <= date <= to, ascending by date.
// ISO dates sort lexicographically, so string comparison is enough.
func (r *mongoDailyStatsRepository) GetRange(ctx context.Context, from, to string) ([]domain.DailyStats, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []domain.DailyStats
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []domain.DailyStats{}
	}
	return stats, nil
}

// EnsureDailyStatsIndexes creates the unique date index. Call during startup.
func EnsureDailyStatsIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
