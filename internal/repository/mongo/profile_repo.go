package mongo

import (
	"context"
	"errors"
	"log"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	profileCollectionName = "profiles"
	// The app is single-user; the profile lives in one well-known document.
	profileDocID = "user_profile"
)

// mongoProfileRepository implements repository.ProfileRepository.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new profile repository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

type profileDoc struct {
	ID          string   `bson:"_id"`
	StepGoal    int      `bson:"stepGoal"`
	GreenPoints int      `bson:"greenPoints"`
	BadgeIDs    []string `bson:"badgeIds"`
}

// GetProfile returns the stored profile, or zero-valued defaults when no
// document exists yet. Read failures degrade to defaults rather than
// propagating; the data is rebuildable and the UI must never hard-fail on it.
func (r *mongoProfileRepository) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var doc profileDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": profileDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &domain.Profile{BadgeIDs: []string{}}, nil
		}
		log.Printf("ERROR: Failed to fetch profile: %v", err)
		return &domain.Profile{BadgeIDs: []string{}}, nil
	}
	badges := doc.BadgeIDs
	if badges == nil {
		badges = []string{}
	}
	return &domain.Profile{
		StepGoal:    doc.StepGoal,
		GreenPoints: doc.GreenPoints,
		BadgeIDs:    badges,
	}, nil
}

// SaveStepGoal stores the daily step goal.
func (r *mongoProfileRepository) SaveStepGoal(ctx context.Context, goal int) error {
	filter := bson.M{"_id": profileDocID}
	update := bson.M{"$set": bson.M{"stepGoal": goal}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Printf("ERROR: Failed to save step goal: %v", err)
		return repository.ErrUpdateFailed
	}
	return nil
}

// GetStepGoal returns the stored goal, 0 when none has been set.
func (r *mongoProfileRepository) GetStepGoal(ctx context.Context) (int, error) {
	profile, err := r.GetProfile(ctx)
	if err != nil {
		return 0, err
	}
	return profile.StepGoal, nil
}

// GetEarnedBadgeIDs returns the set of earned badge ids (empty when none).
func (r *mongoProfileRepository) GetEarnedBadgeIDs(ctx context.Context) ([]string, error) {
	profile, err := r.GetProfile(ctx)
	if err != nil {
		return []string{}, err
	}
	return profile.BadgeIDs, nil
}

// AddEarnedBadges appends badge ids to the earned set. $addToSet keeps the
// set semantics even if two writers race on the same award.
func (r *mongoProfileRepository) AddEarnedBadges(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	filter := bson.M{"_id": profileDocID}
	update := bson.M{"$addToSet": bson.M{"badgeIds": bson.M{"$each": ids}}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Printf("ERROR: Failed to save badges: %v", err)
		return repository.ErrUpdateFailed
	}
	return nil
}

// GetGreenPoints returns the lifetime points total.
func (r *mongoProfileRepository) GetGreenPoints(ctx context.Context) (int, error) {
	profile, err := r.GetProfile(ctx)
	if err != nil {
		return 0, err
	}
	return profile.GreenPoints, nil
}

// AddGreenPoints atomically increments the lifetime total via $inc, so
// concurrent award paths cannot lose an increment.
func (r *mongoProfileRepository) AddGreenPoints(ctx context.Context, delta int) (int, error) {
	filter := bson.M{"_id": profileDocID}
	update := bson.M{"$inc": bson.M{"greenPoints": delta}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc profileDoc
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		log.Printf("ERROR: Failed to add green points: %v", err)
		return 0, repository.ErrUpdateFailed
	}
	return doc.GreenPoints, nil
}
