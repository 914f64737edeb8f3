package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"blobwar/internal/domain"
)

const matchesCollection = "matches"

type MatchRepository struct {
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewMatchRepository(log *zap.SugaredLogger, mongo *mongo.Database) *MatchRepository {
	return &MatchRepository{
		log:   log,
		mongo: mongo,
	}
}

func (r *MatchRepository) SaveMatch(ctx context.Context, record domain.MatchRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.mongo.Collection(matchesCollection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert match %s: %w", record.ID, err)
	}
	r.log.Debugf("archived match %s", record.ID)
	return nil
}

// RecentMatches returns up to limit matches, newest first.
func (r *MatchRepository) RecentMatches(ctx context.Context, limit int64) ([]domain.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "finished_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.mongo.Collection(matchesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find matches: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.MatchRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return records, nil
}
