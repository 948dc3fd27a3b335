package repository

import (
	"context"

	"chat_relay_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/mongo"
)

// TypingAnalyticsRepository definition typing session 彙總的分析庫
type TypingAnalyticsRepository interface {
	// InsertSession 寫入一筆 session 彙總，best-effort
	InsertSession(ctx context.Context, rec *domain.TypingSessionRecord) error
}

type mongoTypingAnalyticsRepository struct {
	coll *mongo.Collection
}

// NewMongoTypingAnalyticsRepository create typing analytics repository
func NewMongoTypingAnalyticsRepository(db *mongo.Database) TypingAnalyticsRepository {
	return &mongoTypingAnalyticsRepository{
		coll: db.Collection("typing_sessions"),
	}
}

// InsertSession insert session summary
func (r *mongoTypingAnalyticsRepository) InsertSession(ctx context.Context, rec *domain.TypingSessionRecord) error {
	_, err := r.coll.InsertOne(ctx, rec)
	return err
}
