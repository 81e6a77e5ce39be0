package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// InitMongo connects to MongoDB and verifies the connection with a ping.
func InitMongo(ctx context.Context, cfg *Config, log *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.Database.MongoURI).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("✅ MongoDB connected successfully", zap.String("database", cfg.Database.MongoDatabase))

	return client, client.Database(cfg.Database.MongoDatabase), nil
}
