package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds everything built at startup from the environment.
type Config struct {
	MongoClient *mongo.Client
	DBName      string
	JWTSecret   []byte
	Port        string
}

// Load reads the environment and connects to Mongo. godotenv is loaded by
// main before this runs.
func Load() (*Config, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "hoa_backoffice"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Config{
		MongoClient: client,
		DBName:      dbName,
		JWTSecret:   []byte(secret),
		Port:        port,
	}, nil
}
