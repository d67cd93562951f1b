package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // SYLLABUS_DATABASE_URL (required)
	HTTPAddr    string // SYLLABUS_HTTP_ADDR (default ":8080")
	NATSURL     string // SYLLABUS_NATS_URL (optional, empty = no events)
	AuthToken   string // SYLLABUS_AUTH_TOKEN (optional, empty = auth disabled)

	// Snapshot sync settings
	SyncInterval   time.Duration // SYLLABUS_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // SYLLABUS_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // SYLLABUS_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // SYLLABUS_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // SYLLABUS_SYNC_S3_KEY (default "syllabus/runs.jsonl")
	SyncGitRepo    string        // SYLLABUS_SYNC_GIT_REPO (enables git when set; path to local clone)
	SyncGitFile    string        // SYLLABUS_SYNC_GIT_FILE (default "syllabus/runs.jsonl")
	SyncGitBranch  string        // SYLLABUS_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("SYLLABUS_DATABASE_URL"),
		HTTPAddr:       envOrDefault("SYLLABUS_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("SYLLABUS_NATS_URL"),
		AuthToken:      os.Getenv("SYLLABUS_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("SYLLABUS_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("SYLLABUS_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("SYLLABUS_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("SYLLABUS_SYNC_S3_KEY", "syllabus/runs.jsonl"),
		SyncGitRepo:    os.Getenv("SYLLABUS_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("SYLLABUS_SYNC_GIT_FILE", "syllabus/runs.jsonl"),
		SyncGitBranch:  envOrDefault("SYLLABUS_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("SYLLABUS_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("SYLLABUS_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("SYLLABUS_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
