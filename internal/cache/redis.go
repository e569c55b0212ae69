package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"patientdocs/internal/config"
	"patientdocs/internal/model"
)

// redisCache implements DocumentCache on top of Redis with JSON values.
// All Redis errors are treated as misses; nothing is ever propagated.
type redisCache struct {
	client *redis.Client
}

// NewRedis connects to Redis and returns a DocumentCache backed by it.
// A failed ping returns an error so the caller can fall back to Noop.
func NewRedis(cfg config.RedisConfig) (DocumentCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{client: client}, nil
}

func patientDocsKey(patientID string) string {
	return "docs:" + patientID
}

func fileLookupKey(docID string) string {
	return "docfile:" + docID
}

func (c *redisCache) GetPatientDocs(ctx context.Context, patientID string) ([]model.Document, bool) {
	b, err := c.client.Get(ctx, patientDocsKey(patientID)).Bytes()
	if err != nil {
		return nil, false
	}
	var docs []model.Document
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, false
	}
	return docs, true
}

func (c *redisCache) SetPatientDocs(ctx context.Context, patientID string, docs []model.Document) {
	b, err := json.Marshal(docs)
	if err != nil {
		return
	}
	c.client.Set(ctx, patientDocsKey(patientID), b, TTL)
}

func (c *redisCache) InvalidatePatientDocs(ctx context.Context, patientID string) {
	c.client.Del(ctx, patientDocsKey(patientID))
}

func (c *redisCache) GetFileLookup(ctx context.Context, docID string) (*FileLookup, bool) {
	b, err := c.client.Get(ctx, fileLookupKey(docID)).Bytes()
	if err != nil {
		return nil, false
	}
	var lookup FileLookup
	if err := json.Unmarshal(b, &lookup); err != nil {
		return nil, false
	}
	return &lookup, true
}

func (c *redisCache) SetFileLookup(ctx context.Context, docID string, lookup *FileLookup) {
	b, err := json.Marshal(lookup)
	if err != nil {
		return
	}
	c.client.Set(ctx, fileLookupKey(docID), b, TTL)
}

func (c *redisCache) InvalidateFileLookup(ctx context.Context, docID string) {
	c.client.Del(ctx, fileLookupKey(docID))
}
