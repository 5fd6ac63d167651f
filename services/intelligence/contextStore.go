package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"beamhealth/models"

	"github.com/go-redis/redis/v8"
)

const summaryCachePrefix = "ai:summary:"

// SummaryStore caches generated notes so an identical transcript is not
// sent to the model twice.
type SummaryStore interface {
	Get(ctx context.Context, key string) (*models.SummaryContent, bool, error)
	Set(ctx context.Context, key string, content *models.SummaryContent) error
}

// SummaryKey derives the cache key for a patient's transcript.
func SummaryKey(patientID int, transcript string) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(patientID) + "\x00" + transcript))
	return hex.EncodeToString(sum[:])
}

type RedisSummaryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryStore(client *redis.Client, ttl time.Duration) *RedisSummaryStore {
	return &RedisSummaryStore{client: client, ttl: ttl}
}

func (s *RedisSummaryStore) Get(ctx context.Context, key string) (*models.SummaryContent, bool, error) {
	data, err := s.client.Get(ctx, summaryCachePrefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var content models.SummaryContent
	if err := json.Unmarshal([]byte(data), &content); err != nil {
		return nil, false, err
	}
	return &content, true, nil
}

func (s *RedisSummaryStore) Set(ctx context.Context, key string, content *models.SummaryContent) error {
	b, err := json.Marshal(content)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, summaryCachePrefix+key, b, s.ttl).Err()
}
