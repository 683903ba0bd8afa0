package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

const totalsTTL = 24 * time.Hour

// RedisTotalsStore garde le brouillon de totaux du checkout dans Redis,
// un enregistrement par utilisateur (upsert).
type RedisTotalsStore struct{}

func NewRedisTotalsStore() *RedisTotalsStore {
	return &RedisTotalsStore{}
}

func totalsKey(userID string) string {
	return "checkout_totals:" + userID
}

func (s *RedisTotalsStore) Save(ctx context.Context, userID string, totals models.CheckoutTotals) error {
	data, err := json.Marshal(totals)
	if err != nil {
		return err
	}
	return database.Redis.Set(ctx, totalsKey(userID), data, totalsTTL).Err()
}

func (s *RedisTotalsStore) Get(ctx context.Context, userID string) (models.CheckoutTotals, error) {
	var totals models.CheckoutTotals

	data, err := database.Redis.Get(ctx, totalsKey(userID)).Result()
	if err == redis.Nil {
		return totals, nil // pas de brouillon, totaux à zéro
	}
	if err != nil {
		return totals, err
	}

	err = json.Unmarshal([]byte(data), &totals)
	return totals, err
}

func (s *RedisTotalsStore) Clear(ctx context.Context, userID string) error {
	return database.Redis.Del(ctx, totalsKey(userID)).Err()
}
