package planstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

const (
	planKeySuffix      = "planificacion_semanal"
	snapshotsKeySuffix = "planes_guardados"
)

// RedisStore 以 JSON 字串保存目前計畫，快照存於以 id 為鍵的 hash
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore 連線 redis 並執行 ping
func NewRedisStore(ctx context.Context, cfg config.StorageConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisStore(client, cfg.KeyPrefix), nil
}

func newRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "flama"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) planKey() string {
	return s.prefix + ":" + planKeySuffix
}

func (s *RedisStore) snapshotsKey() string {
	return s.prefix + ":" + snapshotsKeySuffix
}

func (s *RedisStore) Load(ctx context.Context) (mealplan.WeeklyPlan, bool, error) {
	data, err := s.client.Get(ctx, s.planKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return mealplan.NewWeeklyPlan(), false, nil
		}
		return nil, false, fmt.Errorf("failed to load plan: %w", err)
	}

	var plan mealplan.WeeklyPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return plan, true, nil
}

func (s *RedisStore) Save(ctx context.Context, plan mealplan.WeeklyPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := s.client.Set(ctx, s.planKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.planKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear plan: %w", err)
	}
	return nil
}

func (s *RedisStore) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, s.snapshotsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list saved plans: %w", err)
	}

	out := make([]Snapshot, 0, len(fields))
	for id, raw := range fields {
		var snap Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal saved plan %s: %w", id, err)
		}
		out = append(out, snap)
	}
	sortSnapshots(out)
	return out, nil
}

func (s *RedisStore) SaveSnapshot(ctx context.Context, name string, plan mealplan.WeeklyPlan) (Snapshot, error) {
	snap, err := newSnapshot(name, plan, s.now())
	if err != nil {
		return Snapshot{}, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to marshal saved plan: %w", err)
	}
	if err := s.client.HSet(ctx, s.snapshotsKey(), snap.ID, data).Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to save plan %q: %w", snap.Name, err)
	}
	return snap, nil
}

func (s *RedisStore) LoadSnapshot(ctx context.Context, id string) (Snapshot, error) {
	raw, err := s.client.HGet(ctx, s.snapshotsKey(), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return Snapshot{}, fmt.Errorf("failed to load saved plan: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal saved plan %s: %w", id, err)
	}
	return snap, nil
}

func (s *RedisStore) DeleteSnapshot(ctx context.Context, id string) error {
	n, err := s.client.HDel(ctx, s.snapshotsKey(), id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete saved plan: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
