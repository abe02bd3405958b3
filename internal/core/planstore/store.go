package planstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/infrastructure/config"
	"recetario-pae/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	ErrSnapshotNotFound = errors.New("saved plan not found")
	ErrEmptyName        = errors.New("saved plan name is required")
)

// Snapshot 具名的每週計畫副本
type Snapshot struct {
	ID   string              `json:"id"`
	Name string              `json:"nombre"`
	Date time.Time           `json:"fecha"`
	Data mealplan.WeeklyPlan `json:"data"`
}

// Store 保存目前計畫與快照
type Store interface {
	// Load 取得目前計畫，尚未儲存時 ok 為 false
	Load(ctx context.Context) (plan mealplan.WeeklyPlan, ok bool, err error)
	Save(ctx context.Context, plan mealplan.WeeklyPlan) error
	Clear(ctx context.Context) error

	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	SaveSnapshot(ctx context.Context, name string, plan mealplan.WeeklyPlan) (Snapshot, error)
	LoadSnapshot(ctx context.Context, id string) (Snapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error

	Close() error
}

// New 依 cfg.Driver 創建儲存
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		common.LogInfo("Using in-memory plan storage")
		return NewMemoryStore(), nil
	case "redis":
		s, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		common.LogInfo("Using redis plan storage",
			zap.String("addr", cfg.RedisAddr),
			zap.String("prefix", s.prefix),
		)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func newSnapshot(name string, plan mealplan.WeeklyPlan, now time.Time) (Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, ErrEmptyName
	}
	return Snapshot{
		ID:   common.GenerateUUID(),
		Name: name,
		Date: now.UTC(),
		Data: plan.Normalize(),
	}, nil
}

// sortSnapshots 由舊到新排序快照
func sortSnapshots(s []Snapshot) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Date.Equal(s[j].Date) {
			return s[i].ID < s[j].ID
		}
		return s[i].Date.Before(s[j].Date)
	})
}
