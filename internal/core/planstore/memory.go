package planstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recetario-pae/internal/core/mealplan"
)

// MemoryStore 記憶體儲存，重啟後資料遺失
type MemoryStore struct {
	mu        sync.RWMutex
	plan      mealplan.WeeklyPlan
	snapshots []Snapshot
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Load(ctx context.Context) (mealplan.WeeklyPlan, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.plan == nil {
		return mealplan.NewWeeklyPlan(), false, nil
	}
	return s.plan.Clone(), true, nil
}

func (s *MemoryStore) Save(ctx context.Context, plan mealplan.WeeklyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = plan.Normalize()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = nil
	return nil
}

func (s *MemoryStore) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, len(s.snapshots))
	for i, snap := range s.snapshots {
		snap.Data = snap.Data.Clone()
		out[i] = snap
	}
	return out, nil
}

func (s *MemoryStore) SaveSnapshot(ctx context.Context, name string, plan mealplan.WeeklyPlan) (Snapshot, error) {
	snap, err := newSnapshot(name, plan, s.now())
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
	out := snap
	out.Data = snap.Data.Clone()
	return out, nil
}

func (s *MemoryStore) LoadSnapshot(ctx context.Context, id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snap := range s.snapshots {
		if snap.ID == id {
			snap.Data = snap.Data.Clone()
			return snap, nil
		}
	}
	return Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
}

func (s *MemoryStore) DeleteSnapshot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, snap := range s.snapshots {
		if snap.ID == id {
			s.snapshots = append(s.snapshots[:i:i], s.snapshots[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
}

func (s *MemoryStore) Close() error {
	return nil
}
