package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"recetario-pae/internal/core/cache"
	"recetario-pae/internal/core/catalog"
	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/core/planstore"
	"recetario-pae/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrStorage 計畫儲存層錯誤
var ErrStorage = errors.New("plan storage unavailable")

// ScaledRecipe 食材已乘以份數的食譜
type ScaledRecipe struct {
	ID             string                      `json:"id"`
	Name           string                      `json:"nombre"`
	Category       string                      `json:"categoria"`
	PortionWeightG float64                     `json:"peso_porcion_g"`
	Portions       float64                     `json:"porciones"`
	Ingredients    []mealplan.ScaledIngredient `json:"ingredientes"`
}

// GroupedList 分組後的每週採購清單
type GroupedList struct {
	Criterion        mealplan.Criterion `json:"agrupar"`
	Groups           mealplan.Groups    `json:"grupos"`
	TotalIngredients int                `json:"total_ingredientes"`
}

// Service 管理部署中唯一的每週計畫
type Service struct {
	catalog *catalog.Catalog
	store   planstore.Store
	cache   *cache.Manager
	mu      sync.Mutex
}

// NewService 創建計畫服務，cache 可為 nil
func NewService(cat *catalog.Catalog, store planstore.Store, c *cache.Manager) *Service {
	return &Service{catalog: cat, store: store, cache: c}
}

// Catalog 取得食譜目錄
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Plan 取得目前計畫的副本
func (s *Service) Plan(ctx context.Context) (mealplan.WeeklyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// ReplacePlan 驗證並儲存整份計畫，缺少名稱的指派以目錄名稱補上
func (s *Service) ReplacePlan(ctx context.Context, plan mealplan.WeeklyPlan) (mealplan.WeeklyPlan, error) {
	next := mealplan.NewWeeklyPlan()
	for _, day := range mealplan.Days {
		for _, a := range plan[day] {
			if a.Name == "" {
				if r, ok := s.catalog.Lookup(a.RecipeID); ok {
					a.Name = r.Name
				}
			}
			if err := next.Add(day, a); err != nil {
				return nil, err
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	common.LogInfo("Weekly plan replaced", zap.Int("recipes", next.TotalRecipes()))
	return next.Clone(), nil
}

// AddRecipe 在 day 新增目錄食譜
func (s *Service) AddRecipe(ctx context.Context, day mealplan.Day, recipeID string, portions float64) (mealplan.WeeklyPlan, error) {
	r, err := s.catalog.Get(recipeID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, func(p mealplan.WeeklyPlan) error {
		return p.Add(day, mealplan.RecipeAssignment{RecipeID: r.ID, Name: r.Name, Portions: portions})
	})
}

// RemoveRecipe 移除 day 中第 index 筆指派
func (s *Service) RemoveRecipe(ctx context.Context, day mealplan.Day, index int) (mealplan.WeeklyPlan, error) {
	return s.mutate(ctx, func(p mealplan.WeeklyPlan) error {
		return p.Remove(day, index)
	})
}

// ClearDay 清空一天
func (s *Service) ClearDay(ctx context.Context, day mealplan.Day) (mealplan.WeeklyPlan, error) {
	return s.mutate(ctx, func(p mealplan.WeeklyPlan) error {
		return p.ClearDay(day)
	})
}

// Clear 刪除已儲存的計畫並回傳空計畫
func (s *Service) Clear(ctx context.Context) (mealplan.WeeklyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	// 快取中的清單都屬於舊計畫
	s.cache.Purge()
	common.LogInfo("Weekly plan cleared")
	return mealplan.NewWeeklyPlan(), nil
}

// ListSnapshots 由舊到新列出已儲存的計畫
func (s *Service) ListSnapshots(ctx context.Context) ([]planstore.Snapshot, error) {
	list, err := s.store.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return list, nil
}

// SaveSnapshot 以 name 儲存目前計畫
func (s *Service) SaveSnapshot(ctx context.Context, name string) (planstore.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.load(ctx)
	if err != nil {
		return planstore.Snapshot{}, err
	}
	snap, err := s.store.SaveSnapshot(ctx, name, plan)
	if err != nil {
		if errors.Is(err, planstore.ErrEmptyName) {
			return planstore.Snapshot{}, err
		}
		return planstore.Snapshot{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	common.LogInfo("Weekly plan saved", zap.String("id", snap.ID), zap.String("name", snap.Name))
	return snap, nil
}

// LoadSnapshot 將已儲存的計畫設為目前計畫
func (s *Service) LoadSnapshot(ctx context.Context, id string) (mealplan.WeeklyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.LoadSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, planstore.ErrSnapshotNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	plan := snap.Data.Normalize()
	if err := s.save(ctx, plan); err != nil {
		return nil, err
	}
	common.LogInfo("Saved plan loaded", zap.String("id", snap.ID), zap.String("name", snap.Name))
	return plan.Clone(), nil
}

// DeleteSnapshot 刪除已儲存的計畫
func (s *Service) DeleteSnapshot(ctx context.Context, id string) error {
	if err := s.store.DeleteSnapshot(ctx, id); err != nil {
		if errors.Is(err, planstore.ErrSnapshotNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// ScaleRecipe 將單一食譜乘以份數
func (s *Service) ScaleRecipe(id string, portions float64) (ScaledRecipe, error) {
	if !mealplan.IsValidPortions(portions) {
		return ScaledRecipe{}, fmt.Errorf("%w: %v", mealplan.ErrInvalidPortions, portions)
	}
	r, err := s.catalog.Get(id)
	if err != nil {
		return ScaledRecipe{}, err
	}
	return ScaledRecipe{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		PortionWeightG: r.PortionWeightG,
		Portions:       portions,
		Ingredients:    mealplan.ScaleIngredients(r.Ingredients, portions),
	}, nil
}

// ShoppingList 彙整整週並依名稱排序
func (s *Service) ShoppingList(ctx context.Context) ([]mealplan.ConsolidatedIngredient, error) {
	plan, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}
	return mealplan.ConsolidateWeek(plan, s.catalog), nil
}

// GroupedShoppingList 彙整整週並依 criterion 分組
// 結果以計畫內容與分組條件為鍵快取
func (s *Service) GroupedShoppingList(ctx context.Context, criterion mealplan.Criterion) (GroupedList, error) {
	plan, err := s.Plan(ctx)
	if err != nil {
		return GroupedList{}, err
	}

	raw, err := json.Marshal(plan)
	if err != nil {
		return GroupedList{}, err
	}
	key := fmt.Sprintf("groups:%s:%s", criterion, common.HashString(string(raw)))

	if cached, ok := s.cache.Get(ctx, key); ok {
		var list GroupedList
		if err := common.ParseJSON(cached, &list); err == nil {
			return list, nil
		}
	}

	items := mealplan.ConsolidateWeek(plan, s.catalog)
	list := GroupedList{
		Criterion:        criterion,
		Groups:           mealplan.GroupIngredients(criterion, items, plan, s.catalog),
		TotalIngredients: len(items),
	}
	common.LogDebug("Shopping list grouped",
		zap.String("criterion", criterion.String()),
		zap.Strings("groups", list.Groups.Labels()),
		zap.Int("ingredients", list.TotalIngredients),
	)

	if encoded, err := common.ToJSON(list); err == nil {
		if err := s.cache.Set(ctx, key, encoded); err != nil {
			common.LogWarn("Failed to cache shopping list", zap.Error(err))
		}
	}
	return list, nil
}

// mutate 對已儲存的計畫執行 fn 並寫回
func (s *Service) mutate(ctx context.Context, fn func(mealplan.WeeklyPlan) error) (mealplan.WeeklyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(plan); err != nil {
		return nil, err
	}
	if err := s.save(ctx, plan); err != nil {
		return nil, err
	}
	common.LogDebug("Weekly plan updated", zap.Int("recipes", plan.TotalRecipes()))
	return plan.Clone(), nil
}

func (s *Service) load(ctx context.Context) (mealplan.WeeklyPlan, error) {
	plan, _, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return plan.Normalize(), nil
}

func (s *Service) save(ctx context.Context, plan mealplan.WeeklyPlan) error {
	if err := s.store.Save(ctx, plan); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
