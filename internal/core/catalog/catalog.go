package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/pkg/common"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AllCategories 符合所有食譜的分類篩選值
const AllCategories = "Todas"

// ErrRecipeNotFound 食譜 id 不存在
var ErrRecipeNotFound = errors.New("recipe not found")

// file 靜態目錄的檔案格式
type file struct {
	Recipes []mealplan.Recipe `json:"recetas" yaml:"recetas"`
}

// Catalog 啟動時載入的唯讀食譜集合
type Catalog struct {
	recipes []mealplan.Recipe
	index   mealplan.RecipeIndex
}

// New 建立目錄，略過缺少 id 或 nombre 的食譜，重複 id 保留第一筆
func New(recipes []mealplan.Recipe) *Catalog {
	kept := make([]mealplan.Recipe, 0, len(recipes))
	seen := make(map[string]bool, len(recipes))
	for i, r := range recipes {
		if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Name) == "" {
			common.LogWarn("Skipping recipe without id or name", zap.Int("position", i))
			continue
		}
		if seen[r.ID] {
			common.LogWarn("Skipping duplicated recipe id", zap.String("id", r.ID))
			continue
		}
		seen[r.ID] = true
		kept = append(kept, r)
	}
	return &Catalog{recipes: kept, index: mealplan.IndexRecipes(kept)}
}

// Load 讀取頂層為 "recetas" 列表的 JSON 或 YAML 目錄檔
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	common.LogInfo("Recipe catalog loaded",
		zap.String("path", path),
		zap.Int("recipes", c.Len()),
		zap.Int("categories", len(c.Categories())),
	)
	return c, nil
}

// Parse 解析目錄資料，ext 為 ".yaml"/".yml" 時用 YAML，否則用 JSON
func Parse(data []byte, ext string) (*Catalog, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		if err := common.DecodeJSON(bytes.NewReader(data), &f); err != nil {
			return nil, err
		}
	}
	return New(f.Recipes), nil
}

// Lookup 實作 mealplan.RecipeLookup
func (c *Catalog) Lookup(id string) (mealplan.Recipe, bool) {
	return c.index.Lookup(id)
}

// Get 依 id 取得食譜，找不到時回傳 ErrRecipeNotFound
func (c *Catalog) Get(id string) (mealplan.Recipe, error) {
	r, ok := c.index.Lookup(id)
	if !ok {
		return mealplan.Recipe{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	return r, nil
}

// Len 食譜數量
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Recipes 依檔案順序回傳所有食譜
func (c *Catalog) Recipes() []mealplan.Recipe {
	out := make([]mealplan.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Categories 依首次出現順序回傳不重複的分類
func (c *Catalog) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range c.recipes {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// Filter 回傳名稱包含 search（不分大小寫）且分類符合的食譜
// category 為空或 AllCategories 時不篩選分類
func (c *Catalog) Filter(search, category string) []mealplan.Recipe {
	term := strings.ToLower(strings.TrimSpace(search))
	out := []mealplan.Recipe{}
	for _, r := range c.recipes {
		if term != "" && !strings.Contains(strings.ToLower(r.Name), term) {
			continue
		}
		if category != "" && category != AllCategories && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	return out
}
