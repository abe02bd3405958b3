package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"recetario-pae/internal/infrastructure/config"
	"recetario-pae/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrCacheFull 快取已滿且無法淘汰
var ErrCacheFull = errors.New("cache is full")

// Manager 記憶體快取管理器，nil 值代表快取停用
type Manager struct {
	name   string
	config config.CacheConfig
	mu     sync.Mutex
	store  map[string]entry
	stats  Stats
	stop   chan struct{}
	once   sync.Once
	now    func() time.Time
}

// entry 快取條目
type entry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// Stats 快取統計
type Stats struct {
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Errors    int64 `json:"errors"`
}

// NewManager 創建快取管理器；停用時回傳 nil
func NewManager(name string, cfg config.CacheConfig) *Manager {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled", zap.String("cache", name))
		return nil
	}

	m := &Manager{
		name:   name,
		config: cfg,
		store:  make(map[string]entry),
		stop:   make(chan struct{}),
		now:    time.Now,
	}

	go m.startCleanup()

	common.LogInfo("Cache manager initialized",
		zap.String("cache", name),
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

// Get 讀取快取值
func (m *Manager) Get(ctx context.Context, key string) (string, bool) {
	if m == nil {
		return "", false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.store[key]
	if !ok {
		m.stats.Misses++
		common.LogCacheMiss(m.name, key)
		return "", false
	}

	if m.now().After(e.expiresAt) {
		delete(m.store, key)
		m.stats.Evictions++
		m.stats.Misses++
		common.LogCacheMiss(m.name, key)
		return "", false
	}

	e.lastAccess = m.now()
	e.accessCount++
	m.store[key] = e
	m.stats.Hits++
	common.LogCacheHit(m.name, key)
	return e.value, true
}

// Set 寫入快取值
func (m *Manager) Set(ctx context.Context, key, value string) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[key]; !exists && len(m.store) >= m.config.MaxSize {
		m.cleanup()

		// 仍超過容量時淘汰最少使用的條目
		if len(m.store) >= m.config.MaxSize {
			m.evictLRU()
		}

		if len(m.store) >= m.config.MaxSize {
			m.stats.Errors++
			common.LogWarn("Cache full", zap.String("cache", m.name), zap.Int("size", len(m.store)))
			return ErrCacheFull
		}
	}

	now := m.now()
	m.store[key] = entry{
		value:      value,
		expiresAt:  now.Add(m.config.TTL),
		lastAccess: now,
	}
	return nil
}

// Purge 清空所有條目
func (m *Manager) Purge() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]entry)
}

// startCleanup 定期清理過期條目
func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// cleanup 清理過期條目，呼叫端需持有鎖
func (m *Manager) cleanup() int {
	now := m.now()
	count := 0

	for key, e := range m.store {
		if now.After(e.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.Evictions++
		}
	}

	if count > 0 {
		common.LogDebug("Cleaned up expired cache entries",
			zap.String("cache", m.name),
			zap.Int("count", count),
			zap.Int("remaining_size", len(m.store)),
		)
	}

	return count
}

// evictLRU 淘汰訪問次數最少且最久未使用的條目
func (m *Manager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, e := range m.store {
		if oldestKey == "" ||
			e.accessCount < lowestAccessCount ||
			(e.accessCount == lowestAccessCount && e.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = e.lastAccess
			lowestAccessCount = e.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.Evictions++
		common.LogDebug("Cache entry evicted (LRU)", zap.String("cache", m.name), zap.String("key", oldestKey))
	}
}

// Stats 取得快取統計
func (m *Manager) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.Size = len(m.store)
	s.MaxSize = m.config.MaxSize
	return s
}

// Close 停止清理協程並清空快取
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.once.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]entry)
	common.LogInfo("Cache manager closed",
		zap.String("cache", m.name),
		zap.Int64("hits", m.stats.Hits),
		zap.Int64("misses", m.stats.Misses),
		zap.Int64("evictions", m.stats.Evictions),
	)
	return nil
}
