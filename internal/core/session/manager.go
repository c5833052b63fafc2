package session

import (
	"sync"
	"time"

	"recipe-plaza/internal/core/recipe/state"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"
	"recipe-plaza/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Manager 工作階段管理器，以記憶體保存每個使用者的搜尋狀態
type Manager struct {
	config config.SessionConfig
	mu     sync.RWMutex
	store  map[string]entry
	stats  managerStats
	now    func() time.Time
	done   chan struct{}
	once   sync.Once
}

// entry 工作階段條目
type entry struct {
	state       state.State
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// managerStats 工作階段統計
type managerStats struct {
	created   int64
	hits      int64
	misses    int64
	evictions int64
}

// Stats 對外公開的統計
type Stats struct {
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
	Created   int64 `json:"created"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewManager 創建新的工作階段管理器並啟動過期清理
func NewManager(cfg config.SessionConfig) *Manager {
	m := newManager(cfg, time.Now)

	go m.startCleanup()

	common.LogInfo("工作階段管理員已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return m
}

func newManager(cfg config.SessionConfig, now func() time.Time) *Manager {
	return &Manager{
		config: cfg,
		store:  make(map[string]entry),
		now:    now,
		done:   make(chan struct{}),
	}
}

// Create 建立新的工作階段，容量已滿時淘汰最少使用者
func (m *Manager) Create(initial state.State) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.config.MaxSize {
		if evicted := m.cleanup(); evicted > 0 {
			common.LogDebug("工作階段清理執行", zap.Int("清理數量", evicted))
		}
		for len(m.store) >= m.config.MaxSize {
			m.evictLRU()
		}
	}

	id := common.GenerateUUID()
	now := m.now()
	m.store[id] = entry{
		state:      initial,
		expiresAt:  now.Add(m.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}
	m.stats.created++
	metrics.ActiveSessions.Set(float64(len(m.store)))

	return id
}

// Get 取得工作階段狀態，並延長存活時間
func (m *Manager) Get(id string) (state.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.store[id]
	if !ok {
		m.stats.misses++
		return state.State{}, false
	}

	now := m.now()
	if now.After(e.expiresAt) {
		delete(m.store, id)
		m.stats.evictions++
		m.stats.misses++
		metrics.ActiveSessions.Set(float64(len(m.store)))
		common.LogDebug("工作階段已過期", zap.String("session_id", id))
		return state.State{}, false
	}

	e.lastAccess = now
	e.expiresAt = now.Add(m.config.TTL)
	e.accessCount++
	m.store[id] = e
	m.stats.hits++

	return e.state, true
}

// Put 更新既有工作階段的狀態
func (m *Manager) Put(id string, s state.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.store[id]
	if !ok {
		return common.ErrSessionNotFound
	}

	now := m.now()
	e.state = s
	e.lastAccess = now
	e.expiresAt = now.Add(m.config.TTL)
	m.store[id] = e
	return nil
}

// Delete 刪除工作階段
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store[id]; !ok {
		return false
	}
	delete(m.store, id)
	metrics.ActiveSessions.Set(float64(len(m.store)))
	return true
}

// startCleanup 定期清理過期工作階段
func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期的工作階段，呼叫端需持有寫鎖
func (m *Manager) cleanup() int {
	now := m.now()
	count := 0

	for id, e := range m.store {
		if now.After(e.expiresAt) {
			delete(m.store, id)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		metrics.ActiveSessions.Set(float64(len(m.store)))
		common.LogInfo("Cleaned up expired sessions",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.stats.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}

	return count
}

// evictLRU 淘汰存取次數最少、最久未使用的工作階段
func (m *Manager) evictLRU() {
	var oldestID string
	var oldestAccess time.Time
	var lowestAccessCount int

	for id, e := range m.store {
		if oldestID == "" ||
			e.accessCount < lowestAccessCount ||
			(e.accessCount == lowestAccessCount && e.lastAccess.Before(oldestAccess)) {
			oldestID = id
			oldestAccess = e.lastAccess
			lowestAccessCount = e.accessCount
		}
	}

	if oldestID != "" {
		delete(m.store, oldestID)
		m.stats.evictions++
		common.LogInfo("工作階段已淘汰(LRU)",
			zap.String("session_id", oldestID),
		)
	}
}

// Stats 獲取統計信息
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Stats{
		Size:      len(m.store),
		MaxSize:   m.config.MaxSize,
		Created:   m.stats.created,
		Hits:      m.stats.hits,
		Misses:    m.stats.misses,
		Evictions: m.stats.evictions,
	}
}

// Close 停止清理並清空工作階段
func (m *Manager) Close() error {
	m.once.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]entry)
	metrics.ActiveSessions.Set(0)
	common.LogInfo("工作階段管理員已關閉",
		zap.Int64("建立次數", m.stats.created),
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	return nil
}
