// Package session 提供流水线会话状态的字段级存取
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"ai-blog-writer-api/pkg/metrics"
)

// 会话字段名，与流水线各阶段的产物一一对应
const (
	FieldTrendsSummary   = "trends_summary"
	FieldResearchSummary = "research_summary"
	FieldOutline         = "outline"
)

// Store 会话状态存储。实现必须保证：
//   - Get 在会话或字段不存在时返回空串且不报错
//   - Set 空值为空操作，不覆盖已有内容
//   - Clear 对不存在的会话同样成功
type Store interface {
	Get(ctx context.Context, sessionID, field string) (string, error)
	Set(ctx context.Context, sessionID, field, value string) error
	Clear(ctx context.Context, sessionID string) error
}

type memorySession struct {
	fields    map[string]string
	updatedAt time.Time
}

// MemoryStore 进程内会话存储，带 TTL 清扫
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
	ttl      time.Duration
	maxSize  int

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewMemoryStore 创建内存会话存储；ttl 为 0 表示不过期
func NewMemoryStore(ttl time.Duration, maxSize int) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		maxSize:  maxSize,
		stopCh:   make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, sessionID, field string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", nil
	}
	if s.ttl > 0 && time.Since(sess.updatedAt) > s.ttl {
		return "", nil
	}
	return sess.fields[field], nil
}

func (s *MemoryStore) Set(ctx context.Context, sessionID, field, value string) error {
	// 空值写入为空操作，避免把已有产物冲掉
	if strings.TrimSpace(value) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		if s.maxSize > 0 && len(s.sessions) >= s.maxSize {
			s.evictOldestLocked()
		}
		sess = &memorySession{fields: make(map[string]string)}
		s.sessions[sessionID] = sess
		metrics.SessionsActive.Set(float64(len(s.sessions)))
	}
	sess.fields[field] = value
	sess.updatedAt = time.Now()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		metrics.SessionsActive.Set(float64(len(s.sessions)))
	}
	return nil
}

// Close 停止后台清扫
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *MemoryStore) janitor() {
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.updatedAt) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.SessionEvictionsTotal.Add(float64(evicted))
		metrics.SessionsActive.Set(float64(len(s.sessions)))
	}
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.updatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = sess.updatedAt
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		metrics.SessionEvictionsTotal.Inc()
	}
}
