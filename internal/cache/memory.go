package cache

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// memoryItem 包装缓存数据和过期时间
type memoryItem struct {
	Data      []byte
	ExpiresAt time.Time
}

// MemoryStore 进程内 LRU 缓存，REDIS_URL 未配置时的本地开发后备
type MemoryStore struct {
	lruCache *lru.Cache[string, memoryItem]
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	l, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{lruCache: l}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	item, ok := s.lruCache.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	// 检查过期
	if time.Now().After(item.ExpiresAt) {
		s.lruCache.Remove(key)
		return nil, ErrMiss
	}
	return item.Data, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.lruCache.Add(key, memoryItem{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	})
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.lruCache.Remove(key)
	}
	return nil
}

// DeletePattern 只支持尾部 '*' 的前缀模式，失效引擎用到的也只有这种
func (s *MemoryStore) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for _, key := range s.lruCache.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.lruCache.Remove(key)
		}
	}
	return nil
}
