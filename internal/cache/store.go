package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss 表示键不存在或已过期
var ErrMiss = errors.New("cache: miss")

// Store 键值缓存后端。Redis 实现用于部署环境，
// 进程内 LRU 实现用于本地开发和测试。
// 模式删除用于广播失效（按前缀清掉 list/count 页）。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern 删除匹配 glob 模式（如 "posts_list:*"）的全部键
	DeletePattern(ctx context.Context, pattern string) error
}
