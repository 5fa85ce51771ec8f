package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// FetchOrLoad 读穿缓存：命中则反序列化返回；未命中或缓存内容损坏时
// 回源 loader，结果尽力写回缓存。核心韧性约定：
//   - 损坏的缓存条目绝不让读取失败，降级为 miss 并记日志
//   - 写缓存失败不影响本次读取的结果
func FetchOrLoad[T any](ctx context.Context, store Store, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	data, err := store.Get(ctx, key)
	if err == nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			countHit(key)
			return cached, nil
		}
		// 缓存损坏（脏数据或结构变更），当作 miss 回源
		countCorruption(key)
		log.Printf("缓存条目损坏，回源加载 key=%s: 反序列化失败", key)
	} else if err != ErrMiss {
		// 缓存读取出错同样当作 miss
		log.Printf("缓存读取失败，回源加载 key=%s: %v", key, err)
	}
	countMiss(key)

	value, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if data, err := json.Marshal(value); err != nil {
		log.Printf("缓存序列化失败 key=%s: %v", key, err)
	} else if err := store.Set(ctx, key, data, ttl); err != nil {
		log.Printf("缓存写入失败 key=%s: %v", key, err)
	}
	return value, nil
}
