package services

import (
	"context"
	"log"

	"spectra/internal/cache"
)

// Invalidator 失效引擎：每次已提交的变更之后、响应返回之前同步调用。
// 广播失效按前缀整体清除 list/count 条目，不去推算受影响的精确键集合：
// 过度失效只多付一次 miss，永远不会造成读到脏数据。
// 所有删除都是尽力而为，失败记日志，不让请求失败。
type Invalidator struct {
	cache cache.Store
}

func NewInvalidator(store cache.Store) *Invalidator {
	return &Invalidator{cache: store}
}

func (i *Invalidator) deleteKeys(ctx context.Context, keys ...string) {
	if err := i.cache.Delete(ctx, keys...); err != nil {
		log.Printf("缓存失效删除失败 keys=%v: %v", keys, err)
	}
	for _, key := range keys {
		cache.CountInvalidation(key)
	}
}

func (i *Invalidator) deletePattern(ctx context.Context, pattern string) {
	if err := i.cache.DeletePattern(ctx, pattern); err != nil {
		log.Printf("缓存失效模式删除失败 pattern=%s: %v", pattern, err)
	}
	cache.CountInvalidation(pattern)
}

// invalidatePostCollections 广播清除全部帖子 list/count 页
func (i *Invalidator) invalidatePostCollections(ctx context.Context) {
	i.deletePattern(ctx, cache.PostListKeyPrefix+"*")
	i.deletePattern(ctx, cache.PostCountKeyPrefix+"*")
}

// PostCreated 新帖可能落入任意过滤组合，广播清列表和计数。
// 新 id 还不可能有单条缓存，不用碰。
func (i *Invalidator) PostCreated(ctx context.Context) {
	i.invalidatePostCollections(ctx)
}

// PostsTagged 标签归属变化影响任意过滤组合：
// 每个受影响帖子清单条缓存，再广播一次
func (i *Invalidator) PostsTagged(ctx context.Context, postIDs ...uint) {
	if len(postIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		keys = append(keys, cache.PostKey(id))
	}
	i.deleteKeys(ctx, keys...)
	i.invalidatePostCollections(ctx)
}

// PostDeleted 清单条缓存并广播。磁盘文件是否删除成功与此无关，
// 数据库/缓存一致性优先于存储清理。
func (i *Invalidator) PostDeleted(ctx context.Context, postID uint) {
	i.deleteKeys(ctx, cache.PostKey(postID))
	i.invalidatePostCollections(ctx)
}

// CommentAdded 父帖的 comment_count 变了，该帖的评论页内容集也变了
func (i *Invalidator) CommentAdded(ctx context.Context, postID uint) {
	i.deleteKeys(ctx, cache.PostKey(postID))
	i.deletePattern(ctx, cache.CommentListPattern(postID))
}

// PostVoted 帖子聚合分变化，按分排序/过滤的列表可能重排
func (i *Invalidator) PostVoted(ctx context.Context, postID uint) {
	i.deleteKeys(ctx, cache.PostKey(postID))
	i.invalidatePostCollections(ctx)
}

// CommentVoted 评论投票影响所属帖子的详情和评论页
func (i *Invalidator) CommentVoted(ctx context.Context, postID uint) {
	i.deleteKeys(ctx, cache.PostKey(postID))
	i.deletePattern(ctx, cache.CommentListPattern(postID))
}
