package cache

import (
	"fmt"
	"sort"
	"strings"
)

// 线上已有缓存数据依赖这些前缀和键格式，改动会造成失效引擎漏删，务必保持兼容
const (
	PostKeyPrefix      = "post:"
	PostListKeyPrefix  = "posts_list:"
	PostCountKeyPrefix = "posts_count:"
	CommentsKeyPrefix  = "comments_for_post:"
	TagCatalogKey      = "tags_with_counts"
)

// ListParams 是缓存键的语义内容：键只由过滤/排序/分页参数决定，
// 与参数传入顺序无关（tags 与 adv 均排序后拼接）。
type ListParams struct {
	Skip   int
	Limit  int
	Tags   []string // 已归一化的标签名
	SortBy string
	Order  string
	Adv    map[string]string // 生效的高级过滤项，值已确定性字符串化
}

// PostKey 单个帖子
func PostKey(postID uint) string {
	return fmt.Sprintf("%s%d", PostKeyPrefix, postID)
}

// PostListKey 列表页
func PostListKey(p ListParams) string {
	return fmt.Sprintf("%sskip_%d_limit_%d_tags_%s_sort_%s_order_%s_adv_%s",
		PostListKeyPrefix, p.Skip, p.Limit, tagsSegment(p.Tags), p.SortBy, p.Order, advSegment(p.Adv))
}

// PostCountKey 计数，忽略分页和排序
func PostCountKey(p ListParams) string {
	return fmt.Sprintf("%stags_%s_adv_%s", PostCountKeyPrefix, tagsSegment(p.Tags), advSegment(p.Adv))
}

// CommentListKey 某帖子的一页顶层评论
func CommentListKey(postID uint, skip, limit int) string {
	return fmt.Sprintf("%s%d:skip_%d:limit_%d", CommentsKeyPrefix, postID, skip, limit)
}

// CommentListPattern 该帖子全部评论页，供失效引擎模式删除
func CommentListPattern(postID uint) string {
	return fmt.Sprintf("%s%d:*", CommentsKeyPrefix, postID)
}

// tagsSegment 排序后下划线连接；无标签过滤时用固定哨兵 "all"，
// 保证"无过滤"与"空集"不会产生歧义键
func tagsSegment(tags []string) string {
	if len(tags) == 0 {
		return "all"
	}
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	return strings.Join(sorted, "_")
}

// advSegment 高级过滤项按键名排序拼成 k_v 对；无任何项时用哨兵
func advSegment(adv map[string]string) string {
	if len(adv) == 0 {
		return "no_adv_filters"
	}
	keys := make([]string, 0, len(adv))
	for k := range adv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s_%s", k, adv[k]))
	}
	return strings.Join(pairs, "_")
}
