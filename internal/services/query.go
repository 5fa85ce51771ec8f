package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"spectra/internal/cache"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// scoreExpr 帖子得分 = 赞数 − 踩数，读取时聚合，不存可变计数器
const scoreExpr = "(SELECT COALESCE(SUM(v.vote_type), 0) FROM votes v WHERE v.post_id = p.id)"

// sortColumns 排序键白名单。只有这里的列名会被拼进 SQL，
// 其余一切用户输入全部走绑定参数
var sortColumns = map[string]string{
	"date":  "p.uploaded_at",
	"score": scoreExpr,
	"id":    "p.id",
}

// postSelectColumns 列表/详情共用的投影：帖子列 + 上传者列 +
// 标签 json_agg 聚合 + 评论数/赞踩数相关子查询
const postSelectColumns = `
	p.id, p.filename, p.filepath, p.mimetype, p.filesize, p.title, p.description,
	p.width, p.height, p.uploaded_at, p.uploader_id,
	u.username AS uploader_username, u.email AS uploader_email, u.role AS uploader_role,
	u.is_active AS uploader_is_active, u.created_at AS uploader_created_at,
	COALESCE((SELECT json_agg(json_build_object('id', t.id, 'name', t.name) ORDER BY t.name)
	          FROM tags t JOIN post_tags pt ON t.id = pt.tag_id WHERE pt.post_id = p.id), '[]'::json) AS tags,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	(SELECT COUNT(*) FROM votes v WHERE v.post_id = p.id AND v.vote_type = 1) AS upvotes,
	(SELECT COUNT(*) FROM votes v WHERE v.post_id = p.id AND v.vote_type = -1) AS downvotes`

// PostQuery 帖子列表的过滤/排序/分页规格
type PostQuery struct {
	Tags           []string
	UploadedAfter  *time.Time
	UploadedBefore *time.Time
	MinScore       *int
	MinWidth       *int
	MinHeight      *int
	UploaderName   string
	SortBy         string // date | score | id | random，空串等同 date
	Order          string // asc | desc，空串等同 desc
	Limit          int
	Skip           int
}

// Normalize 校验并归一化查询参数。标签去空归一化，排序键/方向
// 对白名单校验，分页范围收敛。归一化后相同语义的查询产生相同缓存键。
func (q *PostQuery) Normalize() error {
	normalized := make([]string, 0, len(q.Tags))
	for _, raw := range q.Tags {
		name := NormalizeTagName(raw)
		if name == "" {
			continue
		}
		normalized = append(normalized, name)
	}
	q.Tags = normalized

	if q.SortBy == "" {
		q.SortBy = "date"
	}
	if _, ok := sortColumns[q.SortBy]; !ok && q.SortBy != "random" {
		return newValidationError("invalid sort_by %q, allowed: date, score, id, random", q.SortBy)
	}
	if q.Order == "" {
		q.Order = "desc"
	}
	if q.Order != "asc" && q.Order != "desc" {
		return newValidationError("invalid order %q, allowed: asc, desc", q.Order)
	}

	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	return nil
}

// filterSQL 生成 WHERE 片段和绑定参数。列表和计数查询共用这一个函数，
// 两者的过滤谓词因此天然一致（总数与可见行不脱节的正确性不变量）。
func (q *PostQuery) filterSQL() (string, []any) {
	var conds []string
	var args []any

	if len(q.Tags) > 0 {
		// AND 语义：帖子必须带上每一个请求的标签。
		// 统计命中的去重标签数并要求等于请求集合大小，
		// 简单 IN 只能做 OR 语义
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(q.Tags)), ",")
		conds = append(conds, fmt.Sprintf(`(SELECT COUNT(DISTINCT t.id)
		 FROM post_tags pt JOIN tags t ON pt.tag_id = t.id
		 WHERE pt.post_id = p.id AND t.name IN (%s)) = ?`, placeholders))
		for _, tag := range q.Tags {
			args = append(args, tag)
		}
		args = append(args, len(q.Tags))
	}
	if q.UploadedAfter != nil {
		conds = append(conds, "p.uploaded_at >= ?")
		args = append(args, *q.UploadedAfter)
	}
	if q.UploadedBefore != nil {
		conds = append(conds, "p.uploaded_at <= ?")
		args = append(args, *q.UploadedBefore)
	}
	if q.MinScore != nil {
		// 分数是聚合结果，过滤必须作用在聚合之后
		conds = append(conds, scoreExpr+" >= ?")
		args = append(args, *q.MinScore)
	}
	if q.MinWidth != nil {
		conds = append(conds, "p.width >= ?")
		args = append(args, *q.MinWidth)
	}
	if q.MinHeight != nil {
		conds = append(conds, "p.height >= ?")
		args = append(args, *q.MinHeight)
	}
	if q.UploaderName != "" {
		conds = append(conds, "u.username ILIKE ?")
		args = append(args, "%"+q.UploaderName+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderSQL 排序子句。random 每次调用不播种，跨页无稳定顺序保证
// （已知局限：稳定随机分页需要游标策略，不在范围内）
func (q *PostQuery) orderSQL() string {
	dir := strings.ToUpper(q.Order)
	switch q.SortBy {
	case "random":
		return " ORDER BY RANDOM()"
	case "id":
		return fmt.Sprintf(" ORDER BY p.id %s", dir)
	case "score":
		return fmt.Sprintf(" ORDER BY %s %s, p.id %s", scoreExpr, dir, dir)
	default:
		// 默认最新在前，id 同向决胜保证分页确定性
		return fmt.Sprintf(" ORDER BY p.uploaded_at %s, p.id %s", dir, dir)
	}
}

// ListSQL 列表查询
func (q *PostQuery) ListSQL() (string, []any) {
	where, args := q.filterSQL()
	sql := "SELECT" + postSelectColumns +
		"\n\tFROM posts p\n\tLEFT JOIN users u ON p.uploader_id = u.id" +
		where + q.orderSQL() + " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Skip)
	return sql, args
}

// CountSQL 计数查询：同一份过滤谓词，去掉排序和分页
func (q *PostQuery) CountSQL() (string, []any) {
	where, args := q.filterSQL()
	sql := "SELECT COUNT(*) FROM posts p LEFT JOIN users u ON p.uploader_id = u.id" + where
	return sql, args
}

// CacheParams 转成缓存键的语义参数
func (q *PostQuery) CacheParams() cache.ListParams {
	adv := map[string]string{}
	if q.UploadedAfter != nil {
		adv["uploaded_after"] = q.UploadedAfter.Format("2006-01-02")
	}
	if q.UploadedBefore != nil {
		adv["uploaded_before"] = q.UploadedBefore.Format("2006-01-02")
	}
	if q.MinScore != nil {
		adv["min_score"] = strconv.Itoa(*q.MinScore)
	}
	if q.MinWidth != nil {
		adv["min_width"] = strconv.Itoa(*q.MinWidth)
	}
	if q.MinHeight != nil {
		adv["min_height"] = strconv.Itoa(*q.MinHeight)
	}
	if q.UploaderName != "" {
		adv["uploader_name"] = q.UploaderName
	}
	return cache.ListParams{
		Skip:   q.Skip,
		Limit:  q.Limit,
		Tags:   q.Tags,
		SortBy: q.SortBy,
		Order:  q.Order,
		Adv:    adv,
	}
}
