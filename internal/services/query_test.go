package services

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeDefaults(t *testing.T) {
	q := PostQuery{}
	if err := q.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if q.SortBy != "date" || q.Order != "desc" {
		t.Errorf("Expected date/desc defaults, got %s/%s", q.SortBy, q.Order)
	}
	if q.Limit != DefaultPageSize || q.Skip != 0 {
		t.Errorf("Expected limit %d skip 0, got %d/%d", DefaultPageSize, q.Limit, q.Skip)
	}
}

func TestNormalizeClampsAndTags(t *testing.T) {
	q := PostQuery{
		Tags:  []string{" Cat Dog ", "", "BEACH"},
		Limit: 500,
		Skip:  -3,
	}
	if err := q.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if q.Limit != MaxPageSize {
		t.Errorf("Expected limit clamped to %d, got %d", MaxPageSize, q.Limit)
	}
	if q.Skip != 0 {
		t.Errorf("Expected skip clamped to 0, got %d", q.Skip)
	}
	if len(q.Tags) != 2 || q.Tags[0] != "cat_dog" || q.Tags[1] != "beach" {
		t.Errorf("Unexpected normalized tags: %v", q.Tags)
	}
}

func TestNormalizeRejectsUnknownSort(t *testing.T) {
	q := PostQuery{SortBy: "filesize; DROP TABLE posts"}
	err := q.Normalize()
	if !IsValidation(err) {
		t.Errorf("Expected validation error for unknown sort key, got %v", err)
	}

	q = PostQuery{Order: "sideways"}
	if err := q.Normalize(); !IsValidation(err) {
		t.Errorf("Expected validation error for unknown order, got %v", err)
	}
}

func TestFilterSymmetry(t *testing.T) {
	// 列表和计数查询必须使用完全相同的 WHERE 片段和参数，
	// 否则 total 与可见行会脱节
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	minScore := 5
	q := PostQuery{
		Tags:          []string{"cat", "dog"},
		UploadedAfter: &after,
		MinScore:      &minScore,
		UploaderName:  "alice",
		SortBy:        "score",
		Order:         "desc",
		Limit:         20,
	}
	if err := q.Normalize(); err != nil {
		t.Fatal(err)
	}

	listSQL, listArgs := q.ListSQL()
	countSQL, countArgs := q.CountSQL()

	// json_agg 投影里也有 ORDER BY，外层排序子句取最后一个；
	// 投影子查询里也有 WHERE，外层 WHERE 要从 JOIN 之后找起
	joinIdx := strings.Index(listSQL, "LEFT JOIN users u")
	listWhere := listSQL[joinIdx+strings.Index(listSQL[joinIdx:], " WHERE ") : strings.LastIndex(listSQL, " ORDER BY ")]
	countWhere := countSQL[strings.Index(countSQL, " WHERE "):]
	if listWhere != countWhere {
		t.Errorf("WHERE mismatch:\nlist:  %s\ncount: %s", listWhere, countWhere)
	}
	// 列表比计数多 LIMIT/OFFSET 两个参数
	if len(listArgs) != len(countArgs)+2 {
		t.Errorf("Expected %d list args, got %d", len(countArgs)+2, len(listArgs))
	}
	for i, arg := range countArgs {
		if listArgs[i] != arg {
			t.Errorf("Arg %d mismatch: %v vs %v", i, listArgs[i], arg)
		}
	}
}

func TestTagFilterAndSemantics(t *testing.T) {
	q := PostQuery{Tags: []string{"cat", "dog", "beach"}}
	if err := q.Normalize(); err != nil {
		t.Fatal(err)
	}
	where, args := q.filterSQL()

	// AND 语义靠 COUNT(DISTINCT) = 集合大小实现
	if !strings.Contains(where, "COUNT(DISTINCT t.id)") {
		t.Errorf("Expected distinct-count tag predicate, got %s", where)
	}
	if !strings.Contains(where, "IN (?,?,?)") {
		t.Errorf("Expected 3 bound placeholders, got %s", where)
	}
	// 参数：3 个标签名 + 集合大小
	if len(args) != 4 {
		t.Fatalf("Expected 4 args, got %d: %v", len(args), args)
	}
	if args[3] != 3 {
		t.Errorf("Expected set size 3 as last arg, got %v", args[3])
	}
}

func TestUserInputNeverInterpolated(t *testing.T) {
	// 标签名和上传者名只能以绑定参数出现，绝不拼进 SQL 文本
	hostile := "x'; DROP TABLE posts; --"
	q := PostQuery{Tags: []string{hostile}, UploaderName: hostile}
	if err := q.Normalize(); err != nil {
		t.Fatal(err)
	}
	sql, args := q.ListSQL()
	if strings.Contains(sql, "DROP TABLE") {
		t.Errorf("User input leaked into SQL text: %s", sql)
	}
	found := false
	for _, arg := range args {
		if s, ok := arg.(string); ok && strings.Contains(s, "DROP TABLE") {
			found = true
		}
	}
	if !found {
		t.Error("Expected hostile input to appear only as bound arg")
	}
}

func TestOrderSQLVariants(t *testing.T) {
	cases := []struct {
		sortBy, order string
		want          string
	}{
		{"date", "desc", " ORDER BY p.uploaded_at DESC, p.id DESC"},
		{"id", "asc", " ORDER BY p.id ASC"},
		{"random", "desc", " ORDER BY RANDOM()"},
	}
	for _, c := range cases {
		q := PostQuery{SortBy: c.sortBy, Order: c.order}
		if err := q.Normalize(); err != nil {
			t.Fatal(err)
		}
		if got := q.orderSQL(); got != c.want {
			t.Errorf("sort %s/%s: expected %q, got %q", c.sortBy, c.order, c.want, got)
		}
	}

	// score 排序使用聚合表达式并带 id 决胜
	q := PostQuery{SortBy: "score", Order: "asc"}
	if err := q.Normalize(); err != nil {
		t.Fatal(err)
	}
	got := q.orderSQL()
	if !strings.Contains(got, "SUM(v.vote_type)") || !strings.Contains(got, "p.id ASC") {
		t.Errorf("Unexpected score ordering: %q", got)
	}
}

func TestCacheParamsReflectFilters(t *testing.T) {
	after := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	minWidth := 1920
	q := PostQuery{
		Tags:          []string{"cat"},
		UploadedAfter: &after,
		MinWidth:      &minWidth,
		UploaderName:  "alice",
		Skip:          20,
		Limit:         10,
		SortBy:        "score",
		Order:         "asc",
	}
	if err := q.Normalize(); err != nil {
		t.Fatal(err)
	}
	p := q.CacheParams()
	if p.Skip != 20 || p.Limit != 10 || p.SortBy != "score" || p.Order != "asc" {
		t.Errorf("Unexpected params: %+v", p)
	}
	if p.Adv["uploaded_after"] != "2024-03-15" {
		t.Errorf("Expected date-only format, got %s", p.Adv["uploaded_after"])
	}
	if p.Adv["min_width"] != "1920" || p.Adv["uploader_name"] != "alice" {
		t.Errorf("Unexpected adv: %v", p.Adv)
	}
	if _, ok := p.Adv["min_score"]; ok {
		t.Error("Unset filter must not appear in adv map")
	}
}
