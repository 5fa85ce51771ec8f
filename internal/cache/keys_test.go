package cache

import "testing"

func TestPostKey(t *testing.T) {
	if got := PostKey(42); got != "post:42" {
		t.Errorf("Expected post:42, got %s", got)
	}
}

func TestPostListKeyFormat(t *testing.T) {
	key := PostListKey(ListParams{
		Skip:   20,
		Limit:  10,
		Tags:   []string{"cat", "outdoor"},
		SortBy: "score",
		Order:  "asc",
		Adv:    map[string]string{"min_score": "5", "uploader_name": "alice"},
	})
	expected := "posts_list:skip_20_limit_10_tags_cat_outdoor_sort_score_order_asc_adv_min_score_5_uploader_name_alice"
	if key != expected {
		t.Errorf("Expected %s, got %s", expected, key)
	}
}

func TestPostListKeySentinels(t *testing.T) {
	// 无标签、无高级过滤时用固定哨兵
	key := PostListKey(ListParams{Skip: 0, Limit: 20, SortBy: "date", Order: "desc"})
	expected := "posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters"
	if key != expected {
		t.Errorf("Expected %s, got %s", expected, key)
	}
}

func TestPostListKeyTagOrderIndependent(t *testing.T) {
	// 语义相同的查询必须产生相同的键，与标签传入顺序无关
	a := PostListKey(ListParams{Limit: 20, Tags: []string{"dog", "cat", "beach"}, SortBy: "date", Order: "desc"})
	b := PostListKey(ListParams{Limit: 20, Tags: []string{"beach", "dog", "cat"}, SortBy: "date", Order: "desc"})
	if a != b {
		t.Errorf("Expected identical keys for permuted tags, got %s vs %s", a, b)
	}
}

func TestPostListKeyDistinguishesFilters(t *testing.T) {
	base := ListParams{Limit: 20, SortBy: "date", Order: "desc"}
	withScore := base
	withScore.Adv = map[string]string{"min_score": "3"}
	if PostListKey(base) == PostListKey(withScore) {
		t.Error("Expected different keys for different adv filters")
	}

	paged := base
	paged.Skip = 20
	if PostListKey(base) == PostListKey(paged) {
		t.Error("Expected different keys for different pages")
	}
}

func TestPostCountKeyIgnoresPagingAndSort(t *testing.T) {
	a := PostCountKey(ListParams{Skip: 0, Limit: 20, Tags: []string{"cat"}, SortBy: "date", Order: "desc"})
	b := PostCountKey(ListParams{Skip: 40, Limit: 10, Tags: []string{"cat"}, SortBy: "score", Order: "asc"})
	if a != b {
		t.Errorf("Expected count key to ignore paging/sort, got %s vs %s", a, b)
	}
	if a != "posts_count:tags_cat_adv_no_adv_filters" {
		t.Errorf("Unexpected count key format: %s", a)
	}
}

func TestCommentListKey(t *testing.T) {
	if got := CommentListKey(7, 0, 50); got != "comments_for_post:7:skip_0:limit_50" {
		t.Errorf("Unexpected comment key: %s", got)
	}
	// 模式必须能匹配该帖子的所有评论页键
	if got := CommentListPattern(7); got != "comments_for_post:7:*" {
		t.Errorf("Unexpected comment pattern: %s", got)
	}
}
