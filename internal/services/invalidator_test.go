package services

import (
	"context"
	"testing"
	"time"

	"spectra/internal/cache"
)

func seededStore(t *testing.T, keys ...string) cache.Store {
	t.Helper()
	store, err := cache.NewMemoryStore(64)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range keys {
		if err := store.Set(ctx, k, []byte("x"), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func assertMiss(t *testing.T, store cache.Store, key string) {
	t.Helper()
	if _, err := store.Get(context.Background(), key); err != cache.ErrMiss {
		t.Errorf("Expected %s invalidated, got %v", key, err)
	}
}

func assertHit(t *testing.T, store cache.Store, key string) {
	t.Helper()
	if _, err := store.Get(context.Background(), key); err != nil {
		t.Errorf("Expected %s to survive, got %v", key, err)
	}
}

func TestPostCreatedClearsCollections(t *testing.T) {
	store := seededStore(t,
		"posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters",
		"posts_count:tags_all_adv_no_adv_filters",
		"post:1",
		"comments_for_post:1:skip_0:limit_50",
	)
	NewInvalidator(store).PostCreated(context.Background())

	assertMiss(t, store, "posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters")
	assertMiss(t, store, "posts_count:tags_all_adv_no_adv_filters")
	// 单条缓存和评论页不受新帖影响
	assertHit(t, store, "post:1")
	assertHit(t, store, "comments_for_post:1:skip_0:limit_50")
}

func TestCommentAddedClearsPostAndCommentPages(t *testing.T) {
	store := seededStore(t,
		"post:7",
		"post:8",
		"comments_for_post:7:skip_0:limit_50",
		"comments_for_post:7:skip_50:limit_50",
		"comments_for_post:8:skip_0:limit_50",
		"posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters",
	)
	NewInvalidator(store).CommentAdded(context.Background(), 7)

	assertMiss(t, store, "post:7")
	assertMiss(t, store, "comments_for_post:7:skip_0:limit_50")
	assertMiss(t, store, "comments_for_post:7:skip_50:limit_50")
	// 其他帖子与列表页不动
	assertHit(t, store, "post:8")
	assertHit(t, store, "comments_for_post:8:skip_0:limit_50")
	assertHit(t, store, "posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters")
}

func TestPostsTaggedClearsEachPostAndBroadcasts(t *testing.T) {
	store := seededStore(t,
		"post:1", "post:2", "post:3",
		"posts_list:skip_0_limit_20_tags_cat_sort_date_order_desc_adv_no_adv_filters",
		"posts_count:tags_cat_adv_no_adv_filters",
	)
	NewInvalidator(store).PostsTagged(context.Background(), 1, 3)

	assertMiss(t, store, "post:1")
	assertMiss(t, store, "post:3")
	assertHit(t, store, "post:2")
	assertMiss(t, store, "posts_list:skip_0_limit_20_tags_cat_sort_date_order_desc_adv_no_adv_filters")
	assertMiss(t, store, "posts_count:tags_cat_adv_no_adv_filters")
}

func TestPostsTaggedNoIDsIsNoop(t *testing.T) {
	store := seededStore(t,
		"posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters",
	)
	NewInvalidator(store).PostsTagged(context.Background())
	assertHit(t, store, "posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters")
}

func TestPostDeletedClearsEntryAndCollections(t *testing.T) {
	store := seededStore(t,
		"post:5",
		"posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters",
		"posts_count:tags_all_adv_no_adv_filters",
	)
	NewInvalidator(store).PostDeleted(context.Background(), 5)

	assertMiss(t, store, "post:5")
	assertMiss(t, store, "posts_list:skip_0_limit_20_tags_all_sort_date_order_desc_adv_no_adv_filters")
	assertMiss(t, store, "posts_count:tags_all_adv_no_adv_filters")
}

func TestVoteInvalidation(t *testing.T) {
	store := seededStore(t,
		"post:9",
		"comments_for_post:9:skip_0:limit_50",
		"posts_list:skip_0_limit_20_tags_all_sort_score_order_desc_adv_no_adv_filters",
	)
	inv := NewInvalidator(store)

	// 帖子投票影响单条和按分排序的列表，不碰评论页
	inv.PostVoted(context.Background(), 9)
	assertMiss(t, store, "post:9")
	assertMiss(t, store, "posts_list:skip_0_limit_20_tags_all_sort_score_order_desc_adv_no_adv_filters")
	assertHit(t, store, "comments_for_post:9:skip_0:limit_50")

	// 评论投票清详情和评论页
	inv.CommentVoted(context.Background(), 9)
	assertMiss(t, store, "comments_for_post:9:skip_0:limit_50")
}
