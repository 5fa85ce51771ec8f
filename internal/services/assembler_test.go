package services

import (
	"testing"
	"time"
)

func TestAssemblePost(t *testing.T) {
	uid := uint(3)
	username := "alice"
	email := "alice@example.com"
	role := "user"
	active := true
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	row := postRow{
		ID:                1,
		Filename:          "abc.jpg",
		Title:             "测试图",
		Width:             800,
		Height:            600,
		UploadedAt:        created,
		UploaderID:        &uid,
		UploaderUsername:  &username,
		UploaderEmail:     &email,
		UploaderRole:      &role,
		UploaderIsActive:  &active,
		UploaderCreatedAt: &created,
		Tags:              `[{"id":1,"name":"cat"},{"id":2,"name":"outdoor"}]`,
		CommentCount:      4,
		Upvotes:           10,
		Downvotes:         2,
	}

	post := assemblePost(row)
	if post.ID != 1 || post.CommentCount != 4 || post.Upvotes != 10 || post.Downvotes != 2 {
		t.Errorf("Unexpected post fields: %+v", post)
	}
	if len(post.Tags) != 2 || post.Tags[0].Name != "cat" {
		t.Errorf("Unexpected tags: %+v", post.Tags)
	}
	if post.Uploader == nil || post.Uploader.Username != "alice" || post.Uploader.Role != "user" {
		t.Errorf("Unexpected uploader: %+v", post.Uploader)
	}
}

func TestAssemblePostOrphaned(t *testing.T) {
	// 上传者账号已删除：uploader 列全 NULL，标签为 json_agg 的空哨兵
	post := assemblePost(postRow{ID: 2, Tags: "[]"})
	if post.Uploader != nil {
		t.Errorf("Expected nil uploader, got %+v", post.Uploader)
	}
	if post.Tags == nil || len(post.Tags) != 0 {
		t.Errorf("Expected empty non-nil tags, got %+v", post.Tags)
	}
}

func TestAssemblePostsSkipsBadRows(t *testing.T) {
	rows := []postRow{
		{ID: 1, Tags: "[]"},
		{ID: 0, Tags: "[]"}, // 缺 id 的行跳过，不让整页失败
		{ID: 3, Tags: "not valid json"},
	}
	posts := assemblePosts(rows)
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != 1 || posts[1].ID != 3 {
		t.Errorf("Unexpected ids: %d, %d", posts[0].ID, posts[1].ID)
	}
	// 坏标签降级为空列表而不是错误
	if len(posts[1].Tags) != 0 {
		t.Errorf("Expected empty tags for bad payload, got %+v", posts[1].Tags)
	}
}
