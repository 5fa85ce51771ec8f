package services

import (
	"log"
	"time"

	"spectra/internal/models"

	"github.com/samber/lo"
)

// postRow 列表/详情查询的扁平扫描目标。上传者列来自 LEFT JOIN，
// 账号已删除时整组为 NULL，用指针承接。
type postRow struct {
	ID          uint
	Filename    string
	Filepath    string
	Mimetype    string
	Filesize    int64
	Title       string
	Description string
	Width       int
	Height      int
	UploadedAt  time.Time

	UploaderID        *uint
	UploaderUsername  *string
	UploaderEmail     *string
	UploaderRole      *string
	UploaderIsActive  *bool
	UploaderCreatedAt *time.Time

	Tags         string // json_agg 输出，无标签时是 '[]' 哨兵
	CommentCount int
	Upvotes      int
	Downvotes    int
}

// assemblePost 把一行扫描结果还原成领域实体
func assemblePost(row postRow) models.Post {
	post := models.Post{
		ID:           row.ID,
		Filename:     row.Filename,
		Filepath:     row.Filepath,
		Mimetype:     row.Mimetype,
		Filesize:     row.Filesize,
		Title:        row.Title,
		Description:  row.Description,
		Width:        row.Width,
		Height:       row.Height,
		UploaderID:   row.UploaderID,
		UploadedAt:   row.UploadedAt,
		Tags:         models.TagList{},
		CommentCount: row.CommentCount,
		Upvotes:      row.Upvotes,
		Downvotes:    row.Downvotes,
	}

	if row.Tags != "" {
		// TagList 的解码自带兜底，坏元素丢弃并记日志
		post.Tags.UnmarshalJSON([]byte(row.Tags))
	}

	// 上传者被删除时 uploader 为空引用，不是错误
	if row.UploaderID != nil && row.UploaderUsername != nil {
		post.Uploader = &models.User{
			ID:       *row.UploaderID,
			Username: *row.UploaderUsername,
		}
		if row.UploaderEmail != nil {
			post.Uploader.Email = *row.UploaderEmail
		}
		if row.UploaderRole != nil {
			post.Uploader.Role = *row.UploaderRole
		}
		if row.UploaderIsActive != nil {
			post.Uploader.IsActive = *row.UploaderIsActive
		}
		if row.UploaderCreatedAt != nil {
			post.Uploader.CreatedAt = *row.UploaderCreatedAt
		}
	}
	return post
}

// assemblePosts 批量还原。无法还原的行跳过并告警，
// 列表操作宁可返回部分结果也不整体失败。
func assemblePosts(rows []postRow) []models.Post {
	valid := lo.Filter(rows, func(row postRow, _ int) bool {
		if row.ID == 0 {
			log.Printf("跳过无法还原的帖子行（缺少 id）")
			return false
		}
		return true
	})
	return lo.Map(valid, func(row postRow, _ int) models.Post {
		return assemblePost(row)
	})
}

// commentRow 顶层评论查询的扫描目标
type commentRow struct {
	ID              uint
	PostID          uint
	UserID          uint
	ParentCommentID *uint
	Content         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserUsername    string
	UserEmail       string
	Upvotes         int
	Downvotes       int
}

func assembleComment(row commentRow) models.Comment {
	return models.Comment{
		ID:              row.ID,
		PostID:          row.PostID,
		UserID:          row.UserID,
		ParentCommentID: row.ParentCommentID,
		Content:         row.Content,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		User: &models.User{
			ID:       row.UserID,
			Username: row.UserUsername,
			Email:    row.UserEmail,
		},
		Upvotes:   row.Upvotes,
		Downvotes: row.Downvotes,
	}
}
