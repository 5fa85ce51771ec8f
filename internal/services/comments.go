package services

import (
	"context"
	"errors"
	"strings"

	"spectra/internal/cache"
	"spectra/internal/config"
	"spectra/internal/models"

	"gorm.io/gorm"
)

type CommentService struct {
	db    *gorm.DB
	cache cache.Store
	inv   *Invalidator
	cfg   *config.Config
}

func NewCommentService(db *gorm.DB, store cache.Store, inv *Invalidator, cfg *config.Config) *CommentService {
	return &CommentService{db: db, cache: store, inv: inv, cfg: cfg}
}

// Create 发表评论。父评论只支持一层引用，必须属于同一帖子。
// 提交后失效父帖详情（comment_count 变了）和该帖的评论页。
func (s *CommentService) Create(ctx context.Context, postID, authorID uint, content string, parentID *uint) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, newValidationError("comment content cannot be empty")
	}

	comment := models.Comment{
		PostID:          postID,
		UserID:          authorID,
		ParentCommentID: parentID,
		Content:         content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		if parentID != nil {
			var parent models.Comment
			if err := tx.First(&parent, *parentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return newValidationError("parent comment %d does not exist", *parentID)
				}
				return err
			}
			if parent.PostID != postID {
				return newValidationError("parent comment belongs to another post")
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		comment.User = &models.User{}
		return tx.First(comment.User, authorID).Error
	})
	if err != nil {
		return nil, err
	}

	s.inv.CommentAdded(ctx, postID)
	return &comment, nil
}

// ListForPost 某帖子的一页顶层评论（嵌套回复树未实现，只列顶层），
// 按创建时间正序，读穿缓存
func (s *CommentService) ListForPost(ctx context.Context, postID uint, skip, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if skip < 0 {
		skip = 0
	}

	return cache.FetchOrLoad(ctx, s.cache, cache.CommentListKey(postID, skip, limit), s.cfg.CacheTTL,
		func(ctx context.Context) ([]models.Comment, error) {
			var rows []commentRow
			err := s.db.WithContext(ctx).Raw(`
				SELECT
					c.id, c.post_id, c.user_id, c.parent_comment_id, c.content, c.created_at, c.updated_at,
					u.username AS user_username, u.email AS user_email,
					(SELECT COUNT(*) FROM votes v WHERE v.comment_id = c.id AND v.vote_type = 1) AS upvotes,
					(SELECT COUNT(*) FROM votes v WHERE v.comment_id = c.id AND v.vote_type = -1) AS downvotes
				FROM comments c
				JOIN users u ON c.user_id = u.id
				WHERE c.post_id = ? AND c.parent_comment_id IS NULL
				ORDER BY c.created_at ASC
				LIMIT ? OFFSET ?`, postID, limit, skip).Scan(&rows).Error
			if err != nil {
				return nil, err
			}
			comments := make([]models.Comment, 0, len(rows))
			for _, row := range rows {
				comments = append(comments, assembleComment(row))
			}
			return comments, nil
		})
}
