package services

import (
	"context"
	"errors"

	"spectra/internal/cache"
	"spectra/internal/config"
	"spectra/internal/models"

	"gorm.io/gorm"
)

// VoteTarget 投票目标，帖子或评论二选一
type VoteTarget struct {
	PostID    *uint
	CommentID *uint
}

// voteAction 读-改-写决策：同类型再点一次是取消，不同类型是改票
type voteAction int

const (
	voteInsert voteAction = iota
	voteUpdate
	voteRemove
)

// decideVote 根据已有票面决定动作。existing 为 nil 表示还没投过。
func decideVote(existing *int, newType int) voteAction {
	switch {
	case existing == nil:
		return voteInsert
	case *existing == newType:
		return voteRemove
	default:
		return voteUpdate
	}
}

type VoteService struct {
	db    *gorm.DB
	cache cache.Store
	inv   *Invalidator
	cfg   *config.Config
}

func NewVoteService(db *gorm.DB, store cache.Store, inv *Invalidator, cfg *config.Config) *VoteService {
	return &VoteService{db: db, cache: store, inv: inv, cfg: cfg}
}

// Cast 投票/改票/取消。返回 nil 表示这次操作把票取消了（toggle-off）。
// 整个读-改-写在一个事务里，提交后才发失效。
func (s *VoteService) Cast(ctx context.Context, voterID uint, target VoteTarget, voteType int) (*models.Vote, error) {
	if voteType != 1 && voteType != -1 {
		return nil, newValidationError("vote_type must be 1 or -1")
	}
	// 互斥不变量：恰好指向一个目标
	if (target.PostID == nil) == (target.CommentID == nil) {
		return nil, newValidationError("vote must target exactly one of post_id or comment_id")
	}

	var result *models.Vote
	var affectedPostID uint
	var isCommentVote bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", voterID)
		if target.PostID != nil {
			var exists int64
			if err := tx.Model(&models.Post{}).Where("id = ?", *target.PostID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return ErrNotFound
			}
			affectedPostID = *target.PostID
			query = query.Where("post_id = ? AND comment_id IS NULL", *target.PostID)
		} else {
			var comment models.Comment
			if err := tx.First(&comment, *target.CommentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			affectedPostID = comment.PostID
			isCommentVote = true
			query = query.Where("comment_id = ? AND post_id IS NULL", *target.CommentID)
		}

		var existing models.Vote
		var existingType *int
		if err := query.First(&existing).Error; err == nil {
			existingType = &existing.VoteType
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch decideVote(existingType, voteType) {
		case voteRemove:
			result = nil
			return tx.Delete(&models.Vote{}, existing.ID).Error
		case voteUpdate:
			existing.VoteType = voteType
			if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).Update("vote_type", voteType).Error; err != nil {
				return err
			}
			result = &existing
			return nil
		default:
			vote := models.Vote{
				UserID:    voterID,
				PostID:    target.PostID,
				CommentID: target.CommentID,
				VoteType:  voteType,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result = &vote
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	if isCommentVote {
		s.inv.CommentVoted(ctx, affectedPostID)
	} else {
		s.inv.PostVoted(ctx, affectedPostID)
	}
	return result, nil
}

// TargetCounts 目标当前的赞/踩数，投票接口返回给前端即时刷新
func (s *VoteService) TargetCounts(ctx context.Context, target VoteTarget) (upvotes, downvotes int64, err error) {
	query := s.db.WithContext(ctx).Model(&models.Vote{})
	if target.PostID != nil {
		query = query.Where("post_id = ?", *target.PostID)
	} else if target.CommentID != nil {
		query = query.Where("comment_id = ?", *target.CommentID)
	} else {
		return 0, 0, newValidationError("vote must target exactly one of post_id or comment_id")
	}

	if err := query.Session(&gorm.Session{}).Where("vote_type = 1").Count(&upvotes).Error; err != nil {
		return 0, 0, err
	}
	if err := query.Session(&gorm.Session{}).Where("vote_type = -1").Count(&downvotes).Error; err != nil {
		return 0, 0, err
	}
	return upvotes, downvotes, nil
}
