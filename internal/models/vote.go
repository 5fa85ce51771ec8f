package models

import (
	"time"
)

// Vote 每条投票恰好指向帖子或评论之一，互斥性在服务层校验。
// (user,post) 与 (user,comment) 的唯一索引在 PG 下因 NULL 互不冲突，
// 正好实现"同一用户对同一目标至多一票"。
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_vote_user_post;uniqueIndex:idx_vote_user_comment" json:"user_id"`
	PostID    *uint     `gorm:"uniqueIndex:idx_vote_user_post" json:"post_id"`
	CommentID *uint     `gorm:"uniqueIndex:idx_vote_user_comment" json:"comment_id"`
	VoteType  int       `gorm:"not null" json:"vote_type"` // 1 或 -1
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	// 目标删除时投票随之级联清除，不留指向死 id 的行
	Post    *Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comment *Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
