package models

import (
	"time"
)

type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PostID          uint      `gorm:"not null;index" json:"post_id"`
	Post            Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	User            *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id"` // 顶层评论为 NULL，当前只物化一层
	Content         string    `gorm:"type:text;not null" json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// 读取时从 votes 表聚合，不落库
	Upvotes   int `gorm:"-" json:"upvotes"`
	Downvotes int `gorm:"-" json:"downvotes"`
}
