package models

import (
	"time"
)

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Filename    string    `gorm:"not null" json:"filename"`
	Filepath    string    `gorm:"not null" json:"filepath"`
	Mimetype    string    `gorm:"size:100" json:"mimetype"`
	Filesize    int64     `json:"filesize"`
	Title       string    `gorm:"size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	UploaderID  *uint     `gorm:"index" json:"uploader_id"`
	Uploader    *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"uploader"`
	UploadedAt  time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`

	// 非数据库字段，读取时由聚合查询填充
	Tags         TagList `gorm:"-" json:"tags"`
	CommentCount int     `gorm:"-" json:"comment_count"`
	Upvotes      int     `gorm:"-" json:"upvotes"`
	Downvotes    int     `gorm:"-" json:"downvotes"`
	ImageURL     string  `gorm:"-" json:"image_url,omitempty"`
	ThumbnailURL string  `gorm:"-" json:"thumbnail_url,omitempty"`
}
