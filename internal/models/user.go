package models

import (
	"time"
)

const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"column:hashed_password;not null" json:"-"` // 永不序列化到 API/缓存
	Role           string    `gorm:"size:20;default:'user';not null" json:"role"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// CanModerate 判断是否具备管理权限（删除帖子、批量打标签）
func (u *User) CanModerate() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}
