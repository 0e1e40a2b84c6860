package model

import (
	"time"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PlanFree 默认套餐 key
const PlanFree = "free"

type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        *string `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string `gorm:"size:255" json:"-"`
	AvatarURL    string  `gorm:"size:500" json:"avatar_url"`
	GithubID     *string `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	Role         string  `gorm:"size:20;default:user" json:"role"`

	// 当前生效套餐 key，配额检查直接读这一列。
	// 只允许审批事务和订阅取消/过期路径写入。
	Plan string `gorm:"size:50;default:free" json:"plan"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
