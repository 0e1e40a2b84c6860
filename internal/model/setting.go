package model

import (
	"time"
)

// 平台设置 key
const (
	SettingFreeShopLimit = "free_shop_limit" // 免费档店铺数量上限
)

// Setting 平台级可调参数（key-value）
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"size:500;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
