package models

import (
	"time"
)

// Classroom 表示一個辯論課堂（一場辯論活動的最上層容器）
// 透過共享的 session 密碼讓管理員與觀眾加入
type Classroom struct {
	ID          string    `gorm:"primaryKey" json:"id"`                 // 伺服器指派的不透明 ID
	Name        string    `gorm:"not null" json:"name"`                 // 課堂名稱
	AdminName   string    `gorm:"index" json:"adminName"`               // 管理員（老師）名稱
	Password    string    `gorm:"index;not null" json:"password"`       // session 密碼，明文儲存，作為查詢鍵使用
	IsActive    bool      `gorm:"default:true" json:"isActive"`         // 課堂是否有效
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}
