package models

import (
	"time"
)

// GameStatus 定義遊戲狀態的類型
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"  // 已建立，等待開始
	GameStatusLive     GameStatus = "live"     // 辯論進行中
	GameStatusFinished GameStatus = "finished" // 終止狀態
)

// VoteType 定義投票選項的封閉類型，邊界上拒絕其他任何值
type VoteType string

const (
	VoteSwitch     VoteType = "switch"
	VoteDontSwitch VoteType = "dontSwitch"
)

// Valid 檢查投票選項是否為兩個合法值之一
func (v VoteType) Valid() bool {
	return v == VoteSwitch || v == VoteDontSwitch
}

// Votes 是嵌在 Game 中的一對計數器，只能透過原子遞增修改
type Votes struct {
	Switch     int `gorm:"column:switch;default:0" json:"switch"`
	DontSwitch int `gorm:"column:dont_switch;default:0" json:"dontSwitch"`
}

// Game 表示課堂中的一場辯論（breakout），持有名單的快照
// 玩家名單是建立當下的複本，之後名單變動不會回寫到這裡
type Game struct {
	ID             string      `gorm:"primaryKey" json:"id"`
	ClassroomID    string      `gorm:"index;not null" json:"classroomId"`
	GameName       string      `json:"gameName"`
	Topic          string      `json:"topic"`
	TeamAPlayers   StudentList `gorm:"type:jsonb;serializer:json" json:"teamAPlayers"`
	TeamBPlayers   StudentList `gorm:"type:jsonb;serializer:json" json:"teamBPlayers"`
	Status         GameStatus  `gorm:"type:varchar(20);default:waiting" json:"status"`
	SpeakingFor    Team        `gorm:"type:varchar(1);default:A" json:"speakingFor"`
	Round          int         `gorm:"default:0" json:"round"` // 每次票數歸零（開始或換邊）就遞增，一輪只會有一個值
	Votes          Votes       `gorm:"embedded;embeddedPrefix:votes_" json:"votes"`
	Timer          int         `gorm:"default:300" json:"timer"` // 剩餘秒數的快照，伺服器不自動倒數
	IsTimerRunning bool        `gorm:"default:false" json:"isTimerRunning"`
	CreatedAt      time.Time   `json:"createdAt"`
	LastUpdated    time.Time   `json:"lastUpdated"`
}
