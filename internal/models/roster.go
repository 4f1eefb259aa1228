package models

import (
	"strings"
	"time"
)

// Team 定義隊伍代號的類型
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Student 表示一位已登記的參加者
type Student struct {
	Name            string    `json:"name"`            // 顯示名稱，課堂內不重複
	AdmissionNumber string    `json:"admissionNumber"` // 學號，課堂內唯一鍵
	JoinedAt        time.Time `json:"joinedAt"`
}

// StudentList 是儲存在 jsonb 欄位中的學生序列
type StudentList []Student

// Roster 表示一個課堂的兩隊名單，每個課堂只有一份
type Roster struct {
	ClassroomID string      `gorm:"primaryKey" json:"classroomId"`
	TeamA       StudentList `gorm:"type:jsonb;serializer:json" json:"teamA"`
	TeamB       StudentList `gorm:"type:jsonb;serializer:json" json:"teamB"`
	LastUpdated time.Time   `json:"lastUpdated"`
}

// Contains 以學號（不分大小寫）檢查學生是否已在任一隊伍中
func (r *Roster) Contains(admissionNumber string) bool {
	_, _, ok := r.Find(admissionNumber)
	return ok
}

// Find 以學號（不分大小寫）尋找學生，回傳所屬隊伍與名單中的位置（從 1 開始）
func (r *Roster) Find(admissionNumber string) (Team, int, bool) {
	for i, s := range r.TeamA {
		if strings.EqualFold(s.AdmissionNumber, admissionNumber) {
			return TeamA, i + 1, true
		}
	}
	for i, s := range r.TeamB {
		if strings.EqualFold(s.AdmissionNumber, admissionNumber) {
			return TeamB, i + 1, true
		}
	}
	return "", 0, false
}

// StudentRecord 是為了直接查詢而反正規化的學生紀錄
// 主鍵格式為 {classroomID}_{admissionNumber}，名單文件仍為權威來源
type StudentRecord struct {
	Key             string    `gorm:"primaryKey" json:"-"`
	ClassroomID     string    `gorm:"index" json:"classroomId"`
	Name            string    `json:"name"`
	AdmissionNumber string    `json:"admissionNumber"`
	AssignedTeam    Team      `json:"assignedTeam"`
	TeamPosition    int       `json:"teamPosition"`
	JoinedAt        time.Time `json:"joinedAt"`
}

// StudentRecordKey 組出反正規化紀錄的主鍵
func StudentRecordKey(classroomID, admissionNumber string) string {
	return classroomID + "_" + admissionNumber
}
