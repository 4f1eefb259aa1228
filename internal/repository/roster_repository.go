package repository

import (
	"gorm.io/gorm/clause"

	"debate_classroom/internal/models"
	"debate_classroom/internal/storage"
)

type RosterRepository interface {
	FindByClassroomID(classroomID string) (*models.Roster, error)
	Save(roster *models.Roster) error
	CreateIfMissing(roster *models.Roster) error
}

type rosterRepository struct {
	db *storage.PostgresDB
}

func NewRosterRepository(db *storage.PostgresDB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) FindByClassroomID(classroomID string) (*models.Roster, error) {
	var roster models.Roster
	err := r.db.Where("classroom_id = ?", classroomID).First(&roster).Error
	if err != nil {
		return nil, err
	}
	return &roster, nil
}

// Save 以 upsert 寫入整份名單文件（merge 寫入）
func (r *rosterRepository) Save(roster *models.Roster) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "classroom_id"}},
		UpdateAll: true,
	}).Create(roster).Error
}

// CreateIfMissing 只在名單不存在時插入
// 兩個併發的首次訂閱同時補建預設文件，最終只會留下一份
func (r *rosterRepository) CreateIfMissing(roster *models.Roster) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "classroom_id"}},
		DoNothing: true,
	}).Create(roster).Error
}
