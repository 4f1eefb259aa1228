package repository

import (
	"gorm.io/gorm"

	"debate_classroom/internal/models"
	"debate_classroom/internal/storage"
)

type GameRepository interface {
	Create(game *models.Game) error
	FindByID(classroomID, gameID string) (*models.Game, error)
	FindByClassroomID(classroomID string) ([]models.Game, error)
	Updates(classroomID, gameID string, fields map[string]interface{}) error
	Delete(classroomID, gameID string) error
	IncrementVote(classroomID, gameID, column string, lastUpdated interface{}) error
}

type gameRepository struct {
	db *storage.PostgresDB
}

func NewGameRepository(db *storage.PostgresDB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(game *models.Game) error {
	return r.db.Create(game).Error
}

func (r *gameRepository) FindByID(classroomID, gameID string) (*models.Game, error) {
	var game models.Game
	err := r.db.Where("id = ? AND classroom_id = ?", gameID, classroomID).First(&game).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) FindByClassroomID(classroomID string) ([]models.Game, error) {
	var games []models.Game
	err := r.db.Where("classroom_id = ?", classroomID).Order("created_at DESC").Find(&games).Error
	return games, err
}

// Updates 單次寫入更新部分欄位，每個狀態轉移都是一次原子的文件更新
func (r *gameRepository) Updates(classroomID, gameID string, fields map[string]interface{}) error {
	result := r.db.Model(&models.Game{}).
		Where("id = ? AND classroom_id = ?", gameID, classroomID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gameRepository) Delete(classroomID, gameID string) error {
	return r.db.Where("id = ? AND classroom_id = ?", gameID, classroomID).Delete(&models.Game{}).Error
}

// IncrementVote 對指定計數器做原子加一，不經過讀取再寫回
// column 只會是 votes_switch 或 votes_dont_switch，由服務層保證
func (r *gameRepository) IncrementVote(classroomID, gameID, column string, lastUpdated interface{}) error {
	result := r.db.Model(&models.Game{}).
		Where("id = ? AND classroom_id = ?", gameID, classroomID).
		UpdateColumns(map[string]interface{}{
			column:         gorm.Expr(column + " + 1"),
			"last_updated": lastUpdated,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
