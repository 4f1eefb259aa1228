package repository

import (
	"debate_classroom/internal/models"
	"debate_classroom/internal/storage"
)

type ClassroomRepository interface {
	Create(classroom *models.Classroom) error
	FindByID(id string) (*models.Classroom, error)
	FindByPassword(password string) (*models.Classroom, error)
	FindByAdminName(adminName string) ([]models.Classroom, error)
	Updates(id string, fields map[string]interface{}) error
}

type classroomRepository struct {
	db *storage.PostgresDB
}

func NewClassroomRepository(db *storage.PostgresDB) ClassroomRepository {
	return &classroomRepository{db: db}
}

func (r *classroomRepository) Create(classroom *models.Classroom) error {
	return r.db.Create(classroom).Error
}

func (r *classroomRepository) FindByID(id string) (*models.Classroom, error) {
	var classroom models.Classroom
	err := r.db.Where("id = ?", id).First(&classroom).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

// FindByPassword 以 session 密碼查詢課堂
// 密碼是管理員與觀眾共用的入場憑證，所以必須能用等值查詢找到
func (r *classroomRepository) FindByPassword(password string) (*models.Classroom, error) {
	var classroom models.Classroom
	err := r.db.Where("password = ?", password).First(&classroom).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

func (r *classroomRepository) FindByAdminName(adminName string) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	err := r.db.Where("admin_name = ?", adminName).Order("created_at DESC").Find(&classrooms).Error
	return classrooms, err
}

// Updates 以 merge 方式更新部分欄位
func (r *classroomRepository) Updates(id string, fields map[string]interface{}) error {
	return r.db.Model(&models.Classroom{}).Where("id = ?", id).Updates(fields).Error
}
