package repository

import (
	"gorm.io/gorm/clause"

	"debate_classroom/internal/models"
	"debate_classroom/internal/storage"
)

type StudentRepository interface {
	Save(record *models.StudentRecord) error
	FindByKey(key string) (*models.StudentRecord, error)
	FindByClassroomID(classroomID string) ([]models.StudentRecord, error)
	DeleteByKey(key string) error
	DeleteByClassroomID(classroomID string) error
}

type studentRepository struct {
	db *storage.PostgresDB
}

func NewStudentRepository(db *storage.PostgresDB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Save(record *models.StudentRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(record).Error
}

func (r *studentRepository) FindByKey(key string) (*models.StudentRecord, error) {
	var record models.StudentRecord
	err := r.db.Where("key = ?", key).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *studentRepository) FindByClassroomID(classroomID string) ([]models.StudentRecord, error) {
	var records []models.StudentRecord
	err := r.db.Where("classroom_id = ?", classroomID).Order("joined_at asc").Find(&records).Error
	return records, err
}

func (r *studentRepository) DeleteByKey(key string) error {
	return r.db.Where("key = ?", key).Delete(&models.StudentRecord{}).Error
}

func (r *studentRepository) DeleteByClassroomID(classroomID string) error {
	return r.db.Where("classroom_id = ?", classroomID).Delete(&models.StudentRecord{}).Error
}
