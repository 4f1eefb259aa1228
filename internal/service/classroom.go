package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"debate_classroom/internal/models"
	"debate_classroom/internal/repository"
)

// ClassroomService 負責課堂的建立與查詢
// 課堂密碼是管理員與觀眾共用的單一入場憑證，兩種角色只差在走哪條路由
type ClassroomService struct {
	classroomRepo repository.ClassroomRepository
	rosterRepo    repository.RosterRepository
	hub           *RealtimeHub
	clock         clockwork.Clock
}

func NewClassroomService(classroomRepo repository.ClassroomRepository, rosterRepo repository.RosterRepository, hub *RealtimeHub, clock clockwork.Clock) *ClassroomService {
	return &ClassroomService{
		classroomRepo: classroomRepo,
		rosterRepo:    rosterRepo,
		hub:           hub,
		clock:         clock,
	}
}

// CreateClassroom 建立新課堂並附帶一份空名單
// 密碼唯一性是先查再寫的盡力而為檢查，不在同一個交易中
func (s *ClassroomService) CreateClassroom(name, adminName, password string) (*models.Classroom, error) {
	if !ValidatePassword(password) {
		return nil, ErrInvalidPassword
	}

	existing, err := s.classroomRepo.FindByPassword(password)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		// 查不成功就放行，讓建立本身決定成敗（與原本先查再寫的行為一致）
		log.Warn().Err(err).Msg("課堂密碼重複檢查失敗，略過檢查")
	}
	if existing != nil {
		return nil, ErrPasswordTaken
	}

	if name == "" {
		name = "Debate Classroom"
	}
	if adminName == "" {
		adminName = "Teacher"
	}

	now := s.clock.Now()
	classroom := &models.Classroom{
		ID:          uuid.NewString(),
		Name:        name,
		AdminName:   adminName,
		Password:    password,
		IsActive:    true,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := s.classroomRepo.Create(classroom); err != nil {
		return nil, wrapStoreErr(err)
	}

	// 名單與課堂一起建立，之後的訂閱者不會看到「不存在」這個狀態
	roster := &models.Roster{
		ClassroomID: classroom.ID,
		TeamA:       models.StudentList{},
		TeamB:       models.StudentList{},
		LastUpdated: now,
	}
	if err := s.rosterRepo.CreateIfMissing(roster); err != nil {
		log.Warn().Err(err).Str("classroomID", classroom.ID).Msg("預設名單建立失敗，首次訂閱時會再補建")
	}

	if s.hub != nil {
		s.hub.Publish(models.ClassroomPath(classroom.ID), classroom)
	}
	return classroom, nil
}

// GetByPassword 以 session 密碼找課堂，找不到回傳 ErrNotFound
func (s *ClassroomService) GetByPassword(password string) (*models.Classroom, error) {
	classroom, err := s.classroomRepo.FindByPassword(password)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return classroom, nil
}

func (s *ClassroomService) GetByID(id string) (*models.Classroom, error) {
	classroom, err := s.classroomRepo.FindByID(id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return classroom, nil
}

// Verify 檢查課堂存在且仍然有效
func (s *ClassroomService) Verify(id string) bool {
	classroom, err := s.classroomRepo.FindByID(id)
	if err != nil {
		return false
	}
	return classroom.IsActive
}

// Update 以 merge 方式更新課堂欄位（目前只有 isActive 與名稱會被動到）
func (s *ClassroomService) Update(id string, fields map[string]interface{}) (*models.Classroom, error) {
	fields["last_updated"] = s.clock.Now()
	if err := s.classroomRepo.Updates(id, fields); err != nil {
		return nil, wrapStoreErr(err)
	}
	classroom, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Publish(models.ClassroomPath(id), classroom)
	}
	return classroom, nil
}

// ListByAdmin 列出同一位管理員名下的所有課堂
func (s *ClassroomService) ListByAdmin(adminName string) ([]models.Classroom, error) {
	classrooms, err := s.classroomRepo.FindByAdminName(adminName)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return classrooms, nil
}
