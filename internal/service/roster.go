package service

import (
	"errors"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"debate_classroom/internal/models"
	"debate_classroom/internal/repository"
)

// RegistrationResult 是登記成功後回報給參加者的分隊結果
type RegistrationResult struct {
	AssignedTeam  models.Team `json:"assignedTeam"`
	TeamPosition  int         `json:"teamPosition"`
	TotalStudents int         `json:"totalStudents"`
}

// RosterService 負責兩隊名單的登記與維護
// 分隊規則讓兩隊人數差距隨時保持在 1 以內（併發登記讀到舊名單時為盡力而為）
type RosterService struct {
	rosterRepo  repository.RosterRepository
	studentRepo repository.StudentRepository
	hub         *RealtimeHub
	clock       clockwork.Clock
}

func NewRosterService(rosterRepo repository.RosterRepository, studentRepo repository.StudentRepository, hub *RealtimeHub, clock clockwork.Clock) *RosterService {
	return &RosterService{
		rosterRepo:  rosterRepo,
		studentRepo: studentRepo,
		hub:         hub,
		clock:       clock,
	}
}

// GetTeams 取得課堂名單，不存在時補建一份空的預設名單
// 補建用 insert-if-missing，兩個併發讀者最終只會看到同一份預設文件
func (s *RosterService) GetTeams(classroomID string) (*models.Roster, error) {
	roster, err := s.rosterRepo.FindByClassroomID(classroomID)
	if err == nil {
		return roster, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreErr(err)
	}

	defaultRoster := &models.Roster{
		ClassroomID: classroomID,
		TeamA:       models.StudentList{},
		TeamB:       models.StudentList{},
		LastUpdated: s.clock.Now(),
	}
	if err := s.rosterRepo.CreateIfMissing(defaultRoster); err != nil {
		return nil, wrapStoreErr(err)
	}

	roster, err = s.rosterRepo.FindByClassroomID(classroomID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return roster, nil
}

// Register 登記一位新參加者並自動分隊
// 學號與姓名都以不分大小寫的方式檢查重複，平手時（含兩隊同為空）分到 A 隊
func (s *RosterService) Register(classroomID, name, admissionNumber string) (*RegistrationResult, error) {
	name = strings.TrimSpace(name)
	admissionNumber = strings.TrimSpace(admissionNumber)
	if name == "" || admissionNumber == "" {
		return nil, ErrEmptyInput
	}

	roster, err := s.GetTeams(classroomID)
	if err != nil {
		return nil, err
	}

	allStudents := append(append(models.StudentList{}, roster.TeamA...), roster.TeamB...)
	for _, student := range allStudents {
		if strings.EqualFold(student.AdmissionNumber, admissionNumber) {
			return nil, ErrDuplicateIdentifier
		}
	}
	for _, student := range allStudents {
		if strings.EqualFold(student.Name, name) {
			return nil, ErrDuplicateName
		}
	}

	student := models.Student{
		Name:            name,
		AdmissionNumber: admissionNumber,
		JoinedAt:        s.clock.Now(),
	}

	var assignedTeam models.Team
	var teamPosition int
	if len(roster.TeamA) <= len(roster.TeamB) {
		assignedTeam = models.TeamA
		roster.TeamA = append(roster.TeamA, student)
		teamPosition = len(roster.TeamA)
	} else {
		assignedTeam = models.TeamB
		roster.TeamB = append(roster.TeamB, student)
		teamPosition = len(roster.TeamB)
	}
	roster.LastUpdated = s.clock.Now()

	if err := s.rosterRepo.Save(roster); err != nil {
		return nil, wrapStoreErr(err)
	}

	// 反正規化的查詢紀錄是第二次寫入，與名單寫入不在同一個交易中
	// 寫入失敗時名單仍是權威來源，讀取方必須容忍這筆紀錄缺漏
	record := &models.StudentRecord{
		Key:             models.StudentRecordKey(classroomID, admissionNumber),
		ClassroomID:     classroomID,
		Name:            name,
		AdmissionNumber: admissionNumber,
		AssignedTeam:    assignedTeam,
		TeamPosition:    teamPosition,
		JoinedAt:        student.JoinedAt,
	}
	if err := s.studentRepo.Save(record); err != nil {
		log.Warn().Err(err).Str("classroomID", classroomID).Str("admissionNumber", admissionNumber).
			Msg("學生查詢紀錄寫入失敗，名單已更新")
	}

	s.publishRoster(roster)

	return &RegistrationResult{
		AssignedTeam:  assignedTeam,
		TeamPosition:  teamPosition,
		TotalStudents: len(roster.TeamA) + len(roster.TeamB),
	}, nil
}

// RemoveStudent 將學生從名單移除，並清掉對應的查詢紀錄
func (s *RosterService) RemoveStudent(classroomID, admissionNumber string) error {
	roster, err := s.rosterRepo.FindByClassroomID(classroomID)
	if err != nil {
		return wrapStoreErr(err)
	}

	roster.TeamA = filterOut(roster.TeamA, admissionNumber)
	roster.TeamB = filterOut(roster.TeamB, admissionNumber)
	roster.LastUpdated = s.clock.Now()

	if err := s.rosterRepo.Save(roster); err != nil {
		return wrapStoreErr(err)
	}

	if err := s.studentRepo.DeleteByKey(models.StudentRecordKey(classroomID, admissionNumber)); err != nil {
		log.Warn().Err(err).Str("classroomID", classroomID).Msg("學生查詢紀錄刪除失敗")
	}

	s.publishRoster(roster)
	return nil
}

// ClearTeams 清空整個課堂的名單與所有查詢紀錄
func (s *RosterService) ClearTeams(classroomID string) error {
	roster := &models.Roster{
		ClassroomID: classroomID,
		TeamA:       models.StudentList{},
		TeamB:       models.StudentList{},
		LastUpdated: s.clock.Now(),
	}
	if err := s.rosterRepo.Save(roster); err != nil {
		return wrapStoreErr(err)
	}

	if err := s.studentRepo.DeleteByClassroomID(classroomID); err != nil {
		log.Warn().Err(err).Str("classroomID", classroomID).Msg("部分學生查詢紀錄刪除失敗")
	}

	s.publishRoster(roster)
	return nil
}

// UpdateTeams 由管理員整份覆寫兩隊名單
func (s *RosterService) UpdateTeams(classroomID string, teamA, teamB models.StudentList) error {
	if teamA == nil {
		teamA = models.StudentList{}
	}
	if teamB == nil {
		teamB = models.StudentList{}
	}
	roster := &models.Roster{
		ClassroomID: classroomID,
		TeamA:       teamA,
		TeamB:       teamB,
		LastUpdated: s.clock.Now(),
	}
	if err := s.rosterRepo.Save(roster); err != nil {
		return wrapStoreErr(err)
	}
	s.publishRoster(roster)
	return nil
}

// GetStudent 以學號直接查詢反正規化紀錄，不掃描兩隊名單
// 紀錄可能因先前的部分寫入失敗而缺漏，缺漏不代表學生不在名單上
func (s *RosterService) GetStudent(classroomID, admissionNumber string) (*models.StudentRecord, error) {
	record, err := s.studentRepo.FindByKey(models.StudentRecordKey(classroomID, admissionNumber))
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return record, nil
}

// ListStudents 列出課堂內所有學生的查詢紀錄
func (s *RosterService) ListStudents(classroomID string) ([]models.StudentRecord, error) {
	records, err := s.studentRepo.FindByClassroomID(classroomID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return records, nil
}

func (s *RosterService) publishRoster(roster *models.Roster) {
	if s.hub != nil {
		s.hub.Publish(models.TeamsPath(roster.ClassroomID), roster)
	}
}

func filterOut(students models.StudentList, admissionNumber string) models.StudentList {
	filtered := make(models.StudentList, 0, len(students))
	for _, student := range students {
		if !strings.EqualFold(student.AdmissionNumber, admissionNumber) {
			filtered = append(filtered, student)
		}
	}
	return filtered
}
