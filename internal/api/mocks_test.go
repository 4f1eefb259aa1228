package api

import (
	"sync"

	"gorm.io/gorm"

	"debate_classroom/internal/models"
)

// 測試用的記憶體版 repositories，只實作路由測試會經過的行為

type memClassroomRepo struct {
	mu         sync.Mutex
	classrooms map[string]models.Classroom
}

func newMemClassroomRepo() *memClassroomRepo {
	return &memClassroomRepo{classrooms: make(map[string]models.Classroom)}
}

func (r *memClassroomRepo) Create(classroom *models.Classroom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classrooms[classroom.ID] = *classroom
	return nil
}

func (r *memClassroomRepo) FindByID(id string) (*models.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	classroom, ok := r.classrooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &classroom, nil
}

func (r *memClassroomRepo) FindByPassword(password string) (*models.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, classroom := range r.classrooms {
		if classroom.Password == password {
			c := classroom
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memClassroomRepo) FindByAdminName(adminName string) ([]models.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Classroom
	for _, classroom := range r.classrooms {
		if classroom.AdminName == adminName {
			result = append(result, classroom)
		}
	}
	return result, nil
}

func (r *memClassroomRepo) Updates(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	classroom, ok := r.classrooms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := fields["name"].(string); ok {
		classroom.Name = name
	}
	if isActive, ok := fields["is_active"].(bool); ok {
		classroom.IsActive = isActive
	}
	r.classrooms[id] = classroom
	return nil
}

type memRosterRepo struct {
	mu      sync.Mutex
	rosters map[string]models.Roster
}

func newMemRosterRepo() *memRosterRepo {
	return &memRosterRepo{rosters: make(map[string]models.Roster)}
}

func (r *memRosterRepo) FindByClassroomID(classroomID string) (*models.Roster, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roster, ok := r.rosters[classroomID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := roster
	copied.TeamA = append(models.StudentList{}, roster.TeamA...)
	copied.TeamB = append(models.StudentList{}, roster.TeamB...)
	return &copied, nil
}

func (r *memRosterRepo) Save(roster *models.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rosters[roster.ClassroomID] = *roster
	return nil
}

func (r *memRosterRepo) CreateIfMissing(roster *models.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rosters[roster.ClassroomID]; ok {
		return nil
	}
	r.rosters[roster.ClassroomID] = *roster
	return nil
}

type memStudentRepo struct {
	mu      sync.Mutex
	records map[string]models.StudentRecord
}

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{records: make(map[string]models.StudentRecord)}
}

func (r *memStudentRepo) Save(record *models.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.Key] = *record
	return nil
}

func (r *memStudentRepo) FindByKey(key string) (*models.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &record, nil
}

func (r *memStudentRepo) FindByClassroomID(classroomID string) ([]models.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.StudentRecord
	for _, record := range r.records {
		if record.ClassroomID == classroomID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *memStudentRepo) DeleteByKey(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, key)
	return nil
}

func (r *memStudentRepo) DeleteByClassroomID(classroomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, record := range r.records {
		if record.ClassroomID == classroomID {
			delete(r.records, key)
		}
	}
	return nil
}

type memGameRepo struct {
	mu    sync.Mutex
	games map[string]models.Game
}

func newMemGameRepo() *memGameRepo {
	return &memGameRepo{games: make(map[string]models.Game)}
}

func (r *memGameRepo) key(classroomID, gameID string) string {
	return classroomID + "/" + gameID
}

func (r *memGameRepo) Create(game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[r.key(game.ClassroomID, game.ID)] = *game
	return nil
}

func (r *memGameRepo) FindByID(classroomID, gameID string) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[r.key(classroomID, gameID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &game, nil
}

func (r *memGameRepo) FindByClassroomID(classroomID string) ([]models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Game
	for _, game := range r.games {
		if game.ClassroomID == classroomID {
			result = append(result, game)
		}
	}
	return result, nil
}

func (r *memGameRepo) Updates(classroomID, gameID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[r.key(classroomID, gameID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range fields {
		switch column {
		case "status":
			game.Status = value.(models.GameStatus)
		case "speaking_for":
			game.SpeakingFor = value.(models.Team)
		case "round":
			game.Round = value.(int)
		case "topic":
			game.Topic = value.(string)
		case "timer":
			game.Timer = value.(int)
		case "is_timer_running":
			game.IsTimerRunning = value.(bool)
		case "votes_switch":
			game.Votes.Switch = value.(int)
		case "votes_dont_switch":
			game.Votes.DontSwitch = value.(int)
		}
	}
	r.games[r.key(classroomID, gameID)] = game
	return nil
}

func (r *memGameRepo) Delete(classroomID, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, r.key(classroomID, gameID))
	return nil
}

func (r *memGameRepo) IncrementVote(classroomID, gameID, column string, lastUpdated interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[r.key(classroomID, gameID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch column {
	case "votes_switch":
		game.Votes.Switch++
	case "votes_dont_switch":
		game.Votes.DontSwitch++
	}
	r.games[r.key(classroomID, gameID)] = game
	return nil
}
