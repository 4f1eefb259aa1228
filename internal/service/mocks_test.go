package service

import (
	"sync"

	"gorm.io/gorm"

	"debate_classroom/internal/models"
)

// 測試用的記憶體版 repositories，行為比照 Postgres 實作（含 not found 與 upsert 語意）

type fakeClassroomRepo struct {
	mu         sync.Mutex
	classrooms map[string]models.Classroom
	failCreate error
}

func newFakeClassroomRepo() *fakeClassroomRepo {
	return &fakeClassroomRepo{classrooms: make(map[string]models.Classroom)}
}

func (r *fakeClassroomRepo) Create(classroom *models.Classroom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.classrooms[classroom.ID] = *classroom
	return nil
}

func (r *fakeClassroomRepo) FindByID(id string) (*models.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	classroom, ok := r.classrooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &classroom, nil
}

func (r *fakeClassroomRepo) FindByPassword(password string) (*models.Classroom, error) {
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

func (r *fakeClassroomRepo) FindByAdminName(adminName string) ([]models.Classroom, error) {
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

func (r *fakeClassroomRepo) Updates(id string, fields map[string]interface{}) error {
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

type fakeRosterRepo struct {
	mu          sync.Mutex
	rosters     map[string]models.Roster
	saveCount   int
	createCount int
	failSave    error
}

func newFakeRosterRepo() *fakeRosterRepo {
	return &fakeRosterRepo{rosters: make(map[string]models.Roster)}
}

func (r *fakeRosterRepo) FindByClassroomID(classroomID string) (*models.Roster, error) {
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

func (r *fakeRosterRepo) Save(roster *models.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave != nil {
		return r.failSave
	}
	r.saveCount++
	r.rosters[roster.ClassroomID] = *roster
	return nil
}

func (r *fakeRosterRepo) CreateIfMissing(roster *models.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCount++
	if _, ok := r.rosters[roster.ClassroomID]; ok {
		return nil
	}
	r.rosters[roster.ClassroomID] = *roster
	return nil
}

type fakeStudentRepo struct {
	mu       sync.Mutex
	records  map[string]models.StudentRecord
	failSave error
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{records: make(map[string]models.StudentRecord)}
}

func (r *fakeStudentRepo) Save(record *models.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave != nil {
		return r.failSave
	}
	r.records[record.Key] = *record
	return nil
}

func (r *fakeStudentRepo) FindByKey(key string) (*models.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &record, nil
}

func (r *fakeStudentRepo) FindByClassroomID(classroomID string) ([]models.StudentRecord, error) {
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

func (r *fakeStudentRepo) DeleteByKey(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, key)
	return nil
}

func (r *fakeStudentRepo) DeleteByClassroomID(classroomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, record := range r.records {
		if record.ClassroomID == classroomID {
			delete(r.records, key)
		}
	}
	return nil
}

type fakeGameRepo struct {
	mu    sync.Mutex
	games map[string]models.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[string]models.Game)}
}

func (r *fakeGameRepo) key(classroomID, gameID string) string {
	return classroomID + "/" + gameID
}

func (r *fakeGameRepo) Create(game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[r.key(game.ClassroomID, game.ID)] = *game
	return nil
}

func (r *fakeGameRepo) FindByID(classroomID, gameID string) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[r.key(classroomID, gameID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &game, nil
}

func (r *fakeGameRepo) FindByClassroomID(classroomID string) ([]models.Game, error) {
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

func (r *fakeGameRepo) Updates(classroomID, gameID string, fields map[string]interface{}) error {
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

func (r *fakeGameRepo) Delete(classroomID, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, r.key(classroomID, gameID))
	return nil
}

func (r *fakeGameRepo) IncrementVote(classroomID, gameID, column string, lastUpdated interface{}) error {
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
