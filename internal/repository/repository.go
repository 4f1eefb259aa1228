package repository

import "debate_classroom/internal/storage"

type Repositories struct {
	Classroom ClassroomRepository
	Roster    RosterRepository
	Student   StudentRepository
	Game      GameRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Classroom: NewClassroomRepository(db),
		Roster:    NewRosterRepository(db),
		Student:   NewStudentRepository(db),
		Game:      NewGameRepository(db),
	}
}
