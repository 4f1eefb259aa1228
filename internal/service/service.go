package service

import (
	"strings"

	"github.com/jonboulle/clockwork"

	"debate_classroom/internal/repository"
)

type Services struct {
	Classroom *ClassroomService
	Roster    *RosterService
	Game      *GameService
	Vote      *VoteService
	Generator *GeneratorService
	Hub       *RealtimeHub
}

func NewServices(repos *repository.Repositories, geminiAPIKey string, clock clockwork.Clock) *Services {
	hub := NewRealtimeHub()

	classroomService := NewClassroomService(repos.Classroom, repos.Roster, hub, clock)
	rosterService := NewRosterService(repos.Roster, repos.Student, hub, clock)
	gameService := NewGameService(repos.Game, hub, clock)
	voteService := NewVoteService(repos.Game, hub, clock)

	hub.SetMaterializer(newMaterializer(classroomService, rosterService, gameService))

	return &Services{
		Classroom: classroomService,
		Roster:    rosterService,
		Game:      gameService,
		Vote:      voteService,
		Generator: NewGeneratorService(geminiAPIKey),
		Hub:       hub,
	}
}

// newMaterializer 把文件路徑對應到各服務的讀取函式
// 名單路徑在文件不存在時會補建預設文件，讀者不會把「不存在」當成一個獨立狀態
func newMaterializer(classrooms *ClassroomService, rosters *RosterService, games *GameService) Materializer {
	return func(path string) (interface{}, error) {
		parts := strings.Split(path, "/")
		switch {
		case len(parts) == 2 && parts[0] == "teams":
			return rosters.GetTeams(parts[1])
		case len(parts) == 2 && parts[0] == "classrooms":
			return classrooms.GetByID(parts[1])
		case len(parts) == 3 && parts[0] == "classrooms" && parts[2] == "games":
			return games.ListGames(parts[1])
		case len(parts) == 4 && parts[0] == "classrooms" && parts[2] == "games":
			return games.GetGame(parts[1], parts[3])
		default:
			return nil, ErrUnknownPath
		}
	}
}
