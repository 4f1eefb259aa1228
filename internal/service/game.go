package service

import (
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"debate_classroom/internal/models"
	"debate_classroom/internal/repository"
)

// GameService 負責一場辯論（breakout）的完整生命週期
// 狀態機為 waiting → live → finished，每個轉移都是一次原子的文件更新
// 同一場遊戲上兩個管理員的衝突操作以最後寫入者為準，沒有版本號
type GameService struct {
	gameRepo repository.GameRepository
	hub      *RealtimeHub
	clock    clockwork.Clock
}

func NewGameService(gameRepo repository.GameRepository, hub *RealtimeHub, clock clockwork.Clock) *GameService {
	return &GameService{
		gameRepo: gameRepo,
		hub:      hub,
		clock:    clock,
	}
}

// CreateGame 建立一場新遊戲
// 玩家名單是建立當下名單的快照，之後名單變動不影響已建立的遊戲；兩邊都允許為空
func (s *GameService) CreateGame(classroomID, gameName, topic string, teamAPlayers, teamBPlayers models.StudentList) (*models.Game, error) {
	if gameName == "" {
		gameName = "New Game"
	}
	if topic == "" {
		topic = "Topic to be decided."
	}
	if teamAPlayers == nil {
		teamAPlayers = models.StudentList{}
	}
	if teamBPlayers == nil {
		teamBPlayers = models.StudentList{}
	}

	now := s.clock.Now()
	game := &models.Game{
		ID:             uuid.NewString(),
		ClassroomID:    classroomID,
		GameName:       gameName,
		Topic:          topic,
		TeamAPlayers:   teamAPlayers,
		TeamBPlayers:   teamBPlayers,
		Status:         models.GameStatusWaiting,
		SpeakingFor:    models.TeamA,
		Round:          0,
		Votes:          models.Votes{Switch: 0, DontSwitch: 0},
		Timer:          300,
		IsTimerRunning: false,
		CreatedAt:      now,
		LastUpdated:    now,
	}

	if err := s.gameRepo.Create(game); err != nil {
		return nil, wrapStoreErr(err)
	}

	s.publishGame(game)
	return game, nil
}

// StartGame 讓遊戲從 waiting 進入 live，票數歸零，計時器維持原值
// 輪次計數與票數歸零在同一次寫入裡遞增，投票端以輪次判斷是否進入新的一輪
func (s *GameService) StartGame(classroomID, gameID string) (*models.Game, error) {
	game, err := s.GetGame(classroomID, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusWaiting {
		return nil, ErrInvalidTransition
	}

	return s.applyUpdate(classroomID, gameID, map[string]interface{}{
		"status":            models.GameStatusLive,
		"round":             game.Round + 1,
		"votes_switch":      0,
		"votes_dont_switch": 0,
		"last_updated":      s.clock.Now(),
	})
}

// SwitchSides 切換發言方並開始新的一輪，票數歸零
// 任何狀態下都合法，但只有 live 時有實際意義
func (s *GameService) SwitchSides(classroomID, gameID string) (*models.Game, error) {
	game, err := s.GetGame(classroomID, gameID)
	if err != nil {
		return nil, err
	}

	newSide := models.TeamA
	if game.SpeakingFor == models.TeamA {
		newSide = models.TeamB
	}

	return s.applyUpdate(classroomID, gameID, map[string]interface{}{
		"speaking_for":      newSide,
		"round":             game.Round + 1,
		"votes_switch":      0,
		"votes_dont_switch": 0,
		"last_updated":      s.clock.Now(),
	})
}

// UpdateTopic 更新辯題，任何狀態下都合法，不影響票數
func (s *GameService) UpdateTopic(classroomID, gameID, newTopic string) (*models.Game, error) {
	if newTopic == "" {
		return nil, ErrEmptyInput
	}
	return s.applyUpdate(classroomID, gameID, map[string]interface{}{
		"topic":        newTopic,
		"last_updated": s.clock.Now(),
	})
}

// UpdateTimer 一次寫入同時設定剩餘秒數與是否計時中
// 伺服器只儲存快照、不自動倒數，秒數的合理性由呼叫端負責
func (s *GameService) UpdateTimer(classroomID, gameID string, seconds int, isRunning bool) (*models.Game, error) {
	return s.applyUpdate(classroomID, gameID, map[string]interface{}{
		"timer":            seconds,
		"is_timer_running": isRunning,
		"last_updated":     s.clock.Now(),
	})
}

// DeleteGame 永久刪除一場遊戲，不保留任何紀錄
func (s *GameService) DeleteGame(classroomID, gameID string) error {
	if err := s.gameRepo.Delete(classroomID, gameID); err != nil {
		return wrapStoreErr(err)
	}
	if s.hub != nil {
		s.hub.Forget(models.GamePath(classroomID, gameID))
	}
	s.publishGamesList(classroomID)
	return nil
}

func (s *GameService) GetGame(classroomID, gameID string) (*models.Game, error) {
	game, err := s.gameRepo.FindByID(classroomID, gameID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return game, nil
}

// ListGames 列出課堂內所有遊戲，新的在前
func (s *GameService) ListGames(classroomID string) ([]models.Game, error) {
	games, err := s.gameRepo.FindByClassroomID(classroomID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return games, nil
}

// applyUpdate 套用單次部分更新，再讀回完整文件推播給訂閱者
func (s *GameService) applyUpdate(classroomID, gameID string, fields map[string]interface{}) (*models.Game, error) {
	if err := s.gameRepo.Updates(classroomID, gameID, fields); err != nil {
		return nil, wrapStoreErr(err)
	}
	game, err := s.GetGame(classroomID, gameID)
	if err != nil {
		return nil, err
	}
	s.publishGame(game)
	return game, nil
}

func (s *GameService) publishGame(game *models.Game) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(models.GamePath(game.ClassroomID, game.ID), game)
	s.publishGamesList(game.ClassroomID)
}

func (s *GameService) publishGamesList(classroomID string) {
	if s.hub == nil {
		return
	}
	games, err := s.gameRepo.FindByClassroomID(classroomID)
	if err != nil {
		return
	}
	s.hub.Publish(models.GamesPath(classroomID), games)
}
