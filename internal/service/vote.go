package service

import (
	"github.com/jonboulle/clockwork"

	"debate_classroom/internal/models"
	"debate_classroom/internal/repository"
)

// VoteService 負責把一張票原子地計入目前這場遊戲
// 服務本身不防止同一位觀眾重複投票，那只由客戶端的本輪已投票旗標把關
type VoteService struct {
	gameRepo repository.GameRepository
	hub      *RealtimeHub
	clock    clockwork.Clock
}

func NewVoteService(gameRepo repository.GameRepository, hub *RealtimeHub, clock clockwork.Clock) *VoteService {
	return &VoteService{
		gameRepo: gameRepo,
		hub:      hub,
		clock:    clock,
	}
}

// CastVote 對其中一個計數器做原子加一
// 不是 switch 或 dontSwitch 的值在邊界上直接拒絕，視為程式錯誤而非可重試的狀況
func (s *VoteService) CastVote(classroomID, gameID string, voteType models.VoteType) error {
	if !voteType.Valid() {
		return ErrInvalidVoteType
	}

	column := "votes_switch"
	if voteType == models.VoteDontSwitch {
		column = "votes_dont_switch"
	}

	if err := s.gameRepo.IncrementVote(classroomID, gameID, column, s.clock.Now()); err != nil {
		return wrapStoreErr(err)
	}

	if s.hub != nil {
		if game, err := s.gameRepo.FindByID(classroomID, gameID); err == nil {
			s.hub.Publish(models.GamePath(classroomID, gameID), game)
		}
	}
	return nil
}
