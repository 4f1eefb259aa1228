package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"debate_classroom/internal/models"
	"debate_classroom/internal/service"
)

// GameHandler 處理遊戲生命週期與投票相關的請求
type GameHandler struct {
	gameService *service.GameService
	voteService *service.VoteService
}

// NewGameHandler 創建一個新的 GameHandler 實例
func NewGameHandler(gameService *service.GameService, voteService *service.VoteService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		voteService: voteService,
	}
}

// CreateGameInput 定義建立遊戲請求的結構
type CreateGameInput struct {
	GameName     string             `json:"gameName"`
	Topic        string             `json:"topic"`
	TeamAPlayers models.StudentList `json:"teamAPlayers"`
	TeamBPlayers models.StudentList `json:"teamBPlayers"`
}

// CreateGame 建立一場新遊戲
func (h *GameHandler) CreateGame(c *gin.Context) {
	var input CreateGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(c.Param("id"), input.GameName, input.Topic, input.TeamAPlayers, input.TeamBPlayers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// ListGames 列出課堂內所有遊戲
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameService.ListGames(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame 取得單場遊戲
func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.gameService.GetGame(c.Param("id"), c.Param("gameId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// StartGame 開始辯論
func (h *GameHandler) StartGame(c *gin.Context) {
	game, err := h.gameService.StartGame(c.Param("id"), c.Param("gameId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// SwitchSides 切換發言方
func (h *GameHandler) SwitchSides(c *gin.Context) {
	game, err := h.gameService.SwitchSides(c.Param("id"), c.Param("gameId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// UpdateTopic 更新辯題
func (h *GameHandler) UpdateTopic(c *gin.Context) {
	var input struct {
		Topic string `json:"topic" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.UpdateTopic(c.Param("id"), c.Param("gameId"), input.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// UpdateTimer 設定計時器的剩餘秒數與是否計時中
func (h *GameHandler) UpdateTimer(c *gin.Context) {
	var input struct {
		Timer          *int  `json:"timer" binding:"required"`
		IsTimerRunning *bool `json:"isTimerRunning" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *input.Timer < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "秒數不可為負"})
		return
	}

	game, err := h.gameService.UpdateTimer(c.Param("id"), c.Param("gameId"), *input.Timer, *input.IsTimerRunning)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// DeleteGame 永久刪除一場遊戲
func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.gameService.DeleteGame(c.Param("id"), c.Param("gameId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "遊戲已刪除"})
}

// CastVote 投下一票
// 已投票旗標只存在這台裝置的 cookie session 裡（以課堂、遊戲與目前輪次為鍵）
// 輪次在每次票數歸零時遞增，換邊回到同一方也是新的一輪，不會沿用舊旗標
// 清掉 cookie 或換一台裝置就能繞過，這是有意的簡化而不是要修的錯
func (h *GameHandler) CastVote(c *gin.Context) {
	classroomID := c.Param("id")
	gameID := c.Param("gameId")

	var input struct {
		VoteType models.VoteType `json:"voteType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.GetGame(classroomID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	votedKey := fmt.Sprintf("voted_%s_%s_%d", classroomID, gameID, game.Round)
	session := sessions.Default(c)
	if voted, _ := session.Get(votedKey).(bool); voted {
		c.JSON(http.StatusConflict, gin.H{"error": "這一輪你已經投過票了"})
		return
	}

	if err := h.voteService.CastVote(classroomID, gameID, input.VoteType); err != nil {
		respondError(c, err)
		return
	}

	session.Set(votedKey, true)
	_ = session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "你的一票已經計入"})
}
