package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"debate_classroom/internal/api/handlers"
	"debate_classroom/internal/middleware"
	"debate_classroom/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	classroomHandler := handlers.NewClassroomHandler(services.Classroom, services.Generator)
	rosterHandler := handlers.NewRosterHandler(services.Roster)
	gameHandler := handlers.NewGameHandler(services.Game, services.Vote)
	wsHandler := handlers.NewWebSocketHandler(services.Hub)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 建立課堂與入場
		api.POST("/classrooms", classroomHandler.CreateClassroom)
		api.POST("/join", classroomHandler.Join)

		// 密碼與辯題產生（遠端失敗時自動退回本地產生）
		api.POST("/generate/password", classroomHandler.GeneratePassword)
		api.POST("/generate/topic", classroomHandler.GenerateTopic)

		// 觀眾加入頁的 QR code，投影給全班掃描
		api.GET("/classrooms/:id/qr", classroomHandler.JoinQR)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由（憑證必須屬於路由中的課堂）
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware(), middleware.ClassroomScope())
	{
		classrooms := authorized.Group("/classrooms/:id")
		{
			classrooms.GET("", classroomHandler.GetClassroom)

			// 名單與登記
			classrooms.GET("/teams", rosterHandler.GetTeams)
			classrooms.POST("/students", rosterHandler.Register) // 觀眾自行登記
			classrooms.GET("/students", rosterHandler.ListStudents)
			classrooms.GET("/students/:admissionNumber", rosterHandler.GetStudent)
			classrooms.GET("/me", rosterHandler.Me)

			// 遊戲讀取與投票
			classrooms.GET("/games", gameHandler.ListGames)
			classrooms.GET("/games/:gameId", gameHandler.GetGame)
			classrooms.POST("/games/:gameId/votes", gameHandler.CastVote)

			// 即時訂閱連接點
			classrooms.GET("/ws", wsHandler.HandleWebSocket)
		}

		// 只有管理員能動的部分
		admin := authorized.Group("/classrooms/:id")
		admin.Use(middleware.RequireAdmin())
		{
			admin.PATCH("", classroomHandler.UpdateClassroom)

			admin.PUT("/teams", rosterHandler.UpdateTeams)
			admin.DELETE("/teams", rosterHandler.ClearTeams)
			admin.DELETE("/students/:admissionNumber", rosterHandler.RemoveStudent)

			admin.POST("/games", gameHandler.CreateGame)
			admin.POST("/games/:gameId/start", gameHandler.StartGame)
			admin.POST("/games/:gameId/switch-sides", gameHandler.SwitchSides)
			admin.PATCH("/games/:gameId/topic", gameHandler.UpdateTopic)
			admin.PATCH("/games/:gameId/timer", gameHandler.UpdateTimer)
			admin.DELETE("/games/:gameId", gameHandler.DeleteGame)
		}

		// 管理員名下的課堂列表
		adminRoot := authorized.Group("/admin")
		adminRoot.Use(middleware.RequireAdmin())
		{
			adminRoot.GET("/classrooms", classroomHandler.ListAdminClassrooms)
		}
	}
}
