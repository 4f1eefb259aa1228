package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"debate_classroom/internal/api"
	"debate_classroom/internal/models"
	"debate_classroom/internal/repository"
	"debate_classroom/internal/service"
	"debate_classroom/internal/storage"
	"debate_classroom/pkg/config"
)

func main() {
	// .env 裡放本機開發用的金鑰（GEMINI_API_KEY、SESSION_SECRET、JWT_SECRET）
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(&models.Classroom{}, &models.Roster{}, &models.StudentRecord{}, &models.Game{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate database")
	}

	// 初始化 repositories 與 services
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg.Gemini.APIKey, clockwork.NewRealClock())

	// 設置 Gin 路由
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// cookie session 只拿來放裝置端的便利資料（記住參加者、本輪已投票旗標）
	// 伺服器走純 HTTP，必須明確關掉 Secure，否則瀏覽器會直接丟棄 cookie
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("DebateClassroom", store))

	api.SetupRoutes(r, services)

	// 啟動伺服器
	log.Info().Str("address", cfg.Server.Address).Msg("server starting")
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatal().Err(err).Msg("Failed to run server")
	}
}
