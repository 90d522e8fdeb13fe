package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/config"
	"github.com/caltrack/caltrack/internal/database"
	"github.com/caltrack/caltrack/internal/goals"
	"github.com/caltrack/caltrack/internal/health"
	"github.com/caltrack/caltrack/internal/models"
	"github.com/caltrack/caltrack/internal/profile"
	"github.com/caltrack/caltrack/internal/recognition"
	"github.com/caltrack/caltrack/internal/shop"
	"github.com/caltrack/caltrack/internal/tracker"
	"github.com/caltrack/caltrack/internal/weight"
	"github.com/caltrack/caltrack/internal/worker"
	"github.com/caltrack/caltrack/internal/workouts"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("database close failed", "error", err.Error())
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	if cfg.EncryptionKey != "" {
		if err := models.InitEncryption(cfg.EncryptionKey); err != nil {
			log.Fatalf("token encryption init: %v", err)
		}
	} else {
		logger.Warn("ENCRYPTION_KEY not set; OAuth tokens will be stored unencrypted")
	}

	if cfg.Env == "development" {
		if err := database.SeedDevData(db); err != nil {
			logger.Warn("dev seed failed", "error", err.Error())
		}
	}

	auth.InitProviders(cfg)

	store := tracker.NewStore(db, logger)

	// Background worker and nightly reset schedule, embedded in this process.
	if err := worker.InitClient(cfg.RedisURL); err != nil {
		log.Fatalf("asynq client init: %v", err)
	}
	defer func() {
		if err := worker.CloseClient(); err != nil {
			logger.Error("asynq client close failed", "error", err.Error())
		}
	}()

	stopWorker, err := worker.Start(cfg, store)
	if err != nil {
		log.Fatalf("worker start: %v", err)
	}
	defer stopWorker()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		log.Fatalf("scheduler start: %v", err)
	}
	defer stopScheduler()

	// Outbound clients for the recognition pipeline and the shop proxy.
	classifier := &recognition.Classifier{Token: cfg.HuggingFaceToken}
	nutrition := &recognition.NutritionClient{AppID: cfg.NutritionixAppID, AppKey: cfg.NutritionixAppKey}
	shopClient := &shop.Client{APIKey: cfg.RapidAPIKey}

	shopCache, err := shop.NewCache(cfg.RedisURL)
	if err != nil {
		logger.Warn("shop cache disabled", "error", err.Error())
		shopCache = nil
	}
	defer func() {
		if err := shopCache.Close(); err != nil {
			logger.Error("shop cache close failed", "error", err.Error())
		}
	}()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies(nil)

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("caltrack_session", sessionStore))

	router.GET("/health", gin.WrapF(health.Handler))

	router.GET("/auth/login", auth.HandleLogin)
	router.GET("/auth/callback", auth.HandleCallback(db))
	router.GET("/auth/logout", auth.HandleLogout)
	router.POST("/api/createaccount", auth.CreateAccountHandler(db))

	// Cron endpoints authenticate with the shared secret, not a session.
	router.POST("/api/daily-reset", tracker.DailyResetHandler(store, cfg.CronSecret, worker.EnqueueDailyReset))
	router.PUT("/api/daily-reset", tracker.ManualResetHandler(store, cfg.CronSecret))

	api := router.Group("/api", auth.RequireAuth())
	{
		api.GET("/profile", profile.GetHandler(db))
		api.POST("/profile", profile.UpsertHandler(db))

		api.GET("/daily-goals", tracker.GetDailyGoalHandler(store))
		api.POST("/daily-goals", tracker.UpsertDailyGoalHandler(store))

		api.GET("/intake-history", tracker.ListIntakeHandler(store))
		api.POST("/intake-history", tracker.AddIntakeHandler(store))

		api.GET("/burned-calories", tracker.ListBurnedHandler(store))
		api.POST("/burned-calories", tracker.AddBurnedHandler(store))

		api.GET("/daily-summary", tracker.GetDailySummaryHandler(store))
		api.POST("/daily-summary", tracker.DailySummaryActionHandler(store))

		api.GET("/analytics", tracker.AnalyticsHandler(store))
		api.GET("/historical-data", tracker.HistoricalDataHandler(store))

		api.POST("/goal-calculator", goals.PlanGoalHandler(store))
		api.POST("/quick-calculator", goals.QuickCaloriesHandler(store))

		api.GET("/workouts", workouts.ListHandler(db))
		api.POST("/workouts", workouts.AddHandler(db))

		api.GET("/weight", weight.ListHandler(db))
		api.POST("/weight", weight.AddHandler(db))

		api.GET("/food-recognition", recognition.ListHandler(db))
		api.POST("/food-recognition", recognition.AddHandler(db))
		api.POST("/food-recognition/analyze", recognition.AnalyzeHandler(db, classifier, nutrition, logger))

		api.GET("/shop", shop.SearchHandler(shopClient, shopCache, logger))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err.Error())
	}
}
