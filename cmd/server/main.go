package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"revpulse/server/config"
	"revpulse/server/internal/analytics"
	"revpulse/server/internal/api"
	"revpulse/server/internal/database"
	"revpulse/server/internal/processor"
	"revpulse/server/internal/queue"
	"revpulse/server/internal/reports"
	"revpulse/server/internal/scheduler"
	"revpulse/server/internal/scraping"
	"revpulse/server/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	engineCfg, err := analytics.NewEngineConfig(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Invalid engine configuration")
	}

	currentDir, err := os.Getwd()
	if err != nil {
		logger.WithError(err).Fatal("Failed to get current directory")
	}

	dbPath := filepath.Join(currentDir, "database", "revpulse.db")
	logger.Infof("Using database at: %s", dbPath)

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Separate gorm handle for the batch write path
	gormDB, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open write connection")
	}

	// Observation ingest pipeline: scraper -> queue -> batch processor
	obsQueue := queue.NewObservationQueue(cfg.BatchProcessing.MaxBatchSize, logger)
	obsQueue.Start()

	batchProcessor := processor.NewBatchProcessor(gormDB, obsQueue, cfg, logger)
	batchProcessor.Start()

	scraperManager := scraping.NewScraperManager(obsQueue, cfg.Scraping.ScriptPath, logger)

	reportService := reports.NewService(db, engineCfg, logger)

	notifier := telegram.NewService(logger)
	if tgConfig, err := db.GetTelegramConfig(); err == nil && tgConfig != nil {
		notifier.UpdateConfig(tgConfig)
	}

	sched := scheduler.NewScheduler(scraperManager, reportService, notifier, logger, config.GetCitySlugs(), cfg.Scraping.HorizonDays)
	sched.Start()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	handler := api.NewHandler(db, scraperManager, engineCfg, logger)
	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	sched.Stop()
	obsQueue.Close()
	batchProcessor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}
