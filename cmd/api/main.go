package main

import (
	"context"
	"log"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/appeals"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/audit"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/auth"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/broadcast"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/config"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/holidays"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/notify"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := buildLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}
	if err := db.AutoMigrate(
		&appeals.Appeal{},
		&appeals.AppealStatus{},
		&appeals.AppealTimetable{},
		&audit.Entry{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal("Failed to load AWS config:", err)
	}

	// ---------------- HOLIDAYS ----------------
	holidayClient := holidays.NewClient(cfg.Holidays.FeedURL)
	holidaySource := holidays.NewSource(holidayClient, cfg.Holidays.CacheTTL, logger)
	scheduler := holidays.NewRefreshScheduler(holidaySource, logger)
	if err := scheduler.Start(cfg.Holidays.RefreshCron); err != nil {
		log.Fatal("Failed to start holiday refresh:", err)
	}
	defer scheduler.Stop()

	// ---------------- APPEALS ----------------
	repo := appeals.NewRepository(db)
	registry := workflows.NewRegistry()
	calculator := appeals.NewCalculator(holidaySource, holidays.Division(cfg.Holidays.Division))
	auditTrail := audit.NewTrail(db)
	publisher := broadcast.NewPublisher(sns.NewFromConfig(awsCfg), cfg.Broadcast.TopicARN)
	dispatcher := notify.NewDispatcher(sesv2.NewFromConfig(awsCfg), cfg.Notifications.FromAddress)
	service := appeals.NewService(repo, registry, calculator, auditTrail, publisher, dispatcher, logger)
	handler := appeals.NewHandler(service)

	// ---------------- HTTP ----------------
	authService := auth.NewService(cfg.Security.JWTSecret)

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API alive!"})
	})

	appealsGroup := r.Group("/appeals", authService.Middleware())
	handler.RegisterRoutes(appealsGroup)

	logger.Info("server starting", zap.String("addr", cfg.Server.GetServerAddr()))
	if err := r.Run(cfg.Server.GetServerAddr()); err != nil {
		log.Fatal(err)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = parsed
	}
	return zapCfg.Build()
}
