package app

import (
	"context"
	"fmt"

	"tranzit_backend/database"
	"tranzit_backend/internal/auth"
	"tranzit_backend/internal/config"
	"tranzit_backend/internal/email"
	"tranzit_backend/internal/handlers"
	"tranzit_backend/internal/logger"
	"tranzit_backend/internal/middleware"
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/repositories"
	"tranzit_backend/internal/routes"
	"tranzit_backend/internal/services"
	"tranzit_backend/internal/validator"
	"tranzit_backend/internal/workers"
	"tranzit_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Без первого админа воронку одобрения некому обслуживать
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	tokenWorker := workers.NewTokenWorker(repositories.NewRefreshTokenRepository(gormDB))
	tokenWorker.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		emailProvider = email.NewSMTPProvider(cfg)
	} else {
		logger.Warn("SMTP не сконфигурирован, письма не отправляются")
		emailProvider = &MockEmailProvider{}
	}

	userRepo := repositories.NewUserRepository(gormDB)
	driverRepo := repositories.NewDriverRepository(gormDB)
	offerRepo := repositories.NewOfferRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)

	return services.NewServiceContainer(userRepo, driverRepo, offerRepo, refreshTokenRepo, emailProvider)
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:   handlers.NewAuthHandler(baseHandler, sc.AuthService),
		UserHandler:   handlers.NewUserHandler(baseHandler, sc.UserService),
		DriverHandler: handlers.NewDriverHandler(baseHandler, sc.DriverService, sc.OfferService),
		OfferHandler:  handlers.NewOfferHandler(baseHandler, sc.OfferService),
		ReportHandler: handlers.NewReportHandler(baseHandler, sc.ReportService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

// seedFirstAdmin создает первого админа из конфигурации.
// Аккаунт рождается сразу верифицированным и одобренным — иначе
// заявки первых пользователей некому было бы рассматривать.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository(db)

	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:         adminEmail,
		PasswordHash:  hashedPassword,
		Role:          models.UserRoleAdmin,
		AccountStatus: models.ApprovalStatusApproved,
		IsVerified:    true,
	}

	if err := userRepo.Create(newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("First admin created", "email", adminEmail)
	return nil
}
