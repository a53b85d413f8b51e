// @title Dysscreen API
// @version 1.0
// @description Learning-disability self-screening: question bank, scoring, screening sessions and result history.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "dysscreen/cmd/api/docs"
	"dysscreen/internal/adapter"
	"dysscreen/internal/adapter/assistant"
	"dysscreen/internal/cache"
	"dysscreen/internal/config"
	"dysscreen/internal/database"
	"dysscreen/internal/domain"
	"dysscreen/internal/handler"
	"dysscreen/internal/logger"
	"dysscreen/internal/middleware"
	"dysscreen/internal/repository"
	"dysscreen/internal/screening"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	policy, err := service.PolicyFromConfig(cfg.Screening)
	if err != nil {
		appLogger.Fatal("Invalid screening configuration", zap.Error(err))
	}
	controller := screening.NewController(policy)

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Repositories
	userRepository := repository.NewSQLXUserRepository(db)
	questionRepository := repository.NewSQLXQuestionRepository(db)
	configRepository := repository.NewSQLXScreeningConfigRepository(db)
	attemptRepository := repository.NewSQLXQuizAttemptRepository(db)
	gameRepository := repository.NewSQLXGameResultRepository(db)
	contentRepository := repository.NewSQLXDisabilityContentRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	timeout := cfg.Server.RequestTimeout
	questionService := service.NewQuestionService(questionRepository, txManager, cacheAdapter, cfg.Cache.QuestionTTL, timeout)
	configService := service.NewScreeningConfigService(configRepository, questionService, cacheAdapter,
		cfg.Cache.ConfigTTL, cfg.Screening.SecondScreeningDefault, timeout)
	anonymousResults := service.NewAnonymousResultCacheService(cacheAdapter, cfg.Screening.AnonymousResultTTL, cfg.Server.RequestTimeout)
	resultService := service.NewResultService(attemptRepository, questionService, configService, anonymousResults, controller, timeout)
	sessionService := service.NewSessionService(cacheAdapter, controller, questionService, configService, resultService, cfg.Screening.SessionTTL, cfg.Server.RequestTimeout)

	authService, err := service.NewAuthService(userRepository, cfg.JWT, timeout)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository, timeout)
	gameService := service.NewGameService(gameRepository, timeout)
	contentService := service.NewContentService(contentRepository, timeout)
	adminService := service.NewAdminService(userRepository, attemptRepository, questionService, configService, timeout)
	healthService := service.NewHealthService(db, cacheAdapter, timeout)

	var chatAssistant domain.Assistant
	if cfg.LLM.Server != "" {
		ollamaAssistant, err := assistant.NewOllamaAssistant(cfg.LLM.Server, cfg.LLM.Model)
		if err != nil {
			appLogger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		chatAssistant = ollamaAssistant
		appLogger.Info("Chat assistant initialized", zap.String("server_url", cfg.LLM.Server), zap.String("model", cfg.LLM.Model))
	} else {
		appLogger.Warn("llm.server is not set; /api/chat will report the assistant as unavailable")
	}
	chatService := service.NewChatService(chatAssistant, cfg.LLM.Timeout)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Question: handler.NewQuestionHandler(questionService, configService),
		Result:   handler.NewResultHandler(resultService),
		Session:  handler.NewSessionHandler(sessionService),
		Game:     handler.NewGameHandler(gameService),
		Content:  handler.NewContentHandler(contentService, chatService),
		Admin:    handler.NewAdminHandler(adminService, resultService, userService),
		Health:   handler.NewHealthHandler(healthService),
	}, authService)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
