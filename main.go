// @title Neighbours Only API
// @version 1.0
// @description Posts, neighborhood feed and community moderation.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/bootstrap"
	"github.com/ualiu/neighbours-only/config"
	"github.com/ualiu/neighbours-only/database"
	_ "github.com/ualiu/neighbours-only/docs"
	"github.com/ualiu/neighbours-only/internal/logger"
	"github.com/ualiu/neighbours-only/internal/middleware"
	"github.com/ualiu/neighbours-only/internal/moderation"
	"github.com/ualiu/neighbours-only/internal/routes"
	"github.com/ualiu/neighbours-only/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	zlog, err := logger.New(logger.Config{
		Environment: cfg.AppEnv,
		LogLevel:    cfg.LogLevel,
		ServiceName: "neighbours-only",
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.JWTSecret == "" {
		zlog.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.ConnectMongo(ctx, zlog, cfg.MongoURI)
	if err != nil {
		zlog.Fatal("connect mongo failed", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDB)

	// one concern per neighbor per post, and the feed/learning query indexes
	ictx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := bootstrap.EnsureIndexes(ictx, db); err != nil {
		cancel()
		zlog.Fatal("ensure indexes failed", zap.Error(err))
	}
	cancel()

	repos := routes.NewRepos(db)

	var classifier moderation.Classifier = moderation.DisabledClassifier{}
	if cfg.ClassifierEnabled() {
		classifier = moderation.NewAnthropicClassifier(cfg.Anthropic(), zlog)
	} else if cfg.ModerationEnabled {
		zlog.Warn("MODERATION_ENABLED is set but ANTHROPIC_API_KEY is empty, moderation stays disabled")
	}
	zlog.Info("moderation configured",
		zap.Bool("enabled", cfg.ClassifierEnabled()),
		zap.Int("report_threshold", cfg.ReportThreshold),
		zap.Bool("flagged_visible", cfg.FlaggedVisible),
		zap.Duration("classifier_timeout", cfg.ClassifierTimeout))

	modCfg := cfg.ModerationSettings()
	orchestrator := moderation.NewOrchestrator(zlog, repos.Users, classifier, modCfg.Timeout)
	escalation := moderation.NewEscalationController(zlog, repos.Posts, repos.Reports, repos.Users, classifier,
		moderation.NewLearningLogger(zlog, repos.Learning), modCfg)

	deps := routes.Deps{
		Log:      zlog,
		Posts:    repos.Posts,
		Users:    repos.Users,
		Reports:  repos.Reports,
		Comments: repos.Comments,
		Learning: repos.Learning,
		PostSvc: &services.PostService{
			Posts:     repos.Posts,
			Moderator: orchestrator,
			Mapper:    modCfg.Mapper,
		},
		Escalation: escalation,
	}

	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/", middleware.JWTAuth(cfg.JWTSecret), middleware.InjectViewer(repos.Users))
	routes.SetupRoutesPost(api, deps)
	routes.SetupRoutesFeed(api, deps)
	routes.SetupRoutesModeration(api, deps)

	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	zlog.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
