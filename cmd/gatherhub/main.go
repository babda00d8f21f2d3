package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"gorm.io/gorm"

	"github.com/gatherhub/gatherhub/internal/config"
	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/infra/database"
	"github.com/gatherhub/gatherhub/internal/infra/database/models"
	"github.com/gatherhub/gatherhub/internal/infra/repository"
	"github.com/gatherhub/gatherhub/internal/infra/tracing"
	"github.com/gatherhub/gatherhub/internal/present/rest"
	authmw "github.com/gatherhub/gatherhub/internal/present/rest/middleware"
	"github.com/gatherhub/gatherhub/internal/service"
	"github.com/gatherhub/gatherhub/internal/usecase"
)

func main() {
	configPath := flag.String("c", "config/config.yaml", "path to the config file")
	seed := flag.Bool("seed", false, "recreate the schema and insert demo data, then exit")
	flag.Parse()

	ctx := context.Background()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdownTracing, err := tracing.Setup(ctx, "gatherhub", conf.Server.EnableTrace, conf.Server.TraceEndpoint)
	if err != nil {
		slog.Error("Failed to initialise tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdownTracing(ctx)

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("Failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	auth := service.NewAuthService(conf.Auth.Secret, conf.Auth.TokenExpiry)

	if *seed {
		if err := seedDatabase(ctx, db, auth); err != nil {
			slog.Error("Failed to seed database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("Database seeded")
		return
	}

	if err := database.MigratePostgres(db); err != nil {
		slog.Error("Failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)

	policy := service.NewAccessPolicy()
	signal := service.NewSignalService(rdb)

	accountUC := usecase.NewAccountUsecase(userRepo, auth)
	eventUC := usecase.NewEventUsecase(eventRepo, registrationRepo, policy)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, policy)
	registrationUC := usecase.NewRegistrationUsecase(eventRepo, registrationRepo, policy, signal)
	adminUC := usecase.NewAdminUsecase(userRepo, eventRepo, registrationRepo, policy)

	handler := rest.NewHandler(accountUC, eventUC, categoryUC, registrationUC, adminUC, signal)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(otelecho.Middleware("gatherhub"))

	handler.RegisterRoutes(e, authmw.NewAuthMiddleware(auth))

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

// seedDatabase drops and recreates the schema, then inserts the demo
// admin, a demo user and two sample events.
func seedDatabase(ctx context.Context, db *gorm.DB, auth *service.AuthService) error {
	err := db.WithContext(ctx).Migrator().DropTable(
		&models.Registration{},
		&models.Event{},
		&models.Category{},
		&models.User{},
	)
	if err != nil {
		return err
	}
	if err := database.MigratePostgres(db); err != nil {
		return err
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	admin := models.User{Email: "admin@example.com", Password: hash, Role: domain.RoleAdmin}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	user := models.User{Email: "user@example.com", Password: hash, Role: domain.RoleUser}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	events := []models.Event{
		{
			Title:           "Event 1",
			Description:     "Description 1",
			Date:            time.Now(),
			Location:        "Main hall",
			MaxParticipants: 10,
			Status:          domain.StatusScheduled,
			IsPublic:        true,
			CreatedBy:       admin.ID,
		},
		{
			Title:           "Event 2",
			Description:     "Description 2",
			Date:            time.Now().Add(24 * time.Hour),
			Location:        "Annex",
			MaxParticipants: 5,
			Status:          domain.StatusScheduled,
			IsPublic:        true,
			CreatedBy:       admin.ID,
		},
	}
	for i := range events {
		if err := db.WithContext(ctx).Create(&events[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
