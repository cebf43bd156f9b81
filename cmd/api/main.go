package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/venturelink-api/internal/application/auth"
	"github.com/tu-usuario/venturelink-api/internal/domain"
	"github.com/tu-usuario/venturelink-api/internal/domain/repository"
	"github.com/tu-usuario/venturelink-api/internal/infrastructure/email"
	"github.com/tu-usuario/venturelink-api/internal/infrastructure/mongodb"
	"github.com/tu-usuario/venturelink-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/venturelink-api/internal/interfaces/http"
	"github.com/tu-usuario/venturelink-api/pkg/config"
	"github.com/tu-usuario/venturelink-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	// El secret es configuración fatal: sin él no se puede emitir ni
	// verificar ningún token.
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET no configurado")
	}

	ctx := context.Background()

	var userRepo repository.UserRepository
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		userRepo = postgres.NewUserRepository(pool)
	default:
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MongoDB")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		userRepo, err = mongodb.NewUserRepository(client.Database(cfg.Mongo.Database))
		if err != nil {
			log.Fatal().Err(err).Msg("preparar colección de usuarios")
		}
	}

	var mailer auth.Mailer
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP_HOST vacío: los emails solo se loguean")
		mailer = email.NewLogMailer()
	}

	admins := domain.NewAdminPolicy(cfg.Admin.Emails)
	authUC := auth.NewAuthUseCase(userRepo, admins, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	resetUC := auth.NewResetUseCase(userRepo, mailer, time.Duration(cfg.Reset.TTLMinutes)*time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "VentureLink API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ResetUC:        resetUC,
		CookieMaxAge:   time.Duration(cfg.JWT.Expiration) * time.Minute,
		GuardPrefixes:  cfg.Guard.Prefixes,
		GuardEntryPath: cfg.Guard.EntryPath,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
