package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/handlers/dto"
	httphandlers "github.com/rafabene/orquesta-admin/internal/handlers/http"
	"github.com/rafabene/orquesta-admin/internal/handlers/ws"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/config"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/i18n"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/logging"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/persistence/migrations"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/security"
	"github.com/rafabene/orquesta-admin/internal/services"
)

//	@title						Orquesta Admin API
//	@version					1.0
//	@description				Administração de roles, usuários e representantes da orquesta.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting orquesta admin backend",
		"env", cfg.Env,
		"version", "dev",
	)

	// Conectar ao banco de dados
	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Logging.Level, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}

	hasher := security.BcryptHasher{}
	adminRule := entities.NewAdminRoleRule(cfg.Access.AdminRolePattern)

	// Migrações rodam antes de aceitar requisições; falha fundamental encerra o processo
	report, err := migrations.Migrate(context.Background(), db, logger, migrations.Options{
		AdminRule:     adminRule,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		SeedDemoUsers: cfg.Seed.DemoUsers,
		DemoPassword:  cfg.Seed.DemoPassword,
		Hasher:        hasher,
	})
	if err != nil {
		logger.Error("schema migration aborted", "error", err)
		log.Fatal(err)
	}
	logger.Info("schema migration finished",
		"executed", report.Executed,
		"failures", len(report.Failures),
	)

	// Inicializar i18n
	i18nService, err := loadTranslations(cfg.I18n, logger)
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	if err := dto.RegisterValidators(); err != nil {
		logger.Error("failed to register validators", "error", err)
		log.Fatal(err)
	}

	// Inicializar repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	guardianRepo := postgres.NewGuardianRepository(db)
	uow := postgres.NewUnitOfWork(db)

	hub := ws.NewHub(logger, cfg.CORS.AllowedOrigins)

	// Inicializar services
	resolver := services.NewIdentityResolver(userRepo, roleRepo, logger)
	tokens := security.NewJWTService([]byte(cfg.JWT.Secret))
	authService := services.NewAuthService(userRepo, resolver, hasher, tokens, cfg.JWT.AccessExpiry, logger)
	userService := services.NewUserService(userRepo, roleRepo, hasher, hub, adminRule, logger)
	roleService := services.NewRoleService(roleRepo, userRepo, hub, logger)
	guardianService := services.NewGuardianService(guardianRepo, uow, logger)

	// Setup Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := &httphandlers.Router{
		Config: httphandlers.RouterConfig{
			Env:            cfg.Env,
			BaseURL:        cfg.Server.BaseURL,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		I18n:          i18nService,
		Authenticator: authService,
		Authorizer:    resolver,
		Hub:           hub,
		Logger:        logger,
		Auth:          httphandlers.NewAuthHandler(authService, logger),
		Users:         httphandlers.NewUserHandler(userService, logger),
		Roles:         httphandlers.NewRoleHandler(roleService, logger),
		Guardians:     httphandlers.NewGuardianHandler(guardianService, logger),
	}

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server exited")
}

// loadTranslations usa LOCALES_DIR quando o diretório existe; senão os catálogos embutidos
func loadTranslations(cfg config.I18nConfig, logger ports.Logger) (*i18n.Service, error) {
	if cfg.LocalesDir != "" {
		if info, err := os.Stat(cfg.LocalesDir); err == nil && info.IsDir() {
			return i18n.NewService(cfg.LocalesDir, cfg.DefaultLanguage)
		}
		logger.Warn("locales dir not found, using embedded catalogs", "dir", cfg.LocalesDir)
	}
	return i18n.NewEmbeddedService(cfg.DefaultLanguage)
}
