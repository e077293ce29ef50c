package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/cryptostarter/cryptostarter/docs" // Swagger docs
	"github.com/cryptostarter/cryptostarter/internal/auth"
	"github.com/cryptostarter/cryptostarter/internal/config"
	"github.com/cryptostarter/cryptostarter/internal/database"
	"github.com/cryptostarter/cryptostarter/internal/earned"
	"github.com/cryptostarter/cryptostarter/internal/email"
	httpServer "github.com/cryptostarter/cryptostarter/internal/http"
	"github.com/cryptostarter/cryptostarter/internal/locale"
	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/metrics"
	"github.com/cryptostarter/cryptostarter/internal/preregister"
	"github.com/cryptostarter/cryptostarter/internal/project"
	"github.com/cryptostarter/cryptostarter/internal/user"
	"github.com/cryptostarter/cryptostarter/internal/web"
	"github.com/cryptostarter/cryptostarter/templates"
)

// @title           CryptoStarter API
// @version         1.0
// @description     Accounts, sessions, project listings and pre-registration for the CryptoStarter site.

// @contact.name   CryptoStarter Team
// @contact.email  team@cryptostarter.io

// @host      localhost:8080
// @BasePath  /

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	ctx := context.Background()

	// Initialize database connection
	sqlDB, err := database.Open(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return err
	}
	db := database.NewBunDB(sqlDB)
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := database.OpenRedis(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterMetrics(registry)

	// Initialize repositories
	userRepo := user.NewRepository(db)
	sessionCache := auth.NewRedisSessionCache(redisClient)

	// Session cookie codec
	cookies, err := auth.NewCookieCodec(cfg.Auth.SessionKey, !cfg.Server.IsDevelopment())
	if err != nil {
		return fmt.Errorf("failed to initialize session cookies: %w", err)
	}

	// Initialize services
	authService := auth.NewService(
		userRepo,
		sessionCache,
		auth.NewArgon2idHasher(auth.DefaultArgon2Params),
		logger,
		cfg.Auth.SessionTTL,
	)
	userService := user.NewService(userRepo)

	emailService := email.NewService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.From,
	)

	var captcha preregister.CaptchaVerifier
	if cfg.PreRegister.CaptchaSecret != "" {
		captcha = preregister.NewRecaptchaVerifier(cfg.PreRegister.CaptchaSecret, cfg.PreRegister.CaptchaURL, &http.Client{Timeout: cfg.Earned.Timeout})
	} else {
		logger.Warn("CAPTCHA not set, pre-registration captcha check disabled")
	}
	preregisterService := preregister.NewService(emailService, captcha, cfg.Email.TeamEmail, logger)

	earnedService := earned.NewService(earned.Config{
		Contract:   cfg.Earned.Contract,
		BaseURL:    cfg.Earned.BaseURL,
		EtherPrice: cfg.Earned.EtherPrice,
		CacheTTL:   cfg.Earned.CacheTTL,
		Timeout:    cfg.Earned.Timeout,
	}, nil, earned.NewRedisCache(redisClient), logger)

	// Pages
	locales, err := locale.Load(cfg.Site.LocalesDir)
	if err != nil {
		return fmt.Errorf("failed to load locales: %w", err)
	}
	renderer, err := web.NewRenderer(templates.PagesFS)
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}

	// Initialize router
	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService, cookies),
		AuthMiddleware: auth.NewMiddleware(authService, cookies),
		User:           user.NewHandler(userService),
		Project:        project.NewHandler(locales),
		PreRegister:    preregister.NewHandler(preregisterService),
		Web:            web.NewHandler(renderer, locales, earnedService),
		Metrics:        registry,
	}, locales.Codes(), logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
