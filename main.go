package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/MintSphere/blockchain"
	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/controllers"
	"github.com/Govind-619/MintSphere/middleware"
	"github.com/Govind-619/MintSphere/migrations"
	"github.com/Govind-619/MintSphere/routes"
	"github.com/Govind-619/MintSphere/services"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogsDir, cfg.IsProduction()); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.CloseLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	feePercent, err := cfg.FeePercent()
	if err != nil {
		utils.LogError("Invalid platform fee: %v", err)
		log.Fatal("Invalid platform fee:", err)
	}
	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTExpiresIn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if err := config.InitDB(cfg); err != nil {
		utils.LogError("Database initialization failed: %v", err)
		log.Fatal("Database initialization failed:", err)
	}
	defer config.CloseDB()

	version, err := migrations.Up(cfg.MigrationURL())
	if err != nil {
		utils.LogError("Migrations failed: %v", err)
		log.Fatal("Migrations failed:", err)
	}
	utils.LogInfo("Database schema at migration version %d", version)

	if err := config.InitRedis(ctx, cfg); err != nil {
		// the cache is optional, run without it
		utils.LogError("Redis unavailable, NFT cache disabled: %v", err)
	}

	// Initialize Google OAuth
	config.InitGoogleOAuth(cfg)

	scheduler := cron.New()
	if _, err := utils.StartLogRotation(scheduler); err != nil {
		utils.LogError("Failed to schedule log rotation: %v", err)
	}
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if _, err := authLimiter.ScheduleCleanup(scheduler); err != nil {
		utils.LogError("Failed to schedule rate limiter cleanup: %v", err)
	}
	scheduler.Start()

	deps, monitor, chain := buildDependencies(ctx, cfg, feePercent)
	controllers.Configure(deps)
	if chain != nil {
		defer chain.Close()
	}

	// Set up router
	router := routes.SetupRouter(routes.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.IsProduction(),
		AllowedOrigin: cfg.FrontendURL,
		AuthLimiter:   authLimiter,
		NFTCache:      deps.NFTCache,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Server shutdown failed: %v", err)
	}

	monitor.StopAll()
	<-scheduler.Stop().Done()
	if config.Redis != nil {
		config.Redis.Close()
	}
	utils.LogInfo("Shutdown complete")
}

// buildDependencies wires the chain client, the transaction monitor and the
// order service. Without a provider URL the monitor has no chain: orders with
// a transaction hash are still saved, the failed monitor start is logged, and
// Watch reports the chain as unavailable.
func buildDependencies(ctx context.Context, cfg *config.Config, feePercent decimal.Decimal) (controllers.Dependencies, *services.TransactionMonitor, *blockchain.Client) {
	deps := controllers.Dependencies{
		FeePercent:  feePercent,
		FrontendURL: cfg.FrontendURL,
	}

	var chain *blockchain.Client
	var reader services.ChainReader
	if cfg.Web3ProviderURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := blockchain.Dial(dialCtx, cfg.Web3ProviderURL)
		cancel()
		if err != nil {
			utils.LogError("Blockchain provider unavailable: %v", err)
		} else {
			chain = client
			reader = client
			deps.Chain = client
			utils.LogInfo("Connected to blockchain provider")
		}
	} else {
		utils.LogInfo("WEB3_PROVIDER_URL not set, transaction monitoring disabled")
	}

	store := services.NewGormOrderStore(config.DB)

	opts := []services.MonitorOption{
		services.WithPollInterval(cfg.PollInterval),
		services.WithTimeout(cfg.MonitorTimeout),
		services.WithRequiredConfirmations(cfg.RequiredConfirmations),
	}
	if cfg.SMTPEnabled() {
		mailer := utils.NewMailer(utils.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		opts = append(opts, services.WithNotifier(services.NewMailNotifier(store, mailer)))
	}
	monitor := services.NewTransactionMonitor(reader, store, opts...)

	deps.Orders = services.NewOrderService(store, monitor, feePercent)
	deps.Monitor = monitor

	if cfg.PrivyEnabled() {
		verifier, err := services.NewPrivyVerifier(cfg.PrivyAppID, cfg.PrivyAppSecret, cfg.PrivyVerificationKey, cfg.PrivyAPIURL)
		if err != nil {
			utils.LogError("Privy disabled: %v", err)
		} else {
			deps.Privy = verifier
		}
	}

	if config.Redis != nil {
		deps.NFTCache = middleware.NewResponseCache(config.Redis, "mintsphere:nfts", cfg.NFTCacheTTL)
	}

	return deps, monitor, chain
}
