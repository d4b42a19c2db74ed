package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"estate_ledger/internal/config"
	"estate_ledger/internal/handler"
	"estate_ledger/internal/ledger"
	"estate_ledger/internal/middleware"
	"estate_ledger/internal/repository"
	"estate_ledger/internal/service"
	"estate_ledger/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		return nil, err
	}
	return config.ConnectDB(ctx, dbCfg)
}

func migrate(c *cli.Context) error {
	pool, err := connect(c.Context)
	if err != nil {
		return err
	}
	defer pool.Close()
	return config.AutoMigrate(c.Context, pool)
}

func newLedger(cfg *config.AppConfig) (ledger.Ledger, error) {
	if cfg.LedgerMode == config.LedgerModeCometBFT {
		logrus.WithField("rpc", cfg.CometBFTRPCAddr).Info("Recording transfers on CometBFT")
		return ledger.DialCometBFT(cfg.CometBFTRPCAddr)
	}
	logrus.Warn("Using the simulated ledger, transfers are not recorded on a chain")
	return ledger.NewSimulated(nil), nil
}

func newRouter(pool repository.Pool, jwtUtil *utils.JWTUtil, l ledger.Ledger) *gin.Engine {
	userRepo := repository.NewUserRepository(pool)
	propertyRepo := repository.NewPropertyRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	recordRepo := repository.NewBlockchainRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	authService := service.NewAuthService(userRepo, jwtUtil)
	propertyService := service.NewPropertyService(pool, propertyRepo, recordRepo)
	transactionService := service.NewTransactionService(pool, transactionRepo, propertyRepo, recordRepo, l)
	dashboardService := service.NewDashboardService(userRepo, propertyRepo, transactionRepo, dashboardRepo)

	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil, userRepo)
	adminRoleMW := middleware.AdminMiddleware()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORSMiddleware())

	apiGroup := router.Group("/api")
	handler.NewAuthHandler(authService).RegisterAuthRoutes(apiGroup)
	handler.NewPropertyHandler(propertyService).RegisterPropertyRoutes(apiGroup, jwtAuthMW, adminRoleMW)
	handler.NewTransactionHandler(transactionService).RegisterTransactionRoutes(apiGroup, jwtAuthMW)
	handler.NewDashboardHandler(dashboardService).RegisterDashboardRoutes(apiGroup, jwtAuthMW)

	router.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})
	return router
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg, err := config.LoadAppConfig()
	if err != nil {
		return err
	}
	gin.SetMode(appCfg.GinMode)
	if err := handler.RegisterValidators(); err != nil {
		return err
	}

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := config.AutoMigrate(ctx, pool); err != nil {
		return err
	}

	l, err := newLedger(appCfg)
	if err != nil {
		return err
	}
	jwtUtil := utils.NewJWTUtil(appCfg.JWTSecret, appCfg.JWTExpiration)

	srv := &http.Server{
		Addr:    ":" + appCfg.ServerPort,
		Handler: newRouter(pool, jwtUtil, l),
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("port", appCfg.ServerPort).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logrus.Info("Server exiting")
	return nil
}
