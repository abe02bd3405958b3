package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recetario-pae/internal/api"
	"recetario-pae/internal/core/cache"
	"recetario-pae/internal/core/catalog"
	"recetario-pae/internal/core/email"
	"recetario-pae/internal/core/planner"
	"recetario-pae/internal/core/planstore"
	"recetario-pae/internal/infrastructure/config"
	"recetario-pae/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.App.Name); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Configuration loaded",
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("email_enabled", cfg.Email.Enabled),
		zap.String("emailjs_key", config.MaskAPIKey(cfg.Email.PublicKey)),
	)

	// 載入食譜目錄
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		common.LogFatal("Failed to load recipe catalog", zap.Error(err))
	}

	// 初始化週計畫儲存
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := planstore.New(startCtx, cfg.Storage)
	cancelStart()
	if err != nil {
		common.LogFatal("Failed to initialize plan store", zap.Error(err))
	}

	// 初始化快取，停用時為 nil
	cacheManager := cache.NewManager("shopping_list", cfg.Cache)

	svc := planner.NewService(cat, store, cacheManager)

	// 郵件隊列
	var dispatcher *email.Dispatcher
	if cfg.Email.Enabled {
		dispatcher = email.NewDispatcher(email.NewSender(cfg.Email), cfg.Queue)
	} else {
		common.LogWarn("EmailJS credentials missing, email routes disabled")
	}

	router, err := api.SetupRouter(cfg, api.Dependencies{
		Planner: svc,
		Mailer:  dispatcher,
		Cache:   cacheManager,
	})
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("Starting application",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	// 送完隊列中的郵件後再關閉儲存
	if dispatcher != nil {
		dispatcher.Close()
	}
	cacheManager.Close()
	if err := store.Close(); err != nil {
		common.LogError("Failed to close plan store", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
