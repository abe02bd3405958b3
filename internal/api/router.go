package api

import (
	"errors"
	"time"

	"recetario-pae/internal/api/handlers/health"
	"recetario-pae/internal/api/handlers/plan"
	"recetario-pae/internal/api/handlers/recipe"
	"recetario-pae/internal/api/handlers/shopping"
	"recetario-pae/internal/api/middleware"
	"recetario-pae/internal/core/cache"
	"recetario-pae/internal/core/email"
	"recetario-pae/internal/core/planner"
	"recetario-pae/internal/infrastructure/config"
	"recetario-pae/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Planner *planner.Service
	Mailer  *email.Dispatcher
	Cache   *cache.Manager
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if deps.Planner == nil {
		return nil, errors.New("planner service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		common.WriteError(c, common.ErrNotFound, false)
	})
	router.NoMethod(func(c *gin.Context) {
		common.WriteError(c, common.ErrMethodNotAllowed, false)
	})

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	// 注入服務
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Set("planner", deps.Planner)
		if deps.Mailer != nil {
			c.Set("email_dispatcher", deps.Mailer)
		}
		if deps.Cache != nil {
			c.Set("cache", deps.Cache)
		}
		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// nil 的 *Dispatcher 不能直接放進介面
	var planMailer plan.Mailer
	var shoppingMailer shopping.Mailer
	if deps.Mailer != nil {
		planMailer = deps.Mailer
		shoppingMailer = deps.Mailer
	}

	recipes := recipe.NewHandler(deps.Planner, cfg.App.Debug)
	plans := plan.NewHandler(deps.Planner, planMailer, cfg.App.Debug)
	lists := shopping.NewHandler(deps.Planner, shoppingMailer, cfg.App.Debug)
	dedup := middleware.NewDeduplicator(cfg.DedupWindow).Handler()

	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", recipes.List)
			recipeGroup.GET("/categories", recipes.Categories)
			recipeGroup.GET("/:id", recipes.Get)
			recipeGroup.GET("/:id/scale", recipes.Scale)
			recipeGroup.GET("/:id/export", recipes.Export)
		}

		planGroup := api.Group("/plan")
		{
			planGroup.GET("", plans.Get)
			planGroup.PUT("", plans.Replace)
			planGroup.DELETE("", plans.Clear)
			planGroup.POST("/days/:day/recipes", plans.AddRecipe)
			planGroup.DELETE("/days/:day/recipes/:index", plans.RemoveRecipe)
			planGroup.DELETE("/days/:day", plans.ClearDay)
			planGroup.GET("/export", plans.Export)
			planGroup.POST("/email", dedup, plans.Email)

			planGroup.GET("/snapshots", plans.ListSnapshots)
			planGroup.POST("/snapshots", plans.SaveSnapshot)
			planGroup.POST("/snapshots/:id/load", plans.LoadSnapshot)
			planGroup.DELETE("/snapshots/:id", plans.DeleteSnapshot)
		}

		shoppingGroup := api.Group("/shopping-list")
		{
			shoppingGroup.GET("", lists.Get)
			shoppingGroup.GET("/export", lists.Export)
			shoppingGroup.GET("/print", lists.Print)
			shoppingGroup.POST("/email", dedup, lists.Email)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Int("recipes", deps.Planner.Catalog().Len()),
		zap.Bool("email_enabled", deps.Mailer != nil),
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
