// main.go - LuemTV catalog API
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"luemtv/internal/config"
	"luemtv/internal/database"
	"luemtv/internal/handlers"
	"luemtv/internal/logger"
	"luemtv/internal/metrics"
	"luemtv/internal/middleware"
	"luemtv/internal/repositories"
	"luemtv/internal/services"
	"luemtv/internal/storage"
	"luemtv/internal/tmdb"
	"luemtv/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const draftSweepInterval = 5 * time.Minute

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLog := logger.New(cfg.Log)
	defer appLog.Close()
	log := appLog.Logger

	if envErr != nil {
		log.Warn().Msg(".env file not found, using process environment")
	}

	gin.SetMode(cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL, appLog.Component("database"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := database.RunMigrations(db, appLog.Component("migrations")); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	firebaseService, err := services.NewFirebaseService(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase service")
	}

	r2Client, err := storage.NewR2Client(cfg.R2Config, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize R2 client")
	}

	tmdbClient := tmdb.NewClient(cfg.TMDB, log)

	// Repositories
	seriesRepo := repositories.NewSeriesRepository(db, log)
	videoRepo := repositories.NewVideoRepository(db, log)
	profileRepo := repositories.NewProfileRepository(db, log)
	statsRepo := repositories.NewStatsRepository(db)

	// Services
	catalogService := services.NewCatalogService(seriesRepo, videoRepo, log)
	resolverService := services.NewResolverService(seriesRepo, videoRepo, log)
	seriesService := services.NewSeriesService(seriesRepo, log)
	movieService := services.NewMovieService(videoRepo, log)
	userService := services.NewUserService(profileRepo, firebaseService, log)
	upcomingService := services.NewUpcomingService(tmdbClient, log)
	uploadService := services.NewUploadService(r2Client)

	drafts := services.NewDraftStore(cfg.Import.DraftTTL, log)
	drafts.StartJanitor(draftSweepInterval)
	importService := services.NewImportService(drafts, tmdbClient, seriesRepo, videoRepo,
		services.ImportOptions{
			MaxSearchPages:    cfg.Import.MaxSearchPages,
			SeasonConcurrency: cfg.Import.SeasonConcurrency,
		}, log)

	// Banner rotation pushed over websockets
	hub := websocket.NewHub(log)
	go hub.Run()
	rotator := services.NewBannerRotator(catalogService, hub, cfg.BannerInterval, cfg.BannerRefresh, log)
	rotator.Start(ctx)

	// Handlers
	h := routeHandlers{
		catalog: handlers.NewCatalogHandler(catalogService, rotator, upcomingService, resolverService, seriesService),
		banner:  handlers.NewBannerSocketHandler(hub, rotator, cfg.AllowedOrigins),
		auth:    handlers.NewAuthHandler(userService),
		series:  handlers.NewSeriesHandler(seriesService),
		videos:  handlers.NewVideoHandler(movieService),
		users:   handlers.NewUserHandler(userService),
		imports: handlers.NewImportHandler(importService),
		upload:  handlers.NewUploadHandler(uploadService),
		stats:   handlers.NewStatsHandler(statsRepo, drafts),
	}

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	router := setupRouter(cfg, rateLimiter, appLog.Component("http"))

	router.GET("/health", func(c *gin.Context) {
		dbStats := database.Stats()
		dbErr := database.Health()

		status := http.StatusOK
		state := "healthy"
		if dbErr != nil {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}

		c.JSON(status, gin.H{
			"status":   state,
			"database": dbErr == nil,
			"database_stats": gin.H{
				"open_connections": dbStats.OpenConnections,
				"in_use":           dbStats.InUse,
				"idle":             dbStats.Idle,
			},
			"banner_subscribers": hub.ClientCount(),
			"open_drafts":        drafts.Len(),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := middleware.FirebaseAuth(firebaseService, profileRepo, appLog.Component("auth"))
	setupRoutes(router, auth, rotator, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Dur("banner_interval", cfg.BannerInterval).
			Msg("LuemTV API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}

	cancel()
	rotator.Stop()
	drafts.Stop()
	rateLimiter.Stop()
	hub.Stop()

	log.Info().Msg("Server stopped")
}

type routeHandlers struct {
	catalog *handlers.CatalogHandler
	banner  *handlers.BannerSocketHandler
	auth    *handlers.AuthHandler
	series  *handlers.SeriesHandler
	videos  *handlers.VideoHandler
	users   *handlers.UserHandler
	imports *handlers.ImportHandler
	upload  *handlers.UploadHandler
	stats   *handlers.StatsHandler
}

func setupRouter(cfg *config.Config, rateLimiter *middleware.RateLimiter, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(metrics.Middleware())

	router.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".mp4", ".mov", ".webm", ".mkv", ".ts", ".m3u8"}),
		gzip.WithExcludedPaths([]string{"/api/v1/ws"})))

	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Authorization", "X-Request-ID",
			"Upgrade", "Connection", "Sec-WebSocket-Key", "Sec-WebSocket-Version",
		},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(rateLimiter))

	return router
}

// BannerReloader refreshes the banner pool after catalog writes.
type BannerReloader interface {
	Reload(ctx context.Context)
}

// reloadBannerOnWrite reloads the banner pool after a successful write.
func reloadBannerOnWrite(banner BannerReloader) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		go banner.Reload(context.Background())
	}
}

func setupRoutes(router *gin.Engine, auth gin.HandlerFunc, banner BannerReloader, h routeHandlers) {
	api := router.Group("/api/v1")

	// ===============================
	// PUBLIC CATALOG
	// ===============================
	public := api.Group("")
	{
		public.GET("/home", h.catalog.Home)
		public.GET("/banner", h.catalog.Banner)
		public.GET("/ws/banner", h.banner.Subscribe)
		public.GET("/upcoming", h.catalog.Upcoming)
		public.GET("/watch/:id", h.catalog.Watch)
		public.GET("/series/:id", h.catalog.SeriesDetail)
	}

	// ===============================
	// SESSION
	// ===============================
	session := api.Group("/auth")
	session.Use(auth)
	{
		session.POST("/sync", h.auth.SyncUser)
		session.GET("/me", h.auth.GetCurrentUser)
		session.POST("/signout", h.auth.SignOut)
	}

	// ===============================
	// ADMIN
	// ===============================
	admin := api.Group("/admin")
	admin.Use(auth, middleware.AdminOnly())
	{
		admin.GET("/stats", h.stats.GetStats)

		reload := reloadBannerOnWrite(banner)

		admin.GET("/series", h.series.ListSeries)
		admin.PUT("/series/:id", reload, h.series.UpdateSeries)
		admin.DELETE("/series/:id", reload, h.series.DeleteSeries)
		admin.GET("/series/:id/episodes", h.series.ListEpisodes)
		admin.PUT("/episodes/:id", h.series.UpdateEpisodeURL)
		admin.DELETE("/episodes/:id", h.series.DeleteEpisode)

		admin.GET("/movies", h.videos.ListVideos)
		admin.POST("/movies", reload, h.videos.CreateVideo)
		admin.PUT("/movies/:id", reload, h.videos.UpdateVideo)
		admin.DELETE("/movies/:id", reload, h.videos.DeleteVideo)

		// Import drafts
		admin.POST("/series/:id/import", h.imports.ImportFromSeries)
		admin.POST("/movies/:id/import", h.imports.ImportFromMovie)
		admin.POST("/imports", h.imports.StartImport)
		admin.GET("/imports/:id", h.imports.GetImport)
		admin.DELETE("/imports/:id", h.imports.DiscardImport)
		admin.POST("/imports/:id/search", h.imports.Search)
		admin.POST("/imports/:id/select", h.imports.Select)
		admin.POST("/imports/:id/episodes", h.imports.LoadEpisodes)
		admin.PUT("/imports/:id/episodes/:season/:episode", h.imports.SetEpisodeURL)
		admin.PATCH("/imports/:id/form", h.imports.UpdateForm)
		admin.POST("/imports/:id/save", reload, h.imports.Save)

		admin.GET("/users", h.users.ListUsers)
		admin.POST("/users", h.users.CreateUser)
		admin.PUT("/users/:id", h.users.UpdateUser)
		admin.DELETE("/users/:id", h.users.DeleteUser)

		admin.POST("/upload", h.upload.UploadFile)
		admin.DELETE("/upload", h.upload.DeleteFile)
	}
}
