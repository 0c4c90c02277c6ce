package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "artflight/internal/app"
	"artflight/internal/bootstrap"
	"artflight/internal/cache"
	"artflight/internal/config"
	"artflight/internal/platform/rabbitmq"
	"artflight/internal/repository"
	"artflight/internal/transport/http/handler"
	"artflight/internal/transport/http/middleware"
)

// Services is everything the routes dispatch to.
type Services struct {
	Tokens *appsvc.TokenService
	Auth   *appsvc.AuthService
	Posts  *appsvc.PostService
	Images *appsvc.ArtImageService
	Users  *appsvc.UserService
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	maxUpload := app.MaxUploadBytes()

	userRepo := repository.NewUserRepository(app.DB)
	tokens := appsvc.NewTokenService(userRepo, cache.NewTokenBlacklist(app.Redis), appsvc.TokenConfig{
		Secret:      cfg.Auth.JWTSecret,
		AccessTTL:   time.Duration(cfg.Auth.AccessTokenMinutes) * time.Minute,
		RefreshTTL:  time.Duration(cfg.Auth.RefreshTokenMinutes) * time.Minute,
		ResetSecret: cfg.App.SecretKey,
		ResetTTL:    time.Duration(cfg.Auth.ResetTokenHours) * time.Hour,
	})
	publisher := rabbitmq.NewMailPublisher(app.MQConn, cfg.RabbitMQ.MailQueue)
	imageService := appsvc.NewArtImageService(repository.NewArtImageRepository(app.DB), app.Media, maxUpload, app.Log)

	svc := Services{
		Tokens: tokens,
		Auth:   appsvc.NewAuthService(userRepo, tokens, publisher, cfg.App.FrontendURL, app.Log),
		Posts:  appsvc.NewPostService(repository.NewBlogPostRepository(app.DB)),
		Images: imageService,
		Users:  appsvc.NewUserService(userRepo, app.Media, maxUpload, app.Log),
	}

	router := newEngine(cfg, app.Log, svc)
	router.MaxMultipartMemory = maxUpload
	router.GET("/healthz", handler.NewHealthHandler(app).Check)
	if root := app.LocalMediaRoot(); root != "" {
		router.Static(cfg.Storage.MediaURL, root)
	}
	return router
}

func newEngine(cfg *config.Config, log *slog.Logger, svc Services) *gin.Engine {
	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))
	if origins := cfg.Origins(); len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.AuthJWT(svc.Tokens)
	optionalAuth := middleware.OptionalAuth(svc.Tokens)

	authHandler := handler.NewAuthHandler(svc.Auth, svc.Users)
	postHandler := handler.NewPostHandler(svc.Posts)
	imageHandler := handler.NewArtImageHandler(svc.Images)
	userHandler := handler.NewUserHandler(svc.Users, svc.Images)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/forget_password", authHandler.ForgetPassword)
	authGroup.POST("/password_reset_confirm", authHandler.PasswordResetConfirm)
	authGroup.POST("/change_password", requireAuth, authHandler.ChangePassword)

	router.POST("/token/blacklist", authHandler.Blacklist)

	posts := router.Group("/posts")
	posts.GET("", optionalAuth, postHandler.List)
	posts.POST("", requireAuth, postHandler.Create)
	posts.GET("/:slug", optionalAuth, postHandler.Get)
	posts.PUT("/:slug", requireAuth, postHandler.Update)
	posts.PATCH("/:slug", requireAuth, postHandler.Update)
	posts.DELETE("/:slug", requireAuth, postHandler.Delete)

	images := router.Group("/art-images")
	images.GET("", optionalAuth, imageHandler.List)
	images.POST("", requireAuth, imageHandler.Create)
	images.GET("/:id", optionalAuth, imageHandler.Get)
	images.PUT("/:id", requireAuth, imageHandler.Update)
	images.PATCH("/:id", requireAuth, imageHandler.Update)
	images.DELETE("/:id", requireAuth, imageHandler.Delete)

	users := router.Group("/users", requireAuth)
	users.GET("", userHandler.List)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.PATCH("/me", userHandler.UpdateMe)
	users.GET("/my_artworks", userHandler.MyArtworks)
	users.GET("/:id", userHandler.Get)
	users.GET("/:id/my_artworks", userHandler.UserArtworks)

	return router
}
