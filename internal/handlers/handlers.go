package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/config"
	"github.com/syntherra/PooDough/internal/middleware"
	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/repository"
	"github.com/syntherra/PooDough/internal/service"
	"github.com/syntherra/PooDough/internal/storage"
	"github.com/syntherra/PooDough/internal/timer"
)

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	authService  *service.AuthService
	profiles     *service.ProfileService
	avatars      *service.AvatarService
	recorder     *service.Recorder
	leaderboards *service.LeaderboardService
	friendSvc    *service.FriendService
	fx           *service.FXService
	manager      *timer.Manager
	db           *pgxpool.Pool
	cache        *redis.Client
	users        *repository.UserRepository
	authSessions *repository.AuthSessionRepository
	sessions     *repository.SessionRepository
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	cache *redis.Client,
	store *storage.ObjectStore,
	manager *timer.Manager,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	authSessionRepo := repository.NewAuthSessionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifications := service.NewNotificationService(notificationRepo, cache, cfg.Redis.Stream, log)
	fx := service.NewFXService(cache, nil, cfg.FX.RatesURL, log)
	profiles := service.NewProfileService(userRepo, log)
	auth := service.NewAuthService(userRepo, authSessionRepo, profiles, cfg, log)
	avatars := service.NewAvatarService(userRepo, store, cfg, log)
	recorder := service.NewRecorder(sessionRepo, userRepo, log)
	leaderboards := service.NewLeaderboardService(userRepo, friendRepo, fx, notifications, cache, cfg.LeaderboardTTL, log)
	friendSvc := service.NewFriendService(friendRepo, userRepo, notifications, log)

	return HandlerSet{
		log:          log,
		cfg:          cfg,
		authService:  auth,
		profiles:     profiles,
		avatars:      avatars,
		recorder:     recorder,
		leaderboards: leaderboards,
		friendSvc:    friendSvc,
		fx:           fx,
		manager:      manager,
		db:           db,
		cache:        cache,
		users:        userRepo,
		authSessions: authSessionRepo,
		sessions:     sessionRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.cfg, h.users, h.authSessions))
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)
		protected.GET("/devices", h.ListDevices)
		protected.DELETE("/devices/:deviceId", h.RevokeDevice)
	}

	profile := v1.Group("/profile")
	profile.Use(middleware.Auth(h.cfg, h.users, h.authSessions))
	profile.PATCH("", h.UpdateProfile)
	profile.POST("/onboarding", h.CompleteOnboarding)
	profile.GET("/displayname", h.DisplayNameAvailability)
	profile.POST("/avatar", h.UploadAvatar)
	profile.POST("/push-token", h.RegisterPushToken)

	tmr := v1.Group("/timer")
	tmr.Use(middleware.Auth(h.cfg, h.users, h.authSessions))
	tmr.POST("/start", h.StartTimer)
	tmr.POST("/stop", h.StopTimer)
	tmr.GET("/status", h.TimerStatus)

	sessions := v1.Group("/sessions")
	sessions.Use(middleware.Auth(h.cfg, h.users, h.authSessions))
	sessions.GET("", h.ListSessions)
	sessions.GET("/stats", h.SessionStats)
	sessions.DELETE("", h.DeleteAllSessions)

	leaderboard := v1.Group("/leaderboard")
	leaderboard.Use(middleware.Auth(h.cfg, h.users, h.authSessions))
	leaderboard.GET("/global", h.GlobalLeaderboard)
	leaderboard.GET("/friends", h.FriendLeaderboard)

	friends := v1.Group("/friends")
	friends.Use(middleware.Auth(h.cfg, h.users, h.authSessions))
	friends.GET("", h.ListFriends)
	friends.GET("/requests", h.ListFriendRequests)
	friends.POST("/requests", h.SendFriendRequest)
	friends.POST("/requests/:id/accept", h.AcceptFriendRequest)
	friends.POST("/requests/:id/decline", h.DeclineFriendRequest)

	fx := v1.Group("/fx")
	fx.GET("/rates", h.FXRates)
}

// currentUser pulls the authenticated profile set by the auth middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("current_user")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_user"})
		return models.User{}, false
	}
	return user, true
}

// fail maps service errors to status codes so handlers stay uniform.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotSignedIn),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrPermissionDenied):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotYourRequest):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrFriendRequestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrAlreadyLinked):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNameEmpty),
		errors.Is(err, service.ErrSelfFriend),
		errors.Is(err, service.ErrAvatarTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, timer.ErrAlreadyRunning),
		errors.Is(err, timer.ErrNotRunning):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
