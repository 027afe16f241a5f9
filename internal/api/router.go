package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dbu-council/council-system/internal/api/handler"
	"github.com/dbu-council/council-system/internal/api/middleware"
	"github.com/dbu-council/council-system/internal/core/authz"
	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
	"github.com/dbu-council/council-system/internal/core/service"
	mongostore "github.com/dbu-council/council-system/internal/infrastructure/db/mongo"
	redisstore "github.com/dbu-council/council-system/internal/infrastructure/db/redis"
	"github.com/dbu-council/council-system/internal/pkg/config"
)

// Services bundles the use-case layer so the composition root can reach the
// pieces that run outside the request path (the status sweeper).
type Services struct {
	Auth       ports.AuthService
	Accounts   ports.AccountService
	Elections  ports.ElectionService
	Complaints ports.ComplaintService
	Clubs      ports.ClubService
	News       ports.NewsService
}

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the wired service layer.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, mail ports.MailEnqueuer, log zerolog.Logger) (*echo.Echo, *Services) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("council"))

	// --- Repositories ---
	accountRepo := mongostore.NewAccountRepository(db)
	electionRepo := mongostore.NewElectionRepository(db)
	complaintRepo := mongostore.NewComplaintRepository(db)
	clubRepo := mongostore.NewClubRepository(db)
	newsRepo := mongostore.NewNewsRepository(db)
	tokenStore := redisstore.NewResetTokenStore(rdb, cfg.ResetTokenTTL)

	// --- Services ---
	svc := &Services{
		Auth:       service.NewAuthService(accountRepo, tokenStore, mail, cfg.JWTSecret, cfg.TokenTTL, log),
		Accounts:   service.NewAccountService(accountRepo, log),
		Elections:  service.NewElectionService(electionRepo, accountRepo, log),
		Complaints: service.NewComplaintService(complaintRepo, log),
		Clubs:      service.NewClubService(clubRepo, accountRepo, log),
		News:       service.NewNewsService(newsRepo, log),
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	accountHandler := handler.NewAccountHandler(svc.Accounts)
	electionHandler := handler.NewElectionHandler(svc.Elections)
	complaintHandler := handler.NewComplaintHandler(svc.Complaints)
	clubHandler := handler.NewClubHandler(svc.Clubs)
	newsHandler := handler.NewNewsHandler(svc.News)

	authenticated := middleware.Auth(cfg.JWTSecret, accountRepo)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	v1 := e.Group("/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/me", authHandler.Me, authenticated)
	auth.POST("/change-password", authHandler.ChangePassword, authenticated)

	// --- Account administration (super admin only) ---
	accounts := v1.Group("/accounts", authenticated, middleware.RequireSuperAdmin())
	accounts.POST("", accountHandler.Create)
	accounts.GET("", accountHandler.List)
	accounts.GET("/:id", accountHandler.Get)
	accounts.PATCH("/:id/role", accountHandler.ChangeRole)
	accounts.PATCH("/:id/active", accountHandler.SetActive)
	accounts.POST("/:id/unlock", accountHandler.Unlock)
	accounts.DELETE("/:id", accountHandler.Delete)

	// --- Elections ---
	elections := v1.Group("/elections", authenticated)
	elections.GET("", electionHandler.List)
	elections.GET("/stats", electionHandler.Stats, middleware.RequireAdminTier())
	elections.GET("/:id", electionHandler.Get)
	elections.GET("/:id/timer", electionHandler.Timer)
	elections.POST("", electionHandler.Create, middleware.RequireCapability(authz.CapCreateElections))
	elections.PUT("/:id", electionHandler.Update, middleware.RequireCapability(authz.CapCreateElections))
	elections.DELETE("/:id", electionHandler.Delete, middleware.RequireCapability(authz.CapCreateElections))
	elections.POST("/:id/vote", electionHandler.Vote, middleware.RequireCapability(authz.CapVoteElections))
	elections.POST("/:id/announce", electionHandler.Announce, middleware.RequireCapability(authz.CapCreateElections))
	elections.POST("/refresh-statuses", electionHandler.RefreshStatuses, middleware.RequireSuperAdmin())

	// --- Complaints ---
	complaints := v1.Group("/complaints", authenticated)
	complaints.POST("", complaintHandler.Submit)
	complaints.GET("", complaintHandler.List)
	complaints.GET("/inbox", complaintHandler.Inbox)
	complaints.GET("/stats", complaintHandler.Stats)
	complaints.GET("/:id", complaintHandler.Get)
	complaints.POST("/:id/responses", complaintHandler.Respond)
	complaints.POST("/:id/assign", complaintHandler.Assign, middleware.RequireAdminTier())
	complaints.PATCH("/:id/type", complaintHandler.ChangeType, middleware.RequireAdminTier())
	complaints.POST("/:id/resolve", complaintHandler.Resolve)
	complaints.POST("/:id/close", complaintHandler.Close)
	complaints.POST("/:id/documents", complaintHandler.AttachDocument)

	// --- Clubs ---
	clubs := v1.Group("/clubs", authenticated)
	clubs.GET("", clubHandler.List)
	clubs.GET("/dashboard", clubHandler.Dashboard, middleware.RequireRoles(domain.RoleClubAdmin))
	clubs.GET("/:id", clubHandler.Get)
	clubs.POST("", clubHandler.Create)
	clubs.PUT("/:id", clubHandler.Update)
	clubs.DELETE("/:id", clubHandler.Delete, middleware.RequireRoles(domain.RolePresidentAdmin, domain.RoleSuperAdmin))
	clubs.POST("/:id/admin", clubHandler.AssignAdmin, middleware.RequireRoles(domain.RolePresidentAdmin, domain.RoleSuperAdmin))
	clubs.POST("/:id/join", clubHandler.Join)
	clubs.POST("/:id/members/review", clubHandler.ReviewMember)

	// --- News ---
	news := v1.Group("/news", authenticated)
	news.GET("", newsHandler.List, middleware.RequireCapability(authz.CapViewNews))
	news.GET("/:id", newsHandler.Get, middleware.RequireCapability(authz.CapViewNews))
	news.POST("", newsHandler.Post)
	news.PUT("/:id", newsHandler.Update)
	news.DELETE("/:id", newsHandler.Delete)

	return e, svc
}
