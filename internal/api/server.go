package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/campuspulse/campus-events-api/docs"
	v1 "github.com/campuspulse/campus-events-api/internal/api/handler/v1"
	"github.com/campuspulse/campus-events-api/internal/api/middleware"
	"github.com/campuspulse/campus-events-api/internal/config"
	"github.com/campuspulse/campus-events-api/internal/repository"
	"github.com/campuspulse/campus-events-api/internal/repository/dao"
	"github.com/campuspulse/campus-events-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	analyticsHandler := s.initAnalyticsHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, analyticsHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewEventHandler(svc, uSvc)

	return handler
}

func (s *Server) initAnalyticsHandler(db *gorm.DB) *v1.AnalyticsHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewAnalyticsHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, eventHandler *v1.EventHandler, analyticsHandler *v1.AnalyticsHandler) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	authed := s.Router.Group(basePath, verifyJWT)
	{
		authed.GET("/users/me", userHandler.HandleGetMe)
		authed.PUT("/users/me", userHandler.HandleUpdateMe)
		authed.POST("/events/:eventID/rsvp", eventHandler.HandleRSVP)
		authed.GET("/events/:eventID/rsvp", eventHandler.HandleGetRSVPStatus)
		authed.POST("/events/:eventID/check-in", eventHandler.HandleCheckIn)
		authed.GET("/events/:eventID/check-in", eventHandler.HandleGetCheckInStatus)
		authed.POST("/events/:eventID/feedback", eventHandler.HandleSubmitFeedback)
	}

	// Role gating is centralized here instead of inside each handler.
	managed := s.Router.Group(basePath, verifyJWT, middleware.RequireRole("organizer", "admin"))
	{
		managed.POST("/events", eventHandler.HandleCreateEvent)
		managed.GET("/analytics/attendance", analyticsHandler.HandleAttendanceAnalytics)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campus Events API"
	docs.SwaggerInfo.Description = "Campus events platform: browse events, RSVP, check in, leave feedback."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
