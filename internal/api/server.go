package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/schoolraise/raffle-api/docs"
	v1 "github.com/schoolraise/raffle-api/internal/api/handler/v1"
	"github.com/schoolraise/raffle-api/internal/api/middleware"
	"github.com/schoolraise/raffle-api/internal/config"
	"github.com/schoolraise/raffle-api/internal/repository"
	"github.com/schoolraise/raffle-api/internal/repository/dao"
	"github.com/schoolraise/raffle-api/internal/service"
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

	auditSvc := initAuditService(db)
	userSvc := initUserService(db)
	authHandler := s.initAuthHandler(db, auditSvc)
	userHandler := initUserHandler(userSvc)
	campaignHandler, raffleHandler, publicHandler := s.initRaffleHandlers(db, auditSvc, userSvc)
	s.MountHandlers(authHandler, userHandler, campaignHandler, raffleHandler, publicHandler)

	return s
}

func initAuditService(db *gorm.DB) *service.AuditService {
	auditDAO := dao.NewAuditDAO(db)
	repo := repository.NewAuditRepository(auditDAO)

	return service.NewAuditService(repo)
}

func initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initAuthHandler(db *gorm.DB, auditSvc *service.AuditService) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo, auditSvc)

	return v1.NewAuthHandler(s.Config.API, svc)
}

func initUserHandler(userSvc *service.UserService) *v1.UserHandler {
	return v1.NewUserHandler(userSvc)
}

func (s *Server) initRaffleHandlers(db *gorm.DB, auditSvc *service.AuditService, userSvc *service.UserService) (*v1.CampaignHandler, *v1.RaffleHandler, *v1.PublicHandler) {
	repo := repository.NewRaffleRepository(
		dao.NewCampaignDAO(db),
		dao.NewTicketDAO(db),
		dao.NewStatsDAO(db),
		dao.NewDrawDAO(db),
	)
	svc := service.NewRaffleService(repo, auditSvc, s.Config.Raffle)

	return v1.NewCampaignHandler(svc, userSvc), v1.NewRaffleHandler(svc, auditSvc, userSvc), v1.NewPublicHandler(svc, auditSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	campaignHandler *v1.CampaignHandler,
	raffleHandler *v1.RaffleHandler,
	publicHandler *v1.PublicHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	public := s.Router.Group(basePath)
	{
		public.GET("/public/campaigns/:campaignID", publicHandler.HandleGetPublicCampaign)
	}

	users := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
	}

	campaigns := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		campaigns.GET("/campaigns", campaignHandler.HandleGetCampaigns)
		campaigns.GET("/campaigns/:campaignID", campaignHandler.HandleGetCampaign)
		campaigns.POST("/campaigns", campaignHandler.HandleCreateCampaign)
		campaigns.PUT("/campaigns/:campaignID", campaignHandler.HandleUpdateCampaign)

		campaigns.POST("/campaigns/:campaignID/tickets", raffleHandler.HandleIssueTickets)
		campaigns.GET("/campaigns/:campaignID/tickets", raffleHandler.HandleGetTickets)
		campaigns.GET("/campaigns/:campaignID/tickets/:number", raffleHandler.HandleGetTicketByNumber)
		campaigns.POST("/campaigns/:campaignID/draws", raffleHandler.HandleRunDraw)
		campaigns.GET("/campaigns/:campaignID/draws", raffleHandler.HandleGetDraws)
		campaigns.GET("/campaigns/:campaignID/stats", raffleHandler.HandleGetStats)
		campaigns.POST("/campaigns/:campaignID/stats/rebuild", raffleHandler.HandleRebuildStats)
		campaigns.GET("/campaigns/:campaignID/audit", raffleHandler.HandleGetAuditLog)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "School Raise Raffle API"
	docs.SwaggerInfo.Description = "Raffle campaigns, ticket issuance and seeded draws for school fundraising."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
