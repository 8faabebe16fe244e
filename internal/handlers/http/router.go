package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rafabene/orquesta-admin/docs"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/handlers/middleware"
	"github.com/rafabene/orquesta-admin/internal/handlers/ws"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/i18n"
)

// RouterConfig são os parâmetros de ambiente do roteador
type RouterConfig struct {
	Env            string
	BaseURL        string
	AllowedOrigins []string
}

// Router agrupa as dependências das rotas
type Router struct {
	Config        RouterConfig
	I18n          *i18n.Service
	Authenticator middleware.Authenticator
	Authorizer    middleware.Authorizer
	Hub           *ws.Hub
	Logger        ports.Logger

	Auth      *AuthHandler
	Users     *UserHandler
	Roles     *RoleHandler
	Guardians *GuardianHandler
}

// Engine monta o gin.Engine com todas as rotas
func (r *Router) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.Logger))
	engine.Use(middleware.BaseURL(r.Config.BaseURL))
	engine.Use(middleware.NewI18nMiddleware(r.I18n).DetectLanguage())
	engine.Use(middleware.CORS(r.Config.AllowedOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    r.Config.Env,
		})
	})
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := engine.Group("/api/v1")
	v1.POST("/auth/login", r.Auth.Login)

	authed := v1.Group("", middleware.Authenticate(r.Authenticator))
	{
		authed.GET("/auth/me", r.Auth.Me)
		authed.GET("/ws", r.Hub.ServeWS)
		authed.GET("/parentescos", r.Guardians.ListKinships)

		roles := authed.Group("/roles")
		{
			roles.GET("", r.require("roles", "read"), r.Roles.ListRoles)
			roles.GET("/:id", r.require("roles", "read"), r.Roles.GetRole)
			roles.POST("", r.require("roles", "write"), r.Roles.CreateRole)
			roles.PUT("/:id/permissions", r.require("roles", "write"), r.Roles.ReplacePermissions)
		}

		users := authed.Group("/users")
		{
			users.GET("", r.require("users", "read"), r.Users.ListUsers)
			users.GET("/:id", r.require("users", "read"), r.Users.GetUser)
			users.POST("", r.require("users", "write"), r.Users.CreateUser)
			users.PATCH("/:id", r.require("users", "write"), r.Users.UpdateUser)
		}

		students := authed.Group("/students/:id/representatives")
		{
			students.GET("", r.require("representatives", "read"), r.Guardians.ListRepresentatives)
			students.POST("", r.require("representatives", "write"), r.Guardians.Link)
			students.DELETE("/:repId", r.require("representatives", "write"), r.Guardians.Unlink)
		}
	}

	return engine
}

func (r *Router) require(resource, action string) gin.HandlerFunc {
	return middleware.RequirePermission(r.Authorizer, r.Logger, resource, action)
}
