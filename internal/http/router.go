package http

import (
	"html/template"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/rmacedo/blogapp/internal/http/handlers"
	"github.com/rmacedo/blogapp/internal/http/middlewares"
	"github.com/rmacedo/blogapp/internal/observability"
	"github.com/rmacedo/blogapp/internal/session"
	"github.com/rmacedo/blogapp/web"
)

// Deps carries the explicit store handles and collaborators the routes
// need; nothing is resolved from globals.
type Deps struct {
	Env      string
	Log      *slog.Logger
	Sessions *session.Manager
	Prom     *observability.Prom

	Users      handlers.UserStore
	Categories handlers.CategoriesStore
	Posts      handlers.PostsStore

	PingDB       func() error
	PingSessions func() error

	MetricsHandler nethttp.Handler
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.tmpl")))

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(otelgin.Middleware("blogapp"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health + metrics

	health := handlers.NewHealthHandler(d.PingDB, d.PingSessions)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	// handlers

	authHandler := handlers.NewAuthHandler(d.Users, d.Sessions, d.Log, d.Prom)
	categoriesHandler := handlers.NewCategoriesHandler(d.Categories, d.Posts, d.Sessions, d.Log)
	postsHandler := handlers.NewPostsHandler(d.Posts, d.Categories, d.Sessions, d.Log)
	adminHandler := handlers.NewAdminHandler(d.Sessions)

	// public pages

	r.GET("/", postsHandler.Home)
	r.GET("/postagem/:slug", postsHandler.ShowBySlug)
	r.GET("/categorias", categoriesHandler.ListPublic)
	r.GET("/categorias/:slug", categoriesHandler.ShowBySlug)

	// user registration and session login

	limiter := middlewares.NewRateLimiter(10, time.Minute)

	usuarios := r.Group("/usuarios")
	usuarios.GET("/registro", authHandler.ShowRegister)
	usuarios.POST("/registro", limiter.ByIP(), authHandler.Register)
	usuarios.GET("/login", authHandler.ShowLogin)
	usuarios.POST("/login", limiter.ByIP(), authHandler.Login)
	usuarios.GET("/logout", authHandler.Logout)

	// back-office, admin only

	gate := middlewares.NewAdminGate(d.Sessions, d.Users)

	admin := r.Group("/admin", gate.RequireAdmin())
	admin.GET("", adminHandler.Index)

	admin.GET("/categorias", categoriesHandler.ListAdmin)
	admin.GET("/categorias/add", categoriesHandler.ShowAddForm)
	admin.POST("/categorias/nova", categoriesHandler.Create)
	admin.GET("/categorias/edit/:id", categoriesHandler.ShowEditForm)
	admin.POST("/categorias/edit", categoriesHandler.Update)
	admin.POST("/categorias/deletar", categoriesHandler.Delete)

	admin.GET("/postagens", postsHandler.ListAdmin)
	admin.GET("/postagens/add", postsHandler.ShowAddForm)
	admin.POST("/postagens/nova", postsHandler.Create)
	admin.GET("/postagens/edit/:id", postsHandler.ShowEditForm)
	admin.POST("/postagem/edit", postsHandler.Update)
	admin.POST("/postagem/deletar", postsHandler.Delete)

	return r
}
