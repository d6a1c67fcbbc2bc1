// Package router wires HTTP routes to handlers and capability gates.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jondawson917/snappycamper/internal/auth"
	"github.com/jondawson917/snappycamper/internal/config"
	"github.com/jondawson917/snappycamper/internal/handler"
	"github.com/jondawson917/snappycamper/internal/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Cfg        config.Config
	DB         *sql.DB
	Redis      *redis.Client // may be nil; limiter and cache become no-ops
	Tokens     *auth.TokenService
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Camps      *handler.CampHandler
	Facilities *handler.FacilityHandler
}

// Register sets up the full route table. Every route passes through the
// optional Authenticate step so handlers and gates can read the verified
// claims; endpoints that require identity add RequireAdmin or
// RequireSelfOrAdmin on top. Anonymous browse endpoints additionally get the
// response cache.
func Register(e *echo.Echo, d Deps) {
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), d.Redis))
	e.Use(middleware.Authenticate(d.Tokens))

	e.GET("/healthz", handler.Health(d.DB))

	// Session endpoints
	ag := e.Group("/auth")
	ag.POST("/register", d.Auth.Register)
	ag.POST("/token", d.Auth.Token)

	// Users: listing and creation are admin-only, the rest is self-or-admin.
	ug := e.Group("/users")
	ug.GET("", d.Users.List, middleware.RequireAdmin())
	ug.POST("", d.Users.Create, middleware.RequireAdmin())
	ug.GET("/:username", d.Users.Get, middleware.RequireSelfOrAdmin("username"))
	ug.PATCH("/:username", d.Users.Update, middleware.RequireSelfOrAdmin("username"))
	ug.DELETE("/:username", d.Users.Delete, middleware.RequireSelfOrAdmin("username"))
	ug.POST("/:username/camps/:parkCode", d.Users.Reserve, middleware.RequireSelfOrAdmin("username"))
	ug.DELETE("/:username/camps/:parkCode", d.Users.Unreserve, middleware.RequireSelfOrAdmin("username"))

	// Camps: anonymous browsing, admin-only mutation.
	cache := middleware.CacheResponses(config.LoadCacheConfig(), d.Redis)
	cg := e.Group("/camps")
	cg.GET("", d.Camps.List, cache)
	cg.GET("/:parkCode", d.Camps.Get, cache)
	cg.POST("", d.Camps.Create, middleware.RequireAdmin())
	cg.PATCH("/:parkCode", d.Camps.Update, middleware.RequireAdmin())
	cg.DELETE("/:parkCode", d.Camps.Delete, middleware.RequireAdmin())

	// Facilities follow the same shape as camps.
	fg := e.Group("/facilities")
	fg.GET("", d.Facilities.List, cache)
	fg.GET("/:parkCode", d.Facilities.Get, cache)
	fg.POST("", d.Facilities.Create, middleware.RequireAdmin())
	fg.PATCH("/:parkCode", d.Facilities.Update, middleware.RequireAdmin())
	fg.DELETE("/:parkCode", d.Facilities.Delete, middleware.RequireAdmin())
}
