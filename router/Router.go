package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"git.sr.ht/~aondrejcak/pos-api/endpoints"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/categories"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/customers"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/locations"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/products"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/sales"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/stock"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/suppliers"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/units"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/users"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/middleware"
)

// New builds the engine with every route. art must be prepared.
func New(art *kernel.AppRuntime) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(art)))
	r.Use(otelgin.Middleware(art.ServiceName))
	r.Use(middleware.TracerMiddleware(art))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found", "error": "route not found"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if art.StorageDriver == "local" {
		r.Static("/storage", art.StoragePath)
	}

	r.POST("/login", art.JWT.LoginHandler)
	r.POST("/register", endpoints.Register)

	authorized := r.Group("/")
	authorized.Use(middleware.Authenticated(art)...)
	authorized.Use(middleware.ActivityLogger())
	{
		authorized.POST("/logout", endpoints.Logout)
		authorized.GET("/me", endpoints.Me)
		authorized.GET("/user", endpoints.Me)
		authorized.POST("/add-default-user", endpoints.AddDefaultUser)

		users.RegisterController(authorized)
		categories.RegisterController(authorized)
		locations.RegisterController(authorized)
		suppliers.RegisterController(authorized)
		units.RegisterController(authorized)
		customers.RegisterController(authorized)
		products.RegisterController(authorized)
		sales.RegisterController(authorized)
		stock.RegisterController(authorized)
	}

	return r
}

func corsConfig(art *kernel.AppRuntime) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           7 * time.Hour * 24,
	}
	if len(art.CorsOrigins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = art.CorsOrigins
	}
	return cfg
}
