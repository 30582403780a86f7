package router

import (
	"net/http"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/handlers"
	"github.com/wajeehjabribrahim/manajel-store/internal/middleware"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Orders     *handlers.OrderHandler
	Contact    *handlers.ContactHandler
	Auth       *handlers.AuthHandler
	Admin      *handlers.AdminHandler
	Uploads    *handlers.UploadHandler
	Exports    *handlers.ExportHandler
}

type Options struct {
	CORSOrigins []string
	Swagger     bool
}

func Router(h Handlers, auth middleware.Authenticator, opt Options, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	origins := opt.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: origins[0] != "*",
		MaxAge:           12 * time.Hour,
	}))

	if opt.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	user := middleware.RequireUser()
	admin := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api", middleware.Authenticate(auth, log))

	products := api.Group("/products")
	{
		products.GET("", h.Products.List)
		products.GET("/:id", h.Products.Get)
		products.POST("", admin, h.Products.Create)
		products.PUT("/:id", admin, h.Products.Update)
		products.DELETE("/:id", admin, h.Products.Delete)
		products.PUT("/:id/reorder", admin, h.Products.Move)
		products.PUT("/reorder-batch", admin, h.Products.ReorderBatch)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Categories.List)
		categories.POST("", admin, h.Categories.Create)
		categories.PUT("/:id", admin, h.Categories.Update)
		categories.DELETE("/:id", admin, h.Categories.Delete)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", h.Orders.Create)
		orders.GET("/all", admin, h.Orders.ListAll)
		orders.GET("/user", user, h.Orders.ListMine)
		orders.GET("/:id", h.Orders.Get)
		orders.PATCH("/:id", admin, h.Orders.UpdateStatus)
		orders.POST("/:id/cancel", h.Orders.Cancel)
	}

	contact := api.Group("/contact")
	{
		contact.POST("", h.Contact.Submit)
		contact.GET("", admin, h.Contact.List)
		contact.PUT("", admin, h.Contact.SetStatus)
		contact.DELETE("", admin, h.Contact.Delete)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", user, h.Auth.Logout)
		authGroup.GET("/user", user, h.Auth.Profile)
		authGroup.PUT("/user", user, h.Auth.UpdateProfile)
	}

	adminGroup := api.Group("/admin", admin)
	{
		adminGroup.GET("/users", h.Admin.Users)
		adminGroup.POST("/users/reset-password", h.Admin.ResetPassword)
		adminGroup.GET("/orders-stats", h.Admin.OrderStats)
		adminGroup.GET("/users-stats", h.Admin.UserStats)
		adminGroup.GET("/orders-yearly", h.Admin.OrdersYearly)
		adminGroup.GET("/orders/export", h.Exports.Orders)
		adminGroup.GET("/products/export", h.Exports.Products)
	}

	api.POST("/uploads/product-image", admin, h.Uploads.ProductImage)

	return r
}
