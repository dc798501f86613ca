package routes

import (
	"storefront/controllers"
	"storefront/middleware"
	"storefront/security"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Auth       *controllers.AuthController
	Users      *controllers.UserController
	Products   *controllers.ProductController
	Carts      *controllers.CartController
	Orders     *controllers.OrderController
	Reports    *controllers.ReportController
	ImageProxy *controllers.ImageProxyController
}

// RegisterRoutes mounts all route groups. Every authenticated group goes
// through AuthMiddleware, which consults the token blacklist first.
func RegisterRoutes(r *gin.Engine, ctrl Controllers, tokens *services.TokenService, blacklist *security.TokenBlacklist) {
	auth := middleware.AuthMiddleware(tokens, blacklist)
	adminOnly := middleware.RequireRole("ADMIN")

	authRoutes := r.Group("/auth")
	authRoutes.POST("/register", ctrl.Auth.Register)
	authRoutes.POST("/login", ctrl.Auth.Login)
	authRoutes.POST("/logout", auth, ctrl.Auth.Logout)

	userRoutes := r.Group("/users")
	userRoutes.Use(auth)
	userRoutes.GET("/me", ctrl.Users.Me)
	userRoutes.GET("", adminOnly, ctrl.Users.ListUsers)
	userRoutes.DELETE("/:id", adminOnly, ctrl.Users.DeleteUser)

	productRoutes := r.Group("/products")
	productRoutes.GET("", ctrl.Products.ListProducts)
	productRoutes.GET("/:id", ctrl.Products.GetProduct)
	productRoutes.POST("", auth, adminOnly, ctrl.Products.CreateProduct)
	productRoutes.PUT("/:id", auth, adminOnly, ctrl.Products.UpdateProduct)
	productRoutes.DELETE("/:id", auth, adminOnly, ctrl.Products.DeleteProduct)

	cartRoutes := r.Group("/cart")
	cartRoutes.Use(auth)
	cartRoutes.GET("", ctrl.Carts.GetCart)
	cartRoutes.POST("/add", ctrl.Carts.AddItem)
	cartRoutes.PUT("/update", ctrl.Carts.UpdateItem)
	cartRoutes.DELETE("/remove", ctrl.Carts.RemoveItem)
	cartRoutes.DELETE("/clear", ctrl.Carts.ClearCart)

	orderRoutes := r.Group("/orders")
	orderRoutes.Use(auth)
	orderRoutes.POST("/create", ctrl.Orders.CreateOrder)
	orderRoutes.POST("/checkout/:userId", ctrl.Orders.CheckoutLegacy)
	orderRoutes.GET("/my", ctrl.Orders.MyOrders)
	orderRoutes.GET("", adminOnly, ctrl.Orders.AllOrders)
	orderRoutes.GET("/:id", ctrl.Orders.GetOrder)
	orderRoutes.PUT("/:id/status", adminOnly, ctrl.Orders.UpdateStatus)
	orderRoutes.DELETE("/:id", adminOnly, ctrl.Orders.DeleteOrder)

	reportRoutes := r.Group("/admin/reports")
	reportRoutes.Use(auth, adminOnly)
	reportRoutes.GET("/sales", ctrl.Reports.SalesSummary)
	reportRoutes.GET("/top-products", ctrl.Reports.TopProducts)
	reportRoutes.GET("/low-stock", ctrl.Reports.LowStock)

	r.GET("/images/proxy", ctrl.ImageProxy.Proxy)
}
