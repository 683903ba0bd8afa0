package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	checkoutsvc "velora_back_end/internal/checkout"
	"velora_back_end/internal/handlers/admin"
	"velora_back_end/internal/handlers/checkout"
	"velora_back_end/internal/handlers/product"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/services"
	"velora_back_end/internal/store"
)

// RegisterRoutes câble le service du tunnel de commande sur les stores
// ScyllaDB/Redis et monte toute la surface HTTP.
func RegisterRoutes(r *gin.Engine) {
	allowedOrigins := []string{"http://localhost:3000"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	scylla := store.NewScyllaStore()
	checkout.Init(checkoutsvc.NewService(
		scylla, scylla, scylla, scylla,
		store.NewRedisTotalsStore(),
		services.NewEmailNotifier(),
	))

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// --- Catalogue (public) ---
	api.GET("/products/search", middleware.SearchRateLimit(), product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)

	// --- Routes authentifiées ---
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())

	// Panier
	auth.GET("/cart", user.GetCart)
	auth.GET("/cart/ws", user.CartWebSocket)
	auth.POST("/cart/add", middleware.CartRateLimit(), user.AddToCart)
	auth.PUT("/cart/:productId", user.UpdateCartItem)
	auth.DELETE("/cart/clear", user.ClearCart)
	auth.DELETE("/cart/:productId", user.RemoveFromCart)

	// Tunnel de commande
	auth.POST("/checkout/promo", middleware.PromoRateLimit(), checkout.ApplyPromo)
	auth.GET("/checkout/totals", checkout.GetTotals)
	auth.POST("/checkout/order", checkout.CreateOrder)
	auth.GET("/checkout/order/:id", checkout.GetOrder)
	auth.POST("/checkout/shipping", checkout.RecordShipping)
	auth.POST("/checkout/payment", middleware.PaymentRateLimit(), checkout.RecordPayment)

	// Historique de commandes
	auth.GET("/orders", user.GetMyOrders)
	auth.GET("/orders/:id", user.GetOrderByID)
	auth.GET("/orders/:id/invoice", user.GetOrderInvoice)

	// --- Gestion des codes promo (sales managers et admins) ---
	promos := auth.Group("/promos")
	promos.Use(middleware.RequireSalesManager)
	promos.GET("", admin.GetAllPromos)
	promos.POST("", admin.CreatePromo)
	promos.PUT("/:id", admin.UpdatePromo)
	promos.DELETE("/:id", admin.DeletePromo)

	// --- Administration ---
	adm := auth.Group("/admin")
	adm.Use(middleware.RequireAdmin)
	adm.GET("/orders", admin.GetAllOrders)
	adm.GET("/stats/orders", admin.GetOrderStats)
	adm.GET("/stats/roles", admin.GetRoleDistribution)
	adm.GET("/users", admin.GetAllUsers)
	adm.PUT("/users/:id/role", admin.UpdateUserRole)
	adm.DELETE("/users/:id", admin.DeleteUser)
	adm.POST("/products", product.CreateProduct)
	adm.PUT("/products/:id", product.UpdateProduct)
}
