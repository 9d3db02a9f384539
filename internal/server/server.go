package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freshmart/internal/checkout"
	"freshmart/internal/config"
	"freshmart/internal/coupons"
	"freshmart/internal/database"
	"freshmart/internal/store"
)

type Server struct {
	router    *gin.Engine
	db        *database.DB
	store     *store.Store
	checkout  *checkout.Manager
	evaluator *coupons.Evaluator
	auth      config.AuthConfig
}

// NewServer creates a new server instance
func NewServer(db *database.DB, authCfg config.AuthConfig) *Server {
	router := gin.Default()

	st := store.New(db)
	evaluator := coupons.NewEvaluator(st)

	server := &Server{
		router:    router,
		db:        db,
		store:     st,
		checkout:  checkout.NewManager(st, evaluator),
		evaluator: evaluator,
		auth:      authCfg,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)

		api.GET("/products", s.listProducts)
		api.GET("/products/by-name/:name", s.getProductByName)
		api.GET("/products/:id", s.getProduct)

		api.GET("/coupon", s.listCoupons)
		api.GET("/coupon/:code/validate", s.validateCoupon)

		api.POST("/orders", s.placeOrder)
		api.GET("/orders", s.listOrders)
		api.GET("/orders/:id", s.getOrder)
		api.PUT("/orders/:id/cancel", s.cancelOrder)

		admin := api.Group("", s.authenticateToken(), s.requireAdmin())
		{
			admin.POST("/products", s.createProduct)
			admin.PUT("/products/:id", s.updateProduct)

			admin.GET("/coupon/admin", s.listCouponsAdmin)
			admin.POST("/coupon/admin", s.createCoupon)
			admin.PUT("/coupon/admin/:id", s.updateCoupon)

			admin.GET("/admin/actions", s.listAdminActions)
		}
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health
	if err := s.db.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "freshmart",
		"version": "0.1.0",
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
