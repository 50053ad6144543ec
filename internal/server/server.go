package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petmart/petmart/internal/auth"
	"github.com/petmart/petmart/internal/models"
	"github.com/petmart/petmart/internal/search"
	"github.com/petmart/petmart/internal/store"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// UserStore is the user repository surface the handlers consume.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, password string) (*models.User, error)
	Search(ctx context.Context, q store.UserQuery) (search.Result[models.User], error)
}

// ProductStore is the product repository surface the handlers consume.
type ProductStore interface {
	Create(ctx context.Context, in store.ProductInput) (*models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	AdminSearch(ctx context.Context, q store.AdminProductQuery) (search.Result[models.Product], error)
	CatalogSearch(ctx context.Context, q store.CatalogQuery) (search.Result[models.Product], error)
}

// OrderStore is the order repository surface the handlers consume.
type OrderStore interface {
	Create(ctx context.Context, order models.Order) (*models.Order, error)
	ForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Pay(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error)
	SetDeliveryStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	Search(ctx context.Context, q store.OrderQuery) (search.Outcome[models.Order], error)
	ExpandOwners(ctx context.Context, orders []models.Order) ([]models.ExpandedOrder, error)
}

type Server struct {
	router   *gin.Engine
	db       HealthChecker
	users    UserStore
	products ProductStore
	orders   OrderStore
	tokens   *auth.Tokens
}

// NewServer creates a new server instance
func NewServer(db HealthChecker, users UserStore, products ProductStore, orders OrderStore, tokens *auth.Tokens) *Server {
	router := gin.Default()

	server := &Server{
		router:   router,
		db:       db,
		users:    users,
		products: products,
		orders:   orders,
		tokens:   tokens,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
	}

	authed := s.tokens.RequireAuth()

	users := api.Group("/users")
	{
		users.POST("/signin", s.signin)
		users.POST("/signup", s.signup)
		users.PUT("/profile", authed, s.updateProfile)
		users.POST("/searchUserList", authed, s.searchUserList)
		users.POST("/createUser", authed, s.createUser)
	}

	products := api.Group("/products")
	{
		products.GET("", s.listProducts)
		products.GET("/search", s.catalogSearch)
		products.GET("/categories", s.listCategories)
		products.GET("/slug/:slug", s.productBySlug)
		products.GET("/:id", s.productByID)
		products.POST("/searchProductList", authed, s.searchProductList)
		products.POST("/createProduct", authed, s.createProduct)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", authed, s.createOrder)
		orders.GET("/mine", authed, s.myOrders)
		orders.PUT("/updateDeliveryStatus", authed, s.updateDeliveryStatus)
		orders.GET("/:id", authed, s.orderByID)
		orders.PUT("/:id/pay", authed, s.payOrder)
		orders.POST("/searchOrderList", authed, s.searchOrderList)
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "petmart",
		"version": "0.1.0",
	})
}

// Handler exposes the route tree as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
