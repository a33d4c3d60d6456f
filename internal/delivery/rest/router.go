package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StorefrontService/internal/models"
	"StorefrontService/internal/service"
	"StorefrontService/pkg/server"
)

// RouterConfig - параметры REST слоя
type RouterConfig struct {
	Mode           string
	AllowedOrigins []string
}

// NewRouter собирает gin роутер: статический /api/data и CRUD под /api/v1
func NewRouter(svc *service.Services, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	// Recovery внутри трассировки и метрик, чтобы паника учитывалась как 500
	r.Use(
		server.TracingMiddleware(logger),
		server.MetricsMiddleware(),
		gin.Recovery(),
		cors.New(corsConfig(cfg.AllowedOrigins)),
	)

	r.GET("/api/data", GetData)

	v1 := r.Group("/api/v1")
	registerUsers(v1, svc, logger)
	registerCatalog(v1, svc, logger)
	registerOrders(v1, svc, logger)

	promo := newResource(svc.PromoCodes, logger)
	promo.registerRoot(v1, "/promo-codes")

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", server.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", server.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func registerUsers(g *gin.RouterGroup, svc *service.Services, logger *zap.Logger) {
	users := newResource(svc.Users.Entities, logger)
	handler := NewUserHandler(svc.Users, logger)

	g.GET("/users", users.list)
	g.POST("/users", handler.Create)
	g.GET("/users/:id", users.get)
	g.PUT("/users/:id", handler.Update)
	g.DELETE("/users/:id", users.remove)

	cards := newResource(svc.Cards, logger)
	g.GET("/users/:id/cards", cards.children(svc.Users, "user_id"))
	g.POST("/users/:id/cards", cards.create(func(c *models.UserCard, id uint) { c.UserID = id }))
	cards.register(g, "/cards")

	addresses := newResource(svc.Addresses, logger)
	g.GET("/users/:id/addresses", addresses.children(svc.Users, "user_id"))
	g.POST("/users/:id/addresses", addresses.create(func(a *models.UserAddress, id uint) { a.UserID = id }))
	addresses.register(g, "/addresses")

	carts := newResource(svc.Carts, logger)
	g.GET("/users/:id/carts", carts.children(svc.Users, "user_id"))
	g.POST("/users/:id/carts", carts.create(func(c *models.Cart, id uint) { c.UserID = id }))
	carts.register(g, "/carts")

	g.GET("/users/:id/orders", newResource(svc.Orders.Entities, logger).children(svc.Users, "user_id"))
	g.GET("/users/:id/ratings", newResource(svc.Ratings, logger).children(svc.Users, "user_id"))
	g.GET("/users/:id/comments", newResource(svc.Comments, logger).children(svc.Users, "user_id"))
	g.GET("/users/:id/likes", newResource(svc.Likes, logger).children(svc.Users, "user_id"))
}

func registerCatalog(g *gin.RouterGroup, svc *service.Services, logger *zap.Logger) {
	categories := newResource(svc.Categories, logger)
	categories.registerRoot(g, "/categories")

	products := newResource(svc.Products, logger)
	products.registerRoot(g, "/products")
	g.GET("/categories/:id/products", products.children(svc.Categories, "category_id"))
	g.POST("/categories/:id/products", products.create(func(p *models.Product, id uint) { p.CategoryID = id }))

	colors := newResource(svc.Colors, logger)
	g.GET("/products/:id/colors", colors.children(svc.Products, "product_id"))
	g.POST("/products/:id/colors", colors.create(func(c *models.ProductColor, id uint) { c.ProductID = id }))
	colors.register(g, "/colors")

	sizes := newResource(svc.Sizes, logger)
	g.GET("/products/:id/sizes", sizes.children(svc.Products, "product_id"))
	g.POST("/products/:id/sizes", sizes.create(func(s *models.ProductSize, id uint) { s.ProductID = id }))
	sizes.register(g, "/sizes")

	images := newResource(svc.Images, logger)
	g.GET("/products/:id/images", images.children(svc.Products, "product_id"))
	g.POST("/products/:id/images", images.create(func(i *models.ProductImage, id uint) { i.ProductID = id }))
	images.register(g, "/images")

	ratings := newResource(svc.Ratings, logger)
	g.GET("/products/:id/ratings", ratings.children(svc.Products, "product_id"))
	g.POST("/products/:id/ratings", ratings.create(func(r *models.ProductRating, id uint) { r.ProductID = id }))
	ratings.register(g, "/ratings")

	comments := newResource(svc.Comments, logger)
	g.GET("/products/:id/comments", comments.children(svc.Products, "product_id"))
	g.POST("/products/:id/comments", comments.create(func(c *models.ProductComment, id uint) { c.ProductID = id }))
	comments.register(g, "/comments")

	likes := newResource(svc.Likes, logger)
	g.GET("/products/:id/likes", likes.children(svc.Products, "product_id"))
	g.POST("/products/:id/likes", likes.create(func(l *models.Like, id uint) { l.ProductID = id }))
	likes.register(g, "/likes")
}

func registerOrders(g *gin.RouterGroup, svc *service.Services, logger *zap.Logger) {
	items := newResource(svc.CartItems.Entities, logger)
	itemHandler := NewCartItemHandler(svc.CartItems, logger)
	g.GET("/carts/:id/items", items.children(svc.Carts, "cart_id"))
	g.POST("/carts/:id/items", items.create(func(i *models.CartItem, id uint) { i.CartID = id }))
	g.PUT("/carts/:id/items/:product_id", itemHandler.SetQuantity)
	items.register(g, "/cart-items")

	orders := newResource(svc.Orders.Entities, logger)
	orderHandler := NewOrderHandler(svc.Orders, logger)
	g.GET("/orders", orders.list)
	g.POST("/orders", orders.create(nil))
	g.GET("/orders/:id", orders.get)
	g.PUT("/orders/:id", orderHandler.UpdateStatus)
	g.DELETE("/orders/:id", orders.remove)
}

// NewHTTPServer создает HTTP сервер REST API
func NewHTTPServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
