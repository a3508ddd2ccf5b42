package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shopfront/internal/metrics"
	"shopfront/internal/service"
	"shopfront/internal/storage"
)

const (
	authTokenHeader = "auth-token"
	requestIDHeader = "X-Request-ID"
	uploadField     = "product"
	popularCategory = "women"
)

// TokenVerifier resolves a session token to the user id it carries.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Config lists the collaborators a Handler serves requests with.
type Config struct {
	Auth     service.AuthService
	Carts    service.CartService
	Catalog  service.CatalogService
	Media    service.MediaService
	Store    storage.Service
	Verifier TokenVerifier
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	carts    service.CartService
	catalog  service.CatalogService
	media    service.MediaService
	store    storage.Service
	verifier TokenVerifier
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	return &Handler{
		auth:     cfg.Auth,
		carts:    cfg.Carts,
		catalog:  cfg.Catalog,
		media:    cfg.Media,
		store:    cfg.Store,
		verifier: cfg.Verifier,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), h.metrics.Middleware(), corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Root")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	router.POST("/upload", h.upload)
	router.GET(service.ImagePath+"/:filename", h.image)

	router.POST("/signup", h.signup)
	router.POST("/login", h.login)

	router.GET("/allproducts", h.allProducts)
	router.GET("/newcollections", h.newCollections)
	router.GET("/popularinwomen", h.popularIn(popularCategory))
	router.GET("/popular/:category", h.popularIn(""))
	router.POST("/addproduct", h.addProduct)
	router.POST("/removeproduct", h.removeProduct)

	cart := router.Group("/", h.requireUser())
	{
		cart.POST("/addtocart", h.addToCart)
		cart.POST("/removefromcart", h.removeFromCart)
		cart.POST("/getcart", h.getCart)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, auth-token, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// internalError reports a storage failure. The cause is kept on the gin
// context for the request log, not sent to the client.
func (h *Handler) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "errors": "internal server error"})
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": err.Error()})
}
