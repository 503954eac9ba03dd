package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"github.com/vetcollars/storefront/internal/infrastructure/logger"
	"github.com/vetcollars/storefront/internal/infrastructure/storage"
	"github.com/vetcollars/storefront/internal/interfaces/http/handler"
	"github.com/vetcollars/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by New
type Handlers struct {
	Catalog      *handler.CatalogHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Auth         *handler.AuthHandler
	AdminProduct *handler.AdminProductHandler
	Analytics    *handler.AnalyticsHandler
	System       *handler.SystemHandler
}

// Options configures the HTTP surface
type Options struct {
	HTTP      config.HTTPConfig
	Session   config.SessionConfig
	Telemetry config.TelemetryConfig
	Auth      middleware.JWTMiddlewareConfig
	// UploadDir is served under storage.LocalURLPrefix when set
	UploadDir string
	Logger    *zap.Logger
}

// Server is the assembled gin engine plus the rate limiters it owns
type Server struct {
	Engine   *gin.Engine
	Router   *Router
	limiters []*middleware.RateLimiter
}

// New builds the engine with the storefront and back office routes.
//
// Every request passes recovery, request id, session, tracing, access log,
// security headers and CORS. API routes additionally get a body limit and
// per client rate limits; order submission and login get stricter ones.
func New(opts Options, h Handlers) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Session(opts.Session),
		middleware.Tracing(opts.Telemetry.ServiceName, opts.Telemetry.Enabled),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(opts.HTTP)),
	)

	s := &Server{Engine: engine}

	var apiMiddleware []gin.HandlerFunc
	if opts.HTTP.RateLimitEnabled {
		apiMiddleware = append(apiMiddleware, s.limit(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow))
	}
	checkoutLimit := s.limit(opts.HTTP.CheckoutRateRequests, opts.HTTP.CheckoutRateWindow)
	authLimit := s.limit(opts.HTTP.AuthRateLimitRequests, opts.HTTP.AuthRateLimitWindow)
	bodyLimit := middleware.BodyLimit(opts.HTTP.MaxBodySize)
	adminAuth := middleware.AdminAuth(opts.Auth)

	r := NewRouter(engine, WithAPIMiddleware(apiMiddleware...))

	r.Register(catalogRoutes(h.Catalog))
	r.Register(cartRoutes(h.Cart, bodyLimit, checkoutLimit))
	r.Register(NewDomainGroup("orders", "/orders").
		POST("", bodyLimit, checkoutLimit, h.Order.Submit))
	r.Register(NewDomainGroup("auth", "/auth").
		POST("/login", bodyLimit, authLimit, h.Auth.Login))
	r.Register(adminRoutes(h, adminAuth, bodyLimit, middleware.BodyLimit(opts.HTTP.MaxUploadSize)))
	r.Setup()
	s.Router = r

	if h.System != nil {
		engine.GET("/health", h.System.Ready)
		engine.GET("/health/live", h.System.Live)
	}
	if opts.UploadDir != "" {
		engine.Static(storage.LocalURLPrefix, opts.UploadDir)
	}

	return s
}

// Close stops the rate limiter cleanup loops
func (s *Server) Close() {
	for _, l := range s.limiters {
		l.Stop()
	}
}

func (s *Server) limit(requests int, window time.Duration) gin.HandlerFunc {
	if requests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := middleware.NewRateLimiter(requests, window)
	s.limiters = append(s.limiters, l)
	return middleware.RateLimit(l)
}

func catalogRoutes(h *handler.CatalogHandler) *DomainGroup {
	return NewDomainGroup("catalog", "/catalog").
		GET("/products", h.SearchProducts).
		GET("/products/:id", h.GetProduct).
		GET("/categories", h.Categories)
}

func cartRoutes(h *handler.CartHandler, bodyLimit, checkoutLimit gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("cart", "/cart").
		Use(bodyLimit).
		GET("", h.Get).
		DELETE("", h.Clear).
		POST("/items", h.AddItem).
		PUT("/items/:productId/sizes/:size", h.UpdateQuantity).
		DELETE("/items/:productId", h.RemoveItem).
		POST("/checkout", checkoutLimit, h.Checkout)
}

// adminRoutes mounts the back office. Image upload and CSV import take the
// larger upload limit, so body limits are set per route.
func adminRoutes(h Handlers, adminAuth, bodyLimit, uploadLimit gin.HandlerFunc) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(adminAuth)

	admin.Group("admin-auth", "/auth").
		Use(bodyLimit).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me)

	admin.Group("admin-products", "/products").
		GET("", h.AdminProduct.List).
		POST("", bodyLimit, h.AdminProduct.Create).
		POST("/images", uploadLimit, h.AdminProduct.UploadImage).
		POST("/import", uploadLimit, h.AdminProduct.ImportCSV).
		GET("/:id", h.AdminProduct.Get).
		PUT("/:id", bodyLimit, h.AdminProduct.Update).
		DELETE("/:id", h.AdminProduct.Delete)

	admin.Group("admin-orders", "/orders").
		Use(bodyLimit).
		GET("", h.Order.List).
		GET("/:id", h.Order.Get).
		PATCH("/:id/status", h.Order.UpdateStatus)

	admin.Group("admin-analytics", "/analytics").
		GET("", h.Analytics.Report)

	return admin
}
