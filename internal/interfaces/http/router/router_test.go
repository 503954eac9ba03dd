package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func pong(c *gin.Context) { c.String(http.StatusOK, c.Request.Method+" pong") }

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.APIPrefix())
	assert.Empty(t, r.Routes())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.APIPrefix())
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	var hits int
	r := NewRouter(engine, WithAPIMiddleware(func(c *gin.Context) {
		hits++
		c.Next()
	}))
	r.Register(NewDomainGroup("catalog", "/catalog").GET("/ping", pong))
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/catalog/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET pong", w.Body.String())
	assert.Equal(t, 1, hits)

	w = serve(engine, http.MethodGet, "/catalog/ping")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("cart", "/cart").
		GET("", pong).
		DELETE("", pong).
		POST("/items", pong).
		PUT("/items/:id", pong).
		PATCH("/items/:id", pong).
		Handle(http.MethodOptions, "/items", pong)

	assert.Equal(t, "cart", group.Name())
	assert.Equal(t, "/cart", group.Prefix())

	NewRouter(engine).Register(group).Setup()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodDelete, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart/items"},
		{http.MethodPut, "/api/v1/cart/items/1"},
		{http.MethodPatch, "/api/v1/cart/items/1"},
		{http.MethodOptions, "/api/v1/cart/items"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method+" pong", w.Body.String())
		})
	}
}

func TestDomainGroup_MiddlewareScope(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }

	admin := NewDomainGroup("admin", "/admin").Use(deny)
	admin.Group("admin-orders", "/orders").GET("", pong)

	NewRouter(engine).
		Register(NewDomainGroup("orders", "/orders").POST("", pong)).
		Register(admin).
		Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/admin/orders").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/orders").Code)
}

func TestRouter_Routes(t *testing.T) {
	admin := NewDomainGroup("admin", "/admin")
	admin.Group("admin-orders", "/orders").
		GET("", pong).
		PATCH("/:id/status", pong)

	r := NewRouter(gin.New()).
		Register(NewDomainGroup("orders", "/orders").POST("", pong)).
		Register(admin)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, RouteInfo{Method: http.MethodGet, Path: "/api/v1/admin/orders", Group: "admin-orders"}, routes[0])
	assert.Equal(t, RouteInfo{Method: http.MethodPatch, Path: "/api/v1/admin/orders/:id/status", Group: "admin-orders"}, routes[1])
	assert.Equal(t, RouteInfo{Method: http.MethodPost, Path: "/api/v1/orders", Group: "orders"}, routes[2])
}
