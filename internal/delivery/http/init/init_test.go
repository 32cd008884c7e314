package http_init

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type HttpInitSuite struct {
	suite.Suite
}

type pingController struct{}

func (pingController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func (s *HttpInitSuite) TestControllerPool(t provider.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	hits := 0
	pool := NewControllerPool(func(c *gin.Context) {
		hits++
		c.Next()
	})
	pool.Add(pingController{})
	pool.Register()

	w := httptest.NewRecorder()
	pool.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	pool.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 2, hits)
}

func TestHttpInitSuite(t *testing.T) {
	suite.RunSuite(t, new(HttpInitSuite))
}
