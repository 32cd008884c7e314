package http_init

import (
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
}

// Middlewares apply to every route, unmatched ones included.
func NewControllerPool(middlewares ...gin.HandlerFunc) *ControllerPool {
	engine := gin.Default()
	engine.Use(middlewares...)
	rg := engine.Group(apiPrefix)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
	}
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
}

func (pool *ControllerPool) Handler() http.Handler {
	return pool.engine
}

func (pool *ControllerPool) RunAll(host string, port string) {
	if err := pool.engine.Run(net.JoinHostPort(host, port)); err != nil {
		log.Fatalf("failed to run HTTP server: %v", err)
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}
