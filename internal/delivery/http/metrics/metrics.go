package http_metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controller struct {
	gatherer prometheus.Gatherer
}

func New(gatherer prometheus.Gatherer) *Controller {
	return &Controller{
		gatherer: gatherer,
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})))
}
