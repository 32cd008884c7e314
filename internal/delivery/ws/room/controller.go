package ws_room

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	http_common "github.com/sharuys/SecretSanta/internal/delivery/http/common"
	usecase_room "github.com/sharuys/SecretSanta/internal/usecase/room"
)

type Controller struct {
	hub      *Hub
	rooms    *usecase_room.Usecase
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewController(hub *Hub, rooms *usecase_room.Usecase) *Controller {
	return &Controller{
		hub:   hub,
		rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: hub.logger,
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rooms/ws", c.connect)
}

// @Summary Lobby events
// @Description Upgrades to a WebSocket that receives USER_JOINED, USER_REMOVED and GAME_STARTED for the caller's room.
// @Tags Rooms
// @Param userCode query string true "User code"
// @Router /rooms/ws [get]
func (c *Controller) connect(ctx *gin.Context) {
	var query http_common.UserCodeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "userCode is required",
		})
		return
	}

	user, err := c.rooms.Member(ctx, query.UserCode)
	if err != nil {
		if errors.Is(err, usecase_room.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to resolve ws user", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade connection", slog.String("error", err.Error()))
		return
	}

	client := NewClient(c.hub, conn, user)
	c.hub.RegisterClient(client)

	go c.hub.StartClientWriting(client)
	go c.hub.StartClientReading(client)
}
