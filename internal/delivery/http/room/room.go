package http_room

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	http_common "github.com/sharuys/SecretSanta/internal/delivery/http/common"
	http_metrics_middleware "github.com/sharuys/SecretSanta/internal/delivery/http/middleware/metrics"
	"github.com/sharuys/SecretSanta/internal/model"
	usecase_pairing "github.com/sharuys/SecretSanta/internal/usecase/pairing"
	usecase_room "github.com/sharuys/SecretSanta/internal/usecase/room"
)

type Controller struct {
	rooms    *usecase_room.Usecase
	pairing  *usecase_pairing.Usecase
	notifier http_common.Notifier
	metrics  *http_metrics_middleware.Metrics

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithNotifier(notifier http_common.Notifier) ControllerOption {
	return func(c *Controller) {
		c.notifier = notifier
	}
}

func WithMetrics(metrics *http_metrics_middleware.Metrics) ControllerOption {
	return func(c *Controller) {
		c.metrics = metrics
	}
}

func New(
	rooms *usecase_room.Usecase,
	pairing *usecase_pairing.Usecase,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		rooms:   rooms,
		pairing: pairing,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms")
	{
		rooms.POST("", c.create)
		rooms.POST("/join", c.join)
		rooms.GET("/me", c.me)
		rooms.POST("/:room_id/start", c.start)
	}
}

type CreateRoomRequestDTO struct {
	Name      string `json:"name" binding:"required,min=1,max=64"`
	AdminName string `json:"admin_name" binding:"required,min=1,max=64"`
	Budget    string `json:"budget" binding:"max=64"`
	Wishlist  string `json:"wishlist" binding:"max=512"`
}

type CreateRoomResponseDTO struct {
	RoomID    int64  `json:"room_id"`
	JoinCode  string `json:"join_code"`
	AdminCode string `json:"admin_code"`
}

// @Summary Create a room
// @Description Creates an open room and its admin. The admin code must be kept by the client.
// @Tags Rooms
// @Accept json
// @Produce json
// @Param request body CreateRoomRequestDTO true "Room and admin"
// @Success 201 {object} CreateRoomResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /rooms [post]
func (c *Controller) create(ctx *gin.Context) {
	var req CreateRoomRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	roomID, joinCode, adminCode, err := c.rooms.CreateRoom(ctx, usecase_room.CreateRoomInput{
		Name:      req.Name,
		AdminName: req.AdminName,
		Budget:    req.Budget,
		Wishlist:  req.Wishlist,
	})
	if err != nil {
		c.logger.Error("failed to create room", slog.String("error", err.Error()))
		c.writeError(ctx, err)
		return
	}

	c.metrics.RoomCreated()
	c.logger.Info("room created", slog.Int64("room_id", int64(roomID)))
	ctx.JSON(http.StatusCreated, CreateRoomResponseDTO{
		RoomID:    int64(roomID),
		JoinCode:  joinCode,
		AdminCode: adminCode,
	})
}

type JoinRoomRequestDTO struct {
	JoinCode string `json:"join_code" binding:"required,min=1,max=64"`
	Name     string `json:"name" binding:"required,min=1,max=64"`
	Wishlist string `json:"wishlist" binding:"max=512"`
}

type JoinRoomResponseDTO struct {
	UserID   int64  `json:"user_id"`
	UserCode string `json:"user_code"`
	RoomName string `json:"room_name"`
}

// @Summary Join a room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param request body JoinRoomRequestDTO true "Join code and member"
// @Success 201 {object} JoinRoomResponseDTO
// @Failure 400 {object} http_common.ErrorResponse "Room is closed"
// @Failure 404 {object} http_common.ErrorResponse "Room not found"
// @Failure 500 {object} http_common.ErrorResponse
// @Router /rooms/join [post]
func (c *Controller) join(ctx *gin.Context) {
	var req JoinRoomRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	userID, userCode, roomName, err := c.rooms.JoinRoom(ctx, req.JoinCode, req.Name, req.Wishlist)
	if err != nil {
		c.logger.Error("failed to join room", slog.String("error", err.Error()))
		c.writeError(ctx, err)
		return
	}

	c.metrics.UserJoined()
	c.notifyJoined(ctx, userCode)
	ctx.JSON(http.StatusCreated, JoinRoomResponseDTO{
		UserID:   int64(userID),
		UserCode: userCode,
		RoomName: roomName,
	})
}

func (c *Controller) notifyJoined(ctx context.Context, userCode string) {
	if c.notifier == nil {
		return
	}
	user, err := c.rooms.Member(ctx, userCode)
	if err != nil {
		c.logger.Warn("failed to resolve joined user", slog.String("error", err.Error()))
		return
	}
	c.notifier.UserJoined(user.RoomID, user.ID, user.Name)
}

type RoomInfoResponseDTO struct {
	RoomID   int64                   `json:"room_id"`
	Name     string                  `json:"name"`
	IsClosed bool                    `json:"is_closed"`
	Budget   string                  `json:"budget"`
	JoinCode string                  `json:"join_code,omitempty"`
	Members  []http_common.MemberDTO `json:"members"`
}

// @Summary Room of the caller
// @Description Returns the caller's room with its members. Only the admin sees the join code.
// @Tags Rooms
// @Produce json
// @Param userCode query string true "User code"
// @Success 200 {object} RoomInfoResponseDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Router /rooms/me [get]
func (c *Controller) me(ctx *gin.Context) {
	var query http_common.UserCodeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "userCode is required",
		})
		return
	}

	room, members, err := c.rooms.RoomInfo(ctx, query.UserCode)
	if err != nil {
		c.logger.Error("failed to get room info", slog.String("error", err.Error()))
		c.writeError(ctx, err)
		return
	}

	resp := RoomInfoResponseDTO{
		RoomID:   int64(room.ID),
		Name:     room.Name,
		IsClosed: room.IsClosed,
		Budget:   room.Budget,
		JoinCode: room.JoinCode,
		Members:  make([]http_common.MemberDTO, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, http_common.ConvertFromUser(m))
	}
	ctx.JSON(http.StatusOK, resp)
}

type StartGameResponseDTO struct {
	PairsCount int `json:"pairs_count"`
}

// @Summary Start the game
// @Description Pairs every member with a giftee and closes the room. Admin only.
// @Tags Rooms
// @Produce json
// @Param room_id path int true "Room id"
// @Param userCode query string true "Admin code"
// @Success 200 {object} StartGameResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 403 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse "Game already started"
// @Router /rooms/{room_id}/start [post]
func (c *Controller) start(ctx *gin.Context) {
	roomID, err := strconv.ParseInt(ctx.Param("room_id"), 10, 64)
	if err != nil || roomID <= 0 {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid room id",
		})
		return
	}

	var query http_common.UserCodeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "userCode is required",
		})
		return
	}

	pairsCount, err := c.pairing.StartGame(ctx, model.RoomID(roomID), query.UserCode)
	if err != nil {
		c.logger.Error("failed to start game",
			slog.Int64("room_id", roomID),
			slog.String("error", err.Error()))
		c.writeError(ctx, err)
		return
	}

	c.metrics.GameStarted()
	c.logger.Info("game started", slog.Int64("room_id", roomID), slog.Int("pairs", pairsCount))
	if c.notifier != nil {
		c.notifier.GameStarted(model.RoomID(roomID), pairsCount)
	}
	ctx.JSON(http.StatusOK, StartGameResponseDTO{
		PairsCount: pairsCount,
	})
}

func (c *Controller) writeError(ctx *gin.Context, err error) {
	status, message := statusOf(err)
	ctx.JSON(status, http_common.ErrorResponse{
		Message: message,
	})
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, usecase_room.ErrInternal),
		errors.Is(err, usecase_pairing.ErrInternal):
		return http.StatusInternalServerError, "internal error"

	case errors.Is(err, usecase_room.ErrRoomNotFound),
		errors.Is(err, usecase_room.ErrUserNotFound),
		errors.Is(err, usecase_pairing.ErrRoomNotFound),
		errors.Is(err, usecase_pairing.ErrUserNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, usecase_pairing.ErrNotAdmin):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, usecase_pairing.ErrRoomAlreadyClosed):
		return http.StatusConflict, err.Error()

	case errors.Is(err, usecase_room.ErrRoomClosed),
		errors.Is(err, usecase_pairing.ErrAdminRoomMismatch),
		errors.Is(err, usecase_pairing.ErrInsufficientMembers):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}
