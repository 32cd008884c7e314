package http_user

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	http_common "github.com/sharuys/SecretSanta/internal/delivery/http/common"
	http_metrics_middleware "github.com/sharuys/SecretSanta/internal/delivery/http/middleware/metrics"
	"github.com/sharuys/SecretSanta/internal/model"
	usecase_giftee "github.com/sharuys/SecretSanta/internal/usecase/giftee"
	usecase_membership "github.com/sharuys/SecretSanta/internal/usecase/membership"
)

type Controller struct {
	membership *usecase_membership.Usecase
	giftee     *usecase_giftee.Usecase
	notifier   http_common.Notifier
	metrics    *http_metrics_middleware.Metrics

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
	membership *usecase_membership.Usecase,
	giftee *usecase_giftee.Usecase,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		membership: membership,
		giftee:     giftee,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/giftee", c.myGiftee)
		users.DELETE("/:id", c.remove)
	}
}

type RemoveUserResponseDTO struct {
	Status      string                 `json:"status"`
	Message     string                 `json:"message"`
	DeletedUser *http_common.MemberDTO `json:"deleted_user,omitempty"`
}

// @Summary Remove a member
// @Description Removes a member from an open room. Repeating the call reports the user as already deleted.
// @Tags Users
// @Produce json
// @Param id path int true "User id"
// @Param userCode query string true "Admin code"
// @Success 200 {object} RemoveUserResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 403 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Router /users/{id} [delete]
func (c *Controller) remove(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid user id",
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

	result, err := c.membership.RemoveUser(ctx, model.UserID(id), query.UserCode)
	if err != nil {
		c.logger.Error("failed to remove user",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()))
		c.writeError(ctx, err)
		return
	}

	if result.AlreadyDeleted {
		ctx.JSON(http.StatusOK, RemoveUserResponseDTO{
			Status:  "success",
			Message: fmt.Sprintf("User %d already deleted", id),
		})
		return
	}

	c.metrics.UserRemoved()
	c.logger.Info("user removed", slog.Int64("user_id", id), slog.Int64("room_id", int64(result.Deleted.RoomID)))
	if c.notifier != nil {
		c.notifier.UserRemoved(result.Deleted.RoomID, result.Deleted.ID)
	}

	deleted := http_common.ConvertFromUser(*result.Deleted)
	ctx.JSON(http.StatusOK, RemoveUserResponseDTO{
		Status:      "success",
		Message:     fmt.Sprintf("User %d deleted", id),
		DeletedUser: &deleted,
	})
}

type GifteeResponseDTO struct {
	RequesterName  string `json:"requester_name"`
	GifteeName     string `json:"giftee_name"`
	GifteeWishlist string `json:"giftee_wishlist"`
	Budget         string `json:"budget"`
}

// @Summary Giftee of the caller
// @Tags Users
// @Produce json
// @Param userCode query string true "User code"
// @Success 200 {object} GifteeResponseDTO
// @Failure 400 {object} http_common.ErrorResponse "Game has not started"
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /users/giftee [get]
func (c *Controller) myGiftee(ctx *gin.Context) {
	var query http_common.UserCodeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "userCode is required",
		})
		return
	}

	giftee, err := c.giftee.GetMyGiftee(ctx, query.UserCode)
	if err != nil {
		c.logger.Error("failed to get giftee", slog.String("error", err.Error()))
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, GifteeResponseDTO{
		RequesterName:  giftee.RequesterName,
		GifteeName:     giftee.GifteeName,
		GifteeWishlist: giftee.GifteeWishlist,
		Budget:         giftee.Budget,
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
	case errors.Is(err, usecase_membership.ErrInternal),
		errors.Is(err, usecase_giftee.ErrInternal):
		return http.StatusInternalServerError, "internal error"

	case errors.Is(err, usecase_membership.ErrUserNotFound),
		errors.Is(err, usecase_membership.ErrAdminNotFound),
		errors.Is(err, usecase_giftee.ErrUserNotFound),
		errors.Is(err, usecase_giftee.ErrRoomNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, usecase_membership.ErrNotAdmin):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, usecase_membership.ErrRoomMismatch),
		errors.Is(err, usecase_membership.ErrSelfRemovalForbidden),
		errors.Is(err, usecase_membership.ErrRoomClosed),
		errors.Is(err, usecase_giftee.ErrGameNotStarted):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}
