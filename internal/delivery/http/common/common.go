package http_common

import (
	"github.com/sharuys/SecretSanta/internal/model"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

// Notifier pushes lobby events to connected room members.
type Notifier interface {
	UserJoined(roomID model.RoomID, userID model.UserID, name string)
	UserRemoved(roomID model.RoomID, userID model.UserID)
	GameStarted(roomID model.RoomID, pairsCount int)
}

// UserCodeQuery is bound from ?userCode= on every authorized route.
type UserCodeQuery struct {
	UserCode string `form:"userCode" binding:"required,min=1,max=128"`
}

type MemberDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Wishlist string `json:"wishlist"`
	Role     string `json:"role"`
	RoomID   int64  `json:"room_id"`
}

func ConvertFromUser(u model.User) MemberDTO {
	return MemberDTO{
		ID:       int64(u.ID),
		Name:     u.Name,
		Wishlist: u.Wishlist,
		Role:     string(u.Role),
		RoomID:   int64(u.RoomID),
	}
}
