package infra_postgres_entity

import (
	"database/sql"

	"github.com/sharuys/SecretSanta/internal/model"
)

type roomDTO struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	IsClosed bool   `db:"is_closed"`
	Budget   string `db:"budget"`
	JoinCode string `db:"join_code"`
}

func (r roomDTO) toModel() model.Room {
	return model.Room{
		ID:       model.RoomID(r.ID),
		Name:     r.Name,
		IsClosed: r.IsClosed,
		Budget:   r.Budget,
		JoinCode: r.JoinCode,
	}
}

type userDTO struct {
	ID       int64         `db:"id"`
	Code     string        `db:"code"`
	Role     string        `db:"role"`
	RoomID   int64         `db:"room_id"`
	Name     string        `db:"name"`
	Wishlist string        `db:"wishlist"`
	GifteeID sql.NullInt64 `db:"giftee_id"`
}

func (u userDTO) toModel() model.User {
	user := model.User{
		ID:       model.UserID(u.ID),
		Code:     u.Code,
		Role:     model.Role(u.Role),
		RoomID:   model.RoomID(u.RoomID),
		Name:     u.Name,
		Wishlist: u.Wishlist,
	}
	if u.GifteeID.Valid {
		id := model.UserID(u.GifteeID.Int64)
		user.GifteeID = &id
	}
	return user
}

func fromUser(u model.User) userDTO {
	dto := userDTO{
		ID:       int64(u.ID),
		Code:     u.Code,
		Role:     string(u.Role),
		RoomID:   int64(u.RoomID),
		Name:     u.Name,
		Wishlist: u.Wishlist,
	}
	if u.GifteeID != nil {
		dto.GifteeID = sql.NullInt64{Int64: int64(*u.GifteeID), Valid: true}
	}
	return dto
}
