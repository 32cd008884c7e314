// Package storage_entity describes the entity store shared by every usecase:
// rooms and users keyed by integer ids, looked up by id, user code and join code.
package storage_entity

import (
	"context"
	"errors"

	"github.com/sharuys/SecretSanta/internal/model"
)

var (
	ErrNotFound = errors.New("entity not found")
	ErrConflict = errors.New("entity conflict")
)

// Store runs every operation as one critical section.
// If fn returns an error, none of the writes it made are visible afterwards.
type Store interface {
	Atomic(ctx context.Context, fn func(tx Tx) error) error
}

//go:generate mockery --name=Tx --output=./mocks --filename=tx.go
type Tx interface {
	GetRoom(ctx context.Context, id model.RoomID) (model.Room, error)
	GetUser(ctx context.Context, id model.UserID) (model.User, error)
	// GetRemovedUser returns the last snapshot of a deleted user
	// until the id is taken by a new user.
	GetRemovedUser(ctx context.Context, id model.UserID) (model.User, error)
	FindUserByCode(ctx context.Context, code string) (model.User, error)
	FindRoomByJoinCode(ctx context.Context, joinCode string) (model.Room, error)
	// MembersOf returns users of the room ordered by id.
	MembersOf(ctx context.Context, roomID model.RoomID) ([]model.User, error)

	// NextRoomID and NextUserID return max(id)+1, or 1 for an empty collection.
	NextRoomID(ctx context.Context) (model.RoomID, error)
	NextUserID(ctx context.Context) (model.UserID, error)

	UserCodeExists(ctx context.Context, code string) (bool, error)
	JoinCodeExists(ctx context.Context, joinCode string) (bool, error)

	InsertRoom(ctx context.Context, room model.Room) error
	InsertUser(ctx context.Context, user model.User) error
	// DeleteUser reports whether a user was actually removed.
	DeleteUser(ctx context.Context, id model.UserID) (bool, error)
	SetGiftee(ctx context.Context, userID model.UserID, gifteeID model.UserID) error
	CloseRoom(ctx context.Context, roomID model.RoomID) error
}

// Seed inserts fixtures in a single atomic step.
func Seed(ctx context.Context, store Store, rooms []model.Room, users []model.User) error {
	return store.Atomic(ctx, func(tx Tx) error {
		for _, r := range rooms {
			if err := tx.InsertRoom(ctx, r); err != nil {
				return err
			}
		}
		for _, u := range users {
			if err := tx.InsertUser(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
}
