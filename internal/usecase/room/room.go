package usecase_room

import (
	"context"
	"errors"

	"github.com/sharuys/SecretSanta/internal/model"
	storage_entity "github.com/sharuys/SecretSanta/internal/storage/entity"
)

var (
	ErrInternal       = errors.New("internal error")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomClosed     = errors.New("room is closed")
	ErrUserNotFound   = errors.New("user not found")
	ErrCodesExhausted = errors.New("unable to generate unique code")
)

// Assuming that generated codes can collide with stored ones.
const maxCodeAttempts = 5

//go:generate mockery --name=CodeGenerator --output=./mocks/room/generator --filename=generator.go
type CodeGenerator interface {
	AdminCode() string
	MemberCode() string
	JoinCode() string
}

type Usecase struct {
	store storage_entity.Store
	codes CodeGenerator
}

func New(
	store storage_entity.Store,
	codes CodeGenerator,
) *Usecase {
	return &Usecase{
		store: store,
		codes: codes,
	}
}

type CreateRoomInput struct {
	Name      string
	AdminName string
	Budget    string
	Wishlist  string
}

// Admin code must be kept by the client in order to do 'admin ops'
func (u *Usecase) CreateRoom(ctx context.Context, in CreateRoomInput) (roomID model.RoomID, joinCode string, adminCode string, err error) {
	err = u.store.Atomic(ctx, func(tx storage_entity.Tx) error {
		var err error
		if roomID, err = tx.NextRoomID(ctx); err != nil {
			return errors.Join(ErrInternal, err)
		}
		adminID, err := tx.NextUserID(ctx)
		if err != nil {
			return errors.Join(ErrInternal, err)
		}

		if joinCode, err = u.uniqueCode(ctx, u.codes.JoinCode, tx.JoinCodeExists); err != nil {
			return err
		}
		if adminCode, err = u.uniqueCode(ctx, u.codes.AdminCode, tx.UserCodeExists); err != nil {
			return err
		}

		if err := tx.InsertRoom(ctx, model.Room{
			ID:       roomID,
			Name:     in.Name,
			Budget:   in.Budget,
			JoinCode: joinCode,
		}); err != nil {
			return errors.Join(ErrInternal, err)
		}

		if err := tx.InsertUser(ctx, model.User{
			ID:       adminID,
			Code:     adminCode,
			Role:     model.RoleAdmin,
			RoomID:   roomID,
			Name:     in.AdminName,
			Wishlist: in.Wishlist,
		}); err != nil {
			return errors.Join(ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return model.EmptyRoomID, "", "", err
	}

	return roomID, joinCode, adminCode, nil
}

func (u *Usecase) JoinRoom(ctx context.Context, joinCode string, userName string, wishlist string) (userID model.UserID, userCode string, roomName string, err error) {
	err = u.store.Atomic(ctx, func(tx storage_entity.Tx) error {
		room, err := tx.FindRoomByJoinCode(ctx, joinCode)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrRoomNotFound
			}
			return errors.Join(ErrInternal, err)
		}
		if room.IsClosed {
			return ErrRoomClosed
		}

		if userID, err = tx.NextUserID(ctx); err != nil {
			return errors.Join(ErrInternal, err)
		}
		if userCode, err = u.uniqueCode(ctx, u.codes.MemberCode, tx.UserCodeExists); err != nil {
			return err
		}

		if err := tx.InsertUser(ctx, model.User{
			ID:       userID,
			Code:     userCode,
			Role:     model.RoleMember,
			RoomID:   room.ID,
			Name:     userName,
			Wishlist: wishlist,
		}); err != nil {
			return errors.Join(ErrInternal, err)
		}

		roomName = room.Name
		return nil
	})
	if err != nil {
		return model.EmptyUserID, "", "", err
	}

	return userID, userCode, roomName, nil
}

// Member resolves the owner of a user code.
func (u *Usecase) Member(ctx context.Context, userCode string) (model.User, error) {
	var user model.User
	err := u.store.Atomic(ctx, func(tx storage_entity.Tx) error {
		var err error
		user, err = tx.FindUserByCode(ctx, userCode)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrUserNotFound
			}
			return errors.Join(ErrInternal, err)
		}
		return nil
	})
	return user, err
}

// RoomInfo returns the room of the user and its members with their codes stripped.
// Only the admin gets the join code back.
func (u *Usecase) RoomInfo(ctx context.Context, userCode string) (model.Room, []model.User, error) {
	var (
		user    model.User
		room    model.Room
		members []model.User
	)
	err := u.store.Atomic(ctx, func(tx storage_entity.Tx) error {
		var err error
		user, err = tx.FindUserByCode(ctx, userCode)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrUserNotFound
			}
			return errors.Join(ErrInternal, err)
		}

		room, err = tx.GetRoom(ctx, user.RoomID)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrRoomNotFound
			}
			return errors.Join(ErrInternal, err)
		}

		users, err := tx.MembersOf(ctx, room.ID)
		if err != nil {
			return errors.Join(ErrInternal, err)
		}
		members = make([]model.User, 0, len(users))
		for _, m := range users {
			members = append(members, m.Public())
		}
		return nil
	})
	if err != nil {
		return model.Room{}, nil, err
	}

	if !user.IsAdmin() {
		room.JoinCode = ""
	}
	return room, members, nil
}

func (u *Usecase) uniqueCode(
	ctx context.Context,
	gen func() string,
	exists func(ctx context.Context, code string) (bool, error),
) (string, error) {
	for range maxCodeAttempts {
		code := gen()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", errors.Join(ErrInternal, err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.Join(ErrInternal, ErrCodesExhausted)
}
