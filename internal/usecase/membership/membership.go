package usecase_membership

import (
	"context"
	"errors"

	"github.com/sharuys/SecretSanta/internal/model"
	storage_entity "github.com/sharuys/SecretSanta/internal/storage/entity"
)

var (
	ErrInternal             = errors.New("internal error")
	ErrUserNotFound         = errors.New("user not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrNotAdmin             = errors.New("user is not an admin")
	ErrRoomMismatch         = errors.New("user and admin belong to different rooms")
	ErrSelfRemovalForbidden = errors.New("admin cannot remove themselves")
	ErrRoomClosed           = errors.New("room is closed for changes")
)

type Usecase struct {
	store storage_entity.Store
}

func New(store storage_entity.Store) *Usecase {
	return &Usecase{
		store: store,
	}
}

// RemoveResult holds the snapshot taken right before deletion.
// Deleted is nil when the user had already been removed.
type RemoveResult struct {
	Deleted        *model.User
	AlreadyDeleted bool
}

// RemoveUser lets the room admin remove a member while the room is still open.
// Repeating the call for a removed user passes the same checks against its last
// snapshot and reports AlreadyDeleted.
func (u *Usecase) RemoveUser(ctx context.Context, targetID model.UserID, adminCode string) (RemoveResult, error) {
	var result RemoveResult
	err := u.store.Atomic(ctx, func(tx storage_entity.Tx) error {
		target, live, err := resolveTarget(ctx, tx, targetID)
		if err != nil {
			return err
		}

		admin, err := tx.FindUserByCode(ctx, adminCode)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrAdminNotFound
			}
			return errors.Join(ErrInternal, err)
		}
		if !admin.IsAdmin() {
			return ErrNotAdmin
		}
		if admin.RoomID != target.RoomID {
			return ErrRoomMismatch
		}
		if admin.ID == target.ID {
			return ErrSelfRemovalForbidden
		}

		room, err := tx.GetRoom(ctx, admin.RoomID)
		if err != nil && !errors.Is(err, storage_entity.ErrNotFound) {
			return errors.Join(ErrInternal, err)
		}
		if err != nil || room.IsClosed {
			return ErrRoomClosed
		}

		if !live {
			result = RemoveResult{AlreadyDeleted: true}
			return nil
		}

		deleted, err := tx.DeleteUser(ctx, target.ID)
		if err != nil {
			return errors.Join(ErrInternal, err)
		}
		if !deleted {
			result = RemoveResult{AlreadyDeleted: true}
			return nil
		}

		result = RemoveResult{Deleted: &target}
		return nil
	})
	if err != nil {
		return RemoveResult{}, err
	}

	return result, nil
}

// resolveTarget falls back to the tombstone of a removed user.
func resolveTarget(ctx context.Context, tx storage_entity.Tx, id model.UserID) (model.User, bool, error) {
	user, err := tx.GetUser(ctx, id)
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, storage_entity.ErrNotFound) {
		return model.User{}, false, errors.Join(ErrInternal, err)
	}

	user, err = tx.GetRemovedUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage_entity.ErrNotFound) {
			return model.User{}, false, ErrUserNotFound
		}
		return model.User{}, false, errors.Join(ErrInternal, err)
	}
	return user, false, nil
}
