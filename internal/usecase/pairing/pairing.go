package usecase_pairing

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sharuys/SecretSanta/internal/model"
	storage_entity "github.com/sharuys/SecretSanta/internal/storage/entity"
)

// Smallest room a game can be started in.
const MinMembers = 3

var (
	ErrInternal            = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotAdmin            = errors.New("user is not an admin")
	ErrRoomNotFound        = errors.New("room not found")
	ErrAdminRoomMismatch   = errors.New("admin does not belong to the room")
	ErrRoomAlreadyClosed   = errors.New("game already started")
	ErrInsufficientMembers = errors.New("not enough members")
)

// Shuffler has the signature of rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

type Pair struct {
	Giver    model.UserID
	Receiver model.UserID
}

type Usecase struct {
	store   storage_entity.Store
	shuffle Shuffler
}

type Option func(*Usecase)

func WithShuffler(shuffle Shuffler) Option {
	return func(u *Usecase) {
		u.shuffle = shuffle
	}
}

func New(store storage_entity.Store, opts ...Option) *Usecase {
	u := &Usecase{
		store:   store,
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// StartGame pairs every member of the room with a giftee and closes the room.
// The whole mapping is built before the first write.
func (u *Usecase) StartGame(ctx context.Context, roomID model.RoomID, adminCode string) (int, error) {
	var pairsCount int
	err := u.store.Atomic(ctx, func(tx storage_entity.Tx) error {
		admin, err := tx.FindUserByCode(ctx, adminCode)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrUserNotFound
			}
			return errors.Join(ErrInternal, err)
		}
		if !admin.IsAdmin() {
			return ErrNotAdmin
		}

		room, err := tx.GetRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrRoomNotFound
			}
			return errors.Join(ErrInternal, err)
		}
		if admin.RoomID != room.ID {
			return ErrAdminRoomMismatch
		}
		if room.IsClosed {
			return ErrRoomAlreadyClosed
		}

		members, err := tx.MembersOf(ctx, room.ID)
		if err != nil {
			return errors.Join(ErrInternal, err)
		}
		if len(members) < MinMembers {
			return fmt.Errorf("%w: %d of %d", ErrInsufficientMembers, len(members), MinMembers)
		}

		pairs := Assign(members, u.shuffle)
		for _, p := range pairs {
			if err := tx.SetGiftee(ctx, p.Giver, p.Receiver); err != nil {
				return errors.Join(ErrInternal, err)
			}
		}
		if err := tx.CloseRoom(ctx, room.ID); err != nil {
			return errors.Join(ErrInternal, err)
		}

		pairsCount = len(pairs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return pairsCount, nil
}

// Assign shuffles the members and lets everyone gift the next one in the shuffled order,
// wrapping around at the end. The result is a single cycle through all members, so for two
// or more members nobody gets themselves.
//
// This samples rotations of a uniformly random order, not all derangements uniformly.
func Assign(members []model.User, shuffle Shuffler) []Pair {
	n := len(members)
	if n == 0 {
		return nil
	}

	order := make([]model.UserID, n)
	for i, m := range members {
		order[i] = m.ID
	}
	shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	pairs := make([]Pair, n)
	for i, giver := range order {
		pairs[i] = Pair{
			Giver:    giver,
			Receiver: order[(i+1)%n],
		}
	}
	return pairs
}
