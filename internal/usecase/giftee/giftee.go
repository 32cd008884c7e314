package usecase_giftee

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sharuys/SecretSanta/internal/model"
	storage_entity "github.com/sharuys/SecretSanta/internal/storage/entity"
)

var (
	ErrInternal       = errors.New("internal error")
	ErrUserNotFound   = errors.New("user not found")
	ErrRoomNotFound   = errors.New("room not found")
	ErrGameNotStarted = errors.New("game has not started yet")
	ErrPairingMissing = errors.New("giftee is not assigned")
	ErrGifteeDeleted  = errors.New("giftee no longer exists")
)

// GifteeCache keeps lookups of closed rooms, which never change afterwards.
//
//go:generate mockery --name=GifteeCache --output=./mocks/giftee/cache --filename=cache.go
type GifteeCache interface {
	// Get returns nil on a miss.
	Get(ctx context.Context, userCode string) (*model.Giftee, error)
	Set(ctx context.Context, userCode string, giftee model.Giftee) error
}

type Usecase struct {
	store  storage_entity.Store
	cache  GifteeCache
	logger *slog.Logger
}

type Option func(*Usecase)

// WithCache enables caching of successful lookups.
func WithCache(cache GifteeCache) Option {
	return func(u *Usecase) {
		u.cache = cache
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func New(store storage_entity.Store, opts ...Option) *Usecase {
	u := &Usecase{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// GetMyGiftee tells the owner of userCode whom they gift to.
// Cache failures are logged and the store is used instead.
func (u *Usecase) GetMyGiftee(ctx context.Context, userCode string) (model.Giftee, error) {
	if u.cache != nil {
		cached, err := u.cache.Get(ctx, userCode)
		if err != nil {
			u.logger.Warn("giftee cache get failed", slog.String("error", err.Error()))
		} else if cached != nil {
			return *cached, nil
		}
	}

	giftee, err := u.lookup(ctx, userCode)
	if err != nil {
		return model.Giftee{}, err
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, userCode, giftee); err != nil {
			u.logger.Warn("giftee cache set failed", slog.String("error", err.Error()))
		}
	}
	return giftee, nil
}

func (u *Usecase) lookup(ctx context.Context, userCode string) (model.Giftee, error) {
	var giftee model.Giftee
	err := u.store.Atomic(ctx, func(tx storage_entity.Tx) error {
		user, err := tx.FindUserByCode(ctx, userCode)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrUserNotFound
			}
			return errors.Join(ErrInternal, err)
		}

		room, err := tx.GetRoom(ctx, user.RoomID)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return ErrRoomNotFound
			}
			return errors.Join(ErrInternal, err)
		}
		if !room.IsClosed {
			return ErrGameNotStarted
		}

		if user.GifteeID == nil {
			return errors.Join(ErrInternal, ErrPairingMissing)
		}
		receiver, err := tx.GetUser(ctx, *user.GifteeID)
		if err != nil {
			if errors.Is(err, storage_entity.ErrNotFound) {
				return errors.Join(ErrInternal, ErrGifteeDeleted)
			}
			return errors.Join(ErrInternal, err)
		}

		giftee = model.Giftee{
			RequesterName:  user.Name,
			GifteeName:     receiver.Name,
			GifteeWishlist: receiver.Wishlist,
			Budget:         room.Budget,
		}
		return nil
	})
	if err != nil {
		return model.Giftee{}, err
	}

	return giftee, nil
}
