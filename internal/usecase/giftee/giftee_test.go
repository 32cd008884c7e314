package usecase_giftee

import (
	"context"
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	infra_memory_entity "github.com/sharuys/SecretSanta/internal/infra/memory/entity"
	"github.com/sharuys/SecretSanta/internal/model"
	cache_mocks "github.com/sharuys/SecretSanta/internal/usecase/giftee/mocks/giftee/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UsecaseGifteeSuite struct {
	suite.Suite
}

type resources struct {
	store *infra_memory_entity.Driver
	cache *cache_mocks.GifteeCache
	ctx   context.Context
}

func ptr(id model.UserID) *model.UserID {
	return &id
}

func initResources(t provider.T) *resources {
	ctx := context.Background()
	store := infra_memory_entity.New()

	rooms := []model.Room{
		{ID: 1, Name: "Closed", IsClosed: true, Budget: "50 EUR", JoinCode: "closed"},
		{ID: 2, Name: "Open", JoinCode: "open"},
	}
	users := []model.User{
		{ID: 1, Code: "u1", Role: model.RoleAdmin, RoomID: 1, Name: "Ann", Wishlist: "tea", GifteeID: ptr(2)},
		{ID: 2, Code: "u2", Role: model.RoleMember, RoomID: 1, Name: "Bob", Wishlist: "socks", GifteeID: ptr(3)},
		{ID: 3, Code: "u3", Role: model.RoleMember, RoomID: 1, Name: "Cid", Wishlist: "", GifteeID: ptr(1)},
		{ID: 4, Code: "u4", Role: model.RoleMember, RoomID: 1, Name: "Dan"},
		{ID: 5, Code: "u5", Role: model.RoleMember, RoomID: 1, Name: "Eve", GifteeID: ptr(99)},
		{ID: 6, Code: "u6", Role: model.RoleAdmin, RoomID: 2, Name: "Fay"},
		{ID: 7, Code: "u7", Role: model.RoleMember, RoomID: 3, Name: "Gus"},
	}
	require.NoError(t, store.Seed(ctx, rooms, users))

	return &resources{
		store: store,
		cache: cache_mocks.NewGifteeCache(t),
		ctx:   ctx,
	}
}

func (s *UsecaseGifteeSuite) TestGetMyGiftee(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		userCode      string
		expected      model.Giftee
		expectedError error
	}{
		{
			name:     "Should return the assigned giftee",
			userCode: "u1",
			expected: model.Giftee{RequesterName: "Ann", GifteeName: "Bob", GifteeWishlist: "socks", Budget: "50 EUR"},
		},
		{
			name:     "Should return an empty wishlist as is",
			userCode: "u2",
			expected: model.Giftee{RequesterName: "Bob", GifteeName: "Cid", GifteeWishlist: "", Budget: "50 EUR"},
		},
		{
			name:          "Should fail on unknown code",
			userCode:      "nobody",
			expectedError: ErrUserNotFound,
		},
		{
			name:          "Should fail when the game has not started",
			userCode:      "u6",
			expectedError: ErrGameNotStarted,
		},
		{
			name:          "Should fail when the room is missing",
			userCode:      "u7",
			expectedError: ErrRoomNotFound,
		},
		{
			name:          "Should report a missing pairing as internal",
			userCode:      "u4",
			expectedError: ErrPairingMissing,
		},
		{
			name:          "Should report a deleted giftee as internal",
			userCode:      "u5",
			expectedError: ErrGifteeDeleted,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			uc := New(r.store)

			giftee, err := uc.GetMyGiftee(r.ctx, tc.userCode)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Equal(t, model.Giftee{}, giftee)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, giftee)
		})
	}
}

func (s *UsecaseGifteeSuite) TestIntegrityFaultsAreInternal(t provider.T) {
	t.Parallel()
	r := initResources(t)
	uc := New(r.store)

	for _, code := range []string{"u4", "u5"} {
		_, err := uc.GetMyGiftee(r.ctx, code)
		assert.ErrorIs(t, err, ErrInternal)
	}

	_, err := uc.GetMyGiftee(r.ctx, "u6")
	assert.NotErrorIs(t, err, ErrInternal)
}

func (s *UsecaseGifteeSuite) TestGetMyGifteeCache(t provider.T) {
	t.Parallel()

	cached := model.Giftee{RequesterName: "Ann", GifteeName: "Bob", GifteeWishlist: "socks", Budget: "50 EUR"}

	testCases := []struct {
		name          string
		userCode      string
		setupMocks    func(r *resources)
		expected      model.Giftee
		expectedError error
	}{
		{
			name:     "Should serve a hit without the store",
			userCode: "cached-only",
			setupMocks: func(r *resources) {
				r.cache.On("Get", mock.Anything, "cached-only").Return(&cached, nil).Once()
			},
			expected: cached,
		},
		{
			name:     "Should fill the cache on a miss",
			userCode: "u1",
			setupMocks: func(r *resources) {
				r.cache.On("Get", mock.Anything, "u1").Return(nil, nil).Once()
				r.cache.On("Set", mock.Anything, "u1", cached).Return(nil).Once()
			},
			expected: cached,
		},
		{
			name:     "Should fall back to the store when the cache is down",
			userCode: "u1",
			setupMocks: func(r *resources) {
				r.cache.On("Get", mock.Anything, "u1").Return(nil, errors.New("connection refused")).Once()
				r.cache.On("Set", mock.Anything, "u1", cached).Return(errors.New("connection refused")).Once()
			},
			expected: cached,
		},
		{
			name:     "Should not cache failures",
			userCode: "u6",
			setupMocks: func(r *resources) {
				r.cache.On("Get", mock.Anything, "u6").Return(nil, nil).Once()
			},
			expectedError: ErrGameNotStarted,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)
			uc := New(r.store, WithCache(r.cache))

			giftee, err := uc.GetMyGiftee(r.ctx, tc.userCode)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, giftee)
		})
	}
}

func TestUsecaseGifteeSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseGifteeSuite))
}
