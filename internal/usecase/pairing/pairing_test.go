package usecase_pairing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	infra_memory_entity "github.com/sharuys/SecretSanta/internal/infra/memory/entity"
	"github.com/sharuys/SecretSanta/internal/model"
	storage_entity "github.com/sharuys/SecretSanta/internal/storage/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UsecasePairingSuite struct {
	suite.Suite
}

var errSetGiftee = errors.New("set giftee failed")

func noShuffle(int, func(i, j int)) {}

// roomWithMembers builds room 1 whose admin has code "admin" and n-1 members.
func roomWithMembers(t provider.T, n int) *infra_memory_entity.Driver {
	store := infra_memory_entity.New()
	users := make([]model.User, 0, n)
	for i := 1; i <= n; i++ {
		u := model.User{
			ID:     model.UserID(i),
			Code:   fmt.Sprintf("member_%d", i),
			Role:   model.RoleMember,
			RoomID: 1,
			Name:   fmt.Sprintf("user %d", i),
		}
		if i == 1 {
			u.Code = "admin"
			u.Role = model.RoleAdmin
		}
		users = append(users, u)
	}
	require.NoError(t, store.Seed(context.Background(), []model.Room{{ID: 1, Name: "room", JoinCode: "join"}}, users))
	return store
}

func snapshot(t provider.T, store storage_entity.Store, roomID model.RoomID) (model.Room, []model.User) {
	var (
		room    model.Room
		members []model.User
	)
	ctx := context.Background()
	require.NoError(t, store.Atomic(ctx, func(tx storage_entity.Tx) error {
		var err error
		if room, err = tx.GetRoom(ctx, roomID); err != nil {
			return err
		}
		members, err = tx.MembersOf(ctx, roomID)
		return err
	}))
	return room, members
}

func assertSingleCycle(t provider.T, members []model.User) {
	giftee := make(map[model.UserID]model.UserID, len(members))
	received := make(map[model.UserID]int, len(members))
	for _, m := range members {
		require.NotNil(t, m.GifteeID, "member %d has no giftee", m.ID)
		assert.NotEqual(t, m.ID, *m.GifteeID, "member %d gifts themselves", m.ID)
		giftee[m.ID] = *m.GifteeID
		received[*m.GifteeID]++
	}

	for _, m := range members {
		assert.Equal(t, 1, received[m.ID], "member %d receives %d gifts", m.ID, received[m.ID])
	}

	// Walking the mapping from any member must visit everyone before coming back.
	start := members[0].ID
	cur := start
	steps := 0
	for {
		cur = giftee[cur]
		steps++
		if cur == start || steps > len(members) {
			break
		}
	}
	assert.Equal(t, len(members), steps)
}

func (s *UsecasePairingSuite) TestStartGameProperties(t provider.T) {
	t.Parallel()

	for n := MinMembers; n <= 25; n++ {
		t.Run(fmt.Sprintf("%d members", n), func(t provider.T) {
			t.Parallel()
			ctx := context.Background()

			for range 20 {
				store := roomWithMembers(t, n)
				uc := New(store)

				pairs, err := uc.StartGame(ctx, 1, "admin")
				require.NoError(t, err)
				assert.Equal(t, n, pairs)

				room, members := snapshot(t, store, 1)
				assert.True(t, room.IsClosed)
				require.Len(t, members, n)
				assertSingleCycle(t, members)
			}
		})
	}
}

func (s *UsecasePairingSuite) TestStartGamePinnedOrder(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := roomWithMembers(t, 4)
	uc := New(store, WithShuffler(noShuffle))

	_, err := uc.StartGame(ctx, 1, "admin")
	require.NoError(t, err)

	_, members := snapshot(t, store, 1)
	expected := map[model.UserID]model.UserID{1: 2, 2: 3, 3: 4, 4: 1}
	for _, m := range members {
		assert.Equal(t, expected[m.ID], *m.GifteeID)
	}
}

func (s *UsecasePairingSuite) TestStartGameFailures(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		store         func(t provider.T) *infra_memory_entity.Driver
		roomID        model.RoomID
		adminCode     string
		expectedError error
	}{
		{
			name:          "Should fail on unknown admin code",
			store:         func(t provider.T) *infra_memory_entity.Driver { return roomWithMembers(t, 3) },
			roomID:        1,
			adminCode:     "nobody",
			expectedError: ErrUserNotFound,
		},
		{
			name:          "Should fail when caller is not an admin",
			store:         func(t provider.T) *infra_memory_entity.Driver { return roomWithMembers(t, 3) },
			roomID:        1,
			adminCode:     "member_2",
			expectedError: ErrNotAdmin,
		},
		{
			name:          "Should fail on unknown room",
			store:         func(t provider.T) *infra_memory_entity.Driver { return roomWithMembers(t, 3) },
			roomID:        42,
			adminCode:     "admin",
			expectedError: ErrRoomNotFound,
		},
		{
			name:          "Should fail when admin belongs to another room",
			store:         demoStore,
			roomID:        10,
			adminCode:     "admin_20",
			expectedError: ErrAdminRoomMismatch,
		},
		{
			name:          "Should fail on closed room",
			store:         demoStore,
			roomID:        20,
			adminCode:     "admin_20",
			expectedError: ErrRoomAlreadyClosed,
		},
		{
			name:          "Should fail with two members",
			store:         func(t provider.T) *infra_memory_entity.Driver { return roomWithMembers(t, 2) },
			roomID:        1,
			adminCode:     "admin",
			expectedError: ErrInsufficientMembers,
		},
		{
			name:          "Should fail with the admin alone",
			store:         func(t provider.T) *infra_memory_entity.Driver { return roomWithMembers(t, 1) },
			roomID:        1,
			adminCode:     "admin",
			expectedError: ErrInsufficientMembers,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			store := tc.store(t)
			uc := New(store)

			roomBefore, membersBefore, _ := peek(store, tc.roomID)

			pairs, err := uc.StartGame(context.Background(), tc.roomID, tc.adminCode)
			assert.ErrorIs(t, err, tc.expectedError)
			assert.Zero(t, pairs)

			roomAfter, membersAfter, _ := peek(store, tc.roomID)
			assert.Equal(t, roomBefore, roomAfter)
			assert.Equal(t, membersBefore, membersAfter)
		})
	}
}

func (s *UsecasePairingSuite) TestStartGameTwice(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := roomWithMembers(t, 5)
	uc := New(store)

	_, err := uc.StartGame(ctx, 1, "admin")
	require.NoError(t, err)
	_, first := snapshot(t, store, 1)

	_, err = uc.StartGame(ctx, 1, "admin")
	assert.ErrorIs(t, err, ErrRoomAlreadyClosed)

	_, second := snapshot(t, store, 1)
	assert.Equal(t, first, second)
}

func (s *UsecasePairingSuite) TestStartGameIsAllOrNothing(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	store := roomWithMembers(t, 4)
	uc := New(&faultyStore{Driver: store, failAfter: 2})

	_, err := uc.StartGame(ctx, 1, "admin")
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, errSetGiftee)

	room, members := snapshot(t, store, 1)
	assert.False(t, room.IsClosed)
	for _, m := range members {
		assert.Nil(t, m.GifteeID)
	}
}

func (s *UsecasePairingSuite) TestAssign(t provider.T) {
	t.Parallel()

	t.Run("Should return nothing for empty input", func(t provider.T) {
		assert.Empty(t, Assign(nil, noShuffle))
	})

	t.Run("Should swap the two members", func(t provider.T) {
		pairs := Assign([]model.User{{ID: 7}, {ID: 9}}, noShuffle)
		assert.Equal(t, []Pair{{Giver: 7, Receiver: 9}, {Giver: 9, Receiver: 7}}, pairs)
	})

	t.Run("Should follow the shuffled order", func(t provider.T) {
		reverse := func(n int, swap func(i, j int)) {
			for i := 0; i < n/2; i++ {
				swap(i, n-1-i)
			}
		}
		pairs := Assign([]model.User{{ID: 1}, {ID: 2}, {ID: 3}}, reverse)
		assert.Equal(t, []Pair{{Giver: 3, Receiver: 2}, {Giver: 2, Receiver: 1}, {Giver: 1, Receiver: 3}}, pairs)
	})
}

func demoStore(t provider.T) *infra_memory_entity.Driver {
	store := infra_memory_entity.New()
	require.NoError(t, store.Seed(context.Background(), infra_memory_entity.DemoRooms(), infra_memory_entity.DemoUsers()))
	return store
}

func peek(store storage_entity.Store, roomID model.RoomID) (model.Room, []model.User, error) {
	var (
		room    model.Room
		members []model.User
	)
	ctx := context.Background()
	err := store.Atomic(ctx, func(tx storage_entity.Tx) error {
		room, _ = tx.GetRoom(ctx, roomID)
		var err error
		members, err = tx.MembersOf(ctx, roomID)
		return err
	})
	return room, members, err
}

// faultyStore fails SetGiftee once failAfter calls went through.
type faultyStore struct {
	*infra_memory_entity.Driver
	failAfter int
}

func (f *faultyStore) Atomic(ctx context.Context, fn func(tx storage_entity.Tx) error) error {
	return f.Driver.Atomic(ctx, func(tx storage_entity.Tx) error {
		return fn(&faultyTx{Tx: tx, left: f.failAfter})
	})
}

type faultyTx struct {
	storage_entity.Tx
	left int
}

func (f *faultyTx) SetGiftee(ctx context.Context, userID model.UserID, gifteeID model.UserID) error {
	if f.left == 0 {
		return errSetGiftee
	}
	f.left--
	return f.Tx.SetGiftee(ctx, userID, gifteeID)
}

func TestUsecasePairingSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecasePairingSuite))
}
