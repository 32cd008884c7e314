package infra_memory_entity

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/sharuys/SecretSanta/internal/model"
	storage_entity "github.com/sharuys/SecretSanta/internal/storage/entity"
)

var _ storage_entity.Store = (*Driver)(nil)

// Driver keeps rooms and users in process memory.
// One mutex guards the whole store, so every Atomic call is serialized.
type Driver struct {
	mu sync.Mutex

	rooms   map[model.RoomID]model.Room
	users   map[model.UserID]model.User
	removed map[model.UserID]model.User

	userByCode     map[string]model.UserID
	roomByJoinCode map[string]model.RoomID
}

func New() *Driver {
	return &Driver{
		rooms:          make(map[model.RoomID]model.Room),
		users:          make(map[model.UserID]model.User),
		removed:        make(map[model.UserID]model.User),
		userByCode:     make(map[string]model.UserID),
		roomByJoinCode: make(map[string]model.RoomID),
	}
}

func (d *Driver) Atomic(ctx context.Context, fn func(tx storage_entity.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	t := &tx{d: d}
	if err := fn(t); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// tx journals an inverse for every write and replays them backwards on failure.
type tx struct {
	d    *Driver
	undo []func()
}

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *tx) GetRoom(_ context.Context, id model.RoomID) (model.Room, error) {
	room, ok := t.d.rooms[id]
	if !ok {
		return model.Room{}, storage_entity.ErrNotFound
	}
	return room, nil
}

func (t *tx) GetUser(_ context.Context, id model.UserID) (model.User, error) {
	user, ok := t.d.users[id]
	if !ok {
		return model.User{}, storage_entity.ErrNotFound
	}
	return cloneUser(user), nil
}

func (t *tx) GetRemovedUser(_ context.Context, id model.UserID) (model.User, error) {
	user, ok := t.d.removed[id]
	if !ok {
		return model.User{}, storage_entity.ErrNotFound
	}
	return cloneUser(user), nil
}

func (t *tx) FindUserByCode(_ context.Context, code string) (model.User, error) {
	id, ok := t.d.userByCode[code]
	if !ok {
		return model.User{}, storage_entity.ErrNotFound
	}
	return cloneUser(t.d.users[id]), nil
}

func (t *tx) FindRoomByJoinCode(_ context.Context, joinCode string) (model.Room, error) {
	id, ok := t.d.roomByJoinCode[joinCode]
	if !ok {
		return model.Room{}, storage_entity.ErrNotFound
	}
	return t.d.rooms[id], nil
}

func (t *tx) MembersOf(_ context.Context, roomID model.RoomID) ([]model.User, error) {
	members := make([]model.User, 0)
	for _, u := range t.d.users {
		if u.RoomID == roomID {
			members = append(members, cloneUser(u))
		}
	}
	slices.SortFunc(members, func(a, b model.User) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return members, nil
}

func (t *tx) NextRoomID(_ context.Context) (model.RoomID, error) {
	var maxID model.RoomID
	for id := range t.d.rooms {
		maxID = max(maxID, id)
	}
	return maxID + 1, nil
}

func (t *tx) NextUserID(_ context.Context) (model.UserID, error) {
	var maxID model.UserID
	for id := range t.d.users {
		maxID = max(maxID, id)
	}
	return maxID + 1, nil
}

func (t *tx) UserCodeExists(_ context.Context, code string) (bool, error) {
	_, ok := t.d.userByCode[code]
	return ok, nil
}

func (t *tx) JoinCodeExists(_ context.Context, joinCode string) (bool, error) {
	_, ok := t.d.roomByJoinCode[joinCode]
	return ok, nil
}

func (t *tx) InsertRoom(_ context.Context, room model.Room) error {
	if _, ok := t.d.rooms[room.ID]; ok {
		return storage_entity.ErrConflict
	}
	if _, ok := t.d.roomByJoinCode[room.JoinCode]; ok {
		return storage_entity.ErrConflict
	}

	t.d.rooms[room.ID] = room
	t.d.roomByJoinCode[room.JoinCode] = room.ID
	t.undo = append(t.undo, func() {
		delete(t.d.rooms, room.ID)
		delete(t.d.roomByJoinCode, room.JoinCode)
	})
	return nil
}

func (t *tx) InsertUser(_ context.Context, user model.User) error {
	if _, ok := t.d.users[user.ID]; ok {
		return storage_entity.ErrConflict
	}
	if _, ok := t.d.userByCode[user.Code]; ok {
		return storage_entity.ErrConflict
	}

	user = cloneUser(user)
	t.d.users[user.ID] = user
	t.d.userByCode[user.Code] = user.ID

	// The id is live again, its tombstone no longer applies
	tombstone, hadTombstone := t.d.removed[user.ID]
	delete(t.d.removed, user.ID)

	t.undo = append(t.undo, func() {
		delete(t.d.users, user.ID)
		delete(t.d.userByCode, user.Code)
		if hadTombstone {
			t.d.removed[user.ID] = tombstone
		}
	})
	return nil
}

func (t *tx) DeleteUser(_ context.Context, id model.UserID) (bool, error) {
	user, ok := t.d.users[id]
	if !ok {
		return false, nil
	}

	tombstone, hadTombstone := t.d.removed[id]
	delete(t.d.users, id)
	delete(t.d.userByCode, user.Code)
	t.d.removed[id] = user

	t.undo = append(t.undo, func() {
		t.d.users[id] = user
		t.d.userByCode[user.Code] = id
		if hadTombstone {
			t.d.removed[id] = tombstone
		} else {
			delete(t.d.removed, id)
		}
	})
	return true, nil
}

func (t *tx) SetGiftee(_ context.Context, userID model.UserID, gifteeID model.UserID) error {
	user, ok := t.d.users[userID]
	if !ok {
		return storage_entity.ErrNotFound
	}

	prev := user
	user.GifteeID = &gifteeID
	t.d.users[userID] = user

	t.undo = append(t.undo, func() {
		t.d.users[userID] = prev
	})
	return nil
}

func (t *tx) CloseRoom(_ context.Context, roomID model.RoomID) error {
	room, ok := t.d.rooms[roomID]
	if !ok {
		return storage_entity.ErrNotFound
	}

	prev := room
	room.IsClosed = true
	t.d.rooms[roomID] = room

	t.undo = append(t.undo, func() {
		t.d.rooms[roomID] = prev
	})
	return nil
}

func cloneUser(u model.User) model.User {
	if u.GifteeID != nil {
		id := *u.GifteeID
		u.GifteeID = &id
	}
	return u
}

// Seed inserts fixtures in a single atomic step.
func (d *Driver) Seed(ctx context.Context, rooms []model.Room, users []model.User) error {
	return storage_entity.Seed(ctx, d, rooms, users)
}
