package infra_postgres_entity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sharuys/SecretSanta/internal/model"
	storage_entity "github.com/sharuys/SecretSanta/internal/storage/entity"
)

var _ storage_entity.Store = (*Driver)(nil)

const uniqueViolation = "23505"

const (
	roomColumns = `id, name, is_closed, budget, join_code`
	userColumns = `id, code, role, room_id, name, wishlist, giftee_id`
)

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

// Atomic runs fn in a transaction holding exclusive locks on every table,
// so concurrent operations are serialized like in the memory store.
func (d *Driver) Atomic(ctx context.Context, fn func(tx storage_entity.Tx) error) error {
	sqlTx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := sqlTx.ExecContext(ctx, `LOCK TABLE rooms, users, removed_users IN EXCLUSIVE MODE`); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := fn(&tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	return sqlTx.Commit()
}

type tx struct {
	tx *sqlx.Tx
}

func (t *tx) GetRoom(ctx context.Context, id model.RoomID) (model.Room, error) {
	return t.getRoom(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, int64(id))
}

func (t *tx) FindRoomByJoinCode(ctx context.Context, joinCode string) (model.Room, error) {
	return t.getRoom(ctx, `SELECT `+roomColumns+` FROM rooms WHERE join_code = $1`, joinCode)
}

func (t *tx) getRoom(ctx context.Context, query string, arg any) (model.Room, error) {
	var room roomDTO
	if err := t.tx.GetContext(ctx, &room, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Room{}, storage_entity.ErrNotFound
		}
		return model.Room{}, err
	}
	return room.toModel(), nil
}

func (t *tx) GetUser(ctx context.Context, id model.UserID) (model.User, error) {
	return t.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
}

func (t *tx) GetRemovedUser(ctx context.Context, id model.UserID) (model.User, error) {
	return t.getUser(ctx, `SELECT `+userColumns+` FROM removed_users WHERE id = $1`, int64(id))
}

func (t *tx) FindUserByCode(ctx context.Context, code string) (model.User, error) {
	return t.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE code = $1`, code)
}

func (t *tx) getUser(ctx context.Context, query string, arg any) (model.User, error) {
	var user userDTO
	if err := t.tx.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, storage_entity.ErrNotFound
		}
		return model.User{}, err
	}
	return user.toModel(), nil
}

func (t *tx) MembersOf(ctx context.Context, roomID model.RoomID) ([]model.User, error) {
	var dtos []userDTO
	query := `SELECT ` + userColumns + ` FROM users WHERE room_id = $1 ORDER BY id`
	if err := t.tx.SelectContext(ctx, &dtos, query, int64(roomID)); err != nil {
		return nil, err
	}

	members := make([]model.User, 0, len(dtos))
	for _, dto := range dtos {
		members = append(members, dto.toModel())
	}
	return members, nil
}

func (t *tx) NextRoomID(ctx context.Context) (model.RoomID, error) {
	var id int64
	if err := t.tx.GetContext(ctx, &id, `SELECT COALESCE(MAX(id), 0) + 1 FROM rooms`); err != nil {
		return model.EmptyRoomID, err
	}
	return model.RoomID(id), nil
}

func (t *tx) NextUserID(ctx context.Context) (model.UserID, error) {
	var id int64
	if err := t.tx.GetContext(ctx, &id, `SELECT COALESCE(MAX(id), 0) + 1 FROM users`); err != nil {
		return model.EmptyUserID, err
	}
	return model.UserID(id), nil
}

func (t *tx) UserCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := t.tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE code = $1)`, code)
	return exists, err
}

func (t *tx) JoinCodeExists(ctx context.Context, joinCode string) (bool, error) {
	var exists bool
	err := t.tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM rooms WHERE join_code = $1)`, joinCode)
	return exists, err
}

func (t *tx) InsertRoom(ctx context.Context, room model.Room) error {
	query := `
		INSERT INTO rooms (id, name, is_closed, budget, join_code)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := t.tx.ExecContext(ctx, query,
		int64(room.ID), room.Name, room.IsClosed, room.Budget, room.JoinCode)
	return mapWriteErr(err)
}

func (t *tx) InsertUser(ctx context.Context, user model.User) error {
	dto := fromUser(user)
	query := `
		INSERT INTO users (id, code, role, room_id, name, wishlist, giftee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := t.tx.ExecContext(ctx, query,
		dto.ID, dto.Code, dto.Role, dto.RoomID, dto.Name, dto.Wishlist, dto.GifteeID); err != nil {
		return mapWriteErr(err)
	}

	// The id is live again, its tombstone no longer applies
	_, err := t.tx.ExecContext(ctx, `DELETE FROM removed_users WHERE id = $1`, dto.ID)
	return err
}

func (t *tx) DeleteUser(ctx context.Context, id model.UserID) (bool, error) {
	query := `
		WITH deleted AS (
			DELETE FROM users WHERE id = $1
			RETURNING ` + userColumns + `
		)
		INSERT INTO removed_users (` + userColumns + `)
		SELECT ` + userColumns + ` FROM deleted
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			role = EXCLUDED.role,
			room_id = EXCLUDED.room_id,
			name = EXCLUDED.name,
			wishlist = EXCLUDED.wishlist,
			giftee_id = EXCLUDED.giftee_id
	`
	result, err := t.tx.ExecContext(ctx, query, int64(id))
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (t *tx) SetGiftee(ctx context.Context, userID model.UserID, gifteeID model.UserID) error {
	return t.updateOne(ctx, `UPDATE users SET giftee_id = $2 WHERE id = $1`, int64(userID), int64(gifteeID))
}

func (t *tx) CloseRoom(ctx context.Context, roomID model.RoomID) error {
	return t.updateOne(ctx, `UPDATE rooms SET is_closed = TRUE WHERE id = $1`, int64(roomID))
}

func (t *tx) updateOne(ctx context.Context, query string, args ...any) error {
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage_entity.ErrNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Join(storage_entity.ErrConflict, err)
	}
	return err
}
