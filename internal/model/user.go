package model

type UserID int64

const EmptyUserID UserID = 0

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	}
	return false
}

type User struct {
	ID       UserID
	Code     string
	Role     Role
	RoomID   RoomID
	Name     string
	Wishlist string

	// Set once by the pairing, when the room gets closed
	GifteeID *UserID
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public drops the user code so the record can be shown to other members.
func (u User) Public() User {
	u.Code = ""
	return u
}
