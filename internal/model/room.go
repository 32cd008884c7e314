package model

type RoomID int64

const EmptyRoomID RoomID = 0

type Room struct {
	ID       RoomID
	Name     string
	IsClosed bool
	Budget   string
	JoinCode string
}
