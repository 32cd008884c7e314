package infra_memory_entity

import "github.com/sharuys/SecretSanta/internal/model"

// Demo fixtures: one open room with three users and one closed room with two.
func DemoRooms() []model.Room {
	return []model.Room{
		{ID: 10, Name: "Room 1 (open)", JoinCode: "demo10"},
		{ID: 20, Name: "Room 2 (closed)", JoinCode: "demo20", IsClosed: true},
	}
}

func DemoUsers() []model.User {
	return []model.User{
		{ID: 1, Code: "admin_10", Role: model.RoleAdmin, RoomID: 10, Name: "Admin 10"},
		{ID: 2, Code: "member_A", Role: model.RoleMember, RoomID: 10, Name: "Member A"},
		{ID: 3, Code: "member_B", Role: model.RoleMember, RoomID: 10, Name: "Member B"},
		{ID: 4, Code: "admin_20", Role: model.RoleAdmin, RoomID: 20, Name: "Admin 20"},
		{ID: 5, Code: "member_C", Role: model.RoleMember, RoomID: 20, Name: "Member C"},
	}
}
