package api

import (
	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/types"
)

func toUser(u database.User) types.User {
	return types.User{
		Id:           u.Id,
		Username:     u.Username,
		EmailAddress: u.EmailAddress,
		Avatar:       u.Avatar,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toUsers(dbUsers []database.User) []types.User {
	users := make([]types.User, 0, len(dbUsers))
	for _, u := range dbUsers {
		users = append(users, toUser(u))
	}
	return users
}

func toTopics(dbTopics []database.Topic) []types.Topic {
	topics := make([]types.Topic, 0, len(dbTopics))
	for _, t := range dbTopics {
		topics = append(topics, types.Topic{Id: t.Id, Name: t.Name, RoomCount: t.RoomCount})
	}
	return topics
}

func toRoom(r database.Room) types.Room {
	room := types.Room{
		Id:          r.Id,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	if r.HostId != 0 {
		room.Host = &types.User{Id: r.HostId, Username: r.HostUsername, Avatar: r.HostAvatar}
	}

	if r.TopicId != 0 {
		room.Topic = &types.Topic{Id: r.TopicId, Name: r.TopicName}
	}

	return room
}

func toRooms(dbRooms []database.Room) []types.Room {
	rooms := make([]types.Room, 0, len(dbRooms))
	for _, r := range dbRooms {
		rooms = append(rooms, toRoom(r))
	}
	return rooms
}

func toMessage(m database.Message) types.Message {
	return types.Message{
		Id: m.Id,
		User: types.User{
			Id:       m.UserId,
			Username: m.Username,
			Avatar:   m.UserAvatar,
		},
		RoomId:    m.RoomId,
		RoomName:  m.RoomName,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toMessages(dbMessages []database.Message) []types.Message {
	messages := make([]types.Message, 0, len(dbMessages))
	for _, m := range dbMessages {
		messages = append(messages, toMessage(m))
	}
	return messages
}
