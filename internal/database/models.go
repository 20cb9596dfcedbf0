package database

import "time"

type User struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Topic struct {
	Id   int
	Name string
	// RoomCount is only populated by ListTopics.
	RoomCount int
}

// Room is a discussion thread. HostId and TopicId are zero when the
// host account or the topic has been deleted.
type Room struct {
	Id           int
	HostId       int
	HostUsername string
	HostAvatar   string
	TopicId      int
	TopicName    string
	Name         string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Message struct {
	Id         int
	UserId     int
	Username   string
	UserAvatar string
	RoomId     int
	RoomName   string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
}

type UpdateAccountParams struct {
	UserId       int
	Username     string
	EmailAddress string
	Avatar       string
}

type CreateRoomParams struct {
	HostId      int
	TopicName   string
	Name        string
	Description string
}

type UpdateRoomParams struct {
	RoomId      int
	TopicName   string
	Name        string
	Description string
}

type PostMessageParams struct {
	UserId int
	RoomId int
	Body   string
}
