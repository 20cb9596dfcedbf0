package types

import (
	"path"
	"time"
)

const defaultAvatarURL = "/static/avatar.svg"

type User struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// AvatarURL is the public URL of the user's uploaded avatar, or of the
// default one.
func (u User) AvatarURL() string {
	if u.Avatar == "" {
		return defaultAvatarURL
	}
	return path.Join("/media", u.Avatar)
}

type Topic struct {
	Id        int    `json:"id"`
	Name      string `json:"name"`
	RoomCount int    `json:"room_count"`
}

type Room struct {
	Id          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Host        *User     `json:"host,omitempty"`
	Topic       *Topic    `json:"topic,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// HostedBy reports whether userId is the room's host. Rooms whose host
// was deleted are hosted by nobody.
func (r Room) HostedBy(userId int) bool {
	return r.Host != nil && r.Host.Id == userId
}

type Message struct {
	Id        int       `json:"id"`
	User      User      `json:"user"`
	RoomId    int       `json:"room_id"`
	RoomName  string    `json:"room_name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
