package render

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"github.com/npezzotti/go-forum/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_Render(t *testing.T) {
	tr, err := NewTemplateRenderer()
	require.NoError(t, err, "failed to parse templates")

	now := time.Now().UTC()
	user := &types.User{Id: 1, Username: "alice", EmailAddress: "alice@example.com"}
	room := types.Room{
		Id:          3,
		Name:        "Intro to Go",
		Description: "goroutines & channels",
		Host:        user,
		Topic:       &types.Topic{Id: 2, Name: "Languages"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	msg := types.Message{Id: 4, User: *user, RoomId: 3, RoomName: room.Name, Body: "<b>hi</b>", CreatedAt: now}
	topics := []types.Topic{{Id: 2, Name: "Languages", RoomCount: 1}}

	tcases := []struct {
		name     string
		data     map[string]any
		contains []string
	}{
		{
			name: "home.html.tmpl",
			data: map[string]any{
				"Query":        "go",
				"CurrentUser":  user,
				"Rooms":        []types.Room{room},
				"Topics":       topics,
				"RoomCount":    1,
				"RoomMessages": []types.Message{msg},
			},
			contains: []string{"Intro to Go", "1 rooms available", "@alice", "&lt;b&gt;hi&lt;/b&gt;", `/?q=Languages`},
		},
		{
			name: "room.html.tmpl",
			data: map[string]any{
				"CurrentUser":  user,
				"Room":         room,
				"RoomMessages": []types.Message{msg},
				"Participants": []types.User{*user},
			},
			contains: []string{"Participants (1)", "/room/3/update", "/message/4/delete"},
		},
		{
			name: "room.html.tmpl",
			data: map[string]any{
				"Room":         types.Room{Id: 5, Name: "Orphan"},
				"RoomMessages": []types.Message{},
				"Participants": []types.User{},
			},
			contains: []string{"Orphan", "Participants (0)"},
		},
		{
			name: "login_register.html.tmpl",
			data: map[string]any{
				"Page":     "login",
				"Form":     map[string]string{"email": "alice@example.com"},
				"Messages": []string{"User does not exist"},
			},
			contains: []string{`action="/login"`, "User does not exist", "alice@example.com"},
		},
		{
			name: "login_register.html.tmpl",
			data: map[string]any{
				"Page": "register",
				"Form": map[string]string{},
			},
			contains: []string{`name="password2"`},
		},
		{
			name: "room_form.html.tmpl",
			data: map[string]any{
				"CurrentUser": user,
				"Topics":      topics,
				"Form":        map[string]string{"name": "Intro to Go", "topic": "Languages"},
			},
			contains: []string{"Create room", `<option value="Languages">`},
		},
		{
			name: "delete.html.tmpl",
			data: map[string]any{
				"CurrentUser": user,
				"Obj":         "Intro to Go",
			},
			contains: []string{`Are you sure you want to delete "Intro to Go"?`},
		},
		{
			name: "profile.html.tmpl",
			data: map[string]any{
				"User":         *user,
				"Rooms":        []types.Room{room},
				"RoomMessages": []types.Message{msg},
				"Topics":       topics,
			},
			contains: []string{"Study rooms hosted by alice", "/static/avatar.svg"},
		},
		{
			name: "update_user.html.tmpl",
			data: map[string]any{
				"CurrentUser": user,
				"Form":        types.User{Username: "alice", EmailAddress: "alice@example.com", Avatar: "a.png"},
			},
			contains: []string{`enctype="multipart/form-data"`, "/media/a.png"},
		},
		{
			name: "topics.html.tmpl",
			data: map[string]any{
				"Query":  "lang",
				"Topics": topics,
			},
			contains: []string{"Languages"},
		},
		{
			name: "activity.html.tmpl",
			data: map[string]any{
				"RoomMessages": []types.Message{},
			},
			contains: []string{"No activity yet."},
		},
		{
			name: "error.html.tmpl",
			data: map[string]any{
				"Status":  404,
				"Message": "not found",
			},
			contains: []string{"404", "not found"},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			err := tr.Render(buf, tc.name, tc.data)
			require.NoError(t, err, "failed to render %s", tc.name)

			for _, s := range tc.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	tr, err := NewTemplateRenderer()
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	err = tr.Render(buf, "missing.html.tmpl", nil)
	assert.Error(t, err)
	assert.Empty(t, buf.String(), "expected nothing to be written")
}

func TestStatic(t *testing.T) {
	_, err := fs.Stat(Static(), "avatar.svg")
	assert.NoError(t, err)
	_, err = fs.Stat(Static(), "style.css")
	assert.NoError(t, err)
}

func Test_since(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", since(now))
	assert.Equal(t, "1 minute ago", since(now.Add(-90*time.Second)))
	assert.Equal(t, "3 hours ago", since(now.Add(-3*time.Hour-time.Minute)))
	assert.Equal(t, "2 days ago", since(now.Add(-49*time.Hour)))
}
