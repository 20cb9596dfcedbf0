package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/stats"
	"github.com/npezzotti/go-forum/internal/types"
)

// loadRoom resolves the {id} path value to a room, writing the error
// response itself when it cannot.
func (s *ForumApp) loadRoom(w http.ResponseWriter, r *http.Request) (types.Room, bool) {
	id, ok := pathId(r)
	if !ok {
		s.renderError(w, r, NewNotFoundError())
		return types.Room{}, false
	}

	room, err := s.db.GetRoom(id)
	if err != nil {
		s.renderError(w, r, lookupError(err))
		return types.Room{}, false
	}

	return toRoom(room), true
}

// loadHostedRoom is loadRoom restricted to the room's host.
func (s *ForumApp) loadHostedRoom(w http.ResponseWriter, r *http.Request) (types.Room, bool) {
	room, ok := s.loadRoom(w, r)
	if !ok {
		return types.Room{}, false
	}

	userId, _ := UserId(r.Context())
	if !room.HostedBy(userId) {
		writeForbidden(w)
		return types.Room{}, false
	}

	return room, true
}

func (s *ForumApp) room(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadRoom(w, r)
	if !ok {
		return
	}

	messages, err := s.db.ListRoomMessages(room.Id)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	participants, err := s.db.ListParticipants(room.Id)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	s.renderPage(w, r, http.StatusOK, roomTemplate, map[string]any{
		"Room":         room,
		"RoomMessages": toMessages(messages),
		"Participants": toUsers(participants),
	})
}

// postMessage adds a message to the room and makes the author a
// participant, then reloads the room page.
func (s *ForumApp) postMessage(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadRoom(w, r)
	if !ok {
		return
	}

	userId, _ := UserId(r.Context())
	body := strings.TrimSpace(r.PostFormValue("body"))
	if body != "" {
		_, err := s.db.PostMessage(database.PostMessageParams{
			UserId: userId,
			RoomId: room.Id,
			Body:   body,
		})
		if err != nil {
			s.renderError(w, r, NewInternalServerError(err))
			return
		}

		s.stats.Incr(stats.MessagesPosted)
	}

	http.Redirect(w, r, fmt.Sprintf("/room/%d", room.Id), http.StatusFound)
}

func (s *ForumApp) renderRoomForm(w http.ResponseWriter, r *http.Request, room *types.Room, form roomForm, messages []string) {
	topics, err := s.db.ListTopics("", 0)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	data := map[string]any{
		"Topics":   toTopics(topics),
		"Form":     form.values(),
		"Messages": messages,
	}
	if room != nil {
		data["Room"] = *room
	}

	s.renderPage(w, r, http.StatusOK, roomFormTemplate, data)
}

func (s *ForumApp) createRoomPage(w http.ResponseWriter, r *http.Request) {
	s.renderRoomForm(w, r, nil, roomForm{}, nil)
}

func (s *ForumApp) createRoom(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, NewBadRequestError())
		return
	}

	form := parseRoomForm(r)
	if !form.valid() {
		s.renderRoomForm(w, r, nil, form, []string{msgRoomNameRequired})
		return
	}

	userId, _ := UserId(r.Context())
	_, err := s.db.CreateRoom(database.CreateRoomParams{
		HostId:      userId,
		TopicName:   form.Topic,
		Name:        form.Name,
		Description: form.Description,
	})
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	s.stats.Incr(stats.RoomsCreated)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *ForumApp) updateRoomPage(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadHostedRoom(w, r)
	if !ok {
		return
	}

	form := roomForm{Name: room.Name, Description: room.Description}
	if room.Topic != nil {
		form.Topic = room.Topic.Name
	}

	s.renderRoomForm(w, r, &room, form, nil)
}

func (s *ForumApp) updateRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadHostedRoom(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, NewBadRequestError())
		return
	}

	form := parseRoomForm(r)
	if !form.valid() {
		s.renderRoomForm(w, r, &room, form, []string{msgRoomNameRequired})
		return
	}

	_, err := s.db.UpdateRoom(database.UpdateRoomParams{
		RoomId:      room.Id,
		TopicName:   form.Topic,
		Name:        form.Name,
		Description: form.Description,
	})
	if err != nil {
		s.renderError(w, r, lookupError(err))
		return
	}

	s.stats.Incr(stats.RoomsUpdated)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *ForumApp) deleteRoomPage(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadHostedRoom(w, r)
	if !ok {
		return
	}

	s.renderPage(w, r, http.StatusOK, deleteTemplate, map[string]any{
		"Obj": room.Name,
	})
}

func (s *ForumApp) deleteRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadHostedRoom(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteRoom(room.Id); err != nil {
		s.renderError(w, r, lookupError(err))
		return
	}

	s.stats.Incr(stats.RoomsDeleted)
	http.Redirect(w, r, "/", http.StatusFound)
}

// loadOwnMessage resolves the {id} path value to a message authored by
// the session's account.
func (s *ForumApp) loadOwnMessage(w http.ResponseWriter, r *http.Request) (types.Message, bool) {
	id, ok := pathId(r)
	if !ok {
		s.renderError(w, r, NewNotFoundError())
		return types.Message{}, false
	}

	msg, err := s.db.GetMessage(id)
	if err != nil {
		s.renderError(w, r, lookupError(err))
		return types.Message{}, false
	}

	userId, _ := UserId(r.Context())
	if msg.UserId != userId {
		writeForbidden(w)
		return types.Message{}, false
	}

	return toMessage(msg), true
}

func (s *ForumApp) deleteMessagePage(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.loadOwnMessage(w, r)
	if !ok {
		return
	}

	s.renderPage(w, r, http.StatusOK, deleteTemplate, map[string]any{
		"Obj": excerpt(msg.Body),
	})
}

func (s *ForumApp) deleteMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.loadOwnMessage(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteMessage(msg.Id); err != nil {
		s.renderError(w, r, lookupError(err))
		return
	}

	s.stats.Incr(stats.MessagesDeleted)
	http.Redirect(w, r, "/", http.StatusFound)
}

// excerpt shortens a message body for the confirmation page.
func excerpt(body string) string {
	const max = 50
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max])
}
