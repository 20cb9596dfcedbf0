package api

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/npezzotti/go-forum/internal/types"
)

const (
	homeTemplate          = "home.html.tmpl"
	roomTemplate          = "room.html.tmpl"
	loginRegisterTemplate = "login_register.html.tmpl"
	roomFormTemplate      = "room_form.html.tmpl"
	deleteTemplate        = "delete.html.tmpl"
	profileTemplate       = "profile.html.tmpl"
	updateUserTemplate    = "update_user.html.tmpl"
	topicsTemplate        = "topics.html.tmpl"
	activityTemplate      = "activity.html.tmpl"
	errorTemplate         = "error.html.tmpl"

	homeTopicsLimit = 4
)

// currentUser loads the account of the session attached to r. It
// returns nil for anonymous requests and for sessions whose account no
// longer exists.
func (s *ForumApp) currentUser(r *http.Request) (*types.User, error) {
	userId, ok := UserId(r.Context())
	if !ok {
		return nil, nil
	}

	dbUser, err := s.db.GetAccountById(userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	u := toUser(dbUser)
	return &u, nil
}

// renderPage fills in the values every page expects and writes the
// rendered template with the given status.
func (s *ForumApp) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}

	if _, ok := data["CurrentUser"]; !ok {
		user, err := s.currentUser(r)
		if err != nil {
			s.renderError(w, r, NewInternalServerError(err))
			return
		}
		if user != nil {
			data["CurrentUser"] = user
		}
	}

	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}

	var buf bytes.Buffer
	if err := s.tmpl.Render(&buf, name, data); err != nil {
		s.log.Printf("render %s: %v", name, err)
		errResp := NewInternalServerError(err)
		http.Error(w, errResp.Message, errResp.StatusCode)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *ForumApp) renderError(w http.ResponseWriter, r *http.Request, errResp *ApiError) {
	if errResp.Err != nil {
		s.log.Printf("%s %s: %v request_id=%s", r.Method, r.URL.Path, errResp, RequestId(r.Context()))
	}

	s.renderPage(w, r, errResp.StatusCode, errorTemplate, map[string]any{
		"CurrentUser": nil,
		"Status":      errResp.StatusCode,
		"Message":     errResp.Message,
	})
}

// lookupError maps a failed single record lookup to a response.
func lookupError(err error) *ApiError {
	if errors.Is(err, sql.ErrNoRows) {
		return NewNotFoundError()
	}
	return NewInternalServerError(err)
}

func pathId(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *ForumApp) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, NewNotFoundError())
}

func (s *ForumApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Println("health check:", err)
		errResp := NewInternalServerError(err)
		http.Error(w, errResp.Message, errResp.StatusCode)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// home lists the rooms matching the search box next to the first
// topics and the activity of rooms whose topic matches.
func (s *ForumApp) home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	rooms, err := s.db.SearchRooms(q)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	topics, err := s.db.ListTopics("", homeTopicsLimit)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	roomMessages, err := s.db.ListMessagesByTopicName(q)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	s.renderPage(w, r, http.StatusOK, homeTemplate, map[string]any{
		"Query":        q,
		"Rooms":        toRooms(rooms),
		"Topics":       toTopics(topics),
		"RoomCount":    len(rooms),
		"RoomMessages": toMessages(roomMessages),
	})
}

func (s *ForumApp) topics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	topics, err := s.db.ListTopics(q, 0)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	s.renderPage(w, r, http.StatusOK, topicsTemplate, map[string]any{
		"Query":  q,
		"Topics": toTopics(topics),
	})
}

func (s *ForumApp) activity(w http.ResponseWriter, r *http.Request) {
	messages, err := s.db.ListMessages()
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	s.renderPage(w, r, http.StatusOK, activityTemplate, map[string]any{
		"RoomMessages": toMessages(messages),
	})
}

// userProfile is public: anyone may view the rooms and messages of an
// account.
func (s *ForumApp) userProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r)
	if !ok {
		s.renderError(w, r, NewNotFoundError())
		return
	}

	user, err := s.db.GetAccountById(id)
	if err != nil {
		s.renderError(w, r, lookupError(err))
		return
	}

	rooms, err := s.db.ListRoomsByHost(user.Id)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	messages, err := s.db.ListMessagesByUser(user.Id)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	topics, err := s.db.ListTopics("", 0)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	s.renderPage(w, r, http.StatusOK, profileTemplate, map[string]any{
		"User":         toUser(user),
		"Rooms":        toRooms(rooms),
		"RoomMessages": toMessages(messages),
		"Topics":       toTopics(topics),
	})
}
