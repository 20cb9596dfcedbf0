package api

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/render"
	"github.com/npezzotti/go-forum/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_healthCheck(t *testing.T) {
	tcases := []struct {
		name    string
		mockErr error
	}{
		{
			name:    "successful health check",
			mockErr: nil,
		},
		{
			name:    "failed health check",
			mockErr: errors.New("db error"),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockForumRepository{}
			defer mockRepo.AssertExpectations(t)

			mockRepo.On("Ping").Return(tc.mockErr).Once()
			app := newTestApp(t, mockRepo, nil, nil)

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			app.healthCheck(rr, req)

			if tc.mockErr != nil {
				assert.Equal(t, http.StatusInternalServerError, rr.Code, "expected status code to be 500")
			} else {
				assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
				assert.Equal(t, "OK", rr.Body.String(), "expected response body to be 'OK'")
			}
		})
	}
}

func Test_pathId(t *testing.T) {
	tcases := []struct {
		value string
		id    int
		ok    bool
	}{
		{value: "12", id: 12, ok: true},
		{value: "0", ok: false},
		{value: "-3", ok: false},
		{value: "abc", ok: false},
		{value: "", ok: false},
	}

	for _, tc := range tcases {
		t.Run(tc.value, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tc.value)

			id, ok := pathId(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.id, id)
		})
	}
}

func Test_home(t *testing.T) {
	rooms := []database.Room{
		{Id: 1, HostId: 2, HostUsername: "bob", TopicId: 1, TopicName: "Languages", Name: "Intro to Go"},
		{Id: 2, HostId: 2, HostUsername: "bob", Name: "Off topic"},
	}
	topics := []database.Topic{{Id: 1, Name: "Languages", RoomCount: 1}}
	messages := []database.Message{{Id: 9, UserId: 3, Username: "carol", RoomId: 1, RoomName: "Intro to Go", Body: "hi"}}

	t.Run("anonymous search", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		mockTmpl := &render.MockRenderer{}
		defer mockRepo.AssertExpectations(t)
		defer mockTmpl.AssertExpectations(t)

		mockRepo.On("SearchRooms", "go").Return(rooms, nil).Once()
		mockRepo.On("ListTopics", "", homeTopicsLimit).Return(topics, nil).Once()
		mockRepo.On("ListMessagesByTopicName", "go").Return(messages, nil).Once()
		expectRender(mockTmpl, homeTemplate, func(data map[string]any) bool {
			rendered, ok := data["Rooms"].([]types.Room)
			if !ok || len(rendered) != 2 {
				return false
			}
			_, hasUser := data["CurrentUser"]
			return data["Query"] == "go" &&
				data["RoomCount"] == 2 &&
				rendered[0].Topic != nil && rendered[0].Topic.Name == "Languages" &&
				rendered[1].Topic == nil &&
				len(data["RoomMessages"].([]types.Message)) == 1 &&
				!hasUser
		})

		app := newTestApp(t, mockRepo, mockTmpl, nil)
		rr := httptest.NewRecorder()
		app.home(rr, httptest.NewRequest(http.MethodGet, "/?q=go", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, homeTemplate, rr.Body.String())
	})

	t.Run("signed in without search", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		mockTmpl := &render.MockRenderer{}
		defer mockRepo.AssertExpectations(t)
		defer mockTmpl.AssertExpectations(t)

		mockRepo.On("SearchRooms", "").Return(rooms, nil).Once()
		mockRepo.On("ListTopics", "", homeTopicsLimit).Return(topics, nil).Once()
		mockRepo.On("ListMessagesByTopicName", "").Return(messages, nil).Once()
		mockRepo.On("GetAccountById", 3).Return(testAccount(3, "carol"), nil).Once()
		expectRender(mockTmpl, homeTemplate, func(data map[string]any) bool {
			user, ok := data["CurrentUser"].(*types.User)
			return ok && user.Username == "carol" && data["Query"] == ""
		})

		app := newTestApp(t, mockRepo, mockTmpl, nil)
		rr := httptest.NewRecorder()
		app.home(rr, withSession(httptest.NewRequest(http.MethodGet, "/", nil), 3))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("db error", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		mockTmpl := &render.MockRenderer{}
		defer mockRepo.AssertExpectations(t)
		defer mockTmpl.AssertExpectations(t)

		mockRepo.On("SearchRooms", "").Return([]database.Room(nil), errors.New("db error")).Once()
		expectRender(mockTmpl, errorTemplate, func(data map[string]any) bool {
			return data["Status"] == http.StatusInternalServerError
		})

		app := newTestApp(t, mockRepo, mockTmpl, nil)
		rr := httptest.NewRecorder()
		app.home(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func Test_topics(t *testing.T) {
	mockRepo := &database.MockForumRepository{}
	mockTmpl := &render.MockRenderer{}
	defer mockRepo.AssertExpectations(t)
	defer mockTmpl.AssertExpectations(t)

	mockRepo.On("ListTopics", "lang", 0).Return([]database.Topic{
		{Id: 1, Name: "Languages", RoomCount: 3},
	}, nil).Once()
	expectRender(mockTmpl, topicsTemplate, func(data map[string]any) bool {
		topics := data["Topics"].([]types.Topic)
		return data["Query"] == "lang" && len(topics) == 1 && topics[0].RoomCount == 3
	})

	app := newTestApp(t, mockRepo, mockTmpl, nil)
	rr := httptest.NewRecorder()
	app.topics(rr, httptest.NewRequest(http.MethodGet, "/topics?q=lang", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func Test_activity(t *testing.T) {
	mockRepo := &database.MockForumRepository{}
	mockTmpl := &render.MockRenderer{}
	defer mockRepo.AssertExpectations(t)
	defer mockTmpl.AssertExpectations(t)

	mockRepo.On("ListMessages").Return([]database.Message{
		{Id: 2, UserId: 1, Username: "alice", RoomId: 1, RoomName: "Intro to Go", Body: "second"},
		{Id: 1, UserId: 1, Username: "alice", RoomId: 1, RoomName: "Intro to Go", Body: "first"},
	}, nil).Once()
	expectRender(mockTmpl, activityTemplate, func(data map[string]any) bool {
		messages := data["RoomMessages"].([]types.Message)
		return len(messages) == 2 && messages[0].Body == "second" && messages[0].User.Username == "alice"
	})

	app := newTestApp(t, mockRepo, mockTmpl, nil)
	rr := httptest.NewRecorder()
	app.activity(rr, httptest.NewRequest(http.MethodGet, "/activity", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func Test_userProfile(t *testing.T) {
	t.Run("existing account", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		mockTmpl := &render.MockRenderer{}
		defer mockRepo.AssertExpectations(t)
		defer mockTmpl.AssertExpectations(t)

		mockRepo.On("GetAccountById", 2).Return(testAccount(2, "bob"), nil).Once()
		mockRepo.On("ListRoomsByHost", 2).Return([]database.Room{{Id: 1, HostId: 2, HostUsername: "bob", Name: "Intro to Go"}}, nil).Once()
		mockRepo.On("ListMessagesByUser", 2).Return([]database.Message{}, nil).Once()
		mockRepo.On("ListTopics", "", 0).Return([]database.Topic{}, nil).Once()
		expectRender(mockTmpl, profileTemplate, func(data map[string]any) bool {
			user := data["User"].(types.User)
			rooms := data["Rooms"].([]types.Room)
			return user.Username == "bob" && len(rooms) == 1 && rooms[0].HostedBy(2)
		})

		app := newTestApp(t, mockRepo, mockTmpl, nil)
		req := httptest.NewRequest(http.MethodGet, "/profile/2", nil)
		req.SetPathValue("id", "2")
		rr := httptest.NewRecorder()
		app.userProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown account", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		mockTmpl := &render.MockRenderer{}
		defer mockRepo.AssertExpectations(t)
		defer mockTmpl.AssertExpectations(t)

		mockRepo.On("GetAccountById", 99).Return(database.User{}, sql.ErrNoRows).Once()
		expectRender(mockTmpl, errorTemplate, func(data map[string]any) bool {
			return data["Status"] == http.StatusNotFound
		})

		app := newTestApp(t, mockRepo, mockTmpl, nil)
		req := httptest.NewRequest(http.MethodGet, "/profile/99", nil)
		req.SetPathValue("id", "99")
		rr := httptest.NewRecorder()
		app.userProfile(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func Test_renderPage_RenderFailure(t *testing.T) {
	mockTmpl := &render.MockRenderer{}
	defer mockTmpl.AssertExpectations(t)

	mockTmpl.On("Render", mock.Anything, topicsTemplate, mock.Anything).Return(errors.New("boom")).Once()

	app := newTestApp(t, nil, mockTmpl, nil)
	rr := httptest.NewRecorder()
	app.renderPage(rr, httptest.NewRequest(http.MethodGet, "/topics", nil), http.StatusOK, topicsTemplate, nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal server error")
}
