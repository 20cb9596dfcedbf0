package api

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/npezzotti/go-forum/internal/config"
	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/render"
	"github.com/npezzotti/go-forum/internal/stats"
	"github.com/npezzotti/go-forum/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

func newTestApp(t *testing.T, repo database.ForumRepository, tmpl render.Renderer, st stats.StatsProvider) *ForumApp {
	t.Helper()

	return NewForumApp(
		http.NewServeMux(),
		testutil.TestLogger(t),
		repo,
		tmpl,
		nil,
		st,
		&config.Config{SigningKey: testSigningKey},
	)
}

// findCookie returns the named cookie set on the recorded response.
func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// expectRender registers a render of the named template whose data
// satisfies match. The renderer writes the template name so responses
// can be told apart.
func expectRender(tmpl *render.MockRenderer, name string, match func(map[string]any) bool) *mock.Call {
	return tmpl.On("Render", mock.Anything, name, mock.MatchedBy(match)).
		Run(func(args mock.Arguments) {
			io.WriteString(args.Get(0).(io.Writer), name)
		}).
		Return(nil).
		Once()
}

func anyData(map[string]any) bool { return true }

func withSession(r *http.Request, userId int) *http.Request {
	return r.WithContext(WithUserId(r.Context(), userId))
}

func formRequest(method, target string, values map[string]string) *http.Request {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func testAccount(id int, username string) database.User {
	now := time.Now().UTC()
	return database.User{
		Id:           id,
		Username:     username,
		EmailAddress: username + "@example.com",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestNewForumApp(t *testing.T) {
	app := NewForumApp(http.NewServeMux(), testutil.TestLogger(t), nil, nil, nil, nil, &config.Config{
		ServerAddr: "localhost:9000",
		SigningKey: testSigningKey,
	})

	assert.Equal(t, "localhost:9000", app.srv.Addr)
	assert.Equal(t, config.DefaultSessionTTL, app.sessionTTL, "expected default session lifetime")
	assert.NotNil(t, app.srv.Handler)
}

func TestForumApp_Routes(t *testing.T) {
	tmpl, err := render.NewTemplateRenderer()
	require.NoError(t, err)

	mockRepo := &database.MockForumRepository{}
	app := newTestApp(t, mockRepo, tmpl, &stats.MockStatsUpdater{})
	handler := app.srv.Handler

	t.Run("anonymous room creation redirects to login", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/room/create", nil))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
		assert.NotEmpty(t, rr.Header().Get(requestIdHeader), "expected request id header")
	})

	t.Run("anonymous message post redirects to login", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, formRequest(http.MethodPost, "/room/1", map[string]string{"body": "hi"}))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
	})

	t.Run("unknown path renders not found page", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "not found")
	})

	t.Run("missing room renders not found page", func(t *testing.T) {
		mockRepo.On("GetRoom", 42).Return(database.Room{}, sql.ErrNoRows).Once()

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/room/42", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("home page with session", func(t *testing.T) {
		token, err := app.createJwtForSession(1, time.Hour)
		require.NoError(t, err)

		mockRepo.On("SearchRooms", "go").Return([]database.Room{
			{Id: 3, HostId: 2, HostUsername: "bob", TopicId: 1, TopicName: "Languages", Name: "Intro to Go"},
		}, nil).Once()
		mockRepo.On("ListTopics", "", homeTopicsLimit).Return([]database.Topic{{Id: 1, Name: "Languages", RoomCount: 1}}, nil).Once()
		mockRepo.On("ListMessagesByTopicName", "go").Return([]database.Message{}, nil).Once()
		mockRepo.On("GetAccountById", 1).Return(testAccount(1, "alice"), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/?q=go", nil)
		req.AddCookie(createJwtCookie(token, time.Hour))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Intro to Go")
		assert.Contains(t, body, "alice")
		assert.Contains(t, body, "1 rooms available")
	})

	t.Run("static files", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	mockRepo.AssertExpectations(t)
}
