package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const requestIdHeader = "X-Request-Id"

func requestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIdHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(requestIdHeader, id)
		ctx := context.WithValue(r.Context(), requestIdKey, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey).(string)
	return id
}

func (s *ForumApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				s.log.Printf("panic: %v request_id=%s", panicError, RequestId(r.Context()))
				errResp := NewInternalServerError(panicError)
				w.Header().Set("Connection", "close")
				http.Error(w, errResp.Message, errResp.StatusCode)
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// identify attaches the session identity to the request context when
// the token cookie is valid. Requests without one continue anonymously.
func (s *ForumApp) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCookie, err := r.Cookie(tokenCookieKey)
		if err != nil || tokenCookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		userId, err := s.extractUserIdFromToken(tokenCookie.Value)
		if err != nil {
			s.log.Printf("failed to extract user id from token: %v", err)
			endSession(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserId(r.Context(), userId)))
	})
}

// authMiddleware sends anonymous visitors to the login page.
func (s *ForumApp) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserId(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

		next(w, r)
	}
}

// anonymousOnly sends visitors that already have a session home.
func (s *ForumApp) anonymousOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserId(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		next(w, r)
	}
}
