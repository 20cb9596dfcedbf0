package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/media"
	"github.com/npezzotti/go-forum/internal/stats"
)

// maxUploadMemory caps the multipart form kept in memory; the avatar
// size itself is enforced by the store.
const maxUploadMemory = media.MaxAvatarSize + 1<<20

func (s *ForumApp) loginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, loginRegisterTemplate, map[string]any{
		"Page": "login",
		"Form": map[string]string{},
	})
}

// login looks the account up by email first and reports a missing
// account, then checks the credentials regardless. An unknown email
// therefore shows both the missing account and the invalid credentials
// messages.
func (s *ForumApp) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, NewBadRequestError())
		return
	}

	form := parseLoginForm(r)

	var messages []string
	dbUser, err := s.db.GetAccountByEmail(form.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.renderError(w, r, NewInternalServerError(err))
			return
		}
		messages = append(messages, msgUserNotFound)
	}

	if err == nil && verifyPassword(dbUser.PasswordHash, form.Password) {
		if err := s.startSession(w, dbUser.Id); err != nil {
			s.renderError(w, r, NewInternalServerError(err))
			return
		}

		s.stats.Incr(stats.Logins)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	messages = append(messages, msgInvalidCredentials)
	s.renderPage(w, r, http.StatusOK, loginRegisterTemplate, map[string]any{
		"Page":     "login",
		"Form":     map[string]string{"email": form.Email},
		"Messages": messages,
	})
}

func (s *ForumApp) logout(w http.ResponseWriter, r *http.Request) {
	endSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *ForumApp) registerPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, loginRegisterTemplate, map[string]any{
		"Page": "register",
		"Form": map[string]string{},
	})
}

func (s *ForumApp) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, NewBadRequestError())
		return
	}

	form := parseRegisterForm(r)
	registrationFailed := func() {
		s.renderPage(w, r, http.StatusOK, loginRegisterTemplate, map[string]any{
			"Page":     "register",
			"Form":     form.values(),
			"Messages": []string{msgRegistrationFailed},
		})
	}

	if !form.valid() {
		registrationFailed()
		return
	}

	pwdHash, err := hashPassword(form.Password1)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	newUser, err := s.db.CreateAccount(database.CreateAccountParams{
		Username:     strings.ToLower(form.Username),
		EmailAddress: form.Email,
		PasswordHash: pwdHash,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			registrationFailed()
			return
		}
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	if err := s.startSession(w, newUser.Id); err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	s.stats.Incr(stats.Registrations)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *ForumApp) updateUserPage(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	s.renderPage(w, r, http.StatusOK, updateUserTemplate, map[string]any{
		"CurrentUser": user,
		"Form":        *user,
	})
}

// updateUser overwrites the editable fields of the session's own
// account. A new avatar replaces the stored one; without an upload the
// current avatar is kept.
func (s *ForumApp) updateUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.renderError(w, r, NewInternalServerError(err))
		return
	}
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.renderError(w, r, NewBadRequestError())
		return
	}

	form := parseProfileForm(r)
	rerender := func(message string) {
		submitted := *user
		submitted.Username = form.Username
		submitted.EmailAddress = form.Email
		s.renderPage(w, r, http.StatusOK, updateUserTemplate, map[string]any{
			"CurrentUser": user,
			"Form":        submitted,
			"Messages":    []string{message},
		})
	}

	if !form.valid() {
		rerender(msgProfileInvalid)
		return
	}

	avatar, uploaded, err := s.saveAvatar(r)
	if err != nil {
		if errors.Is(err, media.ErrTooLarge) || errors.Is(err, media.ErrUnsupportedType) {
			rerender(msgAvatarInvalid)
			return
		}
		s.renderError(w, r, NewInternalServerError(err))
		return
	}
	if !uploaded {
		avatar = user.Avatar
	}

	_, err = s.db.UpdateAccount(database.UpdateAccountParams{
		UserId:       user.Id,
		Username:     form.Username,
		EmailAddress: form.Email,
		Avatar:       avatar,
	})
	if err != nil {
		if uploaded {
			s.removeAvatar(avatar)
		}
		if errors.Is(err, database.ErrDuplicate) {
			rerender(msgProfileTaken)
			return
		}
		s.renderError(w, r, NewInternalServerError(err))
		return
	}

	if uploaded && user.Avatar != "" {
		s.removeAvatar(user.Avatar)
	}

	http.Redirect(w, r, fmt.Sprintf("/profile/%d", user.Id), http.StatusFound)
}

// saveAvatar stores the uploaded avatar, if the request carries one.
func (s *ForumApp) saveAvatar(r *http.Request) (string, bool, error) {
	if r.MultipartForm == nil {
		return "", false, nil
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read avatar: %w", err)
	}
	defer file.Close()

	name, err := s.avatars.Save(file)
	if err != nil {
		return "", false, fmt.Errorf("save avatar: %w", err)
	}

	return name, true, nil
}

func (s *ForumApp) removeAvatar(name string) {
	if err := s.avatars.Remove(name); err != nil {
		s.log.Printf("remove avatar %s: %v", name, err)
	}
}
