package api

import (
	"net/http"
	"net/mail"
	"strings"
)

const (
	minPasswordLength = 8

	msgUserNotFound       = "User does not exist"
	msgInvalidCredentials = "Username or password does not exist"
	msgRegistrationFailed = "An error occurred during registration"
	msgRoomNameRequired   = "Room name is required"
	msgProfileInvalid     = "Please provide a valid username and email"
	msgProfileTaken       = "That username or email is already in use"
	msgAvatarInvalid      = "Avatar must be a PNG, JPEG, GIF or WebP image up to 5 MB"
)

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

type loginForm struct {
	Email    string
	Password string
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Email:    strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))),
		Password: r.PostFormValue("password"),
	}
}

type registerForm struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

func parseRegisterForm(r *http.Request) registerForm {
	return registerForm{
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Email:     strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))),
		Password1: r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
	}
}

func (f registerForm) valid() bool {
	return f.Username != "" &&
		validEmail(f.Email) &&
		len(f.Password1) >= minPasswordLength &&
		f.Password1 == f.Password2
}

// values are echoed back into the form when it is rendered again.
func (f registerForm) values() map[string]string {
	return map[string]string{
		"username": f.Username,
		"email":    f.Email,
	}
}

type roomForm struct {
	Topic       string
	Name        string
	Description string
}

func parseRoomForm(r *http.Request) roomForm {
	return roomForm{
		Topic:       strings.TrimSpace(r.PostFormValue("topic")),
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: r.PostFormValue("description"),
	}
}

func (f roomForm) valid() bool {
	return f.Name != ""
}

func (f roomForm) values() map[string]string {
	return map[string]string{
		"topic":       f.Topic,
		"name":        f.Name,
		"description": f.Description,
	}
}

type profileForm struct {
	Username string
	Email    string
}

func parseProfileForm(r *http.Request) profileForm {
	return profileForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))),
	}
}

func (f profileForm) valid() bool {
	return f.Username != "" && validEmail(f.Email)
}
