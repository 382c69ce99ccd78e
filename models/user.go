package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/biosecret/todolist-api/auth"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// User owns todo lists. Password material never leaves the server.
type User struct {
	ID        string
	FullName  string
	Email     string
	Hash      string
	Salt      string
	TodoLists []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public projection of a user.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

// AuthPayload is a profile plus a freshly issued token.
type AuthPayload struct {
	Profile
	Token string `json:"token"`
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

func (u *User) AuthPayload(token string) AuthPayload {
	return AuthPayload{Profile: u.Profile(), Token: token}
}

// SetPassword replaces the salt and hash.
func (u *User) SetPassword(password string) error {
	salt, hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u.Salt, u.Hash = salt, hash
	return nil
}

func (u *User) ValidPassword(password string) bool {
	return auth.CheckPassword(password, u.Salt, u.Hash)
}

// AddTodoList links l to u on both sides.
func (u *User) AddTodoList(l *TodoList) {
	u.TodoLists = append(u.TodoLists, l.ID)
	l.AuthorID = u.ID
	l.Author = u
}

func (u *User) Validate() error {
	v := NewValidationError()
	if u.FullName == "" {
		v.Add("fullname", MsgBlank)
	}
	switch {
	case u.Email == "":
		v.Add("email", MsgBlank)
	case !emailPattern.MatchString(u.Email):
		v.Add("email", MsgInvalid)
	}
	return v.OrNil()
}
