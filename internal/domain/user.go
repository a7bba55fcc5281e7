package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

// User is the persisted user record. Password always holds the bcrypt
// hash, never the plaintext.
type User struct {
	ID        string
	FirstName string
	LastName  string
	BirthDay  string
	Email     string
	Password  string
	AvatarURL *string
}

// PublicUser is the outward projection of a User: every field except the
// password hash.
type PublicUser struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	BirthDay  string  `json:"birthDay"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatarUrl"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDay:  u.BirthDay,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}
