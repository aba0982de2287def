package models

import (
	"time"
)

// User represents a user profile
type User struct {
	ID        int64     `json:"Id"`
	Name      string    `json:"Name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	Karma     int       `json:"karma"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserInput is the payload for creating a user. Each field is accepted under
// its platform name and its bare alias; the platform name wins when both are set.
type UserInput struct {
	Name        string `json:"Name"`
	NameAlias   string `json:"name"`
	Email       string `json:"email_c"`
	EmailAlias  string `json:"email"`
	Bio         string `json:"bio_c"`
	BioAlias    string `json:"bio"`
	Avatar      string `json:"avatar_c"`
	AvatarAlias string `json:"avatar"`
}

// UserUpdate is a sparse user update accepting the same aliases as UserInput
type UserUpdate struct {
	Name        *string `json:"Name,omitempty"`
	NameAlias   *string `json:"name,omitempty"`
	Email       *string `json:"email_c,omitempty"`
	EmailAlias  *string `json:"email,omitempty"`
	Bio         *string `json:"bio_c,omitempty"`
	BioAlias    *string `json:"bio,omitempty"`
	Avatar      *string `json:"avatar_c,omitempty"`
	AvatarAlias *string `json:"avatar,omitempty"`
}

// Page sizes and sort keys of user listings
const (
	UserListLimit   = 50
	UserSearchLimit = 20
)
