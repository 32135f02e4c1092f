package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Actor is the identity performing a mutation, as vouched for by the caller.
type Actor struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ActorFor builds the Actor of an authenticated user.
func ActorFor(u User) Actor {
	return Actor{UserID: u.ID, UserName: u.Name, IsAdmin: u.IsAdmin()}
}
