package model

import "time"

type AccountID int64

// DefaultRole is stored on every new account. Nothing reads it for access
// control.
const DefaultRole = "user"

type RegisterParams struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type LoginParams struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type Account struct {
	ID           AccountID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	JoinedAt     time.Time `db:"joined_at"`
}
