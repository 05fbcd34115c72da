package models

import "time"

// User is a stored credential record. PasswordHash is an encoded argon2id
// hash, never the password itself. Email is empty when the user did not
// provide one.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
