// Package models defines server-side data models persisted in the database
// and returned by the REST API.
package models

import "time"

// User is a row of the users table. Password holds the bcrypt hash and is
// never serialized; neither is RefreshToken.
type User struct {
	ID           string    `db:"id" json:"_id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"fullname" json:"fullname"`
	Avatar       string    `db:"avatar" json:"avatar"`
	CoverImage   string    `db:"cover_image" json:"coverImage"`
	Password     string    `db:"password" json:"-"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Sanitized returns a copy of u without the password hash and refresh token.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Password = ""
	c.RefreshToken = ""
	return &c
}
