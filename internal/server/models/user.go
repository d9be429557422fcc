// Package models holds the server-side domain records persisted by the
// repositories. These structs carry storage fields; transport-facing views
// are shaped by the httpapi layer and never include the password hash.
package models

import "time"

// User is the credential record owned by the users repository.
// PasswordHash never leaves the repository/service layer.
type User struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinedAt     time.Time
	LastLoginAt  *time.Time
}

// Profile is the public summary of a user: what other users are allowed
// to see in listings and inside expanded messages.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// Profile returns the public view of the user.
func (u *User) Profile() Profile {
	return Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
