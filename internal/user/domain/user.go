package domain

import "time"

type ID string

type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Public is the identity shape returned to clients. The password hash
// never leaves the repository/service layer.
type Public struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, Username: u.Username}
}
