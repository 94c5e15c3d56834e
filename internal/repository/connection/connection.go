package connection

import "errors"

var (
	ErrNotFound      = errors.New("connection not found")
	ErrAlreadyExists = errors.New("connection already exists")
)

type Role string

const (
	RolePlayer  Role = "player"
	RoleDisplay Role = "display"
)

type Surface struct {
	ID      string
	Role    Role
	Season  int
	Episode int
}

type Counts struct {
	Players  int `json:"players"`
	Displays int `json:"displays"`
}
