package users

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID              string
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	ShippingAddress string
	Roles           []string
	CreatedAt       time.Time
}
