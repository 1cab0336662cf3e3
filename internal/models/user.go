package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleCustomer  Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RoleCustomer
}

// User is an actor. Role is fixed at registration.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Phone     string    `bun:"phone" json:"phone"`
	Role      Role      `bun:"role,notnull" json:"role"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type UserCreate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}
