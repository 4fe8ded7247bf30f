package models

import "time"

// User captures application-facing fields for a registered identity.
type User struct {
	UserID       string    `json:"userId" bson:"userId"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Role         Role      `json:"role" bson:"role"`
	Department   string    `json:"department" bson:"department"`
	PasswordHash string    `json:"-" bson:"password"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
