package models

import "time"

// AccessLevel controls who besides the owner may read a record.
type AccessLevel string

const (
	AccessPublic     AccessLevel = "public"
	AccessRestricted AccessLevel = "restricted"
)

// Valid reports whether a is a known access level.
func (a AccessLevel) Valid() bool {
	return a == AccessPublic || a == AccessRestricted
}

// Record is a document owned by exactly one user.
type Record struct {
	ID          string      `json:"id" bson:"_id"`
	UserID      string      `json:"userId" bson:"userId"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Status      string      `json:"status" bson:"status"`
	Priority    string      `json:"priority" bson:"priority"`
	AccessLevel AccessLevel `json:"accessLevel" bson:"accessLevel"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
}
