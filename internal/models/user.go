package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a user account in the system.
type User struct {
	ID           bson.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName     string        `json:"fullName" bson:"full_name"`
	Username     string        `json:"username" bson:"username"`
	Email        string        `json:"email" bson:"email"`
	Password     string        `json:"-" bson:"password"` // bcrypt digest, never exposed to the client
	Avatar       string        `json:"avatar" bson:"avatar"`
	RefreshToken string        `json:"-" bson:"refresh_token,omitempty"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updated_at"`
}
