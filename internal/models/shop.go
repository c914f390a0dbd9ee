package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Shop represents a storefront owned by a user.
type Shop struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description" bson:"description"`
	Owner       bson.ObjectID `json:"owner" bson:"owner"`
	Image       string        `json:"image" bson:"image"`
	CreatedAt   time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updated_at"`
}
