package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category groups products; names are unique.
type Category struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}
