package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product represents a single item listed in a shop.
type Product struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description" bson:"description"`
	Price       float64       `json:"price" bson:"price"`
	Stock       int           `json:"stock" bson:"stock"`
	Shop        bson.ObjectID `json:"shop" bson:"shop"`
	Category    bson.ObjectID `json:"category" bson:"category"`
	Image       string        `json:"image" bson:"image"`
	CreatedAt   time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updated_at"`
}
