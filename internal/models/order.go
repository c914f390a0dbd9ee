package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CartItem is a product reference plus quantity inside an order.
type CartItem struct {
	ProductID bson.ObjectID `json:"productId" bson:"product_id"`
	Quantity  int           `json:"quantity" bson:"quantity"`
}

// Address is the shipping address embedded in an order.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Zipcode string `json:"zipcode" bson:"zipcode"`
	Country string `json:"country" bson:"country"`
}

// Order represents a placed order. Creation does not reserve or decrement
// stock; the order is a plain document.
type Order struct {
	ID         bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Customer   bson.ObjectID `json:"customer" bson:"customer"`
	OrderPrice float64       `json:"orderPrice" bson:"order_price"`
	Products   []CartItem    `json:"products" bson:"products"`
	Address    Address       `json:"address" bson:"address"`
	ContactNo  string        `json:"contactNo" bson:"contact_no"`
	CreatedAt  time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updated_at"`
}
