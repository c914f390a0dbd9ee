package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopnest/shopnest-be/internal/apierr"
	"github.com/shopnest/shopnest-be/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// OrderItemInput references a product by hex ID with a quantity.
type OrderItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderInput carries the fields required to place an order.
type OrderInput struct {
	Customer   string           `json:"customer"`
	OrderPrice float64          `json:"orderPrice"`
	Products   []OrderItemInput `json:"products"`
	Address    models.Address   `json:"address"`
	ContactNo  string           `json:"contactNo"`
}

// OrderUpdate carries a partial order update.
type OrderUpdate struct {
	Customer   string           `json:"customer"`
	OrderPrice *float64         `json:"orderPrice"`
	Products   []OrderItemInput `json:"products"`
	Address    *models.Address  `json:"address"`
	ContactNo  string           `json:"contactNo"`
}

// OrderServiceProvider defines the interface for order services.
type OrderServiceProvider interface {
	Create(ctx context.Context, input OrderInput) (models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (models.Order, error)
	Update(ctx context.Context, id string, update OrderUpdate) (models.Order, error)
	Delete(ctx context.Context, id string) error
}

// OrderService provides business logic for order management. Orders are
// plain documents; creation does not touch product stock.
type OrderService struct {
	orders *mongo.Collection
}

// NewOrderService creates a new OrderService.
func NewOrderService(db *mongo.Database) *OrderService {
	return &OrderService{orders: db.Collection("orders")}
}

// Create inserts a new order.
func (s *OrderService) Create(ctx context.Context, input OrderInput) (models.Order, error) {
	customer, err := parseID(input.Customer)
	if err != nil {
		return models.Order{}, err
	}
	items, err := parseItems(input.Products)
	if err != nil {
		return models.Order{}, err
	}

	now := time.Now()
	order := models.Order{
		ID:         bson.NewObjectID(),
		Customer:   customer,
		OrderPrice: input.OrderPrice,
		Products:   items,
		Address:    input.Address,
		ContactNo:  input.ContactNo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

// GetAll retrieves every order.
func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	cursor, err := s.orders.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order.
func (s *OrderService) GetByID(ctx context.Context, id string) (models.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Order{}, err
	}

	var order models.Order
	if err := s.orders.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, apierr.NotFound("Order not found")
		}
		return models.Order{}, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// Update sets the provided fields on an order.
func (s *OrderService) Update(ctx context.Context, id string, update OrderUpdate) (models.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Order{}, err
	}

	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if update.Customer != "" {
		customer, err := parseID(update.Customer)
		if err != nil {
			return models.Order{}, err
		}
		set = append(set, bson.E{Key: "customer", Value: customer})
	}
	if update.OrderPrice != nil {
		set = append(set, bson.E{Key: "order_price", Value: *update.OrderPrice})
	}
	if update.Products != nil {
		items, err := parseItems(update.Products)
		if err != nil {
			return models.Order{}, err
		}
		set = append(set, bson.E{Key: "products", Value: items})
	}
	if update.Address != nil {
		set = append(set, bson.E{Key: "address", Value: *update.Address})
	}
	if update.ContactNo != "" {
		set = append(set, bson.E{Key: "contact_no", Value: update.ContactNo})
	}

	var order models.Order
	res := s.orders.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, apierr.NotFound("Order not found")
		}
		return models.Order{}, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.orders.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return apierr.NotFound("Order not found")
	}
	return nil
}

func parseItems(inputs []OrderItemInput) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0, len(inputs))
	for _, in := range inputs {
		productID, err := parseID(in.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.CartItem{ProductID: productID, Quantity: in.Quantity})
	}
	return items, nil
}
