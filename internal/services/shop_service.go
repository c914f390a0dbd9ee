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

// ShopServiceProvider defines the interface for shop services.
type ShopServiceProvider interface {
	Create(ctx context.Context, name, description, ownerID, imageURL string) (models.Shop, error)
	GetAll(ctx context.Context) ([]models.Shop, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Shop, error)
	GetByID(ctx context.Context, id string) (models.Shop, error)
	Update(ctx context.Context, id, name, description, imageURL string) (models.Shop, error)
	Delete(ctx context.Context, id string) error
}

// ShopService provides business logic for shop management.
type ShopService struct {
	shops *mongo.Collection
}

// NewShopService creates a new ShopService.
func NewShopService(db *mongo.Database) *ShopService {
	return &ShopService{shops: db.Collection("shops")}
}

// Create inserts a new shop owned by the given user.
func (s *ShopService) Create(ctx context.Context, name, description, ownerID, imageURL string) (models.Shop, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return models.Shop{}, err
	}

	now := time.Now()
	shop := models.Shop{
		ID:          bson.NewObjectID(),
		Name:        name,
		Description: description,
		Owner:       owner,
		Image:       imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.shops.InsertOne(ctx, shop); err != nil {
		return models.Shop{}, fmt.Errorf("insert shop: %w", err)
	}
	return shop, nil
}

// GetAll retrieves every shop.
func (s *ShopService) GetAll(ctx context.Context) ([]models.Shop, error) {
	return s.find(ctx, bson.D{})
}

// GetByOwner retrieves the shops owned by a user.
func (s *ShopService) GetByOwner(ctx context.Context, ownerID string) ([]models.Shop, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, bson.D{{Key: "owner", Value: owner}})
}

// GetByID retrieves a single shop.
func (s *ShopService) GetByID(ctx context.Context, id string) (models.Shop, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Shop{}, err
	}

	var shop models.Shop
	if err := s.shops.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&shop); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Shop{}, apierr.NotFound("Shop not found")
		}
		return models.Shop{}, fmt.Errorf("find shop: %w", err)
	}
	return shop, nil
}

// Update sets the provided fields on a shop. Empty fields are left untouched.
func (s *ShopService) Update(ctx context.Context, id, name, description, imageURL string) (models.Shop, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Shop{}, err
	}

	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if name != "" {
		set = append(set, bson.E{Key: "name", Value: name})
	}
	if description != "" {
		set = append(set, bson.E{Key: "description", Value: description})
	}
	if imageURL != "" {
		set = append(set, bson.E{Key: "image", Value: imageURL})
	}

	var shop models.Shop
	res := s.shops.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Decode(&shop); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Shop{}, apierr.NotFound("Shop not found")
		}
		return models.Shop{}, fmt.Errorf("update shop: %w", err)
	}
	return shop, nil
}

// Delete removes a shop.
func (s *ShopService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.shops.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if res.DeletedCount == 0 {
		return apierr.NotFound("Shop not found")
	}
	return nil
}

func (s *ShopService) find(ctx context.Context, filter bson.D) ([]models.Shop, error) {
	cursor, err := s.shops.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find shops: %w", err)
	}

	shops := []models.Shop{}
	if err := cursor.All(ctx, &shops); err != nil {
		return nil, fmt.Errorf("decode shops: %w", err)
	}
	return shops, nil
}
