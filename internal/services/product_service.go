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

// ProductInput carries the fields required to list a product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Shop        string
	Category    string
	ImageURL    string
}

// ProductUpdate carries a partial product update. Zero-value fields are
// left untouched; Price and Stock use pointers so zero is assignable.
type ProductUpdate struct {
	Name        string
	Description string
	Price       *float64
	Stock       *int
	Category    string
	ImageURL    string
}

// ProductServiceProvider defines the interface for product services.
type ProductServiceProvider interface {
	Create(ctx context.Context, input ProductInput) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	GetByShop(ctx context.Context, shopID string) ([]models.Product, error)
	Update(ctx context.Context, id string, update ProductUpdate) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductService provides business logic for product management.
type ProductService struct {
	products *mongo.Collection
}

// NewProductService creates a new ProductService.
func NewProductService(db *mongo.Database) *ProductService {
	return &ProductService{products: db.Collection("products")}
}

// Create inserts a new product.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (models.Product, error) {
	shop, err := parseID(input.Shop)
	if err != nil {
		return models.Product{}, err
	}
	category, err := parseID(input.Category)
	if err != nil {
		return models.Product{}, err
	}

	now := time.Now()
	product := models.Product{
		ID:          bson.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Shop:        shop,
		Category:    category,
		Image:       input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.products.InsertOne(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return product, nil
}

// GetAll retrieves every product.
func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	return s.find(ctx, bson.D{})
}

// GetByID retrieves a single product.
func (s *ProductService) GetByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}

	var product models.Product
	if err := s.products.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, apierr.NotFound("Product not found")
		}
		return models.Product{}, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// GetByShop retrieves the products listed by a shop.
func (s *ProductService) GetByShop(ctx context.Context, shopID string) ([]models.Product, error) {
	shop, err := parseID(shopID)
	if err != nil {
		return nil, err
	}

	products, err := s.find(ctx, bson.D{{Key: "shop", Value: shop}})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apierr.NotFound("No products found for this shop")
	}
	return products, nil
}

// Update sets the provided fields on a product.
func (s *ProductService) Update(ctx context.Context, id string, update ProductUpdate) (models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}

	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if update.Name != "" {
		set = append(set, bson.E{Key: "name", Value: update.Name})
	}
	if update.Description != "" {
		set = append(set, bson.E{Key: "description", Value: update.Description})
	}
	if update.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *update.Price})
	}
	if update.Stock != nil {
		set = append(set, bson.E{Key: "stock", Value: *update.Stock})
	}
	if update.Category != "" {
		category, err := parseID(update.Category)
		if err != nil {
			return models.Product{}, err
		}
		set = append(set, bson.E{Key: "category", Value: category})
	}
	if update.ImageURL != "" {
		set = append(set, bson.E{Key: "image", Value: update.ImageURL})
	}

	var product models.Product
	res := s.products.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, apierr.NotFound("Product not found")
		}
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.products.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return apierr.NotFound("Product not found")
	}
	return nil
}

func (s *ProductService) find(ctx context.Context, filter bson.D) ([]models.Product, error) {
	cursor, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}
