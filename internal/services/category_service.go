package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopnest/shopnest-be/internal/apierr"
	"github.com/shopnest/shopnest-be/internal/database"
	"github.com/shopnest/shopnest-be/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CategoryServiceProvider defines the interface for category services.
type CategoryServiceProvider interface {
	Create(ctx context.Context, name string) (models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (models.Category, error)
	Update(ctx context.Context, id, name string) (models.Category, error)
}

// CategoryService provides business logic for category management.
type CategoryService struct {
	categories *mongo.Collection
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *mongo.Database) *CategoryService {
	return &CategoryService{categories: db.Collection("categories")}
}

// Create inserts a new category. Names are unique.
func (s *CategoryService) Create(ctx context.Context, name string) (models.Category, error) {
	now := time.Now()
	category := models.Category{
		ID:        bson.NewObjectID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.categories.InsertOne(ctx, category); err != nil {
		if database.IsDuplicateKey(err) {
			return models.Category{}, apierr.Conflict("Category with this name already exists")
		}
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return category, nil
}

// GetAll retrieves every category.
func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.categories.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a single category.
func (s *CategoryService) GetByID(ctx context.Context, id string) (models.Category, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Category{}, err
	}

	var category models.Category
	if err := s.categories.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Category{}, apierr.NotFound("Category not found")
		}
		return models.Category{}, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

// Update renames a category.
func (s *CategoryService) Update(ctx context.Context, id, name string) (models.Category, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Category{}, err
	}

	var category models.Category
	res := s.categories.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: name},
			{Key: "updated_at", Value: time.Now()},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Category{}, apierr.NotFound("Category not found")
		}
		if database.IsDuplicateKey(err) {
			return models.Category{}, apierr.Conflict("Category with this name already exists")
		}
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}
