package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopnest/shopnest-be/internal/apierr"
	"github.com/shopnest/shopnest-be/internal/auth"
	"github.com/shopnest/shopnest-be/internal/database"
	"github.com/shopnest/shopnest-be/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	FullName  string
	Email     string
	Username  string
	Password  string
	AvatarURL string
}

// UserServiceProvider defines the interface for user and session services.
type UserServiceProvider interface {
	Register(ctx context.Context, input RegisterInput) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.User, auth.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetByID(ctx context.Context, userID string) (models.User, error)
	UpdateAccount(ctx context.Context, userID, fullName, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error)
}

// UserService provides account management and the login/refresh/logout
// session lifecycle. Exactly one refresh token is valid per user: the one
// stored on the user document. Issuing a new one invalidates the old.
type UserService struct {
	users  *mongo.Collection
	tokens *auth.TokenManager
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database, tokens *auth.TokenManager) *UserService {
	return &UserService{users: db.Collection("users"), tokens: tokens}
}

// Register creates a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	digest, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := models.User{
		ID:        bson.NewObjectID(),
		FullName:  input.FullName,
		Email:     input.Email,
		Username:  strings.ToLower(input.Username),
		Password:  digest,
		Avatar:    input.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if database.IsDuplicateKey(err) {
			return models.User{}, apierr.Conflict("User with email or username already exists")
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	user.Password = ""
	return user, nil
}

// Login verifies credentials and issues a fresh token pair. The stored
// refresh token is overwritten, so any previously issued refresh token
// stops working: single active session per user.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, auth.TokenPair, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, auth.TokenPair{}, apierr.NotFound("User does not exist")
		}
		return models.User{}, auth.TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.Password) {
		return models.User{}, auth.TokenPair{}, apierr.Unauthorized("Invalid email or password")
	}

	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return models.User{}, auth.TokenPair{}, err
	}

	user.Password = ""
	user.RefreshToken = ""
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new token pair. The rotation is a
// conditional update on the stored token, so replaying a superseded token
// or losing a concurrent-refresh race both fail with 401.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.User, auth.TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return models.User{}, auth.TokenPair{}, apierr.Unauthorized("Invalid Refresh Token")
	}

	user, err := s.findByID(ctx, claims.UserID)
	if err != nil {
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) {
			return models.User{}, auth.TokenPair{}, apierr.Unauthorized("Invalid Refresh Token")
		}
		return models.User{}, auth.TokenPair{}, err
	}

	if user.RefreshToken != refreshToken {
		return models.User{}, auth.TokenPair{}, apierr.Unauthorized("Refresh token is expired or used")
	}

	pair, err := s.generatePair(user)
	if err != nil {
		return models.User{}, auth.TokenPair{}, err
	}

	// Rotate only if the stored token still matches the one presented.
	res := s.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: user.ID}, {Key: "refresh_token", Value: refreshToken}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "refresh_token", Value: pair.RefreshToken},
			{Key: "updated_at", Value: time.Now()},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, auth.TokenPair{}, apierr.Unauthorized("Refresh token is expired or used")
		}
		return models.User{}, auth.TokenPair{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	user.Password = ""
	user.RefreshToken = ""
	return user, pair, nil
}

// Logout clears the stored refresh token so it can no longer be exchanged.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}

	_, err = s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{
			{Key: "$unset", Value: bson.D{{Key: "refresh_token", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
		},
	)
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// ChangePassword verifies the old password, then re-hashes and stores the
// new one. Already-issued tokens stay valid until they expire.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.findByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(oldPassword, user.Password) {
		return apierr.Unauthorized("Old password does not match")
	}

	digest, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: user.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "password", Value: digest},
			{Key: "updated_at", Value: time.Now()},
		}}},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// GetByID retrieves a sanitized user by ID.
func (s *UserService) GetByID(ctx context.Context, userID string) (models.User, error) {
	user, err := s.findByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	user.RefreshToken = ""
	return user, nil
}

// UpdateAccount updates the user's profile fields. Empty fields are left
// untouched.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return models.User{}, err
	}

	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if fullName != "" {
		set = append(set, bson.E{Key: "full_name", Value: fullName})
	}
	if email != "" {
		set = append(set, bson.E{Key: "email", Value: email})
	}

	var user models.User
	res := s.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apierr.NotFound("User not found")
		}
		if database.IsDuplicateKey(err) {
			return models.User{}, apierr.Conflict("Email is already in use")
		}
		return models.User{}, fmt.Errorf("update account: %w", err)
	}

	user.Password = ""
	user.RefreshToken = ""
	return user, nil
}

// UpdateAvatar stores a new avatar URL on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	res := s.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "avatar", Value: avatarURL},
			{Key: "updated_at", Value: time.Now()},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apierr.NotFound("User not found")
		}
		return models.User{}, fmt.Errorf("update avatar: %w", err)
	}

	user.Password = ""
	user.RefreshToken = ""
	return user, nil
}

// issueTokens generates a token pair and persists the refresh token on the
// user document, overwriting any prior value.
func (s *UserService) issueTokens(ctx context.Context, user *models.User) (auth.TokenPair, error) {
	pair, err := s.generatePair(*user)
	if err != nil {
		return auth.TokenPair{}, err
	}

	_, err = s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: user.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "refresh_token", Value: pair.RefreshToken},
			{Key: "updated_at", Value: time.Now()},
		}}},
	)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

func (s *UserService) generatePair(user models.User) (auth.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}
	return auth.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *UserService) findByID(ctx context.Context, userID string) (models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apierr.NotFound("User not found")
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// parseID converts a hex document ID from a path or token claim.
func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, apierr.BadRequest("Invalid id")
	}
	return oid, nil
}
