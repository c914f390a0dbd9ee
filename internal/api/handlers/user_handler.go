package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopnest/shopnest-be/internal/api/respond"
	"github.com/shopnest/shopnest-be/internal/apierr"
	"github.com/shopnest/shopnest-be/internal/auth"
	"github.com/shopnest/shopnest-be/internal/services"
	"github.com/shopnest/shopnest-be/internal/storage"
)

const maxUploadSize = 32 << 20

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	service  services.UserServiceProvider
	uploader storage.Uploader
	tokens   *auth.TokenManager
	secure   bool
}

// NewUserHandler creates a new UserHandler. secure controls the cookie
// Secure flag and should be true in production.
func NewUserHandler(service services.UserServiceProvider, uploader storage.Uploader, tokens *auth.TokenManager, secure bool) *UserHandler {
	return &UserHandler{service: service, uploader: uploader, tokens: tokens, secure: secure}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration: a multipart form with the profile
// fields and a required avatar file, which is uploaded to object storage.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid multipart form"))
		return
	}

	input := services.RegisterInput{
		FullName: r.FormValue("fullName"),
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if input.FullName == "" || input.Email == "" || input.Username == "" || input.Password == "" {
		respond.Error(w, apierr.BadRequest("All fields are required"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respond.Error(w, apierr.BadRequest("Avatar file is required"))
		return
	}
	defer file.Close()

	avatarURL, err := h.uploader.Upload(r.Context(), "user/avatars", header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upload avatar")
		respond.Error(w, apierr.Internal("Failed to upload avatar image"))
		return
	}
	input.AvatarURL = avatarURL

	user, err := h.service.Register(r.Context(), input)
	if err != nil {
		log.Warn().Err(err).Str("email", input.Email).Msg("Failed to register user")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, user, "User registered successfully")
}

// Login handles user authentication and sets the token cookies.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if payload.Email == "" || payload.Password == "" {
		respond.Error(w, apierr.BadRequest("Email and password are required"))
		return
	}

	user, pair, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		respond.Error(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	respond.JSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout clears the stored refresh token and expires both cookies.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, apierr.Unauthorized("Missing auth token"))
		return
	}

	if err := h.service.Logout(r.Context(), claims.UserID); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to log out user")
		respond.Error(w, err)
		return
	}

	h.clearAuthCookies(w)
	respond.JSON(w, http.StatusOK, map[string]any{}, "User logged out")
}

// RefreshToken rotates the token pair. The refresh token comes from the
// refreshToken cookie or the request body.
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var incoming string
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		var payload struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			incoming = payload.RefreshToken
		}
	}
	if incoming == "" {
		respond.Error(w, apierr.NotFound("Refresh Token is missing"))
		return
	}

	user, pair, err := h.service.Refresh(r.Context(), incoming)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to refresh token")
		respond.Error(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	respond.JSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token generated successfully")
}

// GetCurrent retrieves the currently authenticated user.
func (h *UserHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, apierr.Unauthorized("Missing auth token"))
		return
	}

	user, err := h.service.GetByID(r.Context(), claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User from token not found")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "Current user fetched successfully")
}

// UpdateCurrent updates the authenticated user's profile fields.
func (h *UserHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, apierr.Unauthorized("Missing auth token"))
		return
	}

	var payload struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if payload.FullName == "" && payload.Email == "" {
		respond.Error(w, apierr.BadRequest("All fields are required"))
		return
	}

	user, err := h.service.UpdateAccount(r.Context(), claims.UserID, payload.FullName, payload.Email)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to update account")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "Account details updated successfully")
}

// UpdateAvatar replaces the authenticated user's avatar image.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, apierr.Unauthorized("Missing auth token"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respond.Error(w, apierr.BadRequest("Avatar is required"))
		return
	}
	defer file.Close()

	current, err := h.service.GetByID(r.Context(), claims.UserID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	avatarURL, err := h.uploader.Replace(r.Context(), current.Avatar, "user/avatars", header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to upload avatar")
		respond.Error(w, apierr.Internal("Error while uploading avatar"))
		return
	}

	user, err := h.service.UpdateAvatar(r.Context(), claims.UserID, avatarURL)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "Avatar updated successfully")
}

// ChangePassword handles changing the authenticated user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, apierr.Unauthorized("Missing auth token"))
		return
	}

	var payload struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if payload.OldPassword == "" || payload.NewPassword == "" {
		respond.Error(w, apierr.BadRequest("Old and new password are required"))
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.UserID, payload.OldPassword, payload.NewPassword); err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Failed to change password")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{}, "Password changed successfully")
}

func (h *UserHandler) setAuthCookies(w http.ResponseWriter, pair auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Expires:  time.Now().Add(h.tokens.AccessTTL()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Expires:  time.Now().Add(h.tokens.RefreshTTL()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

func (h *UserHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
		})
	}
}
