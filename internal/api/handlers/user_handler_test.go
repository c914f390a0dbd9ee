package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopnest/shopnest-be/internal/apierr"
	"github.com/shopnest/shopnest-be/internal/auth"
	"github.com/shopnest/shopnest-be/internal/config"
	"github.com/shopnest/shopnest-be/internal/models"
	"github.com/shopnest/shopnest-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// stubUserService implements services.UserServiceProvider with
// overridable behavior per test.
type stubUserService struct {
	registerFn       func(ctx context.Context, input services.RegisterInput) (models.User, error)
	loginFn          func(ctx context.Context, email, password string) (models.User, auth.TokenPair, error)
	refreshFn        func(ctx context.Context, refreshToken string) (models.User, auth.TokenPair, error)
	logoutFn         func(ctx context.Context, userID string) error
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword string) error
	getByIDFn        func(ctx context.Context, userID string) (models.User, error)
	updateAccountFn  func(ctx context.Context, userID, fullName, email string) (models.User, error)
	updateAvatarFn   func(ctx context.Context, userID, avatarURL string) (models.User, error)
}

func (s *stubUserService) Register(ctx context.Context, input services.RegisterInput) (models.User, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, input)
	}
	return models.User{}, nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (models.User, auth.TokenPair, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, email, password)
	}
	return models.User{}, auth.TokenPair{}, nil
}

func (s *stubUserService) Refresh(ctx context.Context, refreshToken string) (models.User, auth.TokenPair, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, refreshToken)
	}
	return models.User{}, auth.TokenPair{}, nil
}

func (s *stubUserService) Logout(ctx context.Context, userID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, userID)
	}
	return nil
}

func (s *stubUserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if s.changePasswordFn != nil {
		return s.changePasswordFn(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

func (s *stubUserService) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, userID)
	}
	return models.User{}, nil
}

func (s *stubUserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (models.User, error) {
	if s.updateAccountFn != nil {
		return s.updateAccountFn(ctx, userID, fullName, email)
	}
	return models.User{}, nil
}

func (s *stubUserService) UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error) {
	if s.updateAvatarFn != nil {
		return s.updateAvatarFn(ctx, userID, avatarURL)
	}
	return models.User{}, nil
}

// stubUploader records uploads and returns a canned URL.
type stubUploader struct {
	uploads  []string
	replaces []string
}

func (u *stubUploader) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	u.uploads = append(u.uploads, folder+"/"+filename)
	return "https://cdn.test/" + folder + "/" + filename, nil
}

func (u *stubUploader) Replace(ctx context.Context, oldURL, folder, filename, contentType string, body io.Reader) (string, error) {
	u.replaces = append(u.replaces, oldURL)
	return "https://cdn.test/" + folder + "/" + filename, nil
}

func newTestUserHandler(service services.UserServiceProvider, uploader *stubUploader) *UserHandler {
	tokens := auth.NewTokenManager(config.TokenConfig{
		AccessSecret:  "access-test-secret",
		RefreshSecret: "refresh-test-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	return NewUserHandler(service, uploader, tokens, false)
}

func withClaims(r *http.Request, userID string) *http.Request {
	claims := &auth.Claims{UserID: userID, Username: "tester"}
	return r.WithContext(context.WithValue(r.Context(), auth.UserClaimsKey, claims))
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uploader := &stubUploader{}
		var gotInput services.RegisterInput
		service := &stubUserService{
			registerFn: func(ctx context.Context, input services.RegisterInput) (models.User, error) {
				gotInput = input
				return models.User{ID: bson.NewObjectID(), Username: input.Username}, nil
			},
		}
		h := newTestUserHandler(service, uploader)

		body, contentType := multipartBody(t, map[string]string{
			"fullName": gofakeit.Name(),
			"email":    gofakeit.Email(),
			"username": gofakeit.Username(),
			"password": "p1-strong-pass",
		}, "avatar", "avatar.png")

		req := httptest.NewRequest(http.MethodPost, "/users/register", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, true, envelope["success"])
		assert.Contains(t, gotInput.AvatarURL, "https://cdn.test/user/avatars/")
		assert.Len(t, uploader.uploads, 1)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newTestUserHandler(&stubUserService{}, &stubUploader{})

		body, contentType := multipartBody(t, map[string]string{
			"email": gofakeit.Email(),
		}, "avatar", "avatar.png")

		req := httptest.NewRequest(http.MethodPost, "/users/register", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Register(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing avatar", func(t *testing.T) {
		h := newTestUserHandler(&stubUserService{}, &stubUploader{})

		body, contentType := multipartBody(t, map[string]string{
			"fullName": gofakeit.Name(),
			"email":    gofakeit.Email(),
			"username": gofakeit.Username(),
			"password": "p1-strong-pass",
		}, "", "")

		req := httptest.NewRequest(http.MethodPost, "/users/register", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Register(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate user", func(t *testing.T) {
		service := &stubUserService{
			registerFn: func(ctx context.Context, input services.RegisterInput) (models.User, error) {
				return models.User{}, apierr.Conflict("User with email or username already exists")
			},
		}
		h := newTestUserHandler(service, &stubUploader{})

		body, contentType := multipartBody(t, map[string]string{
			"fullName": gofakeit.Name(),
			"email":    "a@x.com",
			"username": "a",
			"password": "p1",
		}, "avatar", "avatar.png")

		req := httptest.NewRequest(http.MethodPost, "/users/register", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Register(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success sets cookies", func(t *testing.T) {
		pair := auth.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"}
		service := &stubUserService{
			loginFn: func(ctx context.Context, email, password string) (models.User, auth.TokenPair, error) {
				return models.User{ID: bson.NewObjectID(), Email: email}, pair, nil
			},
		}
		h := newTestUserHandler(service, &stubUploader{})

		req := httptest.NewRequest(http.MethodPost, "/users/login",
			strings.NewReader(`{"email":"a@x.com","password":"p1"}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		access := cookieByName(cookies, "accessToken")
		refresh := cookieByName(cookies, "refreshToken")
		require.NotNil(t, access)
		require.NotNil(t, refresh)
		assert.Equal(t, "access-jwt", access.Value)
		assert.Equal(t, "refresh-jwt", refresh.Value)
		assert.True(t, access.HttpOnly)
		assert.True(t, refresh.HttpOnly)

		envelope := decodeEnvelope(t, rec)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "access-jwt", data["accessToken"])
		assert.Equal(t, "refresh-jwt", data["refreshToken"])
	})

	t.Run("wrong password", func(t *testing.T) {
		service := &stubUserService{
			loginFn: func(ctx context.Context, email, password string) (models.User, auth.TokenPair, error) {
				return models.User{}, auth.TokenPair{}, apierr.Unauthorized("Invalid email or password")
			},
		}
		h := newTestUserHandler(service, &stubUploader{})

		req := httptest.NewRequest(http.MethodPost, "/users/login",
			strings.NewReader(`{"email":"a@x.com","password":"wrong"}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, false, envelope["success"])
		assert.Equal(t, "Invalid email or password", envelope["message"])
	})

	t.Run("unknown account", func(t *testing.T) {
		service := &stubUserService{
			loginFn: func(ctx context.Context, email, password string) (models.User, auth.TokenPair, error) {
				return models.User{}, auth.TokenPair{}, apierr.NotFound("User does not exist")
			},
		}
		h := newTestUserHandler(service, &stubUploader{})

		req := httptest.NewRequest(http.MethodPost, "/users/login",
			strings.NewReader(`{"email":"nobody@x.com","password":"p1"}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		h := newTestUserHandler(&stubUserService{}, &stubUploader{})

		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		h := newTestUserHandler(&stubUserService{}, &stubUploader{})

		req := httptest.NewRequest(http.MethodPost, "/users/refresh-token", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.RefreshToken(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("token from cookie", func(t *testing.T) {
		var gotToken string
		service := &stubUserService{
			refreshFn: func(ctx context.Context, refreshToken string) (models.User, auth.TokenPair, error) {
				gotToken = refreshToken
				return models.User{ID: bson.NewObjectID()},
					auth.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
			},
		}
		h := newTestUserHandler(service, &stubUploader{})

		req := httptest.NewRequest(http.MethodPost, "/users/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})
		rec := httptest.NewRecorder()

		h.RefreshToken(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "old-refresh", gotToken)

		refresh := cookieByName(rec.Result().Cookies(), "refreshToken")
		require.NotNil(t, refresh)
		assert.Equal(t, "new-refresh", refresh.Value)
	})

	t.Run("token from body", func(t *testing.T) {
		var gotToken string
		service := &stubUserService{
			refreshFn: func(ctx context.Context, refreshToken string) (models.User, auth.TokenPair, error) {
				gotToken = refreshToken
				return models.User{}, auth.TokenPair{}, nil
			},
		}
		h := newTestUserHandler(service, &stubUploader{})

		req := httptest.NewRequest(http.MethodPost, "/users/refresh-token",
			strings.NewReader(`{"refreshToken":"body-refresh"}`))
		rec := httptest.NewRecorder()

		h.RefreshToken(rec, req)
		assert.Equal(t, "body-refresh", gotToken)
	})

	t.Run("replayed token", func(t *testing.T) {
		service := &stubUserService{
			refreshFn: func(ctx context.Context, refreshToken string) (models.User, auth.TokenPair, error) {
				return models.User{}, auth.TokenPair{}, apierr.Unauthorized("Refresh token is expired or used")
			},
		}
		h := newTestUserHandler(service, &stubUploader{})

		req := httptest.NewRequest(http.MethodPost, "/users/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "superseded"})
		rec := httptest.NewRecorder()

		h.RefreshToken(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	userID := bson.NewObjectID().Hex()
	var loggedOut string
	service := &stubUserService{
		logoutFn: func(ctx context.Context, id string) error {
			loggedOut = id
			return nil
		},
	}
	h := newTestUserHandler(service, &stubUploader{})

	req := withClaims(httptest.NewRequest(http.MethodGet, "/users/logout", nil), userID)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, loggedOut)

	for _, name := range []string{"accessToken", "refreshToken"} {
		cookie := cookieByName(rec.Result().Cookies(), name)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.MaxAge < 0)
	}
}

func TestChangePassword(t *testing.T) {
	userID := bson.NewObjectID().Hex()

	t.Run("success", func(t *testing.T) {
		service := &stubUserService{}
		h := newTestUserHandler(service, &stubUploader{})

		req := withClaims(httptest.NewRequest(http.MethodPut, "/users/change-password",
			strings.NewReader(`{"oldPassword":"p1","newPassword":"p2"}`)), userID)
		rec := httptest.NewRecorder()

		h.ChangePassword(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong old password", func(t *testing.T) {
		service := &stubUserService{
			changePasswordFn: func(ctx context.Context, userID, oldPassword, newPassword string) error {
				return apierr.Unauthorized("Old password does not match")
			},
		}
		h := newTestUserHandler(service, &stubUploader{})

		req := withClaims(httptest.NewRequest(http.MethodPut, "/users/change-password",
			strings.NewReader(`{"oldPassword":"wrong","newPassword":"p2"}`)), userID)
		rec := httptest.NewRecorder()

		h.ChangePassword(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newTestUserHandler(&stubUserService{}, &stubUploader{})

		req := withClaims(httptest.NewRequest(http.MethodPut, "/users/change-password",
			strings.NewReader(`{}`)), userID)
		rec := httptest.NewRecorder()

		h.ChangePassword(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateAvatar(t *testing.T) {
	userID := bson.NewObjectID().Hex()
	uploader := &stubUploader{}
	service := &stubUserService{
		getByIDFn: func(ctx context.Context, id string) (models.User, error) {
			return models.User{Avatar: "https://cdn.test/user/avatars/old.png"}, nil
		},
		updateAvatarFn: func(ctx context.Context, id, avatarURL string) (models.User, error) {
			return models.User{Avatar: avatarURL}, nil
		},
	}
	h := newTestUserHandler(service, uploader)

	body, contentType := multipartBody(t, nil, "avatar", "new.png")
	req := withClaims(httptest.NewRequest(http.MethodPut, "/users/avatar", body), userID)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UpdateAvatar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, uploader.replaces, 1)
	assert.Equal(t, "https://cdn.test/user/avatars/old.png", uploader.replaces[0])
}

func TestGetCurrent(t *testing.T) {
	userID := bson.NewObjectID().Hex()
	service := &stubUserService{
		getByIDFn: func(ctx context.Context, id string) (models.User, error) {
			return models.User{Username: "tester", Email: "a@x.com"}, nil
		},
	}
	h := newTestUserHandler(service, &stubUploader{})

	req := withClaims(httptest.NewRequest(http.MethodGet, "/users/current", nil), userID)
	rec := httptest.NewRecorder()

	h.GetCurrent(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "tester", data["username"])
}
