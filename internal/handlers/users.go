package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

const maxMultipartMemory = 64 << 20

// UserHandler implements registration, the session lifecycle, profile
// edits, and the channel/watch-history reads.
type UserHandler struct {
	Users        UserStore
	Tokens       *auth.TokenManager
	Media        MediaUploader
	CookieSecure bool
	NowFunc      func() time.Time
}

type registerRequest struct {
	Username string `validate:"required,min=3,max=30"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required"`
	Password string `validate:"required"`
}

// Register handles POST /api/v1/users/register (multipart).
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return httpapi.Validation("invalid multipart body")
	}

	req := registerRequest{
		Username: strings.ToLower(strings.TrimSpace(r.FormValue("username"))),
		Email:    strings.TrimSpace(r.FormValue("email")),
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Password: r.FormValue("password"),
	}
	// A whitespace-only password counts as blank; inner whitespace is kept.
	if strings.TrimSpace(req.Password) == "" {
		req.Password = ""
	}
	if err := checkStruct(req); err != nil {
		return err
	}

	exists, err := h.Users.Exists(ctx, req.Username, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return httpapi.Conflict("user with this email or username already exists")
	}

	avatarFile := formFile(r, "avatar")
	if avatarFile == nil {
		return httpapi.Validation("avatar file is required")
	}

	avatarURL, err := h.Media.SaveImage(ctx, avatarFile, "avatars")
	if err != nil {
		return err
	}

	coverURL := ""
	if coverFile := formFile(r, "coverImage"); coverFile != nil {
		coverURL, err = h.Media.SaveImage(ctx, coverFile, "covers")
		if err != nil {
			return err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := h.now()
	user := models.User{
		ID:            uuid.NewString(),
		Username:      req.Username,
		Email:         req.Email,
		FullName:      req.FullName,
		Password:      string(hashed),
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		// The unique indexes close the pre-check race.
		if errors.Is(err, repositories.ErrConflict) {
			return httpapi.Conflict("user with this email or username already exists")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusCreated, user.Public(), "user registered successfully")
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User         models.PublicUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
}

// Login handles POST /api/v1/users/login.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Username))
	if identifier == "" {
		identifier = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if identifier == "" || req.Password == "" {
		return httpapi.Validation("username or email and password are required")
	}

	user, err := h.Users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("user not found")
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return httpapi.Unauthorized("invalid user credentials")
	}

	pair, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return err
	}
	if err := h.Users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return err
	}

	h.setAuthCookies(w, pair)
	httpapi.Respond(ctx, w, http.StatusOK, sessionResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "user logged in successfully")
	return nil
}

// Logout handles POST /api/v1/users/logout. Calling it with no active
// session is not an error.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	if err := h.Users.SetRefreshToken(ctx, user.ID, ""); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	h.clearAuthCookies(w)
	httpapi.Respond(ctx, w, http.StatusOK, struct{}{}, "user logged out")
	return nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /api/v1/users/refresh-token. The incoming token must
// verify and exactly match the stored token; rotation overwrites the stored
// value, so every earlier refresh token dies with each use.
func (h UserHandler) Refresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	incoming := ""
	if cookie, err := r.Cookie(auth.RefreshTokenCookie); err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		var req refreshRequest
		if err := decodeJSON(r, &req); err == nil {
			incoming = strings.TrimSpace(req.RefreshToken)
		}
	}
	if incoming == "" {
		return httpapi.Unauthorized("unauthorized access")
	}

	userID, err := h.Tokens.VerifyRefresh(incoming)
	if err != nil {
		return httpapi.Unauthorized("invalid refresh token")
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.Unauthorized("invalid refresh token")
		}
		return err
	}

	if user.RefreshToken == "" || user.RefreshToken != incoming {
		return httpapi.Unauthorized("refresh token is expired or already used")
	}

	pair, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return err
	}
	if err := h.Users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return err
	}

	h.setAuthCookies(w, pair)
	httpapi.Respond(ctx, w, http.StatusOK, pair, "access token refreshed")
	return nil
}

// Current handles GET /api/v1/users/current-user.
func (h UserHandler) Current(w http.ResponseWriter, r *http.Request) error {
	user, err := requireUser(r.Context())
	if err != nil {
		return err
	}
	httpapi.Respond(r.Context(), w, http.StatusOK, user.Public(), "current user fetched")
	return nil
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateAccount handles PATCH /api/v1/users/update-account.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" && req.Email == "" {
		return httpapi.Validation("at least one of fullName or email is required")
	}
	if err := checkStruct(req); err != nil {
		return err
	}

	updated, err := h.Users.UpdateAccount(ctx, user.ID, req.FullName, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return httpapi.NotFound("user not found")
		case errors.Is(err, repositories.ErrConflict):
			return httpapi.Conflict("email already in use")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, updated.Public(), "account updated successfully")
	return nil
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := checkStruct(req); err != nil {
		return err
	}

	// The context user is sanitized; fetch the record with the hash.
	stored, err := h.Users.FindByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(req.OldPassword)) != nil {
		return httpapi.Unauthorized("old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := h.Users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, struct{}{}, "password changed successfully")
	return nil
}

// UpdateAvatar handles PATCH /api/v1/users/avatar (multipart).
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) error {
	return h.updateImage(w, r, "avatar", "avatars", h.Users.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image (multipart).
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) error {
	return h.updateImage(w, r, "coverImage", "covers", h.Users.UpdateCoverImage)
}

// ChannelProfile handles GET /api/v1/users/c/{username}.
func (h UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) error {
	ctx, span := logging.StartSpan(r.Context(), "channel_profile")
	defer span.End()

	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	username := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "username")))
	if username == "" {
		return httpapi.Validation("username is required")
	}

	profile, err := h.Users.ChannelProfile(ctx, username, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("channel not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, profile, "channel profile fetched")
	return nil
}

// WatchHistory handles GET /api/v1/users/watch-history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) error {
	ctx, span := logging.StartSpan(r.Context(), "watch_history")
	defer span.End()

	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	videos, err := h.Users.WatchHistory(ctx, user.ID)
	if err != nil {
		return err
	}
	if videos == nil {
		videos = []models.Video{}
	}

	httpapi.Respond(ctx, w, http.StatusOK, videos, "watch history fetched")
	return nil
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field, prefix string, apply func(ctx context.Context, id, url string) (models.User, error)) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return httpapi.Validation("invalid multipart body")
	}

	file := formFile(r, field)
	if file == nil {
		return httpapi.Validation(field + " file is required")
	}

	url, err := h.Media.SaveImage(ctx, file, prefix)
	if err != nil {
		return err
	}

	updated, err := apply(ctx, user.ID, url)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("user not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, updated.Public(), field+" updated successfully")
	return nil
}

func (h UserHandler) setAuthCookies(w http.ResponseWriter, pair auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h UserHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   h.CookieSecure,
			MaxAge:   -1,
		})
	}
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
