package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// TweetHandler implements the tweet routes.
type TweetHandler struct {
	Tweets  TweetStore
	NowFunc func() time.Time
}

type tweetRequest struct {
	Content string `json:"content" validate:"required,max=280"`
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := checkStruct(req); err != nil {
		return err
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   user.ID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Tweets.Create(ctx, tweet); err != nil {
		return err
	}

	httpapi.Respond(ctx, w, http.StatusCreated, tweet, "tweet created successfully")
	return nil
}

// ListForUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	ownerID := chi.URLParam(r, "userId")
	if ownerID == "" {
		return httpapi.Validation("userId is required")
	}

	q := r.URL.Query()
	opts := repositories.ParseListOptions(q.Get("page"), q.Get("limit"), q.Get("sortBy"), q.Get("sortType"), repositories.CreatedAtSort)

	page, err := h.Tweets.ListForUser(ctx, ownerID, opts)
	if err != nil {
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, page, "tweets fetched successfully")
	return nil
}

// Update handles PATCH /api/v1/tweets/{tweetId}. Only the owner may update.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	tweet, err := h.findOwned(ctx, chi.URLParam(r, "tweetId"), user.ID)
	if err != nil {
		return err
	}

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := checkStruct(req); err != nil {
		return err
	}

	updated, err := h.Tweets.UpdateContent(ctx, tweet.ID, req.Content)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("tweet not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, updated, "tweet updated successfully")
	return nil
}

// Delete handles DELETE /api/v1/tweets/{tweetId}. Only the owner may delete.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	tweet, err := h.findOwned(ctx, chi.URLParam(r, "tweetId"), user.ID)
	if err != nil {
		return err
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("tweet not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, struct{}{}, "tweet deleted successfully")
	return nil
}

func (h TweetHandler) findOwned(ctx context.Context, id, requesterID string) (models.Tweet, error) {
	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Tweet{}, httpapi.NotFound("tweet not found")
		}
		return models.Tweet{}, err
	}
	if !models.OwnerEquals(tweet.OwnerID, requesterID) {
		return models.Tweet{}, httpapi.Forbidden("you do not own this tweet")
	}
	return tweet, nil
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
