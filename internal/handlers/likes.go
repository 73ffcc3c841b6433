package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// LikeHandler implements like toggling across videos, comments, and tweets.
type LikeHandler struct {
	Likes   LikeStore
	NowFunc func() time.Time
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) error {
	return h.toggle(w, r, models.LikeVideo, chi.URLParam(r, "videoId"))
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) error {
	return h.toggle(w, r, models.LikeComment, chi.URLParam(r, "commentId"))
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) error {
	return h.toggle(w, r, models.LikeTweet, chi.URLParam(r, "tweetId"))
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	videos, err := h.Likes.LikedVideos(ctx, user.ID)
	if err != nil {
		return err
	}
	if videos == nil {
		videos = []models.Video{}
	}

	httpapi.Respond(ctx, w, http.StatusOK, videos, "liked videos fetched")
	return nil
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind models.LikeKind, id string) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	target, err := models.NewLikeTarget(kind, id)
	if err != nil {
		return httpapi.Validation(err.Error())
	}

	liked, err := h.Likes.Toggle(ctx, models.Like{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Target:    target,
		CreatedAt: h.now(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound(string(kind) + " not found")
		}
		return err
	}

	message := "like removed"
	if liked {
		message = "liked successfully"
	}
	httpapi.Respond(ctx, w, http.StatusOK, map[string]bool{"liked": liked}, message)
	return nil
}

func (h LikeHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
